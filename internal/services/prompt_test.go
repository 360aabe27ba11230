package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScreeningMessages(t *testing.T) {
	messages := NewPromptBuilder().BuildScreeningMessages(johnDoeResume, reactJob)
	require.Len(t, messages, 2)

	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "ONLY valid JSON")

	user := messages[1].Content
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Contains(t, user, "JOB DESCRIPTION:\n"+reactJob)
	assert.Contains(t, user, "CANDIDATE RESUME:\n"+johnDoeResume)
	assert.Less(t, strings.Index(user, reactJob), strings.Index(user, johnDoeResume))

	for _, field := range requiredFields {
		assert.Contains(t, user, `"`+field+`"`)
	}
	assert.Contains(t, user, `"React" matches "React.js"`)
	assert.Contains(t, user, `"Kubernetes" matches "K8s"`)
}
