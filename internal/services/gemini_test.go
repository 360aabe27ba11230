package services

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
	}
}

func TestNewGeminiBackendRequiresKey(t *testing.T) {
	_, err := NewGeminiBackend(context.Background(), "  ", "gemini-2.5-flash")
	assert.Error(t, err)
}

func TestGeminiBackendChat(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(johnDoeResponse)}
	backend := &geminiBackend{models: gen, modelName: "gemini-2.5-flash", temperature: 0.2}

	messages := NewPromptBuilder().BuildScreeningMessages("resume", "jd")
	got, err := backend.Chat(context.Background(), messages, ChatOptions{JSON: true})
	require.NoError(t, err)
	assert.Equal(t, johnDoeResponse, got)

	assert.Equal(t, "gemini-2.5-flash", gen.model)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.SystemInstruction)
	assert.Equal(t, screeningSystemPrompt, gen.config.SystemInstruction.Parts[0].Text)

	require.Len(t, gen.contents, 1)
	assert.Equal(t, genai.RoleUser, gen.contents[0].Role)
	assert.Contains(t, gen.contents[0].Parts[0].Text, "CANDIDATE RESUME:")
}

func TestGeminiBackendChatRoles(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok")}
	backend := &geminiBackend{models: gen, modelName: "gemini-2.5-flash"}

	_, err := backend.Chat(context.Background(), []Message{
		{Role: RoleUser, Content: "question"},
		{Role: RoleAssistant, Content: "answer"},
		{Role: RoleUser, Content: "follow-up"},
	}, ChatOptions{})
	require.NoError(t, err)

	assert.Nil(t, gen.config.SystemInstruction)
	assert.Empty(t, gen.config.ResponseMIMEType)
	require.Len(t, gen.contents, 3)
	assert.Equal(t, genai.RoleModel, gen.contents[1].Role)
}

func TestGeminiBackendChatErrors(t *testing.T) {
	tests := []struct {
		name     string
		gen      *fakeGenerator
		messages []Message
		contains string
	}{
		{
			name:     "api failure",
			gen:      &fakeGenerator{err: errors.New("quota exceeded")},
			messages: []Message{{Role: RoleUser, Content: "hi"}},
			contains: "quota exceeded",
		},
		{
			name:     "nil response",
			gen:      &fakeGenerator{},
			messages: []Message{{Role: RoleUser, Content: "hi"}},
			contains: "nil response",
		},
		{
			name: "blocked output",
			gen: &fakeGenerator{resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
			messages: []Message{{Role: RoleUser, Content: "hi"}},
			contains: "SAFETY",
		},
		{
			name:     "system prompt only",
			gen:      &fakeGenerator{resp: textResponse("ok")},
			messages: []Message{{Role: RoleSystem, Content: "rules"}},
			contains: "user message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &geminiBackend{models: tt.gen, modelName: "gemini-2.5-flash"}
			_, err := backend.Chat(context.Background(), tt.messages, ChatOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
