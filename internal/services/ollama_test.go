package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOllamaBackendRejectsBadHost(t *testing.T) {
	for _, host := range []string{"", "localhost:11434", "://bad"} {
		_, err := NewOllamaBackend(host, "llama3.2:3b", nil)
		assert.Error(t, err, "host %q", host)
	}
}

func TestOllamaBackendChat(t *testing.T) {
	var got api.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ChatResponse{
			Model:   got.Model,
			Message: api.Message{Role: "assistant", Content: johnDoeResponse},
			Done:    true,
		})
	}))
	defer server.Close()

	backend, err := NewOllamaBackend(server.URL, "llama3.2:3b", server.Client())
	require.NoError(t, err)
	assert.Equal(t, "ollama", backend.Provider())
	assert.Equal(t, "llama3.2:3b", backend.Model())

	messages := NewPromptBuilder().BuildScreeningMessages("resume", "jd")
	content, err := backend.Chat(context.Background(), messages, ChatOptions{JSON: true, NumCtx: 4096})
	require.NoError(t, err)
	assert.Equal(t, johnDoeResponse, content)

	assert.Equal(t, "llama3.2:3b", got.Model)
	require.NotNil(t, got.Stream)
	assert.False(t, *got.Stream)
	assert.JSONEq(t, `"json"`, string(got.Format))
	assert.EqualValues(t, 4096, got.Options["num_ctx"])
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOllamaBackendChatPlainText(t *testing.T) {
	var got api.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(api.ChatResponse{
			Message: api.Message{Role: "assistant", Content: "pong"},
			Done:    true,
		})
	}))
	defer server.Close()

	backend, err := NewOllamaBackend(server.URL, "llama3.2:3b", nil)
	require.NoError(t, err)

	require.NoError(t, Warmup(context.Background(), backend))
	assert.Empty(t, got.Format)
	assert.Empty(t, got.Options)
}

func TestOllamaBackendChatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'llama3.2:3b' not found"}`))
	}))
	defer server.Close()

	backend, err := NewOllamaBackend(server.URL, "llama3.2:3b", nil)
	require.NoError(t, err)

	_, err = backend.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
