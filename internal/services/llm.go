package services

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"alfredoptarigan/resume-screener/internal/config"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

type ChatOptions struct {
	// JSON asks the backend for constrained JSON output when it supports it.
	JSON bool
	// NumCtx is a context-window hint; zero leaves the backend default.
	NumCtx int
}

// ModelBackend is a chat-style completion service.
type ModelBackend interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
	Provider() string
	Model() string
}

// Warmup sends a trivial prompt so the backend loads the model before the
// first real request.
func Warmup(ctx context.Context, backend ModelBackend) error {
	_, err := backend.Chat(ctx, []Message{{Role: RoleUser, Content: "ping"}}, ChatOptions{})
	return err
}

// NewModelBackend builds the backend selected by cfg.Provider.
func NewModelBackend(ctx context.Context, cfg config.ModelConfig) (ModelBackend, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return NewOllamaBackend(cfg.OllamaHost, cfg.Name, &http.Client{Timeout: cfg.Timeout})
	case config.ProviderGemini:
		return NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.Name)
	default:
		return nil, errors.Errorf("unknown model provider %q", cfg.Provider)
	}
}
