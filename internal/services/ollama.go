package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"

	"alfredoptarigan/resume-screener/internal/config"
)

type ollamaBackend struct {
	client    *api.Client
	modelName string
}

// NewOllamaBackend talks to an Ollama server at host, e.g. http://localhost:11434.
func NewOllamaBackend(host, model string, httpClient *http.Client) (ModelBackend, error) {
	base, err := url.Parse(strings.TrimSpace(host))
	if err != nil {
		return nil, errors.Wrap(err, "invalid ollama host")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("invalid ollama host %q: scheme and host are required", host)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ollamaBackend{
		client:    api.NewClient(base, httpClient),
		modelName: model,
	}, nil
}

// Chat implements ModelBackend.
func (o *ollamaBackend) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    o.modelName,
		Messages: make([]api.Message, 0, len(messages)),
		Stream:   &stream,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, api.Message{Role: string(m.Role), Content: m.Content})
	}
	if opts.JSON {
		req.Format = json.RawMessage(`"json"`)
	}
	if opts.NumCtx > 0 {
		req.Options = map[string]any{"num_ctx": opts.NumCtx}
	}

	var content strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "ollama chat failed")
	}

	return content.String(), nil
}

// Provider implements ModelBackend.
func (o *ollamaBackend) Provider() string {
	return config.ProviderOllama
}

// Model implements ModelBackend.
func (o *ollamaBackend) Model() string {
	return o.modelName
}
