package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"alfredoptarigan/resume-screener/internal/config"
)

// contentGenerator is the part of genai.Models the backend needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiBackend struct {
	models      contentGenerator
	modelName   string
	temperature float32
}

func NewGeminiBackend(ctx context.Context, apiKey, model string) (ModelBackend, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	return &geminiBackend{
		models:      client.Models,
		modelName:   model,
		temperature: 0.2,
	}, nil
}

// Chat implements ModelBackend.
func (g *geminiBackend) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	temperature := g.temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if opts.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	var (
		system   []string
		contents []*genai.Content
	)
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		genCfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	if len(contents) == 0 {
		return "", errors.New("at least one user message is required")
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, contents, genCfg)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate text")
	}
	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		reason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			reason = fmt.Sprint(resp.Candidates[0].FinishReason)
		}
		return "", errors.Errorf("no text content in response (finish reason: %s)", reason)
	}

	return text, nil
}

// Provider implements ModelBackend.
func (g *geminiBackend) Provider() string {
	return config.ProviderGemini
}

// Model implements ModelBackend.
func (g *geminiBackend) Model() string {
	return g.modelName
}
