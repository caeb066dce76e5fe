// internal/genai/gemini.go
package genai

import (
	"context"
	"fmt"
	"strings"

	gemini "google.golang.org/genai"

	"customer-query-service/internal/common/logger"
)

const defaultGeminiModel = "gemini-2.0-flash"

type geminiCompleter struct {
	client      *gemini.Client
	model       string
	maxTokens   int32
	temperature float32
}

// NewGeminiClient builds a Client backed by the Gemini API. An empty APIKey
// falls back to the SDK's environment lookup.
func NewGeminiClient(ctx context.Context, cfg Config, log logger.Logger) (Client, error) {
	applyDefaults(&cfg)
	cc := &gemini.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: gemini.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = gemini.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := gemini.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &modelClient{
		completer: &geminiCompleter{
			client:      client,
			model:       model,
			maxTokens:   int32(cfg.MaxTokens),
			temperature: float32(cfg.Temperature),
		},
		timeout: cfg.Timeout,
		logger:  log.With(map[string]interface{}{"component": "genai-gemini", "model": model}),
	}, nil
}

func (g *geminiCompleter) complete(ctx context.Context, system, user string, wantJSON bool) (string, error) {
	genCfg := &gemini.GenerateContentConfig{
		SystemInstruction: gemini.NewContentFromText(system, gemini.RoleUser),
		Temperature:       gemini.Ptr(g.temperature),
		MaxOutputTokens:   g.maxTokens,
	}
	if wantJSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, gemini.Text(user), genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
