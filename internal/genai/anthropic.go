// internal/genai/anthropic.go
package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"customer-query-service/internal/common/logger"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

type anthropicCompleter struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewAnthropicClient builds a Client backed by the Claude Messages API.
// Retries are left to the SDK, bounded by cfg.MaxRetries.
func NewAnthropicClient(cfg Config, log logger.Logger) Client {
	applyDefaults(&cfg)
	opts := []option.RequestOption{option.WithMaxRetries(cfg.MaxRetries)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	return &modelClient{
		completer: &anthropicCompleter{
			client:      anthropic.NewClient(opts...),
			model:       model,
			maxTokens:   int64(cfg.MaxTokens),
			temperature: cfg.Temperature,
		},
		timeout: cfg.Timeout,
		logger:  log.With(map[string]interface{}{"component": "genai-anthropic", "model": model}),
	}
}

func (a *anthropicCompleter) complete(ctx context.Context, system, user string, wantJSON bool) (string, error) {
	if wantJSON {
		user += "\n\nRespond with the JSON object only."
	}
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   a.maxTokens,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(user))},
		Temperature: anthropic.Float(a.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
