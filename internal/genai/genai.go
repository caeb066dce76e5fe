// Package genai holds the external language-model collaborators: the intent
// classifier and the generative fallback. Three backends share one contract:
// the in-house GenAI gateway over HTTP, Gemini and Claude.
package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customer-query-service/internal/common/logger"
	"customer-query-service/internal/intent"
)

var (
	ErrClassificationFailed = errors.New("CLASSIFICATION_FAILED")
	ErrGenerationFailed     = errors.New("GENERATION_FAILED")
	ErrTimeout              = errors.New("GENAI_TIMEOUT")
	ErrUnknownProvider      = errors.New("UNKNOWN_GENAI_PROVIDER")
)

const (
	ProviderHTTP      = "http"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

// Client classifies queries and writes fallback answers.
type Client interface {
	ClassifyIntent(ctx context.Context, query string) (*intent.Classification, error)
	GenerateFallback(ctx context.Context, context, query string) (string, error)
}

// New builds the client for cfg.Provider.
func New(ctx context.Context, cfg Config, log logger.Logger) (Client, error) {
	applyDefaults(&cfg)
	switch cfg.Provider {
	case ProviderHTTP:
		return NewHTTPClient(cfg, log), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, log)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderHTTP
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 512
	}
}

// completer sends one system+user prompt to a hosted model.
type completer interface {
	complete(ctx context.Context, system, user string, wantJSON bool) (string, error)
}

// modelClient adapts a completer to Client. Gemini and Claude share it.
type modelClient struct {
	completer completer
	timeout   time.Duration
	logger    logger.Logger
}

func (m *modelClient) ClassifyIntent(ctx context.Context, query string) (*intent.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	raw, err := m.completer.complete(ctx, classifierSystemPrompt, query, true)
	if err != nil {
		return nil, wrapCallError(ctx, ErrClassificationFailed, err)
	}
	cls, err := decodeClassification(raw)
	if err != nil {
		m.logger.Warn("classifier returned an unusable payload", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return cls, nil
}

func (m *modelClient) GenerateFallback(ctx context.Context, resolverContext, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	text, err := m.completer.complete(ctx, fallbackSystemPrompt, fallbackPrompt(resolverContext, query), false)
	if err != nil {
		return "", wrapCallError(ctx, ErrGenerationFailed, err)
	}
	return text, nil
}

func wrapCallError(ctx context.Context, sentinel, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
