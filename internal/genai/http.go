// internal/genai/http.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"customer-query-service/internal/common/logger"
	"customer-query-service/internal/intent"
)

const (
	parseIntentPath = "/api/ai/parse-intent"
	generatePath    = "/api/ai/generate"
)

// HTTPClient talks to the GenAI gateway.
type HTTPClient struct {
	config Config
	client *http.Client
	logger logger.Logger
}

func NewHTTPClient(cfg Config, log logger.Logger) *HTTPClient {
	applyDefaults(&cfg)
	return &HTTPClient{
		config: cfg,
		client: &http.Client{},
		logger: log.With(map[string]interface{}{
			"component": "genai-http",
		}),
	}
}

func (c *HTTPClient) ClassifyIntent(ctx context.Context, query string) (*intent.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body := map[string]interface{}{
		"query":       query,
		"intentTypes": intent.Types,
	}
	raw, err := c.post(ctx, parseIntentPath, body, ErrClassificationFailed)
	if err != nil {
		return nil, err
	}

	cls, err := decodeClassification(string(raw))
	if err != nil {
		return nil, err
	}
	c.logger.Info("intent parsed by gateway", map[string]interface{}{
		"type":    cls.Type,
		"subType": cls.SubType,
	})
	return cls, nil
}

func (c *HTTPClient) GenerateFallback(ctx context.Context, resolverContext, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body := map[string]interface{}{
		"prompt": fallbackPrompt(resolverContext, query),
		"system": fallbackSystemPrompt,
		"context": map[string]interface{}{
			"records": resolverContext,
		},
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
	}
	if c.config.Model != "" {
		body["model"] = c.config.Model
	}

	raw, err := c.post(ctx, generatePath, body, ErrGenerationFailed)
	if err != nil {
		return "", err
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrGenerationFailed, err)
	}
	return strings.TrimSpace(apiResponse.Text), nil
}

// post sends body to path, retrying with exponential backoff on transport
// errors, 429 and 5xx. Other statuses fail at once.
func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, sentinel error) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", sentinel, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, err := c.client.Do(req)
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		if err != nil {
			lastErr = err
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, fmt.Errorf("%w: read body: %v", sentinel, readErr)
			}
			return raw, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
		default:
			return nil, fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
		}

		c.logger.Warn("gateway call failed, retrying", map[string]interface{}{
			"path":    path,
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		})
	}
	return nil, fmt.Errorf("%w: %v", sentinel, lastErr)
}
