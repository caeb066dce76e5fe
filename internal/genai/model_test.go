package genai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-query-service/internal/common/logger"
)

type fakeCompleter struct {
	reply  string
	err    error
	system string
	user   string
	json   bool
}

func (f *fakeCompleter) complete(ctx context.Context, system, user string, wantJSON bool) (string, error) {
	f.system, f.user, f.json = system, user, wantJSON
	return f.reply, f.err
}

func newModelClient(t *testing.T, c completer) *modelClient {
	return &modelClient{completer: c, timeout: time.Second, logger: logger.NewTestLogger(t)}
}

func TestModelClient_ClassifyIntent(t *testing.T) {
	fc := &fakeCompleter{reply: "Sure!\n```json\n{\"type\":\"kyc\",\"subType\":\"status\"}\n```"}
	cls, err := newModelClient(t, fc).ClassifyIntent(context.Background(), "is my kyc done")

	require.NoError(t, err)
	assert.Equal(t, "kyc", cls.Type)
	assert.Equal(t, "status", cls.SubType)
	assert.True(t, fc.json)
	assert.Equal(t, "is my kyc done", fc.user)
	assert.Contains(t, fc.system, "aadhaar_number")
}

func TestModelClient_ClassifyIntentKeepsEntity(t *testing.T) {
	fc := &fakeCompleter{reply: `{"type":"loan","subType":"emi_details","entity":"home loan"}`}
	cls, err := newModelClient(t, fc).ClassifyIntent(context.Background(), "when is my home loan emi due")

	require.NoError(t, err)
	assert.Equal(t, "loan", cls.Type)
	assert.Equal(t, "home loan", cls.Entity)
	for _, field := range []string{`"type"`, `"subType"`, `"accountType"`, `"timeframe"`, `"entity"`} {
		assert.Contains(t, fc.system, field)
	}
}

func TestModelClient_ErrorsAreWrapped(t *testing.T) {
	m := newModelClient(t, &fakeCompleter{err: errors.New("overloaded")})

	_, err := m.ClassifyIntent(context.Background(), "q")
	assert.ErrorIs(t, err, ErrClassificationFailed)

	_, err = m.GenerateFallback(context.Background(), "", "q")
	assert.ErrorIs(t, err, ErrGenerationFailed)

	_, err = m.GenerateFallback(context.Background(), "", "q")
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestModelClient_DeadlineIsTimeout(t *testing.T) {
	m := newModelClient(t, &fakeCompleter{err: context.DeadlineExceeded})
	_, err := m.GenerateFallback(context.Background(), "", "q")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestModelClient_GenerateFallbackPrompt(t *testing.T) {
	fc := &fakeCompleter{reply: "You have no loans."}
	text, err := newModelClient(t, fc).GenerateFallback(context.Background(), "No loan information available.", "show my loans")

	require.NoError(t, err)
	assert.Equal(t, "You have no loans.", text)
	assert.False(t, fc.json)
	assert.Equal(t, fallbackSystemPrompt, fc.system)
	assert.Equal(t, "What the records show:\nNo loan information available.\n\nCustomer question: show my loans", fc.user)
}

func TestCleanModelJSON(t *testing.T) {
	tests := map[string]string{
		`{"type":"loan"}`:                      `{"type":"loan"}`,
		"```json\n{\"type\":\"loan\"}\n```":    `{"type":"loan"}`,
		"```\n{\"type\":\"loan\"}```":          `{"type":"loan"}`,
		`Here you go: {"type":"loan"} thanks.`: `{"type":"loan"}`,
		"no json here":                         "no json here",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanModelJSON(in), in)
	}
}

func TestFallbackPrompt_NoContext(t *testing.T) {
	assert.Equal(t, "Customer question: hi", fallbackPrompt("  ", "hi"))
}

func TestAnthropicClient_GenerateFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "You have no active loans."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	}))
	defer server.Close()

	client := NewAnthropicClient(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, logger.NewTestLogger(t))

	text, err := client.GenerateFallback(context.Background(), "No loan information available.", "show my loans")
	require.NoError(t, err)
	assert.Equal(t, "You have no active loans.", text)
}

func TestGeminiClient_ClassifyIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "{\"type\":\"credit\"}"}]},
				"finishReason": "STOP"
			}]
		}`))
	}))
	defer server.Close()

	client, err := NewGeminiClient(context.Background(), Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, logger.NewTestLogger(t))
	require.NoError(t, err)

	cls, err := client.ClassifyIntent(context.Background(), "what is my cibil score")
	require.NoError(t, err)
	assert.Equal(t, "credit", cls.Type)
}
