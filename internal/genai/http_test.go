package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-query-service/internal/common/logger"
)

func createTestConfig(baseURL string) Config {
	return Config{
		Provider:    ProviderHTTP,
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		MaxRetries:  2,
		MaxTokens:   256,
		Temperature: 0.2,
	}
}

func TestHTTPClient_ClassifyIntent(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantType    string
		wantSubType string
		wantErr     error
	}{
		{
			name:        "plain json",
			response:    `{"type":"account","subType":"balance"}`,
			wantType:    "account",
			wantSubType: "balance",
		},
		{
			name:     "fenced json",
			response: "```json\n{\"type\":\"transaction\",\"accountType\":\"food\"}\n```",
			wantType: "transaction",
		},
		{
			name:     "missing type",
			response: `{"subType":"balance"}`,
			wantErr:  ErrClassificationFailed,
		},
		{
			name:     "not json",
			response: `I think this is about loans`,
			wantErr:  ErrClassificationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reqBody map[string]interface{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, parseIntentPath, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := NewHTTPClient(createTestConfig(server.URL), logger.NewTestLogger(t))
			cls, err := client.ClassifyIntent(context.Background(), "what is my balance")

			assert.Equal(t, "what is my balance", reqBody["query"])
			assert.NotEmpty(t, reqBody["intentTypes"])
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, cls.Type)
			assert.Equal(t, tt.wantSubType, cls.SubType)
		})
	}
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"type":"loan"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(createTestConfig(server.URL), logger.NewTestLogger(t))
	cls, err := client.ClassifyIntent(context.Background(), "my loans")

	require.NoError(t, err)
	assert.Equal(t, "loan", cls.Type)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPClient(createTestConfig(server.URL), logger.NewTestLogger(t))
	_, err := client.ClassifyIntent(context.Background(), "my loans")

	assert.ErrorIs(t, err, ErrClassificationFailed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPClient_RetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(createTestConfig(server.URL), logger.NewTestLogger(t))
	_, err := client.GenerateFallback(context.Background(), "", "hello")

	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := createTestConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewHTTPClient(cfg, logger.NewTestLogger(t))

	_, err := client.ClassifyIntent(context.Background(), "balance")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestHTTPClient_GenerateFallback(t *testing.T) {
	var reqBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, generatePath, r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		_, _ = w.Write([]byte(`{"text":"  You have no active loans.  "}`))
	}))
	defer server.Close()

	cfg := createTestConfig(server.URL)
	cfg.APIKey = "secret"
	client := NewHTTPClient(cfg, logger.NewTestLogger(t))

	text, err := client.GenerateFallback(context.Background(), "No loan information available.", "show my loans")
	require.NoError(t, err)
	assert.Equal(t, "You have no active loans.", text)

	assert.Contains(t, reqBody["prompt"], "No loan information available.")
	assert.Contains(t, reqBody["prompt"], "Customer question: show my loans")
	assert.Equal(t, float64(256), reqBody["max_tokens"])
	assert.Equal(t, 0.2, reqBody["temperature"])
}

func TestNew_SelectsProvider(t *testing.T) {
	log := logger.NewNoOpLogger()

	c, err := New(context.Background(), Config{}, log)
	require.NoError(t, err)
	assert.IsType(t, &HTTPClient{}, c)

	c, err = New(context.Background(), Config{Provider: ProviderAnthropic, APIKey: "k"}, log)
	require.NoError(t, err)
	assert.IsType(t, &modelClient{}, c)

	_, err = New(context.Background(), Config{Provider: "openai"}, log)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
