package reasoning

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"resumatch/internal/config"
	apperrors "resumatch/internal/errors"
)

func testReasoningConfig(baseURL string) *config.ReasoningConfig {
	return &config.ReasoningConfig{
		Provider:          "openai",
		Model:             "test-model",
		BaseURL:           baseURL,
		APIKey:            "test-key",
		MaxTokens:         2000,
		Temperature:       0.1,
		TopP:              0.9,
		Timeout:           5 * time.Second,
		MaxAttempts:       3,
		Backoff:           []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond},
		RetryAfterDefault: 60 * time.Second,
		CircuitBreaker:    config.CircuitBreakerConfig{Enabled: false},
	}
}

func testLogger(t *testing.T) *apperrors.Logger {
	t.Helper()
	logger, err := apperrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func successBody() string {
	return `{
		"choices": [{"message": {"content": "{\"compatibility_score\": 75}"}}],
		"usage": {"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150}
	}`
}

func TestCompleteSendsWireContract(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successBody()))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(testReasoningConfig(server.URL), testLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	content, usage, err := provider.Complete(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if content != `{"compatibility_score": 75}` {
		t.Errorf("content = %q", content)
	}
	if usage == nil || usage.TotalTokens != 150 {
		t.Errorf("usage = %+v, want total 150", usage)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(2000) {
		t.Errorf("max_tokens = %v", gotBody["max_tokens"])
	}

	messages, ok := gotBody["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v, want system and user", gotBody["messages"])
	}
	first := messages[0].(map[string]any)
	second := messages[1].(map[string]any)
	if first["role"] != "system" || second["role"] != "user" {
		t.Errorf("message roles = %v, %v", first["role"], second["role"])
	}
	if second["content"] != "analyze this" {
		t.Errorf("user content = %v", second["content"])
	}
}

func TestCompleteRetriesServiceUnavailable(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(successBody()))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(testReasoningConfig(server.URL), testLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	start := time.Now()
	content, _, err := provider.Complete(context.Background(), "prompt")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if content == "" {
		t.Error("Complete() returned empty content")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("transport invocations = %d, want exactly 3", got)
	}
	// 503 doubles each scheduled step: 20ms then 40ms
	if elapsed < 60*time.Millisecond {
		t.Errorf("elapsed = %v, want at least the two doubled backoff steps", elapsed)
	}
}

func TestCompleteExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(testReasoningConfig(server.URL), testLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	_, _, err = provider.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Complete() expected error")
	}

	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeServiceDown {
		t.Errorf("code = %q, want %q", appErr.Code, apperrors.ErrCodeServiceDown)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("transport invocations = %d, want 3", got)
	}
}

func TestCompleteRateLimited(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(testReasoningConfig(server.URL), testLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	_, _, err = provider.Complete(context.Background(), "prompt")

	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeRateLimited {
		t.Errorf("code = %q, want %q", appErr.Code, apperrors.ErrCodeRateLimited)
	}
	if appErr.Context["retry_after_seconds"] != 7 {
		t.Errorf("retry_after_seconds = %v, want 7", appErr.Context["retry_after_seconds"])
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("transport invocations = %d, rate limiting must not retry", got)
	}
}

func TestCompleteRateLimitedWithoutHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(testReasoningConfig(server.URL), testLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	_, _, err = provider.Complete(context.Background(), "prompt")

	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Context["retry_after_seconds"] != 60 {
		t.Errorf("retry_after_seconds = %v, want the configured default of 60", appErr.Context["retry_after_seconds"])
	}
}

func TestCompleteUnauthorized(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(testReasoningConfig(server.URL), testLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	_, _, err = provider.Complete(context.Background(), "prompt")

	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeUnauthorized {
		t.Errorf("code = %q, want %q", appErr.Code, apperrors.ErrCodeUnauthorized)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("transport invocations = %d, auth failures must not retry", got)
	}
}

func TestCompleteEmptyReply(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices": []}`},
		{"blank content", `{"choices": [{"message": {"content": "   "}}]}`},
		{"unparseable body", `this is not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider, err := NewOpenAIProvider(testReasoningConfig(server.URL), testLogger(t))
			if err != nil {
				t.Fatalf("NewOpenAIProvider() error = %v", err)
			}

			_, _, err = provider.Complete(context.Background(), "prompt")

			var appErr *apperrors.AppError
			if !stderrors.As(err, &appErr) {
				t.Fatalf("error type = %T, want *AppError", err)
			}
			if appErr.Code != apperrors.ErrCodeMalformedResponse {
				t.Errorf("code = %q, want %q", appErr.Code, apperrors.ErrCodeMalformedResponse)
			}
		})
	}
}

func TestNewOpenAIProviderRequiresAPIKey(t *testing.T) {
	cfg := testReasoningConfig("http://localhost:1")
	cfg.APIKey = ""

	_, err := NewOpenAIProvider(cfg, testLogger(t))

	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeMissingAPIKey {
		t.Errorf("code = %q, want %q", appErr.Code, apperrors.ErrCodeMissingAPIKey)
	}
}
