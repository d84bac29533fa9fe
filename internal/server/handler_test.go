package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumatch/internal/config"
	apperrors "resumatch/internal/errors"
	"resumatch/internal/match"
	"resumatch/internal/observability"
	"resumatch/internal/types"
)

const testJobText = `Senior Backend Engineer

Requirements:
- 5+ years of experience building backend services
- Strong knowledge of Go and PostgreSQL
- Experience with Docker and Kubernetes

Responsibilities:
- Design and build APIs
- Mentor junior engineers
`

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, *types.TokenUsage, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.reply, &types.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}, nil
}

func testServer(t *testing.T, reply string) (*Server, *observability.ObservabilityManager) {
	t.Helper()

	logger, err := apperrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("failed to create observability manager: %v", err)
	}

	srv := &Server{
		Host:           "localhost",
		Port:           "8080",
		Version:        "test",
		AppConfig:      &config.Config{},
		APIKeys:        map[string]bool{},
		MaxRequestSize: 1 << 20,
		Analyzer:       match.NewAnalyzer(&stubCompleter{reply: reply}, logger),
		Logger:         logger,
	}
	return srv, om
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestMatchHandlerSuccess(t *testing.T) {
	reply := `{"compatibility_score": 82, "matching_skills": ["Go", "Docker"], "missing_skills": ["Kubernetes"], "analysis_summary": "Solid backend profile."}`
	srv, om := testServer(t, reply)
	handler := srv.createMatchHandler(om)

	body, _ := json.Marshal(MatchRequest{
		ResumeText: "Experienced Go engineer with Docker and PostgreSQL background.",
		JobText:    testJobText,
	})

	rec := postJSON(t, handler, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Score != 82 {
		t.Errorf("expected score 82, got %d", result.Score)
	}
	if result.MatchCategory != types.CategoryStrong {
		t.Errorf("expected category %q, got %q", types.CategoryStrong, result.MatchCategory)
	}
	if len(result.Suggestions) == 0 {
		t.Error("expected suggestions in the response")
	}
}

func TestMatchHandlerValidation(t *testing.T) {
	srv, om := testServer(t, "{}")
	handler := srv.createMatchHandler(om)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing resume", `{"jobText": "some job"}`},
		{"missing job", `{"resumeText": "some resume"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}

			var errResp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if errResp.Error == "" {
				t.Error("expected error field in response")
			}
		})
	}
}

func TestMatchHandlerRejectsNonJSON(t *testing.T) {
	srv, om := testServer(t, "{}")
	handler := srv.createMatchHandler(om)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("resume"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for missing content type, got %d", rec.Code)
	}
}

func TestParseJobHandler(t *testing.T) {
	srv, om := testServer(t, "{}")
	handler := srv.createParseJobHandler(om)

	body, _ := json.Marshal(ParseJobRequest{JobText: testJobText})
	rec := postJSON(t, handler, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var job types.JobPosting
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if job.Title == "" {
		t.Error("expected a parsed job title")
	}
	if len(job.Requirements) == 0 {
		t.Error("expected parsed requirements")
	}
}

func TestParseJobHandlerMissingText(t *testing.T) {
	srv, om := testServer(t, "{}")
	handler := srv.createParseJobHandler(om)

	rec := postJSON(t, handler, `{"jobText": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := testServer(t, "{}")
	srv.APIKeys = map[string]bool{"secret-key-12345": true}

	var reached bool
	handler := srv.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing key", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
		if reached {
			t.Error("handler should not run without an API key")
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-API-Key", "wrong")
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid header key", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-API-Key", "secret-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)
		if !reached {
			t.Error("handler should run with a valid API key")
		}
	})

	t.Run("valid bearer token", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer secret-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)
		if !reached {
			t.Error("handler should run with a valid bearer token")
		}
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	srv, _ := testServer(t, "{}")

	handler := srv.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("generates id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected a generated X-Request-ID header")
		}
	})

	t.Run("preserves client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Request-ID", "client-supplied-id")
		rec := httptest.NewRecorder()
		handler(rec, req)
		if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
			t.Errorf("expected client-supplied id to be preserved, got %q", got)
		}
	})
}
