package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resumatch/internal/config"
	apperrors "resumatch/internal/errors"
	"resumatch/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint,
// OpenRouter included.
type OpenAIProvider struct {
	httpClient *http.Client
	config     *config.ReasoningConfig
	breaker    *ReplyBreaker
	logger     *apperrors.Logger
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a provider for an OpenAI-compatible service
func NewOpenAIProvider(cfg *config.ReasoningConfig, logger *apperrors.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeMissingAPIKey,
			"Reasoning API key is not configured", nil)
	}

	return &OpenAIProvider{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		config:  cfg,
		breaker: NewReplyBreaker("openai", cfg.CircuitBreaker, logger),
		logger:  logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// systemInstruction frames every completion request.
const systemInstruction = "You are an expert HR analyst. Respond only with the requested JSON object."

// Complete implements Provider
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, *types.TokenUsage, error) {
	tracer := otel.Tracer("resumatch.reasoning.openai")
	ctx, span := tracer.Start(ctx, "openai.complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("reasoning.provider", "openai"),
		attribute.String("reasoning.model", p.config.Model),
		attribute.Int("reasoning.prompt_length", len(prompt)),
	)

	var usage types.TokenUsage
	content, err := p.breaker.Execute(func() (string, error) {
		resp, err := p.completeWithRetry(ctx, prompt)
		if err != nil {
			return "", err
		}
		usage = types.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("reasoning.tokens.total", usage.TotalTokens),
	)
	return content, &usage, nil
}

// completeWithRetry runs the chat completion with retry on transient
// failures. The retry decision itself lives in Decide; this loop only
// executes it.
func (p *OpenAIProvider) completeWithRetry(ctx context.Context, prompt string) (*chatResponse, error) {
	maxAttempts := p.config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastTerr *TransportError
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, terr := p.doRequest(ctx, prompt)
		if terr == nil {
			if attempt > 0 {
				p.logger.Info("Completion succeeded after retry",
					"attempt", attempt+1,
					"model", p.config.Model)
			}
			return resp, nil
		}
		lastTerr = terr

		decision := Decide(terr, attempt, maxAttempts, p.config.Backoff)
		if !decision.Retry {
			return nil, p.terminalError(terr)
		}

		p.logger.Warn("Retrying completion",
			"attempt", attempt+1,
			"max_attempts", maxAttempts,
			"delay", decision.Delay.String(),
			"failure", terr.Kind.String(),
			"status", terr.Status)

		select {
		case <-time.After(decision.Delay):
		case <-ctx.Done():
			return nil, apperrors.NewNetworkError(apperrors.ErrCodeNetworkTimeout,
				"Completion cancelled while waiting to retry", ctx.Err())
		}
	}

	p.logger.LogError(lastTerr, "Completion failed after all attempts",
		"attempts", maxAttempts,
		"model", p.config.Model)

	return nil, apperrors.NewAIError(apperrors.ErrCodeServiceDown,
		fmt.Sprintf("Reasoning service unavailable after %d attempts", maxAttempts), lastTerr).
		WithContext("attempts", maxAttempts)
}

// doRequest performs a single chat completions call. Every failure comes
// back as a *TransportError so the retry policy can classify it.
func (p *OpenAIProvider) doRequest(ctx context.Context, prompt string) (*chatResponse, *TransportError) {
	body, err := json.Marshal(chatRequest{
		Model: p.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
	})
	if err != nil {
		return nil, newConnectionError(err)
	}

	url := strings.TrimSuffix(p.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newConnectionError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, classifyRequestError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)

		retryAfter := time.Duration(0)
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return nil, newHTTPError(resp.StatusCode, retryAfter)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, newEmptyReplyError()
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return nil, newEmptyReplyError()
	}

	return &parsed, nil
}

// terminalError maps a non-retryable transport failure to the error the
// rest of the application works with.
func (p *OpenAIProvider) terminalError(terr *TransportError) error {
	switch terr.Kind {
	case KindHTTP:
		switch terr.Status {
		case http.StatusTooManyRequests:
			retryAfter := terr.RetryAfter
			if retryAfter <= 0 {
				retryAfter = p.config.RetryAfterDefault
			}
			return apperrors.NewAIError(apperrors.ErrCodeRateLimited,
				fmt.Sprintf("Rate limit reached, retry in %s", retryAfter), terr).
				WithContext("retry_after_seconds", int(retryAfter.Seconds()))
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewAIError(apperrors.ErrCodeUnauthorized,
				"Reasoning service rejected the API key", terr).
				WithContext("status", terr.Status)
		default:
			return apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
				fmt.Sprintf("Reasoning service returned HTTP %d", terr.Status), terr).
				WithContext("status", terr.Status)
		}
	case KindTimeout:
		return apperrors.NewNetworkError(apperrors.ErrCodeNetworkTimeout,
			"Reasoning service request timed out", terr)
	case KindConnection:
		return apperrors.NewNetworkError(apperrors.ErrCodeServiceDown,
			"Could not reach the reasoning service", terr)
	case KindEmptyReply:
		return apperrors.NewAIError(apperrors.ErrCodeMalformedResponse,
			"Reasoning service returned an empty reply", terr)
	default:
		return apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Reasoning service call failed", terr)
	}
}

// GetModelInfo implements Provider. OpenAI-compatible endpoints vary in
// their models API, so availability is inferred from configuration alone.
func (p *OpenAIProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	return &ModelInfo{
		Name:      p.config.Model,
		Available: p.config.APIKey != "",
	}
}

// GetCircuitBreakerStats implements Provider
func (p *OpenAIProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"completions": p.breaker.Stats(),
	}
	stats["overall_healthy"] = p.breaker.IsHealthy()
	return stats
}

// Close implements Provider
func (p *OpenAIProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
