package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resumatch/internal/config"
	apperrors "resumatch/internal/errors"
	"resumatch/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client       *genai.Client
	config       *config.ReasoningConfig
	breaker      *ReplyBreaker
	modelBreaker *ModelBreaker
	logger       *apperrors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.ReasoningConfig, logger *apperrors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeMissingAPIKey,
			"Reasoning API key is not configured", nil)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:       client,
		config:       cfg,
		breaker:      NewReplyBreaker("gemini", cfg.CircuitBreaker, logger),
		modelBreaker: NewModelBreaker("gemini", cfg.CircuitBreaker, logger),
		logger:       logger,
	}, nil
}

// Complete implements Provider
func (g *GeminiProvider) Complete(ctx context.Context, prompt string) (string, *types.TokenUsage, error) {
	tracer := otel.Tracer("resumatch.reasoning.gemini")
	ctx, span := tracer.Start(ctx, "gemini.complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("reasoning.provider", "gemini"),
		attribute.String("reasoning.model", g.config.Model),
		attribute.Int("reasoning.prompt_length", len(prompt)),
	)

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	if g.config.Temperature > 0 {
		genConfig.Temperature = &g.config.Temperature
	}
	if g.config.TopP > 0 {
		genConfig.TopP = &g.config.TopP
	}
	if g.config.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(g.config.MaxTokens)
	}

	var usage *types.TokenUsage
	content, err := g.breaker.Execute(func() (string, error) {
		return g.generateWithRetry(ctx, prompt, genConfig, &usage)
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, err
	}

	span.SetAttributes(attribute.Bool("success", true))
	if usage != nil {
		span.SetAttributes(attribute.Int("reasoning.tokens.total", usage.TotalTokens))
	}
	return content, usage, nil
}

// generateWithRetry drives GenerateContent through the shared retry
// policy by classifying genai errors into the transport taxonomy.
func (g *GeminiProvider) generateWithRetry(ctx context.Context, prompt string, genConfig *genai.GenerateContentConfig, usage **types.TokenUsage) (string, error) {
	maxAttempts := g.config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastTerr *TransportError
	for attempt := 0; attempt < maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
		result, err := g.client.Models.GenerateContent(callCtx, g.config.Model, genai.Text(prompt), genConfig)
		cancel()

		if err == nil {
			content := strings.TrimSpace(result.Text())
			if content == "" {
				lastTerr = newEmptyReplyError()
				return "", g.terminalError(lastTerr)
			}
			if attempt > 0 {
				g.logger.Info("Completion succeeded after retry",
					"attempt", attempt+1,
					"model", g.config.Model)
			}
			*usage = extractTokenUsage(result)
			return content, nil
		}

		terr := classifyGeminiError(err)
		lastTerr = terr

		decision := Decide(terr, attempt, maxAttempts, g.config.Backoff)
		if !decision.Retry {
			return "", g.terminalError(terr)
		}

		g.logger.Warn("Retrying completion",
			"attempt", attempt+1,
			"max_attempts", maxAttempts,
			"delay", decision.Delay.String(),
			"failure", terr.Kind.String(),
			"status", terr.Status)

		select {
		case <-time.After(decision.Delay):
		case <-ctx.Done():
			return "", apperrors.NewNetworkError(apperrors.ErrCodeNetworkTimeout,
				"Completion cancelled while waiting to retry", ctx.Err())
		}
	}

	g.logger.LogError(lastTerr, "Completion failed after all attempts",
		"attempts", maxAttempts,
		"model", g.config.Model)

	return "", apperrors.NewAIError(apperrors.ErrCodeServiceDown,
		fmt.Sprintf("Reasoning service unavailable after %d attempts", maxAttempts), lastTerr).
		WithContext("attempts", maxAttempts)
}

// classifyGeminiError maps genai SDK errors to the transport taxonomy
func classifyGeminiError(err error) *TransportError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return classifyGoogleAPIError(apiErr)
	}
	return classifyRequestError(err)
}

func (g *GeminiProvider) terminalError(terr *TransportError) error {
	switch terr.Kind {
	case KindHTTP:
		switch terr.Status {
		case 429:
			retryAfter := terr.RetryAfter
			if retryAfter <= 0 {
				retryAfter = g.config.RetryAfterDefault
			}
			return apperrors.NewAIError(apperrors.ErrCodeRateLimited,
				fmt.Sprintf("Rate limit reached, retry in %s", retryAfter), terr).
				WithContext("retry_after_seconds", int(retryAfter.Seconds()))
		case 401, 403:
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

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// GetCircuitBreakerStats implements Provider
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"completions": g.breaker.Stats(),
		"model":       g.modelBreaker.ModelStats(),
	}
	stats["overall_healthy"] = g.breaker.IsHealthy() && g.modelBreaker.IsModelHealthy()
	return stats
}

// Close implements Provider
func (g *GeminiProvider) Close() error {
	// The genai client holds no long-lived connections in single-shot usage
	return nil
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *types.TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &types.TokenUsage{
		PromptTokens:     int(usage.PromptTokenCount),
		CompletionTokens: int(usage.CandidatesTokenCount),
		TotalTokens:      int(usage.TotalTokenCount),
	}
}
