package reasoning

import (
	"context"
	"fmt"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// Service is the reasoning entry point the rest of the application uses
type Service struct {
	Provider Provider // Exported for access from server package
	config   *config.ReasoningConfig
	logger   *errors.Logger
}

// NewService creates a reasoning service for the configured provider
func NewService(cfg *config.ReasoningConfig, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing reasoning service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout,
		"max_attempts", cfg.MaxAttempts)

	var provider Provider
	var err error

	switch cfg.Provider {
	case "openai":
		provider, err = NewOpenAIProvider(cfg, logger)
	case "gemini":
		provider, err = NewGeminiProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported reasoning provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, err
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// Complete sends a prompt to the configured provider
func (s *Service) Complete(ctx context.Context, prompt string) (string, *types.TokenUsage, error) {
	return s.Provider.Complete(ctx, prompt)
}

// GetModelInfo returns information about the reasoning model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// GetCircuitBreakerStats returns circuit breaker statistics for health checks
func (s *Service) GetCircuitBreakerStats() map[string]any {
	return s.Provider.GetCircuitBreakerStats()
}

// Close releases provider resources
func (s *Service) Close() error {
	return s.Provider.Close()
}
