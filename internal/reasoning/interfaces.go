package reasoning

import (
	"context"

	"resumatch/internal/types"
)

// Provider is the contract every reasoning backend implements. Complete
// sends a prompt and returns the raw reply text; interpreting that text
// is the caller's concern.
type Provider interface {
	// Complete sends the prompt and returns the reply content together
	// with token usage when the service reports it.
	Complete(ctx context.Context, prompt string) (string, *types.TokenUsage, error)

	// GetModelInfo checks the readiness and availability of the
	// configured model.
	GetModelInfo(ctx context.Context) *ModelInfo

	// GetCircuitBreakerStats returns circuit breaker statistics for
	// health reporting.
	GetCircuitBreakerStats() map[string]any

	// Close releases any resources held by the provider.
	Close() error
}

// ModelInfo represents information about the reasoning model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
