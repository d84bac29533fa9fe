package reasoning

import (
	"resumatch/internal/config"
	"resumatch/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// ReplyBreaker wraps completion calls with circuit breaker protection.
// A nil ReplyBreaker means the breaker is disabled and calls pass through.
type ReplyBreaker struct {
	cb *gobreaker.CircuitBreaker[string]
}

// ModelBreaker wraps model info lookups with circuit breaker protection
type ModelBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

func breakerSettings(name string, cfg config.CircuitBreakerConfig, logger *errors.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}
}

// NewReplyBreaker creates a circuit breaker for completion calls, or nil
// when the breaker is disabled in configuration.
func NewReplyBreaker(provider string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *ReplyBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &ReplyBreaker{
		cb: gobreaker.NewCircuitBreaker[string](breakerSettings("reasoning-"+provider, cfg, logger)),
	}
}

// NewModelBreaker creates a circuit breaker for model info lookups, or nil
// when the breaker is disabled in configuration.
func NewModelBreaker(provider string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *ModelBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := breakerSettings("reasoning-model-"+provider, cfg, logger)
	// Model info is less critical, trip later than the reply breaker
	settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 5 && failureRatio >= 0.8
	}

	return &ModelBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.Model](settings),
	}
}

// Execute runs fn with circuit breaker protection
func (b *ReplyBreaker) Execute(fn func() (string, error)) (string, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// ExecuteModel runs fn with circuit breaker protection
func (b *ModelBreaker) ExecuteModel(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats returns circuit breaker statistics
func (b *ReplyBreaker) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (b *ReplyBreaker) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}

// ModelStats returns model circuit breaker statistics
func (b *ModelBreaker) ModelStats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsModelHealthy returns true if the model circuit breaker is in closed state
func (b *ModelBreaker) IsModelHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
