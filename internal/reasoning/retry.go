package reasoning

import (
	"net/http"
	"time"
)

// DefaultBackoff is the delay schedule applied between transport attempts.
// Attempts beyond the schedule reuse the last step.
var DefaultBackoff = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

// Decision is the outcome of the retry policy for one failed attempt.
type Decision struct {
	Retry bool
	Delay time.Duration
}

// Decide is the retry policy: a pure function from a classified transport
// failure and the zero-based attempt number to a decision. maxAttempts
// counts total transport invocations.
//
// Policy:
//   - timeouts and transient connection failures retry on the backoff
//     schedule
//   - certificate and DNS resolution failures are terminal
//   - HTTP 5xx retries; 503 doubles the scheduled delay since the
//     service advertised unavailability
//   - HTTP 429 is terminal here, the caller is told when to come back
//   - all other HTTP statuses, 401 and 403 included, are terminal
//   - empty replies are terminal, salvage happens upstream
func Decide(terr *TransportError, attempt, maxAttempts int, backoff []time.Duration) Decision {
	if terr == nil || attempt >= maxAttempts-1 {
		return Decision{}
	}
	if len(backoff) == 0 {
		backoff = DefaultBackoff
	}

	base := backoff[min(attempt, len(backoff)-1)]

	switch terr.Kind {
	case KindTimeout:
		return Decision{Retry: true, Delay: base}
	case KindConnection:
		if terr.Err != nil && isPermanentConnectionError(terr.Err) {
			return Decision{}
		}
		return Decision{Retry: true, Delay: base}
	case KindHTTP:
		switch {
		case terr.Status == http.StatusServiceUnavailable:
			return Decision{Retry: true, Delay: base * 2}
		case terr.Status == http.StatusTooManyRequests:
			return Decision{}
		case terr.Status >= 500:
			return Decision{Retry: true, Delay: base}
		default:
			return Decision{}
		}
	default:
		return Decision{}
	}
}
