package reasoning

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

// FailureKind classifies a failed transport invocation. The set is closed:
// the retry policy switches over it exhaustively instead of inspecting
// error strings.
type FailureKind int

const (
	// KindTimeout covers request deadlines and context expiry.
	KindTimeout FailureKind = iota
	// KindConnection covers dial, DNS and TLS handshake failures.
	KindConnection
	// KindHTTP covers non-2xx responses; Status carries the code.
	KindHTTP
	// KindEmptyReply covers 2xx responses with no usable content.
	KindEmptyReply
)

func (k FailureKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindHTTP:
		return "http"
	case KindEmptyReply:
		return "empty_reply"
	default:
		return "unknown"
	}
}

// TransportError is the single error type produced by a failed call to the
// reasoning service. Status is only meaningful for KindHTTP; RetryAfter is
// only set for HTTP 429 responses that carried a Retry-After header.
type TransportError struct {
	Kind       FailureKind
	Status     int
	RetryAfter time.Duration
	Err        error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("reasoning service returned HTTP %d", e.Status)
	case KindEmptyReply:
		return "reasoning service returned an empty reply"
	default:
		return fmt.Sprintf("reasoning service %s error: %v", e.Kind, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTimeoutError(err error) *TransportError {
	return &TransportError{Kind: KindTimeout, Err: err}
}

func newConnectionError(err error) *TransportError {
	return &TransportError{Kind: KindConnection, Err: err}
}

func newHTTPError(status int, retryAfter time.Duration) *TransportError {
	return &TransportError{Kind: KindHTTP, Status: status, RetryAfter: retryAfter}
}

func newEmptyReplyError() *TransportError {
	return &TransportError{Kind: KindEmptyReply}
}

// classifyRequestError maps an error from http.Client.Do into a
// TransportError. SSL and DNS failures come back as connection errors;
// the retry policy treats certificate and resolution problems as
// terminal via isPermanentConnectionError.
func classifyRequestError(err error) *TransportError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newTimeoutError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newTimeoutError(err)
	}

	return newConnectionError(err)
}

// classifyGoogleAPIError maps a googleapi.Error into the same closed
// taxonomy so both providers share one retry policy.
func classifyGoogleAPIError(apiErr *googleapi.Error) *TransportError {
	retryAfter := time.Duration(0)
	if apiErr.Code == http.StatusTooManyRequests {
		for _, h := range apiErr.Header.Values("Retry-After") {
			if d := parseRetryAfter(h); d > 0 {
				retryAfter = d
				break
			}
		}
	}
	return newHTTPError(apiErr.Code, retryAfter)
}

// isPermanentConnectionError reports whether a connection failure cannot
// be cured by retrying, such as certificate validation or DNS resolution
// failures.
func isPermanentConnectionError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsTemporary && !dnsErr.IsTimeout
	}

	// crypto/tls verification errors do not share a common interface,
	// so match on the error chain text as a last resort.
	msg := err.Error()
	return strings.Contains(msg, "x509:") || strings.Contains(msg, "tls:")
}

// parseRetryAfter parses a Retry-After header value in delta-seconds form.
// HTTP-date form is rare on the services this client talks to and is
// ignored.
func parseRetryAfter(value string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
