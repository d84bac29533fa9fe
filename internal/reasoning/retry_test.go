package reasoning

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		terr        *TransportError
		attempt     int
		maxAttempts int
		wantRetry   bool
		wantDelay   time.Duration
	}{
		{
			name:        "timeout first attempt",
			terr:        newTimeoutError(context.DeadlineExceeded),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   true,
			wantDelay:   time.Second,
		},
		{
			name:        "timeout second attempt",
			terr:        newTimeoutError(context.DeadlineExceeded),
			attempt:     1,
			maxAttempts: 3,
			wantRetry:   true,
			wantDelay:   2 * time.Second,
		},
		{
			name:        "last attempt never retries",
			terr:        newTimeoutError(context.DeadlineExceeded),
			attempt:     2,
			maxAttempts: 3,
			wantRetry:   false,
		},
		{
			name:        "connection refused retries",
			terr:        newConnectionError(errors.New("dial tcp: connection refused")),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   true,
			wantDelay:   time.Second,
		},
		{
			name:        "dns resolution failure is terminal",
			terr:        newConnectionError(&net.DNSError{Name: "api.example.com", IsNotFound: true}),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   false,
		},
		{
			name:        "certificate failure is terminal",
			terr:        newConnectionError(errors.New("x509: certificate signed by unknown authority")),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   false,
		},
		{
			name:        "503 doubles the delay",
			terr:        newHTTPError(503, 0),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   true,
			wantDelay:   2 * time.Second,
		},
		{
			name:        "503 on second attempt",
			terr:        newHTTPError(503, 0),
			attempt:     1,
			maxAttempts: 3,
			wantRetry:   true,
			wantDelay:   4 * time.Second,
		},
		{
			name:        "500 retries at base delay",
			terr:        newHTTPError(500, 0),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   true,
			wantDelay:   time.Second,
		},
		{
			name:        "502 retries",
			terr:        newHTTPError(502, 0),
			attempt:     1,
			maxAttempts: 3,
			wantRetry:   true,
			wantDelay:   2 * time.Second,
		},
		{
			name:        "429 is terminal",
			terr:        newHTTPError(429, 30*time.Second),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   false,
		},
		{
			name:        "401 is terminal",
			terr:        newHTTPError(401, 0),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   false,
		},
		{
			name:        "403 is terminal",
			terr:        newHTTPError(403, 0),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   false,
		},
		{
			name:        "400 is terminal",
			terr:        newHTTPError(400, 0),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   false,
		},
		{
			name:        "empty reply is terminal",
			terr:        newEmptyReplyError(),
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   false,
		},
		{
			name:        "nil error never retries",
			terr:        nil,
			attempt:     0,
			maxAttempts: 3,
			wantRetry:   false,
		},
		{
			name:        "attempts past the schedule reuse the last step",
			terr:        newHTTPError(500, 0),
			attempt:     3,
			maxAttempts: 6,
			wantRetry:   true,
			wantDelay:   4 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.terr, tt.attempt, tt.maxAttempts, DefaultBackoff)
			if got.Retry != tt.wantRetry {
				t.Errorf("Decide() retry = %v, want %v", got.Retry, tt.wantRetry)
			}
			if got.Retry && got.Delay != tt.wantDelay {
				t.Errorf("Decide() delay = %v, want %v", got.Delay, tt.wantDelay)
			}
		})
	}
}

func TestDecideCustomBackoff(t *testing.T) {
	backoff := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}

	got := Decide(newHTTPError(500, 0), 0, 3, backoff)
	if !got.Retry || got.Delay != 10*time.Millisecond {
		t.Errorf("Decide() = %+v, want retry at 10ms", got)
	}

	got = Decide(newHTTPError(503, 0), 1, 3, backoff)
	if !got.Retry || got.Delay != 40*time.Millisecond {
		t.Errorf("Decide() = %+v, want doubled 20ms step", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"30", 30 * time.Second},
		{" 7 ", 7 * time.Second},
		{"0", 0},
		{"-5", 0},
		{"", 0},
		{"Wed, 21 Oct 2026 07:28:00 GMT", 0},
	}

	for _, tt := range tests {
		if got := parseRetryAfter(tt.value); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestClassifyRequestError(t *testing.T) {
	terr := classifyRequestError(context.DeadlineExceeded)
	if terr.Kind != KindTimeout {
		t.Errorf("deadline exceeded classified as %v, want timeout", terr.Kind)
	}

	terr = classifyRequestError(errors.New("dial tcp 127.0.0.1:1: connect: connection refused"))
	if terr.Kind != KindConnection {
		t.Errorf("connection refused classified as %v, want connection", terr.Kind)
	}

	terr = classifyRequestError(&net.DNSError{Name: "x", IsTimeout: true})
	if terr.Kind != KindTimeout {
		t.Errorf("dns timeout classified as %v, want timeout", terr.Kind)
	}
}
