package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
)

// TestClassify tests transport error classification.
func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "deadline exceeded is a timeout",
			err:  fmt.Errorf("request failed: %w", context.DeadlineExceeded),
			want: KindTimeout,
		},
		{
			name: "net timeout is a timeout",
			err:  &net.OpError{Op: "dial", Err: &timeoutError{}},
			want: KindTimeout,
		},
		{
			name: "dns failure",
			err:  &net.DNSError{Err: "no such host", Name: "old.example.invalid", IsNotFound: true},
			want: KindDNS,
		},
		{
			name: "wrapped dns failure",
			err:  fmt.Errorf("get: %w", &net.DNSError{Err: "no such host", Name: "x"}),
			want: KindDNS,
		},
		{
			name: "connection refused falls back to connection",
			err:  &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			want: KindConnection,
		},
		{
			name: "unknown error falls back to connection",
			err:  errors.New("boom"),
			want: KindConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classify("https://old.example.com/", tt.err)
			if got.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.want)
			}
			if got.URL != "https://old.example.com/" {
				t.Errorf("URL = %q", got.URL)
			}
			if !errors.Is(got, tt.err) {
				t.Error("expected classified error to wrap the original")
			}
		})
	}
}

// timeoutError implements net.Error with Timeout() == true.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// TestStatusError tests the non-2xx error form.
func TestStatusError(t *testing.T) {
	t.Parallel()

	err := statusError("https://new.example.com/missing", 404)

	if err.Kind != KindHTTPStatus {
		t.Errorf("Kind = %v, want %v", err.Kind, KindHTTPStatus)
	}
	if err.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", err.StatusCode)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Error() = %q, expected status in message", err.Error())
	}
}
