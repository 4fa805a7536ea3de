package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a fetch failure. Every failure surfaced by the
// fetcher carries one of these kinds rather than a generic error, so
// reports can distinguish a timeout from a DNS failure from a bad
// status.
type ErrorKind string

const (
	// KindTimeout is a request that exceeded its deadline.
	KindTimeout ErrorKind = "timeout"

	// KindDNS is a name resolution failure.
	KindDNS ErrorKind = "dns"

	// KindTLS is a certificate or TLS handshake failure.
	KindTLS ErrorKind = "tls"

	// KindConnection is any other transport failure (refused, reset,
	// unreachable).
	KindConnection ErrorKind = "connection"

	// KindHTTPStatus is a completed request with a non-2xx status.
	KindHTTPStatus ErrorKind = "http_status"
)

// Error is a typed fetch failure for one (side, path) request.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// URL is the absolute URL that failed.
	URL string

	// StatusCode is set for KindHTTPStatus, zero otherwise.
	StatusCode int

	// Err is the underlying transport error, nil for KindHTTPStatus.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *Error) Unwrap() error {
	return e.Err
}

// statusError builds the Error for a completed non-2xx response.
func statusError(url string, status int) *Error {
	return &Error{
		Kind:       KindHTTPStatus,
		URL:        url,
		StatusCode: status,
	}
}

// classify wraps a transport error with its kind.
// The checks go from most to least specific: deadline and timeout first,
// then DNS, then certificate problems, with plain connection failures as
// the fallback.
func classify(url string, err error) *Error {
	kind := KindConnection

	var netErr net.Error
	var dnsErr *net.DNSError
	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var unknownAuthErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.As(err, &dnsErr):
		kind = KindDNS
	case errors.As(err, &certErr),
		errors.As(err, &recordErr),
		errors.As(err, &unknownAuthErr),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidErr):
		kind = KindTLS
	}

	return &Error{
		Kind: kind,
		URL:  url,
		Err:  err,
	}
}
