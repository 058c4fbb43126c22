// Package adlib is the top-level ad library collection engine: session
// bootstrap, the GraphQL request pipeline, the paginated streaming
// iterator, and the collector that ties them together.
package adlib

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors. Callers match against these with errors.Is/errors.As
// rather than message text.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRateLimited          = errors.New("rate limited")
	ErrSessionExpired       = errors.New("session expired")
	ErrProxyUnusable        = errors.New("proxy unusable")
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrProtocolError        = errors.New("protocol error")
	ErrNetworkError         = errors.New("network error")
)

// RateLimitedError carries the retry-after duration signaled by the remote
// service, either from a header or a default backoff.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// InvalidParameterError carries the offending field, its value, and the
// set of values that would have been accepted.
type InvalidParameterError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf(
		"%s: field %q value %q not in %v",
		ErrInvalidParameter, e.Field, e.Value, e.Allowed,
	)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }

// ProtocolError carries the raw response body that failed to parse, for
// diagnostics once the remote service's shape drifts.
type ProtocolError struct {
	Body []byte
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %v (body: %s)", ErrProtocolError, e.Err, truncate(e.Body, 512))
}

func (e *ProtocolError) Unwrap() error { return ErrProtocolError }

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

// NetworkError carries the last underlying transport-level cause after
// retries were exhausted.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", ErrNetworkError, e.Cause)
}

func (e *NetworkError) Unwrap() error { return ErrNetworkError }
