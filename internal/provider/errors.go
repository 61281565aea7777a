// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an upstream HTTP failure carrying the status code the
// retry predicate branches on. A nil status code path (plain network
// failure) is represented by an ordinary error, not an APIError.
type APIError struct {
	// Provider names the adapter that produced the error.
	Provider string

	// StatusCode is the HTTP status returned by the upstream.
	StatusCode int

	// Body is the response body, truncated for diagnostics.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

// ParseError reports a structurally malformed upstream response. It is
// never retryable: the upstream answered, it just answered garbage, and
// repeating the call spends tokens for the same garbage.
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Retryable is the default retry predicate for upstream calls: network
// failures (no status code), HTTP 429, and 5xx are transient; other 4xx
// are client or auth errors and retrying them cannot help; parse
// failures are deterministic.
func Retryable(err error, _ int) bool {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return false
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		// No status code: treat as a network failure.
		return true
	}
	if apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return apiErr.StatusCode >= 500
}

// truncate bounds an upstream body for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
