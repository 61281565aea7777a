// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"plain network failure", errors.New("connection refused"), true},
		{"rate limited", &APIError{Provider: "openai", StatusCode: 429}, true},
		{"server error", &APIError{Provider: "openai", StatusCode: 500}, true},
		{"bad gateway", &APIError{Provider: "anthropic", StatusCode: 502}, true},
		{"auth error", &APIError{Provider: "openai", StatusCode: 401}, false},
		{"bad request", &APIError{Provider: "gemini", StatusCode: 400}, false},
		{"not found", &APIError{Provider: "openai", StatusCode: 404}, false},
		{"parse failure", &ParseError{Err: errors.New("bad json")}, false},
		{"wrapped api error", fmt.Errorf("batch 3: %w", &APIError{StatusCode: 503}), true},
		{"wrapped parse error", fmt.Errorf("batch 3: %w", &ParseError{Err: errors.New("x")}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err, 0); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{Provider: "openai", StatusCode: 429, Body: "slow down"}
	want := "openai API returned 429: slow down"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("ab", 3); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}
