// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBackend returns canned results for breaker testing.
type scriptedBackend struct {
	err   error
	calls int
}

func (s *scriptedBackend) Name() string { return "scripted" }

func (s *scriptedBackend) Translate(context.Context, string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "ok", nil
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	inner := &scriptedBackend{}
	b := NewBreaker(inner)

	out, err := b.Translate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "scripted", b.Name())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &scriptedBackend{err: errors.New("upstream down")}
	b := NewBreaker(inner)
	ctx := context.Background()

	for i := 0; i < breakerConsecutiveFailures; i++ {
		_, err := b.Translate(ctx, "p")
		require.Error(t, err)
	}
	callsWhenTripped := inner.calls

	// The circuit is now open: the backend is no longer called.
	_, err := b.Translate(ctx, "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, callsWhenTripped, inner.calls)

	// Open-circuit errors carry no status code, so the retry predicate
	// treats them as transient.
	assert.True(t, Retryable(err, 0))
}

func TestBreaker_PreservesTypedErrors(t *testing.T) {
	inner := &scriptedBackend{err: &APIError{Provider: "scripted", StatusCode: 400}}
	b := NewBreaker(inner)

	_, err := b.Translate(context.Background(), "p")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.StatusCode)
}
