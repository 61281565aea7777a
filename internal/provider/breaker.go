// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// breakerConsecutiveFailures trips the circuit after this many
// consecutive upstream failures, so a hard-down provider stops eating
// the retry budget of every batch.
const breakerConsecutiveFailures = 5

// Breaker wraps a Backend with a circuit breaker. An open circuit
// surfaces as a plain (status-less) error, which the default retry
// predicate treats as transient — batches back off instead of failing
// permanently while the provider recovers.
type Breaker struct {
	backend Backend
	cb      *gobreaker.CircuitBreaker
}

// NewBreaker wraps backend.
func NewBreaker(backend Backend) *Breaker {
	settings := gobreaker.Settings{
		Name:    backend.Name(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
	}
	return &Breaker{
		backend: backend,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// Name returns the wrapped provider's identifier.
func (b *Breaker) Name() string {
	return b.backend.Name()
}

// Translate delegates to the wrapped backend through the circuit.
func (b *Breaker) Translate(ctx context.Context, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.backend.Translate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%s circuit open: %w", b.backend.Name(), err)
		}
		return "", err
	}
	return out.(string), nil
}
