// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry wraps a single upstream call with bounded exponential
// backoff, jitter, and a pluggable retryability predicate.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Retry defaults.
const (
	DefaultMaxRetries        = 3
	DefaultInitialDelay      = time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultMaxDelay          = 30 * time.Second
)

// jitterFraction is the upper bound of the uniform random addition to
// each backoff wait, as a fraction of the current delay. Jitter breaks
// up synchronized retry storms across concurrent batches.
const jitterFraction = 0.3

// Options configures one execution. Zero fields take the defaults above.
type Options struct {
	// MaxRetries is the number of retry attempts after the first failure.
	MaxRetries int

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration

	// BackoffMultiplier scales the delay after each failed attempt.
	BackoffMultiplier float64

	// MaxDelay caps the wait between attempts.
	MaxDelay time.Duration

	// ShouldRetry decides whether a failure is worth retrying. attempt
	// is zero-based. Nil means retry everything.
	ShouldRetry func(err error, attempt int) bool

	// OnRetry observes each scheduled retry: the error that caused it,
	// the zero-based attempt that failed, and the upcoming wait.
	OnRetry func(err error, attempt int, delay time.Duration)
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = DefaultInitialDelay
	}
	if o.BackoffMultiplier <= 0 {
		o.BackoffMultiplier = DefaultBackoffMultiplier
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	return o
}

// Do runs op, retrying failures per opts. It returns op's first success,
// or the last error once retries are exhausted, the predicate declines,
// or ctx is cancelled during a backoff wait.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts Options) (T, error) {
	opts = opts.withDefaults()

	var zero T
	delay := opts.InitialDelay

	for attempt := 0; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		if attempt >= opts.MaxRetries {
			return zero, fmt.Errorf("after %d retries: %w", opts.MaxRetries, err)
		}
		if opts.ShouldRetry != nil && !opts.ShouldRetry(err, attempt) {
			return zero, err
		}

		wait := delay + time.Duration(rand.Float64()*jitterFraction*float64(delay))
		if wait > opts.MaxDelay {
			wait = opts.MaxDelay
		}

		if opts.OnRetry != nil {
			opts.OnRetry(err, attempt, wait)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * opts.BackoffMultiplier)
		if delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}
}
