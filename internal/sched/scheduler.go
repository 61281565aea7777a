// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sched groups pending paragraphs into budget-bounded batches
// and dispatches them upstream. Collection is debounced: a burst of
// paragraphs (rapid scrolling, DOM mutations) collapses into one
// dispatch cycle. Batches are bounded by paragraph count and character
// budget; a paragraph is never split across batches, and paragraph
// order within a batch always equals input order so responses can be
// matched back by position index.
package sched

import (
	"context"
	"sync"
	"time"

	"github.com/meshintelligence/lexiflow/pkg/types"
)

// State names a scheduler's position in the dispatch cycle.
type State string

const (
	// StateIdle means nothing is pending or in flight.
	StateIdle State = "idle"

	// StateCollecting means paragraphs are being appended to the
	// current batch.
	StateCollecting State = "collecting"

	// StateDebouncing means the scheduler is waiting out the debounce
	// window; any new paragraph resets the timer.
	StateDebouncing State = "debouncing"

	// StateDispatched means at least one batch has an upstream call in
	// flight.
	StateDispatched State = "dispatched"

	// StateSettled means the last cycle completed with every batch
	// succeeding.
	StateSettled State = "settled"

	// StateFailed means the last cycle ended with at least one batch
	// exhausting its retries.
	StateFailed State = "failed"
)

// Batch is one bounded group of paragraphs bound for a single upstream
// call. Epoch is captured at dispatch; results for a stale epoch must
// not be applied.
type Batch struct {
	Paragraphs []types.Paragraph
	Epoch      uint64
}

// Chars returns the total character count of the batch.
func (b Batch) Chars() int {
	n := 0
	for _, p := range b.Paragraphs {
		n += len(p.Text)
	}
	return n
}

// DispatchFunc performs one upstream call for one batch. Returning an
// error marks every paragraph in the batch as untranslated.
type DispatchFunc func(ctx context.Context, batch Batch) error

// Failure reports a batch whose dispatch failed. Its paragraphs are
// individually retryable by the caller, never silently dropped.
type Failure struct {
	Paragraphs []types.Paragraph
	Err        error
}

// Scheduler owns batch collection and dispatch. Safe for concurrent use;
// dispatches run concurrently with each other, with no ordering
// guarantee between batches.
type Scheduler struct {
	cfg      types.BatchConfig
	dispatch DispatchFunc

	mu           sync.Mutex
	state        State
	current      []types.Paragraph
	currentChars int
	closed       [][]types.Paragraph
	timer        *time.Timer
	epoch        uint64
	inFlight     int
	failures     []Failure

	wg sync.WaitGroup
}

// New creates a scheduler dispatching through fn.
func New(cfg types.BatchConfig, fn DispatchFunc) *Scheduler {
	return &Scheduler{
		cfg:      cfg.WithDefaults(),
		dispatch: fn,
		state:    StateIdle,
	}
}

// State returns the scheduler's current cycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current reports whether epoch is still live. Dispatchers check this
// before applying results, so work abandoned by Cancel never writes
// back onto newer state.
func (s *Scheduler) Current(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return epoch == s.epoch
}

// Add appends a paragraph to the current batch, closing it and opening
// a new one when either the paragraph or character budget would be
// exceeded. The debounce timer restarts on every call.
func (s *Scheduler) Add(ctx context.Context, p types.Paragraph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateCollecting

	over := len(s.current) >= s.cfg.MaxParagraphsPerBatch ||
		(len(s.current) > 0 && s.currentChars+len(p.Text) > s.cfg.MaxCharsPerBatch)
	if over {
		s.closed = append(s.closed, s.current)
		s.current = nil
		s.currentChars = 0
	}

	s.current = append(s.current, p)
	s.currentChars += len(p.Text)

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.DebounceDelay, func() {
		s.dispatchPending(ctx)
	})
	s.state = StateDebouncing
}

// Flush dispatches everything pending immediately, waits for all
// in-flight batches (including earlier timer-fired ones) to finish, and
// returns the cycle's failures. The failure list is reset for the next
// cycle.
func (s *Scheduler) Flush(ctx context.Context) []Failure {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.dispatchPending(ctx)
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	failures := s.failures
	s.failures = nil
	return failures
}

// Cancel drops all pending (not yet dispatched) paragraphs and bumps
// the epoch so in-flight results are discarded on arrival. The dropped
// paragraphs are returned for reassignment to a later cycle.
func (s *Scheduler) Cancel() []types.Paragraph {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	var dropped []types.Paragraph
	for _, batch := range s.closed {
		dropped = append(dropped, batch...)
	}
	dropped = append(dropped, s.current...)

	s.closed = nil
	s.current = nil
	s.currentChars = 0
	s.epoch++
	s.state = StateIdle
	return dropped
}

// dispatchPending closes the current batch and launches one goroutine
// per pending batch.
func (s *Scheduler) dispatchPending(ctx context.Context) {
	s.mu.Lock()

	if len(s.current) > 0 {
		s.closed = append(s.closed, s.current)
		s.current = nil
		s.currentChars = 0
	}
	pending := s.closed
	s.closed = nil

	if len(pending) == 0 {
		s.mu.Unlock()
		return
	}

	epoch := s.epoch
	s.state = StateDispatched
	s.inFlight += len(pending)

	for _, paragraphs := range pending {
		batch := Batch{Paragraphs: paragraphs, Epoch: epoch}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			err := s.dispatch(ctx, batch)
			s.settle(batch, err)
		}()
	}
	s.mu.Unlock()
}

// settle records one batch outcome and moves the cycle to a terminal
// state once nothing is in flight.
func (s *Scheduler) settle(batch Batch, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.failures = append(s.failures, Failure{Paragraphs: batch.Paragraphs, Err: err})
	}

	s.inFlight--
	if s.inFlight > 0 || s.state != StateDispatched {
		return
	}
	if len(s.failures) > 0 {
		s.state = StateFailed
	} else {
		s.state = StateSettled
	}
}
