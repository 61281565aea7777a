// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Fallback wraps a primary KV and degrades to in-memory operation when
// the primary fails. Storage failures are logged once per session and
// are never surfaced to callers: the pipeline must keep working with a
// cold cache when persistence is unavailable.
type Fallback struct {
	primary KV
	memory  *MemoryKV
	logW    io.Writer

	mu       sync.Mutex
	degraded bool
}

// NewFallback wraps primary. Diagnostics go to logW (typically stderr).
func NewFallback(primary KV, logW io.Writer) *Fallback {
	return &Fallback{
		primary: primary,
		memory:  NewMemoryKV(),
		logW:    logW,
	}
}

// Degraded reports whether a storage failure has switched this session
// to in-memory operation.
func (f *Fallback) Degraded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded
}

func (f *Fallback) degrade(op string, err error) {
	f.mu.Lock()
	already := f.degraded
	f.degraded = true
	f.mu.Unlock()

	if !already && f.logW != nil {
		fmt.Fprintf(f.logW, "warning: storage %s failed, continuing in memory: %v\n", op, err)
	}
}

// GetMany reads from the primary store, or from memory once degraded.
func (f *Fallback) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	if f.Degraded() {
		return f.memory.GetMany(ctx, keys)
	}
	values, err := f.primary.GetMany(ctx, keys)
	if err != nil {
		f.degrade("read", err)
		return f.memory.GetMany(ctx, keys)
	}
	return values, nil
}

// SetMany writes to the primary store, mirroring into memory so reads
// stay consistent if a later operation degrades the session.
func (f *Fallback) SetMany(ctx context.Context, values map[string][]byte) error {
	if err := f.memory.SetMany(ctx, values); err != nil {
		return err
	}
	if f.Degraded() {
		return nil
	}
	if err := f.primary.SetMany(ctx, values); err != nil {
		f.degrade("write", err)
	}
	return nil
}
