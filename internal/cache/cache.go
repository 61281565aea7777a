// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores translation results keyed by fingerprint, bounded
// by entry count and age. The in-memory map is authoritative; a JSON
// snapshot is written through to the persistent store under a single
// namespaced key so a later session starts warm. Snapshots carry a
// schema version: a mismatched snapshot is dropped rather than
// reinterpreted, since partial-schema reads risk corrupt annotations.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/meshintelligence/lexiflow/internal/store"
	"github.com/meshintelligence/lexiflow/pkg/types"
)

// Version is the cache snapshot schema version. Bump it whenever the
// entry layout changes; old snapshots are then discarded on load.
const Version = 2

// SnapshotKey is the store key holding the serialized entry mapping.
const SnapshotKey = "lexiflow:translation-cache"

type entry struct {
	Result   types.TranslationResult `json:"result"`
	StoredAt time.Time               `json:"stored_at"`
}

type snapshot struct {
	Version int              `json:"version"`
	Entries map[string]entry `json:"entries"`
}

// Cache is a bounded, TTL-expiring translation result store. Safe for
// concurrent use.
type Cache struct {
	maxEntries int
	expiry     time.Duration
	kv         store.KV

	mu      sync.Mutex
	entries map[string]entry

	// now is a test hook for expiry checks.
	now func() time.Time
}

// New creates a cache with the given bounds. kv may be nil for a purely
// in-memory cache.
func New(cfg types.BatchConfig, kv store.KV) *Cache {
	cfg = cfg.WithDefaults()
	return &Cache{
		maxEntries: cfg.MaxCacheEntries,
		expiry:     cfg.CacheExpireTime,
		kv:         kv,
		entries:    make(map[string]entry),
		now:        time.Now,
	}
}

// Load restores the snapshot from the persistent store. A missing
// snapshot, a corrupt snapshot, or a version mismatch all leave the
// cache empty; only store-transport errors are returned, and callers
// are expected to log and continue cold.
func (c *Cache) Load(ctx context.Context) error {
	if c.kv == nil {
		return nil
	}

	values, err := c.kv.GetMany(ctx, []string{SnapshotKey})
	if err != nil {
		return fmt.Errorf("loading cache snapshot: %w", err)
	}
	raw, ok := values[SnapshotKey]
	if !ok {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil
	}
	if snap.Version != Version {
		// Migration policy is drop, not reinterpret.
		return nil
	}

	c.mu.Lock()
	c.entries = snap.Entries
	if c.entries == nil {
		c.entries = make(map[string]entry)
	}
	c.mu.Unlock()
	return nil
}

// Get returns the cached result for key. An entry older than the expiry
// is logically absent and is purged on access. The returned result has
// its Cached flag set.
func (c *Cache) Get(key string) (types.TranslationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return types.TranslationResult{}, false
	}
	if c.now().Sub(e.StoredAt) > c.expiry {
		delete(c.entries, key)
		return types.TranslationResult{}, false
	}

	result := e.Result
	result.Cached = true
	return result, true
}

// Put inserts or overwrites the result for key. When the insert would
// exceed the capacity, the earliest-stored entries are evicted first.
// The updated snapshot is written through to the persistent store.
func (c *Cache) Put(ctx context.Context, key string, result types.TranslationResult) {
	result.Cached = false

	c.mu.Lock()
	c.entries[key] = entry{Result: result, StoredAt: c.now()}
	c.evictLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snap)
}

// evictLocked drops expired entries, then the oldest entries while over
// capacity. Callers hold c.mu.
func (c *Cache) evictLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.StoredAt) > c.expiry {
			delete(c.entries, k)
		}
	}

	if len(c.entries) <= c.maxEntries {
		return
	}

	type aged struct {
		key      string
		storedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.StoredAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].storedAt.Before(all[j].storedAt) })

	for _, a := range all[:len(c.entries)-c.maxEntries] {
		delete(c.entries, a.key)
	}
}

func (c *Cache) snapshotLocked() snapshot {
	entries := make(map[string]entry, len(c.entries))
	for k, e := range c.entries {
		entries[k] = e
	}
	return snapshot{Version: Version, Entries: entries}
}

func (c *Cache) persist(ctx context.Context, snap snapshot) {
	if c.kv == nil {
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	// Store failures degrade to memory-only inside the store layer.
	_ = c.kv.SetMany(ctx, map[string][]byte{SnapshotKey: raw})
}

// Len returns the number of live (unexpired) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for _, e := range c.entries {
		if now.Sub(e.StoredAt) <= c.expiry {
			n++
		}
	}
	return n
}

// Clear drops every entry and persists the empty snapshot.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snap)
}

// Stats summarizes the cache for diagnostics.
type Stats struct {
	Entries    int       `json:"entries" yaml:"entries"`
	MaxEntries int       `json:"max_entries" yaml:"max_entries"`
	OldestAt   time.Time `json:"oldest_at,omitempty" yaml:"oldest_at,omitempty"`
	NewestAt   time.Time `json:"newest_at,omitempty" yaml:"newest_at,omitempty"`
}

// Stats returns a point-in-time summary of live entries.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{MaxEntries: c.maxEntries}
	now := c.now()
	for _, e := range c.entries {
		if now.Sub(e.StoredAt) > c.expiry {
			continue
		}
		s.Entries++
		if s.OldestAt.IsZero() || e.StoredAt.Before(s.OldestAt) {
			s.OldestAt = e.StoredAt
		}
		if e.StoredAt.After(s.NewestAt) {
			s.NewestAt = e.StoredAt
		}
	}
	return s
}
