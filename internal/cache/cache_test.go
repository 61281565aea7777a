// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintelligence/lexiflow/internal/store"
	"github.com/meshintelligence/lexiflow/pkg/types"
)

func testConfig() types.BatchConfig {
	return types.BatchConfig{
		MaxCacheEntries: 3,
		CacheExpireTime: time.Hour,
	}
}

func resultFor(text string) types.TranslationResult {
	return types.TranslationResult{
		Words: []types.WordAnnotation{{Original: text, Translation: "t:" + text, Difficulty: 5}},
	}
}

func TestCache_RoundTrip(t *testing.T) {
	c := New(testConfig(), nil)
	ctx := context.Background()

	want := resultFor("hello")
	c.Put(ctx, "k1", want)

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.True(t, got.Cached, "cache hits carry the cached flag")
	got.Cached = false
	assert.Equal(t, want, got)
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c := New(testConfig(), nil)
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCache_ExpiredEntryIsAbsentAndPurged(t *testing.T) {
	c := New(testConfig(), nil)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put(ctx, "k1", resultFor("hello"))

	// Just before expiry: still present.
	c.now = func() time.Time { return now.Add(time.Hour) }
	_, ok := c.Get("k1")
	assert.True(t, ok)

	// Past expiry: logically absent, physically purged.
	c.now = func() time.Time { return now.Add(time.Hour + time.Second) }
	_, ok = c.Get("k1")
	assert.False(t, ok)
	assert.Zero(t, len(c.entries))
}

func TestCache_CapacityEvictsEarliestStored(t *testing.T) {
	c := New(testConfig(), nil)
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < 4; i++ {
		tick := now.Add(time.Duration(i) * time.Second)
		c.now = func() time.Time { return tick }
		c.Put(ctx, fmt.Sprintf("k%d", i), resultFor(fmt.Sprintf("w%d", i)))
	}

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("k0")
	assert.False(t, ok, "earliest-stored key must be evicted")
	for i := 1; i < 4; i++ {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		assert.True(t, ok, "k%d should survive", i)
	}
}

func TestCache_OverwriteDoesNotGrow(t *testing.T) {
	c := New(testConfig(), nil)
	ctx := context.Background()

	c.Put(ctx, "k", resultFor("v1"))
	c.Put(ctx, "k", resultFor("v2"))

	assert.Equal(t, 1, c.Len())
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", got.Words[0].Original)
}

func TestCache_SnapshotRoundTrip(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	c := New(testConfig(), kv)
	c.Put(ctx, "k1", resultFor("hello"))

	// A fresh cache over the same store sees the entry.
	c2 := New(testConfig(), kv)
	require.NoError(t, c2.Load(ctx))
	got, ok := c2.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Words[0].Original)
}

func TestCache_LoadDropsMismatchedVersion(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	raw, err := json.Marshal(map[string]any{
		"version": Version - 1,
		"entries": map[string]any{"k1": map[string]any{"stored_at": time.Now()}},
	})
	require.NoError(t, err)
	require.NoError(t, kv.SetMany(ctx, map[string][]byte{SnapshotKey: raw}))

	c := New(testConfig(), kv)
	require.NoError(t, c.Load(ctx))
	assert.Zero(t, c.Len(), "old-version snapshots are dropped, not migrated")
}

func TestCache_LoadToleratesCorruptSnapshot(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.SetMany(ctx, map[string][]byte{SnapshotKey: []byte("{not json")}))

	c := New(testConfig(), kv)
	require.NoError(t, c.Load(ctx))
	assert.Zero(t, c.Len())
}

func TestCache_Clear(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	c := New(testConfig(), kv)
	c.Put(ctx, "k1", resultFor("hello"))
	c.Clear(ctx)
	assert.Zero(t, c.Len())

	c2 := New(testConfig(), kv)
	require.NoError(t, c2.Load(ctx))
	assert.Zero(t, c2.Len(), "clear must persist the empty snapshot")
}

func TestCache_Stats(t *testing.T) {
	c := New(testConfig(), nil)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put(ctx, "k1", resultFor("a"))
	later := now.Add(time.Minute)
	c.now = func() time.Time { return later }
	c.Put(ctx, "k2", resultFor("b"))

	s := c.Stats()
	assert.Equal(t, 2, s.Entries)
	assert.Equal(t, 3, s.MaxEntries)
	assert.True(t, s.OldestAt.Equal(now))
	assert.True(t, s.NewestAt.Equal(later))
}
