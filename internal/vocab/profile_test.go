// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vocab

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintelligence/lexiflow/internal/store"
	"github.com/meshintelligence/lexiflow/pkg/types"
)

func TestNewStore_SeedsEstimateFromExam(t *testing.T) {
	tests := []struct {
		exam types.ExamType
		want int
	}{
		{types.ExamCET4, 4500},
		{types.ExamCET6, 6000},
		{types.ExamIELTS, 7000},
		{types.ExamTOEFL, 8000},
		{types.ExamNone, 3000},
		{types.ExamType("unheard-of"), 3000},
	}
	for _, tt := range tests {
		s := NewStore(nil, tt.exam, 0)
		assert.Equal(t, tt.want, s.Profile().EstimatedVocabulary, "exam %s", tt.exam)
	}
}

func TestMarkKnown_RemovesUnknownEntry(t *testing.T) {
	s := NewStore(nil, types.ExamNone, 0)
	ctx := context.Background()

	s.MarkUnknown(ctx, "Ubiquitous", "it was ubiquitous", "无处不在的")
	require.Len(t, s.Profile().UnknownWords, 1)

	s.MarkKnown(ctx, "UBIQUITOUS")

	p := s.Profile()
	assert.Equal(t, []string{"ubiquitous"}, p.KnownWords)
	assert.Empty(t, p.UnknownWords, "a word is never in both lists")
}

func TestMarkKnown_Idempotent(t *testing.T) {
	s := NewStore(nil, types.ExamNone, 0)
	ctx := context.Background()

	s.MarkKnown(ctx, "cat", "cat", "Cat")
	assert.Equal(t, []string{"cat"}, s.Profile().KnownWords)
}

func TestMarkUnknown_RemovesFromKnownList(t *testing.T) {
	s := NewStore(nil, types.ExamNone, 0)
	ctx := context.Background()

	s.MarkKnown(ctx, "ephemeral")
	s.MarkUnknown(ctx, "ephemeral", "an ephemeral glow", "短暂的")

	p := s.Profile()
	assert.Empty(t, p.KnownWords)
	require.Len(t, p.UnknownWords, 1)
	assert.Equal(t, "ephemeral", p.UnknownWords[0].Word)
}

func TestMarkUnknown_RemarkKeepsReviewHistory(t *testing.T) {
	s := NewStore(nil, types.ExamNone, 0)
	ctx := context.Background()

	s.MarkUnknown(ctx, "arcane", "old context", "old")
	s.RecordReview(ctx, "arcane")
	s.MarkUnknown(ctx, "arcane", "new context", "new")

	p := s.Profile()
	require.Len(t, p.UnknownWords, 1)
	assert.Equal(t, 1, p.UnknownWords[0].ReviewCount)
	assert.Equal(t, "new context", p.UnknownWords[0].Context)
	assert.Equal(t, "new", p.UnknownWords[0].Translation)
}

func TestRecordReview(t *testing.T) {
	s := NewStore(nil, types.ExamNone, 0)
	ctx := context.Background()

	s.MarkUnknown(ctx, "arcane", "", "")
	before := s.Profile().UnknownWords[0]
	assert.Zero(t, before.ReviewCount)
	assert.True(t, before.LastReviewAt.IsZero())

	s.RecordReview(ctx, "Arcane")

	after := s.Profile().UnknownWords[0]
	assert.Equal(t, 1, after.ReviewCount)
	assert.False(t, after.LastReviewAt.IsZero())

	// Reviewing an unmarked word is a no-op.
	s.RecordReview(ctx, "never-marked")
	assert.Len(t, s.Profile().UnknownWords, 1)
}

func TestObserve_UpdatesEstimateAndConfidence(t *testing.T) {
	s := NewStore(nil, types.ExamNone, 0)
	ctx := context.Background()

	// 3000 start; knowing a difficulty-9 word (predicts 13500) at
	// confidence 0 moves 10% of the gap.
	s.Observe(ctx, 9, true)

	p := s.Profile()
	assert.Equal(t, 4050, p.EstimatedVocabulary)
	assert.InDelta(t, 0.01, p.LevelConfidence, 1e-9)
}

func TestStore_PersistsAndLoads(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	s := NewStore(kv, types.ExamIELTS, 7)
	s.MarkUnknown(ctx, "arcane", "ctx", "tr")
	s.MarkKnown(ctx, "cat")
	s.Observe(ctx, 9, true)
	want := s.Profile()

	s2 := NewStore(kv, types.ExamNone, 0)
	require.NoError(t, s2.Load(ctx))
	got := s2.Profile()

	assert.Equal(t, want.EstimatedVocabulary, got.EstimatedVocabulary)
	assert.Equal(t, want.KnownWords, got.KnownWords)
	require.Len(t, got.UnknownWords, 1)
	assert.Equal(t, "arcane", got.UnknownWords[0].Word)
	assert.Equal(t, types.ExamIELTS, got.ExamType)
}

func TestDueForReview_RanksMostOverdueFirst(t *testing.T) {
	s := NewStore(nil, types.ExamNone, 0)
	ctx := context.Background()

	now := time.Now()
	s.MarkUnknown(ctx, "fresh", "", "")
	s.MarkUnknown(ctx, "stale", "", "")

	// Backdate "stale" two days; "fresh" stays just-marked.
	s.mu.Lock()
	for i := range s.profile.UnknownWords {
		if s.profile.UnknownWords[i].Word == "stale" {
			s.profile.UnknownWords[i].MarkedAt = now.Add(-48 * time.Hour)
		}
	}
	s.mu.Unlock()

	due := s.DueForReview()
	require.Len(t, due, 2)
	assert.Equal(t, "stale", due[0].Entry.Word)
	assert.InDelta(t, 2.0, due[0].Priority, 0.01)
	assert.Less(t, due[1].Priority, 1.0)
}
