// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/meshintelligence/lexiflow/internal/store"
	"github.com/meshintelligence/lexiflow/pkg/types"
)

// ProfileKey is the store key holding the serialized user profile.
const ProfileKey = "lexiflow:user-profile"

// profileVersion is the profile snapshot schema version.
const profileVersion = 1

type profileSnapshot struct {
	Version int               `json:"version"`
	Profile types.UserProfile `json:"profile"`
}

// initialEstimates seeds the vocabulary estimate from the learner's
// declared exam context before any feedback arrives.
var initialEstimates = map[types.ExamType]int{
	types.ExamCET4:  4500,
	types.ExamCET6:  6000,
	types.ExamIELTS: 7000,
	types.ExamTOEFL: 8000,
	types.ExamNone:  3000,
}

// Store owns the user profile: the single writer for estimate,
// confidence, and the known/unknown word lists. Safe for concurrent use.
type Store struct {
	kv store.KV

	mu      sync.Mutex
	profile types.UserProfile

	// now is a test hook for timestamps.
	now func() time.Time
}

// NewStore creates a profile store over kv (nil for memory-only) with a
// fresh default profile for the given exam context.
func NewStore(kv store.KV, exam types.ExamType, examScore int) *Store {
	s := &Store{kv: kv, now: time.Now}

	estimate, ok := initialEstimates[exam]
	if !ok {
		estimate = initialEstimates[types.ExamNone]
	}

	now := s.now()
	s.profile = types.UserProfile{
		ExamType:            exam,
		ExamScore:           examScore,
		EstimatedVocabulary: estimate,
		LevelConfidence:     0,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return s
}

// Load replaces the default profile with the persisted one, if present
// and version-compatible. Mismatched or corrupt snapshots are dropped.
func (s *Store) Load(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}

	values, err := s.kv.GetMany(ctx, []string{ProfileKey})
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	raw, ok := values[ProfileKey]
	if !ok {
		return nil
	}

	var snap profileSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil || snap.Version != profileVersion {
		return nil
	}

	s.mu.Lock()
	s.profile = snap.Profile
	s.mu.Unlock()
	return nil
}

// Profile returns a copy of the current profile.
func (s *Store) Profile() types.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() types.UserProfile {
	p := s.profile
	p.KnownWords = append([]string(nil), p.KnownWords...)
	p.UnknownWords = append([]types.UnknownWordEntry(nil), p.UnknownWords...)
	return p
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.kv == nil {
		return
	}
	raw, err := json.Marshal(profileSnapshot{Version: profileVersion, Profile: s.profile})
	if err != nil {
		return
	}
	_ = s.kv.SetMany(ctx, map[string][]byte{ProfileKey: raw})
}

// MarkKnown records words as known. Any unknown entry for the same word
// (case-insensitive) is removed: a word is never in both lists.
func (s *Store) MarkKnown(ctx context.Context, words ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range words {
		lower := strings.ToLower(strings.TrimSpace(w))
		if lower == "" {
			continue
		}

		present := false
		for _, k := range s.profile.KnownWords {
			if k == lower {
				present = true
				break
			}
		}
		if !present {
			s.profile.KnownWords = append(s.profile.KnownWords, lower)
		}

		kept := s.profile.UnknownWords[:0]
		for _, u := range s.profile.UnknownWords {
			if u.Word != lower {
				kept = append(kept, u)
			}
		}
		s.profile.UnknownWords = kept
	}

	s.profile.UpdatedAt = s.now()
	s.persistLocked(ctx)
}

// MarkUnknown records a word as unknown with its context snippet and
// the translation the learner saw. Re-marking an existing unknown word
// refreshes its context and translation but keeps its review history.
// The word is removed from the known list if present.
func (s *Store) MarkUnknown(ctx context.Context, word, snippet, translation string) {
	lower := strings.ToLower(strings.TrimSpace(word))
	if lower == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.profile.KnownWords[:0]
	for _, k := range s.profile.KnownWords {
		if k != lower {
			kept = append(kept, k)
		}
	}
	s.profile.KnownWords = kept

	for i := range s.profile.UnknownWords {
		if s.profile.UnknownWords[i].Word == lower {
			s.profile.UnknownWords[i].Context = snippet
			s.profile.UnknownWords[i].Translation = translation
			s.profile.UpdatedAt = s.now()
			s.persistLocked(ctx)
			return
		}
	}

	s.profile.UnknownWords = append(s.profile.UnknownWords, types.UnknownWordEntry{
		Word:        lower,
		Context:     snippet,
		Translation: translation,
		MarkedAt:    s.now(),
	})
	s.profile.UpdatedAt = s.now()
	s.persistLocked(ctx)
}

// RecordReview increments the review count and refreshes the last
// review time for an unknown word. Unmarked words are ignored.
func (s *Store) RecordReview(ctx context.Context, word string) {
	lower := strings.ToLower(strings.TrimSpace(word))

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.profile.UnknownWords {
		if s.profile.UnknownWords[i].Word == lower {
			s.profile.UnknownWords[i].ReviewCount++
			s.profile.UnknownWords[i].LastReviewAt = s.now()
			s.profile.UpdatedAt = s.now()
			s.persistLocked(ctx)
			return
		}
	}
}

// Observe folds one known/unknown verdict for a word of the given
// difficulty into the estimate and confidence, then persists.
func (s *Store) Observe(ctx context.Context, wordDifficulty int, isKnown bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.EstimatedVocabulary, s.profile.LevelConfidence = UpdateEstimate(
		s.profile.EstimatedVocabulary, wordDifficulty, isKnown, s.profile.LevelConfidence)
	s.profile.UpdatedAt = s.now()
	s.persistLocked(ctx)
}

// DueWord pairs an unknown word with its review priority.
type DueWord struct {
	Entry    types.UnknownWordEntry `json:"entry" yaml:"entry"`
	Priority float64                `json:"priority" yaml:"priority"`
}

// DueForReview returns unknown words ordered most-overdue first. Only
// words with priority >= 1 are due; the full ranked list is returned so
// callers can choose their own cutoff.
func (s *Store) DueForReview() []DueWord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]DueWord, 0, len(s.profile.UnknownWords))
	for _, u := range s.profile.UnknownWords {
		out = append(out, DueWord{
			Entry:    u,
			Priority: ReviewPriority(u.MarkedAt, u.ReviewCount, u.LastReviewAt, now),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}
