// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vocab maintains the learner's vocabulary profile: a scalar
// vocabulary-size estimate refined from word-level known/unknown
// feedback, the known/unknown word lists, and spaced-repetition review
// scheduling for marked words.
package vocab

import (
	"math"
	"strings"
	"time"

	"github.com/meshintelligence/lexiflow/pkg/types"
)

// baseLearningRate scales each estimate adjustment before confidence
// damping. As confidence grows the effective rate shrinks, so the
// estimate stiffens over time.
const baseLearningRate = 0.1

// confidenceStep is the fixed confidence increment per observation,
// regardless of whether the estimate moved.
const confidenceStep = 0.01

// UpdateEstimate folds one word observation into the vocabulary
// estimate. wordDifficulty grades the word 1-10; isKnown is the
// learner's verdict. A word harder than the estimate predicts that the
// learner knows raises the estimate; an easier word the learner misses
// lowers it. Observations consistent with the estimate leave it
// unchanged. The returned estimate stays within
// [types.MinVocabulary, types.MaxVocabulary]; the returned confidence is
// min(1, confidence+confidenceStep).
func UpdateEstimate(estimate, wordDifficulty int, isKnown bool, confidence float64) (int, float64) {
	expectedVocab := float64(wordDifficulty) / 10 * types.MaxVocabulary
	learningRate := baseLearningRate * (1 - confidence)

	adjusted := float64(estimate)
	switch {
	case isKnown && expectedVocab > adjusted:
		adjusted += (expectedVocab - adjusted) * learningRate
	case !isKnown && expectedVocab < adjusted:
		adjusted += (expectedVocab - adjusted) * learningRate
	}

	newEstimate := int(math.Round(adjusted))
	if newEstimate < types.MinVocabulary {
		newEstimate = types.MinVocabulary
	}
	if newEstimate > types.MaxVocabulary {
		newEstimate = types.MaxVocabulary
	}

	newConfidence := confidence + confidenceStep
	if newConfidence > 1 {
		newConfidence = 1
	}
	return newEstimate, newConfidence
}

// IsLikelyKnown predicts whether the learner knows word. Explicit
// known-list membership wins, then explicit unknown-list membership,
// then the difficulty percentile against the estimate: a word below the
// learner's percentile is presumed known. Lookups are case-insensitive.
func IsLikelyKnown(word string, profile *types.UserProfile, difficulty int) bool {
	lower := strings.ToLower(word)

	for _, known := range profile.KnownWords {
		if known == lower {
			return true
		}
	}
	for _, u := range profile.UnknownWords {
		if u.Word == lower {
			return false
		}
	}

	return float64(difficulty)/10 < float64(profile.EstimatedVocabulary)/types.MaxVocabulary
}

// reviewIntervals are the spaced-repetition target intervals in days,
// indexed by min(reviewCount, 4).
var reviewIntervals = [...]float64{1, 3, 7, 14, 30}

// ReviewPriority scores how overdue a marked word is. The reference
// time is the last review, or the marking time before any review.
// Priority is daysSinceReference / targetInterval: values >= 1 mean the
// word is due or overdue.
func ReviewPriority(markedAt time.Time, reviewCount int, lastReviewAt time.Time, now time.Time) float64 {
	ref := markedAt
	if !lastReviewAt.IsZero() {
		ref = lastReviewAt
	}

	idx := reviewCount
	if idx > len(reviewIntervals)-1 {
		idx = len(reviewIntervals) - 1
	}
	if idx < 0 {
		idx = 0
	}

	days := now.Sub(ref).Hours() / 24
	return days / reviewIntervals[idx]
}
