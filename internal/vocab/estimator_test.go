// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vocab

import (
	"math/rand"
	"testing"
	"time"

	"github.com/meshintelligence/lexiflow/pkg/types"
)

func TestUpdateEstimate_KnownHardWordRaises(t *testing.T) {
	// Difficulty 9 predicts a 13500-word vocabulary; knowing it from a
	// 5000 estimate at confidence 0.5 moves 5% of the gap.
	got, conf := UpdateEstimate(5000, 9, true, 0.5)
	if got != 5425 {
		t.Errorf("estimate = %d, want 5425", got)
	}
	if conf != 0.51 {
		t.Errorf("confidence = %v, want 0.51", conf)
	}
}

func TestUpdateEstimate_UnknownEasyWordLowers(t *testing.T) {
	// Difficulty 2 predicts 3000; missing it from 8000 at confidence 0
	// moves 10% of the gap downward.
	got, conf := UpdateEstimate(8000, 2, false, 0)
	if got != 7500 {
		t.Errorf("estimate = %d, want 7500", got)
	}
	if conf != 0.01 {
		t.Errorf("confidence = %v, want 0.01", conf)
	}
}

func TestUpdateEstimate_ConsistentObservationsAreNoOps(t *testing.T) {
	tests := []struct {
		name       string
		estimate   int
		difficulty int
		isKnown    bool
	}{
		{"known easy word", 10000, 2, true},
		{"unknown hard word", 4000, 9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, conf := UpdateEstimate(tt.estimate, tt.difficulty, tt.isKnown, 0.3)
			if got != tt.estimate {
				t.Errorf("estimate = %d, want unchanged %d", got, tt.estimate)
			}
			// Confidence still rises on a no-op observation.
			if conf <= 0.3 {
				t.Errorf("confidence = %v, want > 0.3", conf)
			}
		})
	}
}

func TestUpdateEstimate_BoundsHoldUnderArbitrarySequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	estimate := 5000
	confidence := 0.0

	for i := 0; i < 5000; i++ {
		prevConfidence := confidence
		estimate, confidence = UpdateEstimate(estimate, 1+rng.Intn(10), rng.Intn(2) == 0, confidence)

		if estimate < types.MinVocabulary || estimate > types.MaxVocabulary {
			t.Fatalf("step %d: estimate %d out of bounds", i, estimate)
		}
		if confidence < prevConfidence {
			t.Fatalf("step %d: confidence decreased %v -> %v", i, prevConfidence, confidence)
		}
		if confidence > 1 {
			t.Fatalf("step %d: confidence %v above 1", i, confidence)
		}
	}
	if confidence != 1 {
		t.Errorf("confidence = %v, want saturated at 1 after 5000 observations", confidence)
	}
}

func TestUpdateEstimate_HighConfidenceStiffens(t *testing.T) {
	loose, _ := UpdateEstimate(5000, 9, true, 0)
	stiff, _ := UpdateEstimate(5000, 9, true, 0.9)
	if stiff >= loose {
		t.Errorf("high-confidence move %d should be smaller than low-confidence move %d", stiff-5000, loose-5000)
	}
}

func TestIsLikelyKnown(t *testing.T) {
	profile := &types.UserProfile{
		EstimatedVocabulary: 7500, // percentile 0.5
		KnownWords:          []string{"serendipity"},
		UnknownWords: []types.UnknownWordEntry{
			{Word: "cat"},
		},
	}

	tests := []struct {
		name       string
		word       string
		difficulty int
		want       bool
	}{
		{"explicit known wins over difficulty", "Serendipity", 10, true},
		{"explicit unknown wins over difficulty", "Cat", 1, false},
		{"below percentile presumed known", "simple", 4, true},
		{"at percentile not presumed known", "edge", 5, false},
		{"above percentile needs annotation", "arcane", 9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLikelyKnown(tt.word, profile, tt.difficulty); got != tt.want {
				t.Errorf("IsLikelyKnown(%q, diff=%d) = %v, want %v", tt.word, tt.difficulty, got, tt.want)
			}
		})
	}
}

func TestReviewPriority(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name         string
		markedAt     time.Time
		reviewCount  int
		lastReviewAt time.Time
		want         float64
	}{
		{"never reviewed, two days overdue", now.Add(-48 * time.Hour), 0, time.Time{}, 2.0},
		{"first interval exactly due", now.Add(-24 * time.Hour), 0, time.Time{}, 1.0},
		{"second interval from last review", now.Add(-240 * time.Hour), 1, now.Add(-72 * time.Hour), 1.0},
		{"interval index capped at 30 days", now.Add(-2400 * time.Hour), 9, now.Add(-720 * time.Hour), 1.0},
		{"not yet due", now.Add(-12 * time.Hour), 0, time.Time{}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReviewPriority(tt.markedAt, tt.reviewCount, tt.lastReviewAt, now)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ReviewPriority = %v, want %v", got, tt.want)
			}
		})
	}
}
