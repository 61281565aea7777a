// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Vocabulary estimate bounds. Estimates are clamped to this range.
const (
	MinVocabulary = 1000
	MaxVocabulary = 15000
)

// ExamType identifies the standardized exam a learner calibrates against.
type ExamType string

const (
	ExamCET4  ExamType = "cet4"
	ExamCET6  ExamType = "cet6"
	ExamIELTS ExamType = "ielts"
	ExamTOEFL ExamType = "toefl"
	ExamNone  ExamType = "none"
)

// UnknownWordEntry records a word the learner marked as unknown, for
// spaced-repetition review. At most one live entry exists per word
// (lowercase-keyed).
type UnknownWordEntry struct {
	// Word is the marked word, stored lowercase.
	Word string `json:"word" yaml:"word"`

	// Context is the surrounding text snippet where the word was seen.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	// Translation is the annotation shown when the word was marked.
	Translation string `json:"translation,omitempty" yaml:"translation,omitempty"`

	// MarkedAt is when the word was first marked unknown.
	MarkedAt time.Time `json:"marked_at" yaml:"marked_at"`

	// ReviewCount is the number of completed reviews. Never negative.
	ReviewCount int `json:"review_count" yaml:"review_count"`

	// LastReviewAt is when the word was last reviewed. Zero before the
	// first review.
	LastReviewAt time.Time `json:"last_review_at,omitempty" yaml:"last_review_at,omitempty"`
}

// UserProfile holds the learner's vocabulary state. A word never appears
// in both KnownWords and UnknownWords: marking a word known removes any
// unknown entry for it (case-insensitive).
type UserProfile struct {
	// ExamType is the learner's declared exam context.
	ExamType ExamType `json:"exam_type" yaml:"exam_type"`

	// ExamScore is the learner's reported score, 0 when not given.
	ExamScore int `json:"exam_score,omitempty" yaml:"exam_score,omitempty"`

	// EstimatedVocabulary is the current vocabulary-size estimate,
	// bounded to [MinVocabulary, MaxVocabulary].
	EstimatedVocabulary int `json:"estimated_vocabulary" yaml:"estimated_vocabulary"`

	// KnownWords is the set of learner-confirmed known words, lowercase.
	KnownWords []string `json:"known_words" yaml:"known_words"`

	// UnknownWords is the ordered list of marked-unknown entries,
	// oldest first, at most one entry per word.
	UnknownWords []UnknownWordEntry `json:"unknown_words" yaml:"unknown_words"`

	// LevelConfidence is how settled the estimate is, in [0, 1].
	// Non-decreasing under estimator updates.
	LevelConfidence float64 `json:"level_confidence" yaml:"level_confidence"`

	// CreatedAt is when the profile was first created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt is when the profile was last modified.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
