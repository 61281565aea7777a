// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TranslationMode selects how much of a paragraph gets annotated.
type TranslationMode string

const (
	// ModeSelective annotates only words and sentences the learner is
	// unlikely to know at their current vocabulary estimate.
	ModeSelective TranslationMode = "selective"

	// ModeFull translates every paragraph in full alongside annotations.
	ModeFull TranslationMode = "full"
)

// WordAnnotation is a single annotated word or phrase within a paragraph.
type WordAnnotation struct {
	// Original is the word or phrase exactly as it appears in the source
	// text. Annotations are unique by Original within one result.
	Original string `json:"original" yaml:"original"`

	// Translation is the target-language rendering.
	Translation string `json:"translation" yaml:"translation"`

	// Position is the [start, end) rune offset pair within the paragraph.
	Position [2]int `json:"position" yaml:"position"`

	// Difficulty grades the word from 1 (beginner) to 10 (near-native).
	Difficulty int `json:"difficulty" yaml:"difficulty"`

	// IsPhrase marks multi-word expressions annotated as a unit.
	IsPhrase bool `json:"is_phrase" yaml:"is_phrase"`
}

// SentenceAnnotation is a translated sentence with an optional grammar note.
type SentenceAnnotation struct {
	// Original is the sentence as it appears in the source text.
	// Annotations are unique by Original within one result.
	Original string `json:"original" yaml:"original"`

	// Translation is the target-language rendering.
	Translation string `json:"translation" yaml:"translation"`

	// GrammarNote explains a construction worth the learner's attention.
	GrammarNote string `json:"grammar_note,omitempty" yaml:"grammar_note,omitempty"`
}

// GrammarPoint is a paragraph-level grammar observation returned by the
// upstream model.
type GrammarPoint struct {
	// Point names the construction (e.g. "past perfect", "conditional").
	Point string `json:"point" yaml:"point"`

	// Explanation describes the construction in the learner's language.
	Explanation string `json:"explanation" yaml:"explanation"`

	// Example quotes the usage from the source text.
	Example string `json:"example,omitempty" yaml:"example,omitempty"`
}

// TranslationResult is the annotated output for one paragraph. It is
// produced by the merge engine and stored authoritatively in the cache;
// consumers treat it as read-only.
type TranslationResult struct {
	// Words holds per-word annotations, unique by Original.
	Words []WordAnnotation `json:"words" yaml:"words"`

	// Sentences holds per-sentence annotations, unique by Original.
	Sentences []SentenceAnnotation `json:"sentences" yaml:"sentences"`

	// GrammarPoints holds paragraph-level grammar observations.
	GrammarPoints []GrammarPoint `json:"grammar_points,omitempty" yaml:"grammar_points,omitempty"`

	// FullText is the complete paragraph translation, when requested.
	FullText string `json:"full_text,omitempty" yaml:"full_text,omitempty"`

	// Cached reports whether this result was served from the cache
	// rather than a fresh upstream call.
	Cached bool `json:"cached,omitempty" yaml:"cached,omitempty"`
}

// Paragraph is one unit of page text submitted for translation.
// Paragraphs are never split across batches.
type Paragraph struct {
	// ID identifies the paragraph within its page; it round-trips
	// through the upstream prompt as a [PARA_n] tag.
	ID int `json:"id" yaml:"id"`

	// Text is the paragraph content.
	Text string `json:"text" yaml:"text"`
}
