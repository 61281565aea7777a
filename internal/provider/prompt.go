// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/meshintelligence/lexiflow/pkg/types"
)

// translatePromptTmpl renders one batch of paragraphs for the upstream
// model. Paragraphs are delimited by [PARA_n] tags so the response can
// be matched back by position index; the model is asked to echo the ids.
var translatePromptTmpl = template.Must(template.New("translate").Parse(`You are a reading assistant for a second-language English learner{{if .ExamLevel}} preparing for {{.ExamLevel}}{{end}} with an estimated vocabulary of {{.VocabularySize}} words.

For each paragraph below:
- words: annotate words or phrases the learner is unlikely to know at that vocabulary size. For each, give the original text exactly as written, its translation, its [start, end) character position within the paragraph, a difficulty grade from 1 (beginner) to 10 (near-native), and whether it is a multi-word phrase.
- sentences: translate sentences whose structure would challenge the learner, with a short grammar note when a construction deserves attention.
- grammar_points: list notable constructions with a brief explanation and the example from the text.
{{if .FullText}}- full_text: translate the entire paragraph.
{{end}}
Respond with a JSON object containing a "paragraphs" array. Each element must carry the numeric "id" from its [PARA_n] tag plus "words", "sentences", and "grammar_points" arrays{{if .FullText}} and "full_text"{{end}}. Do not include any text outside the JSON object.

Example response:
{"paragraphs": [{"id": 0, "full_text": "", "words": [{"original": "ubiquitous", "translation": "无处不在的", "position": [4, 14], "difficulty": 8, "is_phrase": false}], "sentences": [{"original": "Had it not been for the rain, we would have left.", "translation": "要不是下雨，我们早就走了。", "grammar_note": "inverted conditional"}], "grammar_points": [{"point": "inverted conditional", "explanation": "omitting 'if' inverts subject and auxiliary", "example": "Had it not been for the rain"}]}]}

Paragraphs:
{{range .Paragraphs}}[PARA_{{.ID}}]
{{.Text}}

{{end}}`))

// PromptRequest carries everything the prompt template needs.
type PromptRequest struct {
	// VocabularySize is the learner's current vocabulary estimate.
	VocabularySize int

	// ExamLevel names the learner's exam context, empty for none.
	ExamLevel string

	// FullText requests complete paragraph translations in addition to
	// annotations.
	FullText bool

	// Paragraphs is the batch, in input order. The order here, the
	// [PARA_n] tags, and the parsed response ids must all agree.
	Paragraphs []types.Paragraph
}

// RenderPrompt produces the upstream prompt for one batch.
func RenderPrompt(req PromptRequest) (string, error) {
	var buf bytes.Buffer
	if err := translatePromptTmpl.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// ParagraphResult is one paragraph's parsed annotations, keyed by the
// id the batch sent.
type ParagraphResult struct {
	ID     int
	Result types.TranslationResult
}

// Wire shapes for the model's JSON response.
type wireResponse struct {
	Paragraphs []wireParagraph `json:"paragraphs"`
}

type wireParagraph struct {
	ID            int                        `json:"id"`
	FullText      string                     `json:"full_text"`
	Words         []types.WordAnnotation     `json:"words"`
	Sentences     []types.SentenceAnnotation `json:"sentences"`
	GrammarPoints []types.GrammarPoint       `json:"grammar_points"`
}

// ParseResponse decodes the raw model text into per-paragraph results.
// Markdown code fences around the JSON are tolerated. Any structural
// failure is a *ParseError, which the retry predicate treats as
// permanent.
func ParseResponse(raw string) ([]ParagraphResult, error) {
	cleaned := stripCodeFence(raw)

	var resp wireResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, &ParseError{Err: err, Raw: truncate(raw, 500)}
	}
	if resp.Paragraphs == nil {
		return nil, &ParseError{Err: fmt.Errorf("missing paragraphs array"), Raw: truncate(raw, 500)}
	}

	out := make([]ParagraphResult, 0, len(resp.Paragraphs))
	for _, p := range resp.Paragraphs {
		out = append(out, ParagraphResult{
			ID: p.ID,
			Result: types.TranslationResult{
				Words:         dedupeWords(p.Words),
				Sentences:     dedupeSentences(p.Sentences),
				GrammarPoints: p.GrammarPoints,
				FullText:      p.FullText,
			},
		})
	}
	return out, nil
}

// stripCodeFence unwraps ```json ... ``` fencing some models insist on.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// dedupeWords keeps the last annotation per original text, preserving
// first-seen order, so results honor uniqueness by original.
func dedupeWords(words []types.WordAnnotation) []types.WordAnnotation {
	if len(words) == 0 {
		return nil
	}
	out := make([]types.WordAnnotation, 0, len(words))
	index := make(map[string]int, len(words))
	for _, w := range words {
		if i, ok := index[w.Original]; ok {
			out[i] = w
			continue
		}
		index[w.Original] = len(out)
		out = append(out, w)
	}
	return out
}

func dedupeSentences(sentences []types.SentenceAnnotation) []types.SentenceAnnotation {
	if len(sentences) == 0 {
		return nil
	}
	out := make([]types.SentenceAnnotation, 0, len(sentences))
	index := make(map[string]int, len(sentences))
	for _, s := range sentences {
		if i, ok := index[s.Original]; ok {
			out[i] = s
			continue
		}
		index[s.Original] = len(out)
		out = append(out, s)
	}
	return out
}
