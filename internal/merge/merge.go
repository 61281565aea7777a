// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge reconciles a freshly returned translation result with a
// previously cached or partial result for the same paragraph. Words and
// sentences are keyed by their original text; incoming entries win over
// existing ones with the same key, and entries present only in the
// existing result are preserved. This lets a paragraph be incrementally
// re-translated (e.g. after the learner's level changes) without losing
// annotations for untouched spans.
package merge

import "github.com/meshintelligence/lexiflow/pkg/types"

// Results combines existing and incoming into a new TranslationResult.
// The merge is pure: neither input is mutated. Key order is existing
// entries first (in their original order), then incoming entries that
// introduced new keys. Callers must apply merges in increasing recency
// order, since the incoming side wins on duplicate keys.
func Results(existing, incoming types.TranslationResult) types.TranslationResult {
	out := types.TranslationResult{
		Words:     mergeWords(existing.Words, incoming.Words),
		Sentences: mergeSentences(existing.Sentences, incoming.Sentences),
	}

	// Scalar fields: incoming wins when set.
	out.FullText = existing.FullText
	if incoming.FullText != "" {
		out.FullText = incoming.FullText
	}
	out.GrammarPoints = mergeGrammarPoints(existing.GrammarPoints, incoming.GrammarPoints)
	return out
}

func mergeWords(existing, incoming []types.WordAnnotation) []types.WordAnnotation {
	if len(existing) == 0 && len(incoming) == 0 {
		return nil
	}
	out := make([]types.WordAnnotation, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing))

	for _, w := range existing {
		if i, ok := index[w.Original]; ok {
			out[i] = w
			continue
		}
		index[w.Original] = len(out)
		out = append(out, w)
	}
	for _, w := range incoming {
		if i, ok := index[w.Original]; ok {
			out[i] = w
			continue
		}
		index[w.Original] = len(out)
		out = append(out, w)
	}
	return out
}

func mergeSentences(existing, incoming []types.SentenceAnnotation) []types.SentenceAnnotation {
	if len(existing) == 0 && len(incoming) == 0 {
		return nil
	}
	out := make([]types.SentenceAnnotation, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing))

	for _, s := range existing {
		if i, ok := index[s.Original]; ok {
			out[i] = s
			continue
		}
		index[s.Original] = len(out)
		out = append(out, s)
	}
	for _, s := range incoming {
		if i, ok := index[s.Original]; ok {
			out[i] = s
			continue
		}
		index[s.Original] = len(out)
		out = append(out, s)
	}
	return out
}

func mergeGrammarPoints(existing, incoming []types.GrammarPoint) []types.GrammarPoint {
	if len(existing) == 0 && len(incoming) == 0 {
		return nil
	}
	out := make([]types.GrammarPoint, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing))

	for _, g := range existing {
		if i, ok := index[g.Point]; ok {
			out[i] = g
			continue
		}
		index[g.Point] = len(out)
		out = append(out, g)
	}
	for _, g := range incoming {
		if i, ok := index[g.Point]; ok {
			out[i] = g
			continue
		}
		index[g.Point] = len(out)
		out = append(out, g)
	}
	return out
}
