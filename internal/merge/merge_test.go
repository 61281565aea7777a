// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintelligence/lexiflow/pkg/types"
)

func word(original, translation string) types.WordAnnotation {
	return types.WordAnnotation{Original: original, Translation: translation}
}

func sentence(original, translation string) types.SentenceAnnotation {
	return types.SentenceAnnotation{Original: original, Translation: translation}
}

func TestResults_IdempotentOnIdenticalInput(t *testing.T) {
	a := types.TranslationResult{
		Words:     []types.WordAnnotation{word("ubiquitous", "无处不在的"), word("feline", "猫科的")},
		Sentences: []types.SentenceAnnotation{sentence("The cat sat.", "猫坐着。")},
		FullText:  "full",
	}

	got := Results(a, a)
	assert.Equal(t, a, got)
}

func TestResults_IncomingOverwritesByOriginal(t *testing.T) {
	existing := types.TranslationResult{
		Words: []types.WordAnnotation{word("x", "a")},
	}
	incoming := types.TranslationResult{
		Words: []types.WordAnnotation{word("x", "b")},
	}

	got := Results(existing, incoming)
	require.Len(t, got.Words, 1)
	assert.Equal(t, "x", got.Words[0].Original)
	assert.Equal(t, "b", got.Words[0].Translation)
}

func TestResults_PreservesExistingOnlyKeys(t *testing.T) {
	existing := types.TranslationResult{
		Words:     []types.WordAnnotation{word("alpha", "A"), word("beta", "B")},
		Sentences: []types.SentenceAnnotation{sentence("s1", "t1")},
	}
	incoming := types.TranslationResult{
		Words:     []types.WordAnnotation{word("beta", "B2"), word("gamma", "G")},
		Sentences: []types.SentenceAnnotation{sentence("s2", "t2")},
	}

	got := Results(existing, incoming)

	require.Len(t, got.Words, 3)
	// Existing keys keep their positions; new keys append.
	assert.Equal(t, word("alpha", "A"), got.Words[0])
	assert.Equal(t, word("beta", "B2"), got.Words[1])
	assert.Equal(t, word("gamma", "G"), got.Words[2])

	require.Len(t, got.Sentences, 2)
	assert.Equal(t, sentence("s1", "t1"), got.Sentences[0])
	assert.Equal(t, sentence("s2", "t2"), got.Sentences[1])
}

func TestResults_FullTextIncomingWinsWhenSet(t *testing.T) {
	existing := types.TranslationResult{FullText: "old"}

	got := Results(existing, types.TranslationResult{})
	assert.Equal(t, "old", got.FullText, "empty incoming full text must not erase")

	got = Results(existing, types.TranslationResult{FullText: "new"})
	assert.Equal(t, "new", got.FullText)
}

func TestResults_GrammarPointsDedupedByPoint(t *testing.T) {
	existing := types.TranslationResult{
		GrammarPoints: []types.GrammarPoint{{Point: "past perfect", Explanation: "old"}},
	}
	incoming := types.TranslationResult{
		GrammarPoints: []types.GrammarPoint{
			{Point: "past perfect", Explanation: "new"},
			{Point: "conditional", Explanation: "c"},
		},
	}

	got := Results(existing, incoming)
	require.Len(t, got.GrammarPoints, 2)
	assert.Equal(t, "new", got.GrammarPoints[0].Explanation)
}

func TestResults_PureDoesNotMutateInputs(t *testing.T) {
	existing := types.TranslationResult{
		Words: []types.WordAnnotation{word("x", "a")},
	}
	incoming := types.TranslationResult{
		Words: []types.WordAnnotation{word("x", "b"), word("y", "c")},
	}

	_ = Results(existing, incoming)

	assert.Equal(t, "a", existing.Words[0].Translation)
	assert.Len(t, existing.Words, 1)
	assert.Len(t, incoming.Words, 2)
}

func TestResults_DuplicatesWithinOneSideLastWins(t *testing.T) {
	incoming := types.TranslationResult{
		Words: []types.WordAnnotation{word("x", "first"), word("x", "second")},
	}
	got := Results(types.TranslationResult{}, incoming)
	require.Len(t, got.Words, 1)
	assert.Equal(t, "second", got.Words[0].Translation)
}
