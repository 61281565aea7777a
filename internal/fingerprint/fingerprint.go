// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fingerprint derives stable cache keys from paragraph text and
// translation mode. The key is a 32-bit FNV-1a hash: collision-tolerant
// is fine for a cache key, and the hash is stable across process
// restarts for identical input.
package fingerprint

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/meshintelligence/lexiflow/pkg/types"
)

// Normalize collapses every whitespace run to a single space and trims
// both ends, so trivial formatting differences do not cause cache misses.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Key returns the cache key for a (text, mode) pair as an 8-hex-digit
// string. Whitespace-only variations of text map to the same key.
func Key(text string, mode types.TranslationMode) string {
	h := fnv.New32a()
	h.Write([]byte(Normalize(text)))
	h.Write([]byte{0})
	h.Write([]byte(mode))
	return fmt.Sprintf("%08x", h.Sum32())
}
