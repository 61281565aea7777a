// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fingerprint

import (
	"testing"

	"github.com/meshintelligence/lexiflow/pkg/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "the quick brown fox", "the quick brown fox"},
		{"leading and trailing", "  hello world  ", "hello world"},
		{"internal runs", "hello   \t world", "hello world"},
		{"newlines and tabs", "one\ntwo\t\tthree\r\nfour", "one two three four"},
		{"unicode spaces", "a b c", "a b c"},
		{"empty", "", ""},
		{"whitespace only", " \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyDeterministic(t *testing.T) {
	a := Key("The cat sat on the mat.", types.ModeSelective)
	b := Key("The cat sat on the mat.", types.ModeSelective)
	if a != b {
		t.Errorf("same input produced different keys: %s vs %s", a, b)
	}
	if len(a) != 8 {
		t.Errorf("key %q is not 8 hex digits", a)
	}
}

func TestKeyWhitespaceInvariant(t *testing.T) {
	variants := []string{
		"The cat  sat on\tthe mat.",
		"  The cat sat on the mat.  ",
		"The\ncat\nsat\non\nthe\nmat.",
	}
	want := Key("The cat sat on the mat.", types.ModeFull)
	for _, v := range variants {
		if got := Key(v, types.ModeFull); got != want {
			t.Errorf("Key(%q) = %s, want %s", v, got, want)
		}
	}
}

func TestKeyDistinguishesMode(t *testing.T) {
	text := "The cat sat on the mat."
	if Key(text, types.ModeSelective) == Key(text, types.ModeFull) {
		t.Error("different modes produced the same key")
	}
}

func TestKeyDistinguishesText(t *testing.T) {
	if Key("alpha", types.ModeSelective) == Key("beta", types.ModeSelective) {
		t.Error("different texts produced the same key")
	}
}
