package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, Tokenize("  Hello, World! "))
	assert.Equal(t, []string{"où", "estu"}, Tokenize("Où es-tu?"))
	assert.Equal(t, []string{"gpt4o", "2024"}, Tokenize("GPT-4o (2024)"))
	assert.Empty(t, Tokenize("?!..."))
	assert.Empty(t, Tokenize(""))
}

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		input, target string
		want          float64
	}{
		{"identical", "hello there", "hello there", 1},
		{"case and punctuation", "Hello!", "hello", 1},
		{"disjoint", "foo bar", "baz qux", 0},
		{"both empty", "", "", 0},
		{"empty input", "", "hello", 0},
		{"partial", "hello", "hello, hi", 2.0 / 3.0},
		{"duplicates counted per occurrence", "hi hi", "hi there", 2 * 2.0 / 4.0},
		{"repeated tokens stay in range", "hi hi hi", "hi", 1},
		{"unicode letters", "Développeur IA", "développeur backend", 2 * 1.0 / 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.input, tt.target), 1e-9)
		})
	}
}

func TestScoreCountsInputHitsOnly(t *testing.T) {
	// "a a b" vs "a": two input hits; "a" vs "a a b": one.
	assert.InDelta(t, 2*2.0/4.0, Score("a a b", "a"), 1e-9)
	assert.InDelta(t, 2*1.0/4.0, Score("a", "a a b"), 1e-9)
}

func TestScoreBounds(t *testing.T) {
	inputs := []string{"", "hello", "Hello hello HELLO", "who is he?", "où est-il ?", "42 42 42 42"}
	for _, a := range inputs {
		for _, b := range inputs {
			s := Score(a, b)
			assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", a, b)
			assert.LessOrEqual(t, s, 1.0, "%q vs %q", a, b)
		}
	}
}
