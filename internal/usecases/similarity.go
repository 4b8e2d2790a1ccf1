package usecases

import (
	"strings"
	"unicode"
)

// Tokenize lowercases s, drops every rune that is not a letter, digit or space and
// splits the rest on whitespace. Empty tokens are discarded.
func Tokenize(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(s))
	return strings.Fields(cleaned)
}

// Score is a Dice-style token overlap between input and target in [0,1].
// Every input token found in target counts, duplicates included; matching only runs
// from input to target.
func Score(input, target string) float64 {
	inWords := Tokenize(input)
	tarWords := Tokenize(target)

	targetSet := make(map[string]struct{}, len(tarWords))
	for _, w := range tarWords {
		targetSet[w] = struct{}{}
	}

	matches := 0
	for _, w := range inWords {
		if _, ok := targetSet[w]; ok {
			matches++
		}
	}

	total := len(inWords) + len(tarWords)
	if total == 0 {
		total = 1
	}
	score := 2 * float64(matches) / float64(total)
	if score > 1 {
		// repeated input tokens can overshoot
		score = 1
	}
	return score
}
