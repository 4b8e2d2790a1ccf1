package usecases

import (
	"fmt"
	"strings"

	"github.com/victorwamb/IA-PF/internal/entities"
)

// MatchThreshold is the score an input must exceed for a canned answer to apply.
const MatchThreshold = 0.3

// AnswerSet is an immutable, ordered list of canned answers.
type AnswerSet struct {
	entries []entities.PredefinedEntry
}

// NewAnswerSet copies entries, keeping their order. Entries without a pattern or an
// answer are rejected so a match can never produce an empty reply.
func NewAnswerSet(entries []entities.PredefinedEntry) (*AnswerSet, error) {
	copied := make([]entities.PredefinedEntry, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Pattern) == "" {
			return nil, fmt.Errorf("answer %d: empty pattern", i)
		}
		if strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("answer %d (%q): empty answer", i, e.Pattern)
		}
		copied[i] = e
	}
	return &AnswerSet{entries: copied}, nil
}

// FindBestMatch returns the first entry, in declaration order, whose pattern scores above
// MatchThreshold. A later entry with a higher score never wins over an earlier qualifying one.
func (s *AnswerSet) FindBestMatch(input string) (entities.PredefinedEntry, bool) {
	if s == nil {
		return entities.PredefinedEntry{}, false
	}
	for _, e := range s.entries {
		if Score(input, e.Pattern) > MatchThreshold {
			return e, true
		}
	}
	return entities.PredefinedEntry{}, false
}

func (s *AnswerSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns a copy of the answers in declaration order.
func (s *AnswerSet) Entries() []entities.PredefinedEntry {
	if s == nil {
		return nil
	}
	return append([]entities.PredefinedEntry(nil), s.entries...)
}
