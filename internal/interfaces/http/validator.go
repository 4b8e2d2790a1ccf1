package http

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Request limits.
const (
	MaxTitleLength   = 256
	MaxMessageLength = 10000
	MaxHistoryTurns  = 100
)

// ValidConversationID checks the id is one CreateConversation could have issued.
func ValidConversationID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// SanitizeString drops invalid UTF-8 and control characters other than newline and tab.
func SanitizeString(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, s)
}

// ValidateLength reports whether s has between min and max characters.
func ValidateLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
