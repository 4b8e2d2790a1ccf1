package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"null bytes", "he\x00llo", "hello"},
		{"invalid utf8", "caf\xffé", "café"},
		{"keeps newlines and tabs", "a\nb\tc", "a\nb\tc"},
		{"drops other controls", "a\rb\x1bc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeString(tt.in))
		})
	}
}

func TestValidateLengthCountsCharacters(t *testing.T) {
	assert.True(t, ValidateLength("été", 3, 3))
	assert.False(t, ValidateLength("", 1, 10))
	assert.False(t, ValidateLength("abcd", 1, 3))
}

func TestValidConversationID(t *testing.T) {
	assert.True(t, ValidConversationID("6f1c1f5e-8a3b-4a8e-9a57-0c0e4a4a2b11"))
	assert.False(t, ValidConversationID("../etc/passwd"))
}
