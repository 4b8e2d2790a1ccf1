package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victorwamb/IA-PF/internal/content"
)

func TestCatalogLookupFallsBackToEnglish(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.True(t, c.Supports(LangFrench))
	assert.False(t, c.Supports("de"))
	assert.Equal(t, c.Lookup(LangEnglish), c.Lookup("de"))
	assert.NotEqual(t, c.Lookup(LangEnglish).Thinking, c.Lookup(LangFrench).Thinking)
}

func TestNewCatalogRequiresEnglish(t *testing.T) {
	_, err := NewCatalog(map[string]content.Strings{"fr": {Unsure: "?"}})
	assert.Error(t, err)
}

func TestCatalogUnsureNeverEmpty(t *testing.T) {
	c, err := NewCatalog(map[string]content.Strings{"en": {}})
	require.NoError(t, err)
	assert.Equal(t, fallbackUnsure, c.Unsure("en"))

	var nilCatalog *Catalog
	assert.Equal(t, fallbackUnsure, nilCatalog.Unsure("fr"))
}
