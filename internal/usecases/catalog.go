package usecases

import (
	"fmt"

	"github.com/victorwamb/IA-PF/internal/content"
)

const (
	LangEnglish = "en"
	LangFrench  = "fr"
)

// fallbackUnsure keeps the default branch non-empty even with an incomplete catalog.
const fallbackUnsure = "I'm not sure I understand. Please ask me something else."

// Catalog holds the chat strings per language. Unknown languages resolve to English.
type Catalog struct {
	tables map[string]content.Strings
}

func NewCatalog(tables map[string]content.Strings) (*Catalog, error) {
	if _, ok := tables[LangEnglish]; !ok {
		return nil, fmt.Errorf("catalog: missing %q strings", LangEnglish)
	}
	copied := make(map[string]content.Strings, len(tables))
	for lang, s := range tables {
		s.Suggestions = append([]string(nil), s.Suggestions...)
		copied[lang] = s
	}
	return &Catalog{tables: copied}, nil
}

// DefaultCatalog builds a catalog from the bundled translations.
func DefaultCatalog() (*Catalog, error) {
	tables, err := content.DefaultTranslations()
	if err != nil {
		return nil, err
	}
	return NewCatalog(tables)
}

func (c *Catalog) Lookup(lang string) content.Strings {
	if c == nil {
		return content.Strings{Unsure: fallbackUnsure}
	}
	if s, ok := c.tables[lang]; ok {
		return s
	}
	return c.tables[LangEnglish]
}

func (c *Catalog) Supports(lang string) bool {
	if c == nil {
		return false
	}
	_, ok := c.tables[lang]
	return ok
}

// Unsure is the localized "I don't understand" reply.
func (c *Catalog) Unsure(lang string) string {
	if s := c.Lookup(lang).Unsure; s != "" {
		return s
	}
	return fallbackUnsure
}
