package usecases

import (
	"context"
	"log/slog"
	"strings"

	"github.com/victorwamb/IA-PF/internal/entities"
	"github.com/victorwamb/IA-PF/internal/interfaces"
)

// Engine turns one user message into exactly one answer.
// Priority: 1. remote responder → 2. canned answer → 3. localized "unsure" reply.
type Engine struct {
	responder   interfaces.Responder
	answers     *AnswerSet
	catalog     *Catalog
	defaultLang string
	logger      *slog.Logger
}

type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

func WithDefaultLanguage(lang string) EngineOption {
	return func(e *Engine) { e.defaultLang = lang }
}

// NewEngine wires the resolution chain. A nil responder means no remote service is configured.
func NewEngine(responder interfaces.Responder, answers *AnswerSet, catalog *Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		responder:   responder,
		answers:     answers,
		catalog:     catalog,
		defaultLang: LangEnglish,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve answers message in the engine's default language.
func (e *Engine) Resolve(ctx context.Context, message string, history entities.ConversationHistory) entities.ResolutionResult {
	return e.ResolveIn(ctx, e.defaultLang, message, history)
}

// ResolveIn answers message; lang only selects the default reply. history is never modified.
func (e *Engine) ResolveIn(ctx context.Context, lang, message string, history entities.ConversationHistory) entities.ResolutionResult {
	// 1. REMOTE RESPONDER
	if e.responder != nil {
		replay := append(entities.ConversationHistory(nil), history...)
		if text, ok := e.responder.Complete(ctx, message, replay); ok && strings.TrimSpace(text) != "" {
			e.logger.Debug("resolved message", "source", entities.SourceRemote)
			return entities.ResolutionResult{Text: text, Source: entities.SourceRemote}
		}
	}

	// 2. CANNED ANSWER
	if entry, ok := e.answers.FindBestMatch(message); ok {
		e.logger.Debug("resolved message", "source", entities.SourcePredefined, "pattern", entry.Pattern)
		return entities.ResolutionResult{Text: entry.Answer, HasAction: entry.HasAction, Source: entities.SourcePredefined}
	}

	// 3. DEFAULT FALLBACK
	e.logger.Debug("resolved message", "source", entities.SourceDefault)
	return entities.ResolutionResult{Text: e.catalog.Unsure(lang), Source: entities.SourceDefault}
}

func (e *Engine) DefaultLanguage() string {
	return e.defaultLang
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}
