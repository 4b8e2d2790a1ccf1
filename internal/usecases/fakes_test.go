package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/victorwamb/IA-PF/internal/content"
	"github.com/victorwamb/IA-PF/internal/entities"
)

// fakeResponder answers with a fixed text, or nothing when ok is false.
type fakeResponder struct {
	mu      sync.Mutex
	text    string
	ok      bool
	block   chan struct{}
	calls   int
	history []entities.ConversationHistory
}

func (f *fakeResponder) Complete(ctx context.Context, message string, history entities.ConversationHistory) (string, bool) {
	f.mu.Lock()
	f.calls++
	f.history = append(f.history, history)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", false
		}
	}
	return f.text, f.ok
}

func (f *fakeResponder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCompleter struct {
	text    string
	err     error
	system  string
	history []entities.ChatTurn
	message string
}

func (f *fakeCompleter) Complete(_ context.Context, system string, history []entities.ChatTurn, message string) (string, error) {
	f.system, f.history, f.message = system, history, message
	return f.text, f.err
}

type fakeRecorder struct {
	mu      sync.Mutex
	sources []entities.Source
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, source entities.Source) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	return f.err
}

func (f *fakeRecorder) History(context.Context, int) ([]entities.DailyUsage, error) {
	return nil, errors.New("not implemented")
}

func testEngine(t *testing.T, responder *fakeResponder) *Engine {
	t.Helper()
	entries, err := content.DefaultAnswers()
	require.NoError(t, err)
	answers, err := NewAnswerSet(entries)
	require.NoError(t, err)
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	if responder == nil {
		return NewEngine(nil, answers, catalog)
	}
	return NewEngine(responder, answers, catalog)
}
