package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victorwamb/IA-PF/internal/content"
	"github.com/victorwamb/IA-PF/internal/entities"
	"github.com/victorwamb/IA-PF/internal/usecases"
	"go.uber.org/goleak"
)

type fakeProjects struct {
	projects []entities.Project
	fromAPI  bool
	calls    int
}

func (f *fakeProjects) List(context.Context) ([]entities.Project, bool, error) {
	f.calls++
	return f.projects, f.fromAPI, nil
}

func newTestREPL(t *testing.T, input string) (*repl, *bytes.Buffer, *fakeProjects) {
	t.Helper()
	entries, err := content.DefaultAnswers()
	require.NoError(t, err)
	answers, err := usecases.NewAnswerSet(entries)
	require.NoError(t, err)
	catalog, err := usecases.DefaultCatalog()
	require.NoError(t, err)

	engine := usecases.NewEngine(nil, answers, catalog)
	out := &bytes.Buffer{}
	projects := &fakeProjects{projects: []entities.Project{{ID: 1, Title: "Fairval", Date: "2024"}}}
	return &repl{
		in:        strings.NewReader(input),
		out:       out,
		conv:      usecases.NewConversation("test", usecases.LangEnglish, engine),
		catalog:   catalog,
		presenter: usecases.NewTypingPresenter(time.Millisecond),
		projects:  projects,
	}, out, projects
}

func TestREPLAnswersFromCannedSet(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, out, projects := newTestREPL(t, "hello\n/quit\n")
	require.NoError(t, r.run(context.Background()))

	assert.Contains(t, out.String(), "Try asking me:")
	assert.Contains(t, out.String(), "Hello! How can I assist you?")
	assert.Zero(t, projects.calls)

	msgs := r.conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, entities.SenderUser, msgs[0].Sender)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, entities.SenderBot, msgs[1].Sender)
}

func TestREPLListsProjectsOnAction(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, out, projects := newTestREPL(t, "Can you tell me about his projects?\n")
	require.NoError(t, r.run(context.Background()))

	assert.Equal(t, 1, projects.calls)
	assert.Contains(t, out.String(), "View Projects →")
	assert.Contains(t, out.String(), "Fairval (2024)")
	assert.Contains(t, out.String(), "(offline list)")
}

func TestREPLFallsBackToUnsure(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, out, _ := newTestREPL(t, "xyz qwerty\n")
	require.NoError(t, r.run(context.Background()))

	assert.Contains(t, out.String(), "I'm not sure I understand. Please ask me something else.")
}

func TestREPLCommands(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, out, _ := newTestREPL(t, "hello\n/reset\n/lang de\n/lang fr\n/quit\n")
	require.NoError(t, r.run(context.Background()))

	assert.Empty(t, r.conv.Messages(), "reset clears the log")
	assert.Equal(t, usecases.LangFrench, r.conv.Language())
	assert.Contains(t, out.String(), "languages: en, fr")
}

func TestREPLNumberPicksSuggestion(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, _, _ := newTestREPL(t, "3\n")
	require.NoError(t, r.run(context.Background()))

	msgs := r.conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Where is he located?", msgs[0].Text)
	assert.Contains(t, msgs[1].Text, "Antibes")
}
