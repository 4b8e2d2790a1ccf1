package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/victorwamb/IA-PF/internal/entities"
	"github.com/victorwamb/IA-PF/internal/usecases"
)

// Theme holds the color scheme of the chat transcript.
type Theme struct {
	User   lipgloss.Color
	Bot    lipgloss.Color
	Hint   lipgloss.Color
	Action lipgloss.Color
}

var defaultTheme = Theme{
	User:   lipgloss.Color("#5FAFD7"), // light blue
	Bot:    lipgloss.Color("#00D787"), // green
	Hint:   lipgloss.Color("#6C6C6C"), // dim gray
	Action: lipgloss.Color("#FFAF00"), // amber
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) botStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Bot).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) actionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Action).Underline(true)
}

// projectLister is satisfied by infrastructure.ProjectClient.
type projectLister interface {
	List(ctx context.Context) ([]entities.Project, bool, error)
}

type repl struct {
	in        io.Reader
	out       io.Writer
	conv      *usecases.Conversation
	catalog   *usecases.Catalog
	presenter *usecases.TypingPresenter
	projects  projectLister
	theme     Theme
}

func (r *repl) run(ctx context.Context) error {
	if r.theme == (Theme{}) {
		r.theme = defaultTheme
	}
	defer r.presenter.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	r.welcome()
	for {
		r.prompt()
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if quit := r.handle(ctx, line); quit {
			return nil
		}
	}
}

// handle processes one input line and reports whether the session should end.
func (r *repl) handle(ctx context.Context, line string) bool {
	strs := r.catalog.Lookup(r.conv.Language())
	switch {
	case line == "":
		return false
	case line == "/quit" || line == "/exit":
		return true
	case line == "/reset":
		r.conv.Reset()
		r.welcome()
		return false
	case strings.HasPrefix(line, "/lang"):
		next := strings.TrimSpace(strings.TrimPrefix(line, "/lang"))
		if !r.catalog.Supports(next) {
			fmt.Fprintln(r.out, r.theme.hintStyle().Render("languages: en, fr"))
			return false
		}
		r.conv.SetLanguage(next)
		r.welcome()
		return false
	}

	// A bare number picks one of the suggested questions.
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(strs.Suggestions) {
		line = strs.Suggestions[n-1]
		fmt.Fprintln(r.out, r.theme.userStyle().Render("you: ")+line)
	}

	fmt.Fprint(r.out, r.theme.hintStyle().Render(strs.Thinking))
	result, err := r.conv.Submit(ctx, line)
	fmt.Fprint(r.out, "\r\033[K")
	if err != nil {
		fmt.Fprintln(r.out, r.theme.hintStyle().Render(strs.Error))
		return false
	}

	r.reveal(ctx, strings.TrimSpace(result.Text))
	if result.HasAction {
		r.listProjects(ctx, strs.ViewProjects)
	}
	return false
}

// reveal prints text through the typing presenter and returns once it is fully shown.
func (r *repl) reveal(ctx context.Context, text string) {
	fmt.Fprint(r.out, r.theme.botStyle().Render("bot: "))

	done := make(chan struct{})
	printed := 0
	r.presenter.Present(text,
		func(partial string) {
			fmt.Fprint(r.out, partial[printed:])
			printed = len(partial)
		},
		func() { close(done) },
	)

	select {
	case <-done:
	case <-ctx.Done():
		r.presenter.Stop()
	}
	fmt.Fprintln(r.out)
}

func (r *repl) listProjects(ctx context.Context, label string) {
	projects, fromAPI, err := r.projects.List(ctx)
	if err != nil {
		return
	}
	fmt.Fprintln(r.out, r.theme.actionStyle().Render(label))
	for _, p := range projects {
		fmt.Fprintf(r.out, "  • %s (%s)\n", p.Title, p.Date)
	}
	if !fromAPI {
		fmt.Fprintln(r.out, r.theme.hintStyle().Render("  (offline list)"))
	}
}

func (r *repl) welcome() {
	strs := r.catalog.Lookup(r.conv.Language())
	fmt.Fprintln(r.out, r.theme.hintStyle().Render(strs.TryAsking))
	for i, s := range strs.Suggestions {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, s)
	}
	fmt.Fprintln(r.out, r.theme.hintStyle().Render("/lang en|fr  /reset  /quit"))
}

func (r *repl) prompt() {
	fmt.Fprint(r.out, r.theme.userStyle().Render("you: "))
}
