package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/victorwamb/IA-PF/internal/content"
	"github.com/victorwamb/IA-PF/internal/entities"
	"github.com/victorwamb/IA-PF/internal/interfaces"
)

var (
	ErrCompletionUnavailable = errors.New("completion service not available")
	ErrInvalidRole           = errors.New("history role must be user or assistant")
)

// ChatUsecase answers POST /api/chat with the language model, primed with the owner profile.
type ChatUsecase struct {
	completer    interfaces.Completer
	systemPrompt string
	logger       *slog.Logger
}

// NewChatUsecase accepts a nil completer; every reply then fails with ErrCompletionUnavailable.
func NewChatUsecase(completer interfaces.Completer, profile content.Profile, logger *slog.Logger) *ChatUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatUsecase{
		completer:    completer,
		systemPrompt: BuildSystemPrompt(profile),
		logger:       logger,
	}
}

func (uc *ChatUsecase) Available() bool {
	return uc.completer != nil
}

func (uc *ChatUsecase) SystemPrompt() string {
	return uc.systemPrompt
}

// Reply replays history after the system prompt and answers message.
func (uc *ChatUsecase) Reply(ctx context.Context, message string, history []entities.ChatTurn) (string, error) {
	if uc.completer == nil {
		return "", ErrCompletionUnavailable
	}
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	for _, turn := range history {
		if turn.Role != entities.RoleUser && turn.Role != entities.RoleAssistant {
			return "", fmt.Errorf("%w: %q", ErrInvalidRole, turn.Role)
		}
	}

	text, err := uc.completer.Complete(ctx, uc.systemPrompt, history, message)
	if err != nil {
		return "", fmt.Errorf("failed to get AI response: %w", err)
	}
	return text, nil
}

// CompletionResponder lets the server-hosted engine use the model in-process.
type CompletionResponder struct {
	chat *ChatUsecase
}

func NewCompletionResponder(chat *ChatUsecase) *CompletionResponder {
	return &CompletionResponder{chat: chat}
}

func (r *CompletionResponder) Complete(ctx context.Context, message string, history entities.ConversationHistory) (string, bool) {
	if r.chat == nil || !r.chat.Available() {
		return "", false
	}
	text, err := r.chat.Reply(ctx, message, history.Turns())
	if err != nil {
		r.chat.logger.Warn("completion failed, falling back", "error", err)
		return "", false
	}
	return text, true
}

// BuildSystemPrompt renders the assistant instructions for the given owner.
func BuildSystemPrompt(p content.Profile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a helpful AI assistant representing %s's portfolio.\n", p.Name)
	if p.Summary != "" {
		fmt.Fprintf(&sb, "You are a %s\n", p.Summary)
	}

	sb.WriteString("\nKey information:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", p.Name)
	fmt.Fprintf(&sb, "- Role: %s\n", p.Role)
	fmt.Fprintf(&sb, "- Location: %s\n", p.Location)
	fmt.Fprintf(&sb, "- Email: %s\n", p.Email)
	fmt.Fprintf(&sb, "- GitHub: %s\n", p.GitHub)

	sb.WriteString("\nSkills:\n")
	fmt.Fprintf(&sb, "- Languages: %s\n", strings.Join(p.Skills.Languages, ", "))
	fmt.Fprintf(&sb, "- Frameworks: %s\n", strings.Join(p.Skills.Frameworks, ", "))
	fmt.Fprintf(&sb, "- AI/ML: %s\n", strings.Join(p.Skills.AIML, ", "))
	fmt.Fprintf(&sb, "- APIs: %s\n", strings.Join(p.Skills.APIs, ", "))

	if len(p.Projects) > 0 {
		sb.WriteString("\nNotable Projects:\n")
		for _, pr := range p.Projects {
			fmt.Fprintf(&sb, "- %s: %s (%s)\n", pr.Name, pr.Description, strings.Join(pr.Technologies, ", "))
		}
	}
	if len(p.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, e := range p.Education {
			fmt.Fprintf(&sb, "- %s (%s): %s\n", e.School, e.Period, e.Field)
		}
	}

	fmt.Fprintf(&sb, "\nCurrently looking for: %s\n", p.LookingFor)
	fmt.Fprintf(&sb, "\nPassions: %s\n", strings.Join(p.Passions, ", "))
	fmt.Fprintf(&sb, "Hobbies: %s\n", strings.Join(p.Hobbies, ", "))
	fmt.Fprintf(&sb, "\nFuture projects: %s\n", p.FutureProjects)

	sb.WriteString(`
Instructions:
- Always be friendly, professional, and concise
- Answer questions about the owner's background, skills, projects, and experience
- You can speak both French and English
- Keep responses SHORT and focused (2-3 sentences maximum per section)
- Use clear formatting: bullet points, short paragraphs, no excessive detail
- If asked about projects, briefly mention them and suggest visiting /works for details
- Never make up information that isn't provided here
- When listing items, keep them brief and use commas instead of detailed explanations`)
	return sb.String()
}
