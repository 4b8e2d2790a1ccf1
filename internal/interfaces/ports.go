package interfaces

import (
	"context"

	"github.com/victorwamb/IA-PF/internal/entities"
)

// Responder produces a remote answer for a message. ok is false whenever no answer is available;
// implementations never report failures any other way.
type Responder interface {
	Complete(ctx context.Context, message string, history entities.ConversationHistory) (text string, ok bool)
}

// Completer is the server-side language model behind POST /api/chat.
type Completer interface {
	Complete(ctx context.Context, system string, history []entities.ChatTurn, message string) (string, error)
}

type ProjectStore interface {
	List(ctx context.Context) ([]entities.Project, error)
	Get(ctx context.Context, id int) (*entities.Project, error)
	Create(ctx context.Context, p *entities.Project) error
	Update(ctx context.Context, id int, u entities.ProjectUpdate) (*entities.Project, error)
	Delete(ctx context.Context, id int) error
}

type UsageRecorder interface {
	Record(ctx context.Context, source entities.Source) error
	History(ctx context.Context, days int) ([]entities.DailyUsage, error)
}

type Messenger interface {
	SendMessage(to, content string) error
}
