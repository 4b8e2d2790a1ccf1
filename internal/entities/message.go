package entities

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ConversationMessage is one entry of a conversation log. Never mutated once appended.
type ConversationMessage struct {
	Sender    Sender `json:"sender"`
	Text      string `json:"text"`
	HasAction bool   `json:"hasAction"`
}

// ConversationHistory is replayed to the remote responder in insertion order.
type ConversationHistory []ConversationMessage

// Turns converts the history into the role-tagged transcript sent to the completion endpoint.
func (h ConversationHistory) Turns() []ChatTurn {
	turns := make([]ChatTurn, 0, len(h))
	for _, m := range h {
		role := RoleAssistant
		if m.Sender == SenderUser {
			role = RoleUser
		}
		turns = append(turns, ChatTurn{Role: role, Content: m.Text})
	}
	return turns
}

// PredefinedEntry is a canned answer. Pattern holds comma-joined example phrasings.
type PredefinedEntry struct {
	Pattern   string `json:"pattern" yaml:"pattern"`
	Answer    string `json:"answer" yaml:"answer"`
	HasAction bool   `json:"hasAction" yaml:"has_action"`
}

type Source string

const (
	SourceRemote     Source = "remote"
	SourcePredefined Source = "predefined"
	SourceDefault    Source = "default"
)

type ResolutionResult struct {
	Text      string `json:"text"`
	HasAction bool   `json:"hasAction"`
	Source    Source `json:"source"`
}

// Message converts a resolved answer into the bot entry folded into the history.
func (r ResolutionResult) Message() ConversationMessage {
	return ConversationMessage{Sender: SenderBot, Text: r.Text, HasAction: r.HasAction}
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is the wire shape of one history entry on POST /api/chat.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
