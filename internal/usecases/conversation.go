package usecases

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/victorwamb/IA-PF/internal/entities"
)

var (
	ErrEmptyMessage         = errors.New("message is empty")
	ErrResolutionPending    = errors.New("a previous message is still being resolved")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Conversation owns one chat log. Only one message can be in resolution at a time.
type Conversation struct {
	ID string

	engine *Engine

	mu         sync.Mutex
	lang       string
	history    entities.ConversationHistory
	processing bool
	lastSeen   time.Time
}

func NewConversation(id, lang string, engine *Engine) *Conversation {
	if lang == "" {
		lang = engine.DefaultLanguage()
	}
	return &Conversation{ID: id, lang: lang, engine: engine, lastSeen: time.Now()}
}

// Submit resolves text against the turns exchanged so far and appends both the user
// message and the answer to the log. A call made while another is outstanding returns
// ErrResolutionPending and leaves the log unchanged.
func (c *Conversation) Submit(ctx context.Context, text string) (entities.ResolutionResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entities.ResolutionResult{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return entities.ResolutionResult{}, ErrResolutionPending
	}
	c.processing = true
	c.lastSeen = time.Now()
	prior := append(entities.ConversationHistory(nil), c.history...)
	c.history = append(c.history, entities.ConversationMessage{Sender: entities.SenderUser, Text: text})
	lang := c.lang
	c.mu.Unlock()

	result := c.engine.ResolveIn(ctx, lang, text, prior)

	c.mu.Lock()
	c.history = append(c.history, result.Message())
	c.processing = false
	c.lastSeen = time.Now()
	c.mu.Unlock()

	return result, nil
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() entities.ConversationHistory {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(entities.ConversationHistory(nil), c.history...)
}

func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

func (c *Conversation) SetLanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lang != "" {
		c.lang = lang
	}
}

func (c *Conversation) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// Reset clears the log. Has no effect on a resolution in flight other than dropping
// the messages it appended before the reset.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

func (c *Conversation) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}
