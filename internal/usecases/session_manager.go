package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/victorwamb/IA-PF/internal/entities"
	"github.com/victorwamb/IA-PF/internal/interfaces"
)

// SessionManager keeps the live conversations of every chat surface, keyed by an opaque id.
type SessionManager struct {
	engine   *Engine
	recorder interfaces.UsageRecorder
	logger   *slog.Logger

	sessions map[string]*Conversation
	mu       sync.RWMutex
}

func NewSessionManager(engine *Engine, recorder interfaces.UsageRecorder, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		engine:   engine,
		recorder: recorder,
		logger:   logger,
		sessions: make(map[string]*Conversation),
	}
}

// GetOrCreate returns the conversation for id, creating it in lang if needed.
func (sm *SessionManager) GetOrCreate(id, lang string) *Conversation {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	conv, exists := sm.sessions[id]
	if !exists {
		conv = NewConversation(id, lang, sm.engine)
		sm.sessions[id] = conv
	}
	return conv
}

func (sm *SessionManager) Get(id string) (*Conversation, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	conv, ok := sm.sessions[id]
	return conv, ok
}

// Delete tears a conversation down; its history is discarded.
func (sm *SessionManager) Delete(id string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	_, ok := sm.sessions[id]
	delete(sm.sessions, id)
	return ok
}

func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Submit resolves text in the conversation id (created on demand) and records which
// branch answered. Recording failures are logged only.
func (sm *SessionManager) Submit(ctx context.Context, id, lang, text string) (entities.ResolutionResult, error) {
	conv := sm.GetOrCreate(id, lang)
	result, err := conv.Submit(ctx, text)
	if err != nil {
		return result, err
	}
	if sm.recorder != nil {
		if err := sm.recorder.Record(ctx, result.Source); err != nil {
			sm.logger.Warn("failed to record resolution", "session", id, "source", result.Source, "error", err)
		}
	}
	return result, nil
}

// Cleanup drops conversations idle for longer than maxIdle, skipping ones mid-resolution.
func (sm *SessionManager) Cleanup(maxIdle time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, conv := range sm.sessions {
		if conv.Pending() {
			continue
		}
		if now.Sub(conv.idleSince()) > maxIdle {
			delete(sm.sessions, id)
			removed++
		}
	}
	return removed
}

// Run evicts idle conversations every tick until ctx is done.
func (sm *SessionManager) Run(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sm.Cleanup(maxIdle); n > 0 {
				sm.logger.Info("evicted idle conversations", "count", n)
			}
		}
	}
}
