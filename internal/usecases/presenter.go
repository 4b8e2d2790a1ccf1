package usecases

import (
	"sync"
	"time"
)

// DefaultTypingInterval is the delay between two revealed characters.
const DefaultTypingInterval = 25 * time.Millisecond

type PresenterState int

const (
	PresenterIdle PresenterState = iota
	PresenterTyping
	PresenterComplete
)

func (s PresenterState) String() string {
	switch s {
	case PresenterTyping:
		return "typing"
	case PresenterComplete:
		return "complete"
	default:
		return "idle"
	}
}

// TypingPresenter reveals an answer one character at a time. At most one reveal is active
// per presenter: starting a new one, or calling Stop, discards the previous reveal and none
// of its callbacks run after that call returns.
//
// Callbacks run on the presenter's timer goroutine while the presenter is locked, so they
// must not call Present or Stop themselves.
type TypingPresenter struct {
	interval time.Duration

	mu    sync.Mutex
	gen   uint64
	state PresenterState
	stop  chan struct{}
}

func NewTypingPresenter(interval time.Duration) *TypingPresenter {
	if interval <= 0 {
		interval = DefaultTypingInterval
	}
	return &TypingPresenter{interval: interval}
}

// Present starts revealing fullText. onCharacter receives successively longer prefixes
// (one more rune each tick); onComplete runs exactly once after the full text was emitted.
func (p *TypingPresenter) Present(fullText string, onCharacter func(partial string), onComplete func()) {
	p.mu.Lock()
	p.cancelLocked()
	stop := make(chan struct{})
	p.stop = stop
	p.state = PresenterTyping
	gen := p.gen
	p.mu.Unlock()

	go p.run(gen, stop, []rune(fullText), onCharacter, onComplete)
}

// Stop cancels the active reveal, if any. Used on teardown of the hosting surface.
func (p *TypingPresenter) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	p.state = PresenterIdle
}

func (p *TypingPresenter) State() PresenterState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *TypingPresenter) cancelLocked() {
	p.gen++
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

func (p *TypingPresenter) run(gen uint64, stop <-chan struct{}, text []rune, onCharacter func(string), onComplete func()) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	index := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return
		}
		if index < len(text) {
			index++
			if onCharacter != nil {
				onCharacter(string(text[:index]))
			}
		}
		if index >= len(text) {
			p.state = PresenterComplete
			p.stop = nil
			if onComplete != nil {
				onComplete()
			}
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()
	}
}
