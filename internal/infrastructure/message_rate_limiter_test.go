package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func newTestLimiter(rate float64, burst int) (*MessageRateLimiter, *time.Time) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewMessageRateLimiter(rate, burst)
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestRateLimiterBurstThenRefill(t *testing.T) {
	rl, clock := newTestLimiter(1, 3)

	assert.True(t, rl.Allow(1))
	assert.True(t, rl.Allow(1))
	assert.True(t, rl.Allow(1))
	assert.False(t, rl.Allow(1))
	assert.Equal(t, time.Second, rl.WaitTime(1))

	*clock = clock.Add(500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, rl.WaitTime(1))
	assert.False(t, rl.Allow(1))

	*clock = clock.Add(time.Second)
	assert.True(t, rl.Allow(1))

	// Other chats have their own bucket.
	assert.True(t, rl.Allow(2))
	assert.Zero(t, rl.WaitTime(3))
}

func TestRateLimiterReset(t *testing.T) {
	rl, _ := newTestLimiter(1, 1)

	assert.True(t, rl.Allow(1))
	assert.False(t, rl.Allow(1))
	rl.Reset(1)
	assert.True(t, rl.Allow(1))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, clock := newTestLimiter(1, 3)
	rl.Allow(1)
	*clock = clock.Add(time.Hour)
	rl.Allow(2)

	assert.Equal(t, 1, rl.Cleanup(10*time.Minute))
	stats := rl.Stats()
	assert.Equal(t, 1, stats["active_chats"])
	assert.Equal(t, 1.0, stats["rate"])
	assert.Equal(t, 3.0, stats["burst"])
}

func TestRateLimiterRunStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewMessageRateLimiter(1, 3)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Run(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	<-done
}
