package infrastructure

import (
	"context"
	"sync"
	"time"
)

// MessageRateLimiter implements token bucket rate limiting per chat
type MessageRateLimiter struct {
	mu        sync.Mutex
	buckets   map[int64]*tokenBucket
	rate      float64 // tokens per second
	maxTokens float64 // burst capacity
	now       func() time.Time
}

type tokenBucket struct {
	tokens     float64
	lastUpdate time.Time
}

// NewMessageRateLimiter creates a rate limiter with specified rate and burst
// rate: messages per second allowed
// burst: maximum burst capacity
func NewMessageRateLimiter(rate float64, burst int) *MessageRateLimiter {
	return &MessageRateLimiter{
		buckets:   make(map[int64]*tokenBucket),
		rate:      rate,
		maxTokens: float64(burst),
		now:       time.Now,
	}
}

// Allow checks if a chat can send a message (consumes 1 token if allowed)
func (rl *MessageRateLimiter) Allow(chatID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, exists := rl.buckets[chatID]
	if !exists {
		rl.buckets[chatID] = &tokenBucket{
			tokens:     rl.maxTokens - 1,
			lastUpdate: now,
		}
		return rl.maxTokens >= 1
	}

	// Refill tokens based on time elapsed
	elapsed := now.Sub(bucket.lastUpdate).Seconds()
	bucket.tokens += elapsed * rl.rate
	if bucket.tokens > rl.maxTokens {
		bucket.tokens = rl.maxTokens
	}
	bucket.lastUpdate = now

	if bucket.tokens >= 1 {
		bucket.tokens--
		return true
	}
	return false
}

// WaitTime returns how long to wait before next message is allowed
func (rl *MessageRateLimiter) WaitTime(chatID int64) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, exists := rl.buckets[chatID]
	if !exists {
		return 0
	}

	elapsed := rl.now().Sub(bucket.lastUpdate).Seconds()
	currentTokens := bucket.tokens + elapsed*rl.rate
	if currentTokens >= 1 {
		return 0
	}

	needed := 1 - currentTokens
	return time.Duration(needed / rl.rate * float64(time.Second))
}

// Reset removes rate limit state for a chat
func (rl *MessageRateLimiter) Reset(chatID int64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, chatID)
}

// Cleanup removes buckets not used within maxIdle.
func (rl *MessageRateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for chatID, bucket := range rl.buckets {
		if now.Sub(bucket.lastUpdate) > maxIdle {
			delete(rl.buckets, chatID)
			removed++
		}
	}
	return removed
}

// Run removes stale buckets periodically until ctx is done.
func (rl *MessageRateLimiter) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup(10 * time.Minute)
		}
	}
}

// Stats returns rate limiter statistics
func (rl *MessageRateLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"active_chats": len(rl.buckets),
		"rate":         rl.rate,
		"burst":        rl.maxTokens,
	}
}
