package infrastructure

import (
	"sync"
	"time"
)

// ReplyRateLimiter is a per-sender token bucket guarding the auto-reply
// paths so one chatty customer cannot drain the AI quota.
type ReplyRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*tokenBucket
	rate        float64 // tokens per second
	maxTokens   float64 // burst capacity
	cleanupTick time.Duration
}

type tokenBucket struct {
	tokens     float64
	lastUpdate time.Time
}

// NewReplyRateLimiter creates a limiter allowing `rate` replies per second
// with the given burst capacity.
func NewReplyRateLimiter(rate float64, burst int) *ReplyRateLimiter {
	rl := &ReplyRateLimiter{
		buckets:     make(map[string]*tokenBucket),
		rate:        rate,
		maxTokens:   float64(burst),
		cleanupTick: 5 * time.Minute,
	}

	go rl.cleanup()

	return rl
}

// Allow checks if a reply to this sender is allowed (consumes 1 token).
func (rl *ReplyRateLimiter) Allow(sender string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, exists := rl.buckets[sender]
	now := time.Now()

	if !exists {
		rl.buckets[sender] = &tokenBucket{
			tokens:     rl.maxTokens - 1,
			lastUpdate: now,
		}
		return true
	}

	// Refill tokens based on time elapsed
	elapsed := now.Sub(bucket.lastUpdate).Seconds()
	bucket.tokens += elapsed * rl.rate
	if bucket.tokens > rl.maxTokens {
		bucket.tokens = rl.maxTokens
	}
	bucket.lastUpdate = now

	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true
	}

	return false
}

// Reset removes limiter state for a sender.
func (rl *ReplyRateLimiter) Reset(sender string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, sender)
}

// cleanup removes stale buckets periodically
func (rl *ReplyRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for sender, bucket := range rl.buckets {
			if now.Sub(bucket.lastUpdate) > 10*time.Minute {
				delete(rl.buckets, sender)
			}
		}
		rl.mu.Unlock()
	}
}
