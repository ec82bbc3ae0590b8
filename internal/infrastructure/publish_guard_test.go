package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishGuard(t *testing.T) {
	assert := assert.New(t)
	guard := NewPublishGuard()

	t.Run("SecondAcquireBlockedWhileInFlight", func(t *testing.T) {
		assert.True(guard.TryAcquire(1))
		assert.False(guard.TryAcquire(1))
	})

	t.Run("DebounceAfterRelease", func(t *testing.T) {
		guard.Release(1)
		assert.False(guard.TryAcquire(1))
	})

	t.Run("ProductsAreIndependent", func(t *testing.T) {
		assert.True(guard.TryAcquire(2))
		guard.Release(2)
	})
}

func TestReplyRateLimiter(t *testing.T) {
	assert := assert.New(t)
	rl := NewReplyRateLimiter(0.1, 2)

	t.Run("BurstThenBlock", func(t *testing.T) {
		assert.True(rl.Allow("whatsapp:555"))
		assert.True(rl.Allow("whatsapp:555"))
		assert.False(rl.Allow("whatsapp:555"))
	})

	t.Run("SendersAreIndependent", func(t *testing.T) {
		assert.True(rl.Allow("whatsapp:777"))
	})

	t.Run("ResetRestoresBurst", func(t *testing.T) {
		rl.Reset("whatsapp:555")
		assert.True(rl.Allow("whatsapp:555"))
	})
}
