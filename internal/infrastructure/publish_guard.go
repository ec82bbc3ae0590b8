package infrastructure

import (
	"sync"
	"time"
)

// Platform posting is not idempotent: publishing the same product twice
// creates duplicate posts. PublishGuard debounces per-product publishes and
// blocks a second publish while one is already in flight.
type PublishGuard struct {
	states map[int]*publishState
	mu     sync.RWMutex
}

type publishState struct {
	inFlight    bool
	lastPublish time.Time
	mu          sync.Mutex
}

func NewPublishGuard() *PublishGuard {
	return &PublishGuard{
		states: make(map[int]*publishState),
	}
}

func (g *PublishGuard) state(productID int) *publishState {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, exists := g.states[productID]
	if !exists {
		st = &publishState{}
		g.states[productID] = st
	}
	return st
}

// TryAcquire returns false when a publish for the product is in flight or
// finished less than the debounce window ago.
func (g *PublishGuard) TryAcquire(productID int) bool {
	st := g.state(productID)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.inFlight {
		return false
	}
	if time.Since(st.lastPublish) < 2*time.Second {
		return false
	}

	st.inFlight = true
	return true
}

// Release marks the product's publish as finished.
func (g *PublishGuard) Release(productID int) {
	st := g.state(productID)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.inFlight = false
	st.lastPublish = time.Now()
}
