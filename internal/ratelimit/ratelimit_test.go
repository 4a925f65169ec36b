package ratelimit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fixedClock lets tests advance time deterministically.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, window time.Duration) (*Limiter, *fixedClock) {
	clock := &fixedClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(NewMemoryStore(), limit, window)
	limiter.now = clock.now
	return limiter, clock
}

func TestAllowUpToLimit(t *testing.T) {
	limiter, _ := newTestLimiter(20, time.Minute)
	key := Key(uuid.New(), "chat")

	for i := 0; i < 20; i++ {
		assert.True(t, limiter.Allow(key), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Allow(key), "request 21 should be rejected")
}

func TestAllowAfterWindowSlides(t *testing.T) {
	limiter, clock := newTestLimiter(2, time.Minute)
	key := Key(uuid.New(), "chat")

	assert.True(t, limiter.Allow(key))
	assert.True(t, limiter.Allow(key))
	assert.False(t, limiter.Allow(key))

	clock.advance(61 * time.Second)
	assert.True(t, limiter.Allow(key), "window should have slid past the old requests")
}

func TestAllowKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)
	userA := uuid.New()
	userB := uuid.New()

	assert.True(t, limiter.Allow(Key(userA, "chat")))
	assert.False(t, limiter.Allow(Key(userA, "chat")))

	assert.True(t, limiter.Allow(Key(userB, "chat")), "another user keeps their own budget")
	assert.True(t, limiter.Allow(Key(userA, "conversations")), "another endpoint keeps its own budget")
}

func TestRejectedRequestDoesNotConsumeBudget(t *testing.T) {
	limiter, clock := newTestLimiter(1, time.Minute)
	key := Key(uuid.New(), "chat")

	assert.True(t, limiter.Allow(key))
	for i := 0; i < 5; i++ {
		assert.False(t, limiter.Allow(key))
	}

	// Only the accepted request counts toward the window.
	clock.advance(61 * time.Second)
	assert.True(t, limiter.Allow(key))
}
