package ratelimit

import (
	"time"
)

// LoginGuard locks an account out after too many failed login attempts within
// the lockout window. A successful login clears the counter.
type LoginGuard struct {
	store   Store
	limit   int
	lockout time.Duration
	now     func() time.Time // test seam
}

// NewLoginGuard creates a LoginGuard backed by the given store.
func NewLoginGuard(store Store, limit int, lockout time.Duration) *LoginGuard {
	return &LoginGuard{
		store:   store,
		limit:   limit,
		lockout: lockout,
		now:     time.Now,
	}
}

// Check reports whether the email may attempt a login. When locked, the second
// return value is the remaining lockout duration.
func (g *LoginGuard) Check(email string) (bool, time.Duration) {
	now := g.now()
	if g.store.CountSince(lockoutKey(email), now.Add(-g.lockout)) < g.limit {
		return true, 0
	}
	lockedUntil := g.store.Newest(lockoutKey(email)).Add(g.lockout)
	remaining := lockedUntil.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining
}

// RecordFailure registers a failed login attempt for the email.
func (g *LoginGuard) RecordFailure(email string) {
	g.store.Add(lockoutKey(email), g.now())
}

// RecordSuccess clears the failure counter for the email.
func (g *LoginGuard) RecordSuccess(email string) {
	g.store.Reset(lockoutKey(email))
}

func lockoutKey(email string) string {
	return "login_" + email
}
