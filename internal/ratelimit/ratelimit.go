package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter serializes calls to an external provider with a fixed delay
// between consecutive requests and an optional per-window request cap.
type Limiter struct {
	mu        sync.Mutex
	delay     time.Duration
	maxPerDay int
	count     int
	lastCall  time.Time
	resetTime time.Time
}

// New builds a limiter. maxPerDay <= 0 disables the daily cap.
func New(delay time.Duration, maxPerDay int) *Limiter {
	return &Limiter{
		delay:     delay,
		maxPerDay: maxPerDay,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// Allow reports whether another request fits into the daily budget.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()
	return l.maxPerDay <= 0 || l.count < l.maxPerDay
}

// Wait blocks until the fixed inter-request delay has elapsed since the
// previous call, then consumes one slot. Returns early on ctx cancellation.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	l.checkReset()
	wait := time.Duration(0)
	if !l.lastCall.IsZero() {
		if since := time.Since(l.lastCall); since < l.delay {
			wait = l.delay - since
		}
	}
	l.mu.Unlock()

	if wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	l.mu.Lock()
	l.lastCall = time.Now()
	l.count++
	l.mu.Unlock()
	return nil
}

// Used returns how many slots were consumed in the current window.
func (l *Limiter) Used() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.checkReset()
	return l.count
}

func (l *Limiter) checkReset() {
	if time.Now().After(l.resetTime) {
		l.count = 0
		l.resetTime = time.Now().Add(24 * time.Hour)
	}
}
