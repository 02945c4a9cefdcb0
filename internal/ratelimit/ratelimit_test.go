package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowRespectsDailyCap(t *testing.T) {
	l := New(0, 2)

	for i := 0; i < 2; i++ {
		if !l.Allow() {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}

	if l.Allow() {
		t.Fatal("third request should exceed the cap")
	}
	if l.Used() != 2 {
		t.Fatalf("expected 2 used, got %d", l.Used())
	}
}

func TestAllowUnlimitedWhenCapDisabled(t *testing.T) {
	l := New(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatal("uncapped limiter must always allow")
		}
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
}

func TestWaitEnforcesDelay(t *testing.T) {
	l := New(50*time.Millisecond, 0)

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("second call returned after %v, expected the inter-request delay", elapsed)
	}
}

func TestWaitCancellable(t *testing.T) {
	l := New(time.Minute, 0)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Fatal("expected cancellation error while waiting")
	}
}
