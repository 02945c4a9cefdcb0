package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techpulse/newsfeed/internal/logger"
)

func init() {
	logger.Init()
}

func TestNextRun(t *testing.T) {
	s := New(nil, Options{Hour: 6, Minute: 0})

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before target runs today",
			time.Date(2026, 9, 1, 3, 30, 0, 0, time.UTC),
			time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC),
		},
		{
			"after target runs tomorrow",
			time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 2, 6, 0, 0, 0, time.UTC),
		},
		{
			"exactly at target runs tomorrow",
			time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 2, 6, 0, 0, 0, time.UTC),
		},
		{
			"month boundary",
			time.Date(2026, 9, 30, 23, 59, 0, 0, time.UTC),
			time.Date(2026, 10, 1, 6, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.NextRun(tc.now))
		})
	}
}

func TestDelay(t *testing.T) {
	s := New(nil, Options{Hour: 6, Minute: 0, ErrorBackoff: 30 * time.Minute})
	now := time.Date(2026, 9, 1, 4, 0, 0, 0, time.UTC)

	assert.Equal(t, 2*time.Hour, s.Delay(now, false))
	assert.Equal(t, 30*time.Minute, s.Delay(now, true), "fatal runs retry on the backoff, not tomorrow")
}

func TestDelay_DefaultBackoff(t *testing.T) {
	s := New(nil, Options{Hour: 6})
	assert.Equal(t, time.Hour, s.Delay(time.Now(), true))
}

func TestStart_RunsOnCadenceAndBacksOffAfterFailure(t *testing.T) {
	fire := make(chan time.Time)

	var mu sync.Mutex
	var delays []time.Duration
	delayCount := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(delays)
	}

	now := time.Date(2026, 9, 1, 4, 0, 0, 0, time.UTC)
	runs := 0

	runner := RunnerFunc(func(ctx context.Context) error {
		runs++
		if runs == 1 {
			return errors.New("persistence unavailable")
		}
		return nil
	})

	s := New(runner, Options{
		Hour:         6,
		Minute:       0,
		ErrorBackoff: 15 * time.Minute,
		Now:          func() time.Time { return now },
		After: func(d time.Duration) <-chan time.Time {
			mu.Lock()
			delays = append(delays, d)
			mu.Unlock()
			return fire
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// First tick: run fails, next delay must be the error backoff.
	fire <- now
	// Second tick: run succeeds, schedule reverts to the daily interval.
	fire <- now

	// Wait for the third delay computation before asserting.
	require.Eventually(t, func() bool { return delayCount() >= 3 }, time.Second, time.Millisecond)

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 2, runs)
	require.Len(t, delays, 3)
	assert.Equal(t, 2*time.Hour, delays[0])
	assert.Equal(t, 15*time.Minute, delays[1])
	assert.Equal(t, 2*time.Hour, delays[2])
}

func TestStart_CancelBeforeFirstRun(t *testing.T) {
	runner := RunnerFunc(func(ctx context.Context) error {
		t.Fatal("runner must not fire")
		return nil
	})

	s := New(runner, Options{Hour: 6})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
