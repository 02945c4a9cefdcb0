// Package scheduler triggers the pipeline at a configured wall-clock
// time daily, backing off for a shorter interval after fatal runs.
package scheduler

import (
	"context"
	"time"

	"github.com/techpulse/newsfeed/internal/logger"
)

// Runner is the orchestrator contract: one run, fatal error or nil.
type Runner interface {
	RunOnce(ctx context.Context) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) RunOnce(ctx context.Context) error { return f(ctx) }

// Options configures the daily schedule.
type Options struct {
	Hour         int           // target wall-clock hour
	Minute       int           // target wall-clock minute
	ErrorBackoff time.Duration // retry delay after a fatal run

	// Injectable for tests; defaults are time.Now and time.After.
	Now   func() time.Time
	After func(d time.Duration) <-chan time.Time
}

// Scheduler owns one long-lived loop. Runs never overlap: the next
// delay is computed only after the previous run returns.
type Scheduler struct {
	runner Runner
	opts   Options
}

func New(runner Runner, opts Options) *Scheduler {
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.After == nil {
		opts.After = time.After
	}
	return &Scheduler{runner: runner, opts: opts}
}

// NextRun returns the next scheduled time: today at the target time if
// it has not passed yet, otherwise tomorrow.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.opts.Hour, s.opts.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Delay computes how long to sleep before the next attempt. After a
// fatal run the shorter error backoff replaces the daily interval.
func (s *Scheduler) Delay(now time.Time, lastRunFailed bool) time.Duration {
	if lastRunFailed {
		return s.opts.ErrorBackoff
	}
	return s.NextRun(now).Sub(now)
}

// Start blocks until ctx is cancelled, running the pipeline on cadence.
func (s *Scheduler) Start(ctx context.Context) error {
	lastRunFailed := false

	for {
		delay := s.Delay(s.opts.Now(), lastRunFailed)
		logger.Info("next run scheduled", "in", delay, "after_error", lastRunFailed)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.opts.After(delay):
		}

		err := s.runner.RunOnce(ctx)
		lastRunFailed = err != nil
		if err != nil {
			logger.Error("run failed, scheduling backoff retry", "err", err, "backoff", s.opts.ErrorBackoff)
		}
	}
}
