// Package schedule drives the periodic tick and holds the weekly gate.
//
// The gate only passes on Sundays (UTC), so the scheduler interval must be at
// most 24 hours for every week to produce exactly one notifying tick.
package schedule

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// ShouldNotify reports whether now falls on a Sunday in UTC.
func ShouldNotify(now time.Time) bool {
	return now.UTC().Weekday() == time.Sunday
}

// Scheduler fires a tick function once per Interval. Unless DisableDelay is
// set, the first tick waits a random delay in [0, Interval) so that several
// instances started together do not hit the APIs at the same moment.
type Scheduler struct {
	Interval     time.Duration
	DisableDelay bool

	jitter func(time.Duration) time.Duration
}

func New(interval time.Duration, disableDelay bool) *Scheduler {
	return &Scheduler{
		Interval:     interval,
		DisableDelay: disableDelay,
		jitter:       randomDelay,
	}
}

// Run blocks until ctx is cancelled. Ticks run sequentially on the calling
// goroutine; a slow tick delays the next one instead of overlapping it.
func (s *Scheduler) Run(ctx context.Context, tick func(context.Context)) {
	if !s.DisableDelay {
		delay := s.jitter(s.Interval)
		slog.Info("Delaying first tick", "delay", delay.String())
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		tick(ctx)

		slog.Info("Sleeping until next tick...", "interval", s.Interval.String())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func randomDelay(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}
