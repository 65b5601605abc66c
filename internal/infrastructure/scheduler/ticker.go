// Package scheduler runs the pipeline on a fixed interval.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"t1ddigest/internal/ports"
)

// TickerScheduler triggers the job on a fixed interval. Overlapping runs
// are suppressed: if a run is still in flight when the next tick fires,
// that tick is dropped.
type TickerScheduler struct {
	interval time.Duration
	location *time.Location
	stop     chan struct{}
	inFlight atomic.Bool
}

var _ ports.Scheduler = (*TickerScheduler)(nil)

// NewTickerScheduler builds a scheduler firing every interval, reporting
// run times in the given location.
func NewTickerScheduler(interval time.Duration, loc *time.Location) *TickerScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TickerScheduler{interval: interval, location: loc}
}

// Start runs the job immediately, then on every tick until Stop or
// context cancellation.
func (s *TickerScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.run(job, time.Now())
		for {
			select {
			case t := <-ticker.C:
				s.run(job, t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

func (s *TickerScheduler) run(job func(time.Time), t time.Time) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer s.inFlight.Store(false)
	job(t.In(s.location))
}

// Stop halts the ticker goroutine.
func (s *TickerScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
