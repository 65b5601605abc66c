package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerSchedulerRunsImmediately(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan time.Time, 1)
	s := NewTickerScheduler(time.Hour, time.UTC)
	if err := s.Start(ctx, func(at time.Time) { done <- at }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate first run")
	}
}

func TestTickerSchedulerSuppressesOverlap(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(time.Hour, time.UTC)

	var running atomic.Int32
	var overlapped atomic.Bool
	block := make(chan struct{})

	job := func(time.Time) {
		if running.Add(1) > 1 {
			overlapped.Store(true)
		}
		<-block
		running.Add(-1)
	}

	go s.run(job, time.Now())
	time.Sleep(50 * time.Millisecond)
	go s.run(job, time.Now())
	time.Sleep(50 * time.Millisecond)
	close(block)
	time.Sleep(50 * time.Millisecond)

	if overlapped.Load() {
		t.Fatal("overlapping runs must be suppressed")
	}
}

func TestTickerSchedulerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTickerScheduler(time.Hour, time.UTC)
	if err := s.Start(ctx, func(time.Time) {}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}
}
