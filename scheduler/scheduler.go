package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Task is one unit of scheduled work. Its error is logged, never
// propagated; work that must surface failures should run inline instead.
type Task func(ctx context.Context) error

// Scheduler fires tasks on their own goroutines, tracks them, and lets
// callers drain all outstanding work. The drain barrier may be used
// repeatedly: tasks scheduled after one Wait returns are covered by the
// next Wait, which is what the engine needs for its double-drain shutdown.
type Scheduler struct {
	logger *slog.Logger
	sem    *semaphore.Weighted // nil means unlimited

	wg      sync.WaitGroup
	pending atomic.Int64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLimit caps the number of tasks running at once. Zero or negative
// means unlimited.
func WithLimit(n int64) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(n)
		}
	}
}

// WithLogger sets the logger used for task failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Schedule fires task on its own goroutine and tracks it until it
// finishes. When a concurrency limit is set, the task waits for a slot
// before running; a canceled ctx abandons the wait and the task never
// runs.
func (s *Scheduler) Schedule(ctx context.Context, task Task) {
	s.wg.Add(1)
	s.pending.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.pending.Add(-1)

		if s.sem != nil {
			if err := s.sem.Acquire(ctx, 1); err != nil {
				s.logger.Warn("scheduled task abandoned before start", "error", err)
				return
			}
			defer s.sem.Release(1)
		}

		if err := task(ctx); err != nil {
			s.logger.Error("scheduled task failed", "error", err)
		}
	}()
}

// Pending returns the number of tasks scheduled but not yet finished.
func (s *Scheduler) Pending() int64 {
	return s.pending.Load()
}

// Wait blocks until every previously scheduled task has finished, or
// until ctx is done. On cancellation the outstanding tasks keep running;
// only the wait is abandoned.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
