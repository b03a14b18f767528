// Package scheduler owns every background goroutine of the ledger core:
// price feed ticks, pending orders and notification sinks. A Scheduler is
// created by the caller, injected where work must run, and torn down with
// Shutdown.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/api-sage/account-ledger/src/internal/logger"
	"golang.org/x/sync/errgroup"
)

var ErrShutdown = errors.New("scheduler is shut down")

type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	group  errgroup.Group
}

// New returns a running scheduler whose tasks observe parent cancellation.
func New(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the scheduler shuts down.
func (s *Scheduler) Context() context.Context { return s.ctx }

// Go runs fn on its own goroutine. fn must return once ctx is done.
func (s *Scheduler) Go(name string, fn func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("start %s: %w", name, ErrShutdown)
	}

	s.group.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("scheduler task panicked", fmt.Errorf("%v", r), logger.Fields{"task": name})
			}
		}()
		fn(s.ctx)
		return nil
	})
	return nil
}

// Task is a handle on a periodic job started with Every.
type Task struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the task. It does not wait; use Done for that.
func (t *Task) Stop() { t.cancel() }

// Done is closed once the task's goroutine has exited.
func (t *Task) Done() <-chan struct{} { return t.done }

func (t *Task) Name() string { return t.name }

// Every runs fn at a fixed interval until the task is stopped or the
// scheduler shuts down. The first run happens after one interval.
func (s *Scheduler) Every(name string, interval time.Duration, fn func(ctx context.Context)) (*Task, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("schedule %s: interval must be greater than zero", name)
	}

	ctx, cancel := context.WithCancel(s.ctx)
	task := &Task{name: name, cancel: cancel, done: make(chan struct{})}

	err := s.Go(name, func(context.Context) {
		defer close(task.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	})
	if err != nil {
		cancel()
		return nil, err
	}
	return task, nil
}

// Shutdown cancels every task and waits for them to return, or for ctx to
// expire. Tasks cannot be started afterwards.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		_ = s.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("scheduler shut down", nil)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler shutdown: %w", ctx.Err())
	}
}
