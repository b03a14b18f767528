package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryRunsUntilStopped(t *testing.T) {
	s := New(context.Background())
	defer s.Shutdown(context.Background())

	var runs atomic.Int32
	task, err := s.Every("tick", 5*time.Millisecond, func(context.Context) { runs.Add(1) })
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if runs.Load() < 3 {
		t.Fatalf("expected at least 3 runs, got %d", runs.Load())
	}

	task.Stop()
	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not stop")
	}

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	if runs.Load() != stopped {
		t.Fatalf("task kept running after Stop: %d -> %d", stopped, runs.Load())
	}
}

func TestEveryRejectsNonPositiveInterval(t *testing.T) {
	s := New(context.Background())
	defer s.Shutdown(context.Background())

	if _, err := s.Every("bad", 0, func(context.Context) {}); err == nil {
		t.Fatal("expected error for zero interval")
	}
}

func TestShutdownCancelsTasksAndRejectsNewOnes(t *testing.T) {
	s := New(context.Background())

	exited := make(chan struct{})
	if err := s.Go("blocker", func(ctx context.Context) {
		<-ctx.Done()
		close(exited)
	}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}

	select {
	case <-exited:
	default:
		t.Fatal("task was not cancelled by shutdown")
	}

	if err := s.Go("late", func(context.Context) {}); !errors.Is(err, ErrShutdown) {
		t.Fatalf("expected ErrShutdown, got %v", err)
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown should be a no-op, got %v", err)
	}
}

func TestShutdownHonoursDeadline(t *testing.T) {
	s := New(context.Background())
	release := make(chan struct{})
	defer close(release)

	_ = s.Go("stubborn", func(context.Context) { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := s.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGoRecoversPanics(t *testing.T) {
	s := New(context.Background())
	_ = s.Go("boom", func(context.Context) { panic("boom") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("expected clean shutdown after panic, got %v", err)
	}
}
