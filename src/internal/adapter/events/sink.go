// Package events buffers ledger notifications and hands them in batches to a
// slow writer such as a database or a broker.
package events

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

const (
	DefaultBufferSize    = 1024
	DefaultBatchSize     = 100
	DefaultFlushInterval = 250 * time.Millisecond
	drainTimeout         = 5 * time.Second
)

// Writer persists or forwards a batch of notifications.
type Writer interface {
	Name() string
	Write(ctx context.Context, batch []ledger.Notification) error
}

// Sink decouples ledger mutations from the writer. Publish never blocks; a
// full buffer drops the notification and counts it.
type Sink struct {
	w        Writer
	ch       chan ledger.Notification
	batch    int
	interval time.Duration
	dropped  atomic.Uint64
}

func NewSink(w Writer, bufferSize int) *Sink {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Sink{
		w:        w,
		ch:       make(chan ledger.Notification, bufferSize),
		batch:    DefaultBatchSize,
		interval: DefaultFlushInterval,
	}
}

// Publish is a ledger.Notifier subscriber.
func (s *Sink) Publish(n ledger.Notification) {
	select {
	case s.ch <- n:
	default:
		if s.dropped.Add(1) == 1 {
			logger.Warn("event sink buffer full, dropping notifications", logger.Fields{"sink": s.w.Name()})
		}
	}
}

// Dropped returns how many notifications were lost to a full buffer.
func (s *Sink) Dropped() uint64 { return s.dropped.Load() }

// Run drains the buffer until ctx is done, then flushes what is left.
func (s *Sink) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	pending := make([]ledger.Notification, 0, s.batch)
	flush := func(ctx context.Context) {
		if len(pending) == 0 {
			return
		}
		if err := s.w.Write(ctx, pending); err != nil {
			logger.Error("event sink write failed", err, logger.Fields{
				"sink":  s.w.Name(),
				"count": len(pending),
			})
		}
		pending = pending[:0]
	}

	for {
		select {
		case n := <-s.ch:
			pending = append(pending, n)
			if len(pending) >= s.batch {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			defer cancel()
			for {
				select {
				case n := <-s.ch:
					pending = append(pending, n)
				default:
					flush(drainCtx)
					return
				}
			}
		}
	}
}
