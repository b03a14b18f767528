// Package market holds tradable instruments and the synthetic random-walk
// price feed that moves them.
package market

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrRetired = errors.New("instrument is retired")

// pricePlaces bounds the precision a random walk can accumulate.
const pricePlaces = 4

// quote is one committed price. changed is closed when the next quote
// replaces it.
type quote struct {
	price   decimal.Decimal
	changed chan struct{}
	retired bool
}

// Instrument is a tradable security identified by its ID.
type Instrument struct {
	id   string
	name string

	current atomic.Pointer[quote]

	mu   sync.Mutex // serializes writers and guards feed
	feed stopper
}

type stopper interface{ Stop() }

// NewInstrument returns an instrument with a fixed price; call StartFeed to
// make it move.
func NewInstrument(id, name string, price float64) (*Instrument, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: instrument id is required", domain.ErrInvalidArgument)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil, fmt.Errorf("%w: instrument price must be positive, got %v", domain.ErrInvalidAmount, price)
	}

	inst := &Instrument{id: id, name: strings.TrimSpace(name)}
	inst.current.Store(&quote{price: decimal.NewFromFloat(price), changed: make(chan struct{})})
	return inst, nil
}

func (i *Instrument) ID() string   { return i.id }
func (i *Instrument) Name() string { return i.name }

// Price returns the latest committed price.
func (i *Instrument) Price() decimal.Decimal {
	return i.current.Load().price
}

// Retired reports whether the instrument has been taken off the market.
func (i *Instrument) Retired() bool {
	return i.current.Load().retired
}

// Changes returns the current price together with a channel that is closed
// on the next update.
func (i *Instrument) Changes() (decimal.Decimal, <-chan struct{}) {
	q := i.current.Load()
	return q.price, q.changed
}

// SetPrice publishes a new price and wakes every waiter.
func (i *Instrument) SetPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: instrument price must be positive, got %s", domain.ErrInvalidAmount, price)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	prev := i.current.Load()
	if prev.retired {
		return ErrRetired
	}
	i.publish(prev, &quote{price: price, changed: make(chan struct{})})
	return nil
}

func (i *Instrument) publish(prev, next *quote) {
	i.current.Store(next)
	close(prev.changed)
}

// WaitFor blocks until a committed price satisfies accept and returns that
// price. The current price is sampled first, then the latest price after
// every update. A price that was superseded before it could be sampled is
// never looked back at.
func (i *Instrument) WaitFor(ctx context.Context, accept func(decimal.Decimal) bool) (decimal.Decimal, error) {
	q := i.current.Load()
	for {
		if accept(q.price) {
			return q.price, nil
		}
		if q.retired {
			return decimal.Zero, fmt.Errorf("%s: %w", i.id, ErrRetired)
		}

		select {
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		case <-q.changed:
			q = i.current.Load()
		}
	}
}

// Retire stops the price feed and releases every waiter. The last price stays
// readable.
func (i *Instrument) Retire() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.feed != nil {
		i.feed.Stop()
		i.feed = nil
	}
	prev := i.current.Load()
	if prev.retired {
		return
	}
	// A retired quote is terminal, its channel is never closed.
	i.publish(prev, &quote{price: prev.price, changed: make(chan struct{}), retired: true})
}
