package orders

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusFilled    Status = "filled"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// Order is the handle of a submitted order. It resolves exactly once.
type Order struct {
	id           string
	side         Side
	accountID    int64
	instrumentID string
	quantity     int64
	limit        decimal.Decimal

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	status Status
	value  decimal.Decimal
	err    error
}

func (o *Order) ID() string             { return o.id }
func (o *Order) Side() Side             { return o.side }
func (o *Order) AccountID() int64       { return o.accountID }
func (o *Order) InstrumentID() string   { return o.instrumentID }
func (o *Order) Limit() decimal.Decimal { return o.limit }

// Quantity is the requested quantity of a buy, or the quantity sold once a
// sell has filled.
func (o *Order) Quantity() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.quantity
}

// Done is closed once the order has resolved.
func (o *Order) Done() <-chan struct{} { return o.done }

func (o *Order) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Result returns the resolved value. ok is false while the order is pending.
func (o *Order) Result() (value decimal.Decimal, err error, ok bool) {
	select {
	case <-o.done:
	default:
		return decimal.Zero, nil, false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value, o.err, true
}

// Wait blocks until the order resolves or ctx is done. Giving up the wait
// does not cancel the order.
func (o *Order) Wait(ctx context.Context) (decimal.Decimal, error) {
	select {
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	case <-o.done:
		value, err, _ := o.Result()
		return value, err
	}
}

// Cancel stops a pending order. It has no effect once the order resolved.
func (o *Order) Cancel() { o.cancel() }

func (o *Order) resolve(status Status, value decimal.Decimal, err error) {
	o.mu.Lock()
	if o.status != StatusPending {
		o.mu.Unlock()
		return
	}
	o.status = status
	o.value = value
	o.err = err
	o.mu.Unlock()
	close(o.done)
	o.cancel()
}
