// Package orders fills buy and sell orders against moving instrument prices.
// A pending order waits on the instrument's change signal and fills at the
// first observed price that satisfies its limit.
package orders

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/market"
	"github.com/api-sage/account-ledger/src/internal/scheduler"
	"github.com/shopspring/decimal"
)

// Account is the ledger surface an order fills against.
type Account interface {
	ID() int64
	Holding(instrumentID string) (ledger.Holding, bool)
	FillBuy(inst *market.Instrument, quantity int64, price decimal.Decimal) (decimal.Decimal, error)
	FillSell(instrumentID string, price decimal.Decimal) (decimal.Decimal, int64, error)
}

type submitOptions struct {
	deadline time.Time
}

type Option func(*submitOptions)

// WithDeadline cancels the order with context.DeadlineExceeded at t.
func WithDeadline(t time.Time) Option {
	return func(o *submitOptions) { o.deadline = t }
}

// WithTimeout is WithDeadline relative to submission.
func WithTimeout(d time.Duration) Option {
	return func(o *submitOptions) { o.deadline = time.Now().Add(d) }
}

// Engine runs every order as a task of the injected scheduler.
type Engine struct {
	sched *scheduler.Scheduler
	seq   atomic.Uint64
}

func NewEngine(s *scheduler.Scheduler) *Engine {
	return &Engine{sched: s}
}

// SubmitBuy places an order for quantity units of inst at a price of at most
// ceiling. ctx bounds the lifetime of the order, not just the call.
func (e *Engine) SubmitBuy(ctx context.Context, acct Account, inst *market.Instrument, quantity int64, ceiling float64, opts ...Option) (*Order, error) {
	if acct == nil || inst == nil {
		return nil, fmt.Errorf("%w: buy order needs an account and an instrument", domain.ErrInvalidArgument)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrInvalidArgument, quantity)
	}
	limit, err := parseLimit(ceiling)
	if err != nil {
		return nil, err
	}

	order, orderCtx := e.newOrder(ctx, Buy, acct.ID(), inst.ID(), quantity, limit, opts)
	fields := orderFields(order)
	logger.Info("order engine buy request", fields)

	err = e.sched.Go("order:"+order.id, func(taskCtx context.Context) {
		stop := context.AfterFunc(taskCtx, order.cancel)
		defer stop()

		price, err := inst.WaitFor(orderCtx, func(p decimal.Decimal) bool { return p.LessThanOrEqual(limit) })
		if err != nil {
			e.abandon(order, err)
			return
		}
		if err := orderCtx.Err(); err != nil {
			e.abandon(order, err)
			return
		}

		cost, err := acct.FillBuy(inst, quantity, price)
		if err != nil || cost.IsZero() {
			if err != nil {
				logger.Warn("order engine buy fill rejected by account", withErr(fields, err))
			}
			order.resolve(StatusDeclined, decimal.Zero, nil)
			logger.Info("order engine buy declined", withPrice(fields, price))
			return
		}
		order.resolve(StatusFilled, cost, nil)
		logger.Info("order engine buy filled", withPrice(fields, price))
	})
	if err != nil {
		order.cancel()
		return nil, fmt.Errorf("submit buy order: %w", err)
	}
	return order, nil
}

// SubmitSell places an order for the full holding of an instrument at a price
// of at least floor. Without a holding the order resolves at once with zero.
func (e *Engine) SubmitSell(ctx context.Context, acct Account, instrumentID string, floor float64, opts ...Option) (*Order, error) {
	if acct == nil {
		return nil, fmt.Errorf("%w: sell order needs an account", domain.ErrInvalidArgument)
	}
	limit, err := parseLimit(floor)
	if err != nil {
		return nil, err
	}

	holding, ok := acct.Holding(instrumentID)
	order, orderCtx := e.newOrder(ctx, Sell, acct.ID(), instrumentID, holding.Quantity, limit, opts)
	fields := orderFields(order)
	logger.Info("order engine sell request", fields)

	if !ok || holding.Quantity == 0 || holding.Instrument == nil {
		order.resolve(StatusDeclined, decimal.Zero, nil)
		logger.Info("order engine sell declined, nothing held", fields)
		return order, nil
	}
	inst := holding.Instrument

	err = e.sched.Go("order:"+order.id, func(taskCtx context.Context) {
		stop := context.AfterFunc(taskCtx, order.cancel)
		defer stop()

		price, err := inst.WaitFor(orderCtx, func(p decimal.Decimal) bool { return p.GreaterThanOrEqual(limit) })
		if err != nil {
			e.abandon(order, err)
			return
		}
		if err := orderCtx.Err(); err != nil {
			e.abandon(order, err)
			return
		}

		proceeds, sold, err := acct.FillSell(instrumentID, price)
		if err != nil || sold == 0 {
			if err != nil {
				logger.Warn("order engine sell fill rejected by account", withErr(fields, err))
			}
			order.resolve(StatusDeclined, decimal.Zero, nil)
			logger.Info("order engine sell declined", withPrice(fields, price))
			return
		}
		order.mu.Lock()
		order.quantity = sold
		order.mu.Unlock()
		order.resolve(StatusFilled, proceeds, nil)
		logger.Info("order engine sell filled", withPrice(fields, price))
	})
	if err != nil {
		order.cancel()
		return nil, fmt.Errorf("submit sell order: %w", err)
	}
	return order, nil
}

func (e *Engine) newOrder(ctx context.Context, side Side, accountID int64, instrumentID string, quantity int64, limit decimal.Decimal, opts []Option) (*Order, context.Context) {
	var o submitOptions
	for _, opt := range opts {
		opt(&o)
	}

	var orderCtx context.Context
	var cancel context.CancelFunc
	if o.deadline.IsZero() {
		orderCtx, cancel = context.WithCancel(ctx)
	} else {
		orderCtx, cancel = context.WithDeadline(ctx, o.deadline)
	}

	return &Order{
		id:           strconv.FormatUint(e.seq.Add(1), 10),
		side:         side,
		accountID:    accountID,
		instrumentID: instrumentID,
		quantity:     quantity,
		limit:        limit,
		cancel:       cancel,
		done:         make(chan struct{}),
		status:       StatusPending,
	}, orderCtx
}

// abandon resolves an order that stopped waiting without a fill.
func (e *Engine) abandon(order *Order, err error) {
	order.resolve(StatusCancelled, decimal.Zero, err)
	logger.Info("order engine order cancelled", withErr(orderFields(order), err))
}

func parseLimit(raw float64) (decimal.Decimal, error) {
	limit, err := currency.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !limit.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: limit price must be positive", domain.ErrInvalidAmount)
	}
	return limit, nil
}

func orderFields(o *Order) logger.Fields {
	return logger.Fields{
		"orderId":      o.id,
		"side":         string(o.side),
		"accountId":    o.accountID,
		"instrumentId": o.instrumentID,
		"quantity":     o.quantity,
		"limit":        o.limit.String(),
	}
}

func withPrice(fields logger.Fields, price decimal.Decimal) logger.Fields {
	out := logger.Fields{"price": price.String()}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func withErr(fields logger.Fields, err error) logger.Fields {
	out := logger.Fields{"error": err.Error()}
	for k, v := range fields {
		out[k] = v
	}
	return out
}
