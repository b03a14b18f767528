package market

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/scheduler"
	"github.com/shopspring/decimal"
)

const (
	DefaultTickInterval = time.Second
	DefaultBoundPercent = 3
)

// FeedConfig controls the random walk applied to an instrument.
type FeedConfig struct {
	Interval time.Duration
	// BoundPercent is the symmetric limit of each step, e.g. 3 for +/-3%.
	BoundPercent float64
	// Uniform returns a value in [0, 1). Defaults to math/rand/v2.
	Uniform func() float64
}

func DefaultFeedConfig() FeedConfig {
	return FeedConfig{Interval: DefaultTickInterval, BoundPercent: DefaultBoundPercent}
}

// StartFeed attaches the single background mutator of this instrument to s.
func (i *Instrument) StartFeed(s *scheduler.Scheduler, cfg FeedConfig) error {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultTickInterval
	}
	if cfg.BoundPercent < 0 {
		return fmt.Errorf("%w: feed bound must not be negative", domain.ErrInvalidArgument)
	}
	if cfg.Uniform == nil {
		cfg.Uniform = rand.Float64
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current.Load().retired {
		return ErrRetired
	}
	if i.feed != nil {
		return fmt.Errorf("%s: %w", i.id, domain.ErrFeedRunning)
	}

	task, err := s.Every("price-feed:"+i.id, cfg.Interval, func(context.Context) {
		i.step(cfg)
	})
	if err != nil {
		return fmt.Errorf("start price feed %s: %w", i.id, err)
	}
	i.feed = task

	logger.Info("price feed started", logger.Fields{
		"instrumentId": i.id,
		"interval":     cfg.Interval.String(),
		"bound":        cfg.BoundPercent,
	})
	return nil
}

// step applies price += price * delta/100 with delta uniform in [-bound, +bound].
func (i *Instrument) step(cfg FeedConfig) {
	delta := -cfg.BoundPercent + 2*cfg.BoundPercent*cfg.Uniform()

	i.mu.Lock()
	defer i.mu.Unlock()
	prev := i.current.Load()
	if prev.retired {
		return
	}

	next := nextPrice(prev.price, delta)
	if !next.IsPositive() {
		logger.Warn("price feed step skipped", logger.Fields{
			"instrumentId": i.id,
			"price":        prev.price.String(),
			"delta":        delta,
		})
		return
	}
	i.publish(prev, &quote{price: next, changed: make(chan struct{})})
}

func nextPrice(price decimal.Decimal, deltaPercent float64) decimal.Decimal {
	change := price.Mul(decimal.NewFromFloat(deltaPercent)).Div(decimal.NewFromInt(100))
	return price.Add(change).Round(pricePlaces)
}
