package market

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/scheduler"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()
	s := scheduler.New(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func TestNewInstrumentValidation(t *testing.T) {
	for _, price := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewInstrument("1234", "ACME", price)
		require.ErrorIs(t, err, domain.ErrInvalidAmount, "price %v", price)
	}
	_, err := NewInstrument(" ", "ACME", 10)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestNextPriceStaysWithinBound(t *testing.T) {
	price := decimal.NewFromInt(100)
	require.True(t, nextPrice(price, 3).Equal(decimal.NewFromInt(103)))
	require.True(t, nextPrice(price, -3).Equal(decimal.NewFromInt(97)))
	require.True(t, nextPrice(price, 0).Equal(price))
}

func TestFeedMovesPriceWithinBound(t *testing.T) {
	s := newScheduler(t)
	inst, err := NewInstrument("1234", "ACME", 100)
	require.NoError(t, err)

	// Uniform always returns 1, the upper edge of the bound.
	err = inst.StartFeed(s, FeedConfig{Interval: 5 * time.Millisecond, BoundPercent: 3, Uniform: func() float64 { return 1 }})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return inst.Price().GreaterThan(decimal.NewFromInt(100))
	}, time.Second, time.Millisecond)

	inst.Retire()
	first := inst.Price()
	require.True(t, first.GreaterThanOrEqual(decimal.NewFromInt(103)))

	frozen := inst.Price()
	require.Never(t, func() bool { return !inst.Price().Equal(frozen) }, 30*time.Millisecond, 5*time.Millisecond)
}

func TestSecondFeedIsRejected(t *testing.T) {
	s := newScheduler(t)
	inst, err := NewInstrument("1234", "ACME", 100)
	require.NoError(t, err)

	require.NoError(t, inst.StartFeed(s, DefaultFeedConfig()))
	err = inst.StartFeed(s, DefaultFeedConfig())
	require.ErrorIs(t, err, domain.ErrFeedRunning)

	inst.Retire()
	require.ErrorIs(t, inst.StartFeed(s, DefaultFeedConfig()), ErrRetired)
}

func TestWaitForWakesOnUpdate(t *testing.T) {
	inst, err := NewInstrument("1234", "ACME", 50)
	require.NoError(t, err)

	result := make(chan decimal.Decimal, 1)
	go func() {
		p, err := inst.WaitFor(context.Background(), func(p decimal.Decimal) bool {
			return p.LessThanOrEqual(decimal.NewFromInt(45))
		})
		if err == nil {
			result <- p
		}
	}()

	require.NoError(t, inst.SetPrice(decimal.NewFromInt(48)))
	require.NoError(t, inst.SetPrice(decimal.NewFromInt(44)))

	select {
	case p := <-result:
		require.True(t, p.Equal(decimal.NewFromInt(44)), "got %s", p)
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken")
	}
}

func TestWaitForHonoursContext(t *testing.T) {
	inst, err := NewInstrument("1234", "ACME", 50)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = inst.WaitFor(ctx, func(p decimal.Decimal) bool { return p.LessThan(decimal.NewFromInt(1)) })
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetireReleasesWaiters(t *testing.T) {
	inst, err := NewInstrument("1234", "ACME", 50)
	require.NoError(t, err)

	errs := make(chan error, 1)
	go func() {
		_, err := inst.WaitFor(context.Background(), func(decimal.Decimal) bool { return false })
		errs <- err
	}()

	time.Sleep(5 * time.Millisecond)
	inst.Retire()

	select {
	case err := <-errs:
		require.True(t, errors.Is(err, ErrRetired), "got %v", err)
	case <-time.After(time.Second):
		t.Fatal("waiter was not released")
	}
	require.ErrorIs(t, inst.SetPrice(decimal.NewFromInt(1)), ErrRetired)
}

func TestConcurrentReadsNeverObserveTornPrices(t *testing.T) {
	inst, err := NewInstrument("1234", "ACME", 1)
	require.NoError(t, err)

	valid := map[string]bool{"1": true}
	for n := int64(2); n <= 200; n++ {
		valid[decimal.NewFromInt(n).String()] = true
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := int64(2); n <= 200; n++ {
			_ = inst.SetPrice(decimal.NewFromInt(n))
		}
	}()

	for k := 0; k < 1000; k++ {
		p := inst.Price().String()
		require.True(t, valid[p], "observed unexpected price %s", p)
	}
	wg.Wait()
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	a, _ := NewInstrument("200", "B", 1)
	b, _ := NewInstrument("100", "A", 1)
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(b))
	require.ErrorIs(t, c.Add(a), domain.ErrInvalidArgument)

	all := c.All()
	require.Len(t, all, 2)
	require.Equal(t, "100", all[0].ID())

	got, err := c.Get("200")
	require.NoError(t, err)
	require.Same(t, a, got)

	require.NoError(t, c.Delist("200"))
	require.True(t, a.Retired())
	_, err = c.Get("200")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}
