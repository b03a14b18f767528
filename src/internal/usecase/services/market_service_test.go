package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/api-sage/account-ledger/src/internal/market"
	"github.com/api-sage/account-ledger/src/internal/orders"
	"github.com/api-sage/account-ledger/src/internal/scheduler"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type marketFixture struct {
	svc  *services.MarketService
	acct *ledger.Checking
	inst *market.Instrument
}

func newMarketFixture(t *testing.T) marketFixture {
	t.Helper()
	s := scheduler.New(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Shutdown(ctx))
	})

	bank := services.NewBankService(nil)
	acct, err := bank.CreateChecking(domain.Sample)
	require.NoError(t, err)
	require.NoError(t, acct.Deposit(5000))

	inst, err := market.NewInstrument("ACME", "Acme Corp", 50)
	require.NoError(t, err)
	catalog := market.NewCatalog()
	require.NoError(t, catalog.Add(inst))

	return marketFixture{
		svc:  services.NewMarketService(bank, catalog, orders.NewEngine(s)),
		acct: acct,
		inst: inst,
	}
}

func (f marketFixture) awaitStatus(t *testing.T, reference, status string) models.OrderResponse {
	t.Helper()
	var last models.OrderResponse
	require.Eventually(t, func() bool {
		resp, err := f.svc.GetOrder(context.Background(), reference)
		if err != nil || resp.Data == nil {
			return false
		}
		last = *resp.Data
		return last.Status == status
	}, 2*time.Second, 10*time.Millisecond)
	return last
}

func TestMarketServiceBuyFills(t *testing.T) {
	f := newMarketFixture(t)

	resp, err := f.svc.SubmitOrder(context.Background(), models.SubmitOrderRequest{
		AccountNumber: "10000000",
		InstrumentID:  "ACME",
		Side:          "buy",
		Quantity:      20,
		LimitPrice:    "50",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Data.Reference)

	filled := f.awaitStatus(t, resp.Data.Reference, string(orders.StatusFilled))
	require.Equal(t, "1000.00", filled.Value)
	require.True(t, f.acct.Balance().Equal(decimal.NewFromInt(4000)))
}

func TestMarketServiceCancelPendingOrder(t *testing.T) {
	f := newMarketFixture(t)

	resp, err := f.svc.SubmitOrder(context.Background(), models.SubmitOrderRequest{
		AccountNumber: "10000000",
		InstrumentID:  "ACME",
		Side:          "buy",
		Quantity:      1,
		LimitPrice:    "40",
	})
	require.NoError(t, err)
	require.Equal(t, string(orders.StatusPending), resp.Data.Status)

	cancelled, err := f.svc.CancelOrder(context.Background(), resp.Data.Reference)
	require.NoError(t, err)
	require.Equal(t, string(orders.StatusCancelled), cancelled.Data.Status)
	require.Empty(t, cancelled.Data.Error)
	require.True(t, f.acct.Balance().Equal(decimal.NewFromInt(5000)))
}

func TestMarketServiceOrderOutlivesRequest(t *testing.T) {
	f := newMarketFixture(t)
	reqCtx, cancel := context.WithCancel(context.Background())

	resp, err := f.svc.SubmitOrder(reqCtx, models.SubmitOrderRequest{
		AccountNumber: "10000000",
		InstrumentID:  "ACME",
		Side:          "buy",
		Quantity:      10,
		LimitPrice:    "45",
	})
	require.NoError(t, err)
	cancel()

	require.NoError(t, f.inst.SetPrice(decimal.NewFromInt(44)))
	filled := f.awaitStatus(t, resp.Data.Reference, string(orders.StatusFilled))
	require.Equal(t, "440.00", filled.Value)
}

func TestMarketServiceUnknownInstrumentAndOrder(t *testing.T) {
	f := newMarketFixture(t)

	resp, err := f.svc.SubmitOrder(context.Background(), models.SubmitOrderRequest{
		AccountNumber: "10000000",
		InstrumentID:  "NOPE",
		Side:          "buy",
		Quantity:      1,
		LimitPrice:    "10",
	})
	require.Error(t, err)
	require.Equal(t, services.MsgInstrumentNotFound, resp.Message)

	get, err := f.svc.GetOrder(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
	require.Equal(t, services.MsgOrderNotFound, get.Message)
}

func TestMarketServiceSellWithoutHoldingDeclines(t *testing.T) {
	f := newMarketFixture(t)

	resp, err := f.svc.SubmitOrder(context.Background(), models.SubmitOrderRequest{
		AccountNumber: "10000000",
		InstrumentID:  "ACME",
		Side:          "sell",
		LimitPrice:    "10",
	})
	require.NoError(t, err)
	declined := f.awaitStatus(t, resp.Data.Reference, string(orders.StatusDeclined))
	require.Equal(t, "0.00", declined.Value)
}

func TestMarketServiceWatchPrices(t *testing.T) {
	f := newMarketFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	updates, err := f.svc.WatchPrices(ctx, "ACME")
	require.NoError(t, err)

	first := <-updates
	require.Equal(t, "50.00", first.Price)

	require.NoError(t, f.inst.SetPrice(decimal.NewFromInt(51)))
	require.Equal(t, "51.00", (<-updates).Price)

	f.inst.Retire()
	last := <-updates
	require.True(t, last.Retired)
	_, open := <-updates
	require.False(t, open)
}
