package transfer_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/api-sage/account-ledger/src/internal/transfer"
	"github.com/shopspring/decimal"
)

type stubCapable struct {
	id        int64
	receiveFn func(funds currency.Money, memo string) error
	received  []currency.Money
}

func (s *stubCapable) ID() int64 { return s.id }

func (s *stubCapable) SendTransfer(amount float64, _ transfer.Counterparty, _ string) (currency.Money, bool, error) {
	value, err := currency.ParseAmount(amount)
	if err != nil {
		return currency.Money{}, false, err
	}
	return currency.Money{Amount: value, Currency: currency.DefaultTable().Base()}, true, nil
}

func (s *stubCapable) ReceiveTransfer(funds currency.Money, _ transfer.Counterparty, memo string) error {
	if s.receiveFn != nil {
		if err := s.receiveFn(funds, memo); err != nil {
			return err
		}
	}
	s.received = append(s.received, funds)
	return nil
}

func checking(t *testing.T, id int64, balance float64, opts ...ledger.Option) *ledger.Checking {
	t.Helper()
	acct, err := ledger.NewChecking(id, domain.Sample, ledger.DefaultOverdraftLimit, opts...)
	if err != nil {
		t.Fatalf("new checking: %v", err)
	}
	if err := acct.Deposit(balance); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	return acct
}

func expectBalance(t *testing.T, acct *ledger.Checking, want string) {
	t.Helper()
	if got := acct.Balance(); !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("account %d: expected balance %s, got %s", acct.ID(), want, got)
	}
}

func TestTransferMovesFunds(t *testing.T) {
	a := checking(t, 10000000, 1000)
	b := checking(t, 10000001, 1000)
	p := transfer.NewProtocol()

	ok, err := p.Transfer(context.Background(), a, b, 500, "rent")
	if err != nil || !ok {
		t.Fatalf("expected transfer to succeed, got %v %v", ok, err)
	}
	expectBalance(t, a, "500")
	expectBalance(t, b, "1500")

	ok, err = p.Transfer(context.Background(), a, b, 5000, "x")
	if err != nil || ok {
		t.Fatalf("expected policy decline, got %v %v", ok, err)
	}
	expectBalance(t, a, "500")
	expectBalance(t, b, "1500")
}

func TestTransferRejectsInvalidInput(t *testing.T) {
	a := checking(t, 10000000, 1000)
	b := checking(t, 10000001, 1000)
	p := transfer.NewProtocol()

	for _, amount := range []float64{-1, math.NaN(), math.Inf(1)} {
		ok, err := p.Transfer(context.Background(), a, b, amount, "bad")
		if ok || !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("amount %v: expected invalid amount, got %v %v", amount, ok, err)
		}
	}
	if _, err := p.Transfer(context.Background(), a, a, 1, "self"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for self transfer, got %v", err)
	}
	expectBalance(t, a, "1000")
	expectBalance(t, b, "1000")
}

func TestTransferFromLockedSender(t *testing.T) {
	a := checking(t, 10000000, 1000)
	b := checking(t, 10000001, 1000)
	if err := a.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}

	for _, amount := range []float64{10, -1, math.NaN(), math.Inf(1)} {
		ok, err := transfer.NewProtocol().Transfer(context.Background(), a, b, amount, "locked")
		if ok || !errors.Is(err, domain.ErrAccountLocked) {
			t.Fatalf("amount %v: expected locked error, got %v %v", amount, ok, err)
		}
	}
	expectBalance(t, a, "1000")
	expectBalance(t, b, "1000")
}

func TestTransferConvertsIntoReceiverCurrency(t *testing.T) {
	table := currency.DefaultTable()
	bgn, err := table.Lookup("BGN")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	a := checking(t, 10000000, 1000)
	b := checking(t, 10000001, 0)
	if err := b.ChangeCurrency(bgn); err != nil {
		t.Fatalf("change currency: %v", err)
	}

	ok, err := transfer.NewProtocol().Transfer(context.Background(), a, b, 100, "fx")
	if err != nil || !ok {
		t.Fatalf("transfer: %v %v", ok, err)
	}
	expectBalance(t, a, "900")
	expectBalance(t, b, "195.58")
}

func TestTransferRefundsWhenCreditFails(t *testing.T) {
	a := checking(t, 10000000, 1000)
	b := checking(t, 10000001, 1000)
	b.Close()

	ok, err := transfer.NewProtocol().Transfer(context.Background(), a, b, 300, "closed")
	if ok || !errors.Is(err, domain.ErrTransferCompensated) || !errors.Is(err, domain.ErrAccountClosed) {
		t.Fatalf("expected compensated transfer, got %v %v", ok, err)
	}
	expectBalance(t, a, "1000")
}

func TestTransferRefundsLockedReceiverWhenLockedDepositsAreRefused(t *testing.T) {
	a := checking(t, 10000000, 1000)
	b := checking(t, 10000001, 1000, ledger.WithLockedDeposits(false))
	if err := b.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}

	_, err := transfer.NewProtocol().Transfer(context.Background(), a, b, 300, "locked receiver")
	if !errors.Is(err, domain.ErrTransferCompensated) {
		t.Fatalf("expected compensated transfer, got %v", err)
	}
	expectBalance(t, a, "1000")
	expectBalance(t, b, "1000")
}

func TestTransferNeedsReconciliationWhenRefundFails(t *testing.T) {
	failing := errors.New("ledger unavailable")
	from := &stubCapable{id: 1, receiveFn: func(currency.Money, string) error { return failing }}
	to := &stubCapable{id: 2, receiveFn: func(currency.Money, string) error { return failing }}

	ok, err := transfer.NewProtocol().Transfer(context.Background(), from, to, 10, "broken")
	if ok || !errors.Is(err, domain.ErrReconciliationRequired) || !errors.Is(err, failing) {
		t.Fatalf("expected reconciliation error, got %v %v", ok, err)
	}
}

func TestTransferRefundCarriesDebitedFunds(t *testing.T) {
	from := &stubCapable{id: 1}
	to := &stubCapable{id: 2, receiveFn: func(currency.Money, string) error { return domain.ErrAccountClosed }}

	_, err := transfer.NewProtocol().Transfer(context.Background(), from, to, 12.5, "memo")
	if !errors.Is(err, domain.ErrTransferCompensated) {
		t.Fatalf("expected compensated transfer, got %v", err)
	}
	if len(from.received) != 1 || !from.received[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected refund of 12.5, got %+v", from.received)
	}
}

func TestTransferHonoursCancelledContext(t *testing.T) {
	a := checking(t, 10000000, 1000)
	b := checking(t, 10000001, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := transfer.NewProtocol().Transfer(ctx, a, b, 1, "late"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	expectBalance(t, a, "1000")
}
