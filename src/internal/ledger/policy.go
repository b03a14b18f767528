package ledger

import (
	"fmt"
	"time"

	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/shopspring/decimal"
)

// PolicyKind selects the withdrawal rule of an account.
type PolicyKind uint8

const (
	// Overdraft allows the balance to go down to -limit.
	Overdraft PolicyKind = iota + 1
	// Capped limits the monthly withdrawn sum and keeps a minimum residual.
	Capped
)

func (k PolicyKind) String() string {
	switch k {
	case Overdraft:
		return "overdraft"
	case Capped:
		return "capped"
	default:
		return "unknown"
	}
}

// Capped rule constants, in base currency units.
var (
	CappedFloor      = decimal.RequireFromString("0.50")
	CappedMonthlyCap = decimal.NewFromInt(2000)
)

// State is the part of an account a policy may look at.
type State struct {
	Balance  decimal.Decimal
	Currency currency.Currency
	Base     currency.Currency
	Now      time.Time
}

// Policy is the withdrawal rule of one account. It is owned by that account
// and only touched under the account lock.
type Policy struct {
	kind PolicyKind

	// overdraft
	limit decimal.Decimal

	// capped
	withdrawn decimal.Decimal
	last      time.Time
}

func OverdraftPolicy(limit decimal.Decimal) Policy {
	return Policy{kind: Overdraft, limit: limit}
}

func CappedPolicy() Policy {
	return Policy{kind: Capped}
}

func (p *Policy) Kind() PolicyKind { return p.kind }

// Allow reports whether amount, already expressed in s.Currency, may be
// withdrawn.
func (p *Policy) Allow(amount decimal.Decimal, s State) bool {
	residual := s.Balance.Sub(amount)

	switch p.kind {
	case Overdraft:
		return residual.GreaterThanOrEqual(p.limit.Neg())
	case Capped:
		floor, err := currency.Convert(CappedFloor, s.Base, s.Currency)
		if err != nil {
			return false
		}
		limit, err := currency.Convert(CappedMonthlyCap, s.Base, s.Currency)
		if err != nil {
			return false
		}
		if residual.LessThan(floor) {
			return false
		}
		return p.withdrawnIn(s.Now).Add(amount).LessThanOrEqual(limit)
	default:
		return false
	}
}

// Record books a successful withdrawal.
func (p *Policy) Record(amount decimal.Decimal, now time.Time) {
	if p.kind != Capped {
		return
	}
	p.withdrawn = p.withdrawnIn(now).Add(amount)
	p.last = now
}

// withdrawnIn returns the running sum, or zero once the calendar month of the
// last withdrawal has passed.
func (p *Policy) withdrawnIn(now time.Time) decimal.Decimal {
	if p.last.IsZero() {
		return decimal.Zero
	}
	ly, lm, _ := p.last.Date()
	ny, nm, _ := now.Date()
	if ly != ny || lm != nm {
		return decimal.Zero
	}
	return p.withdrawn
}

// Rebase converts every tracked amount from one currency into another.
func (p *Policy) Rebase(from, to currency.Currency) error {
	limit, err := currency.Convert(p.limit, from, to)
	if err != nil {
		return fmt.Errorf("rebase overdraft limit: %w", err)
	}
	withdrawn, err := currency.Convert(p.withdrawn, from, to)
	if err != nil {
		return fmt.Errorf("rebase monthly withdrawn: %w", err)
	}
	p.limit = limit
	p.withdrawn = withdrawn
	return nil
}
