package ledger

import (
	"errors"
	"fmt"

	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/transfer"
	"github.com/shopspring/decimal"
)

// DefaultOverdraftLimit is the overdraft line of a new checking account.
const DefaultOverdraftLimit = 500

var _ transfer.Capable = (*Checking)(nil)

// Checking is an account with an overdraft line that can send and receive
// transfers.
type Checking struct {
	Account
}

func NewChecking(id int64, owner *domain.Customer, overdraftLimit float64, opts ...Option) (*Checking, error) {
	limit, err := currency.ParseAmount(overdraftLimit)
	if err != nil {
		return nil, err
	}
	c := &Checking{}
	if err := c.init(id, owner, OverdraftPolicy(limit), opts); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Checking) OverdraftLimit() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy.limit
}

// SetOverdraftLimit replaces the overdraft line, expressed in the account
// currency.
func (c *Checking) SetOverdraftLimit(limit float64) error {
	value, err := currency.ParseAmount(limit)
	if err != nil {
		return err
	}
	return c.mutate(OpSetOverdraftLimit, "", func() ([]Change, error) {
		old := c.policy.limit
		if old.Equal(value) {
			return nil, nil
		}
		c.policy.limit = value
		return []Change{{Property: PropOverdraftLimit, Old: old, New: value}}, nil
	})
}

// SendTransfer debits amount, in the account currency, the same way Withdraw
// does. It returns the debited funds.
func (c *Checking) SendTransfer(amount float64, to transfer.Counterparty, memo string) (currency.Money, bool, error) {
	var sent currency.Money
	ok := false
	err := c.mutate(OpTransferOut, memoFor(memo, to), func() ([]Change, error) {
		change, debited, err := c.debit(amount, nil)
		if errors.Is(err, errDeclined) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		sent = currency.Money{Amount: debited, Currency: c.cur}
		ok = true
		return []Change{change}, nil
	})
	return sent, ok, err
}

// ReceiveTransfer credits funds, converted into the account currency.
func (c *Checking) ReceiveTransfer(funds currency.Money, from transfer.Counterparty, memo string) error {
	if funds.Amount.IsNegative() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidAmount, funds.Amount)
	}
	return c.mutate(OpTransferIn, memoFor(memo, from), func() ([]Change, error) {
		if err := c.checkCredit(); err != nil {
			return nil, err
		}
		credit, err := c.inAccountCurrency(funds.Amount, []currency.Currency{funds.Currency})
		if err != nil {
			return nil, err
		}
		return []Change{c.setBalance(c.balance.Add(credit))}, nil
	})
}

// Savings is an account with a capped monthly withdrawal. It cannot take
// part in transfers.
type Savings struct {
	Account
}

func NewSavings(id int64, owner *domain.Customer, opts ...Option) (*Savings, error) {
	s := &Savings{}
	if err := s.init(id, owner, CappedPolicy(), opts); err != nil {
		return nil, err
	}
	return s, nil
}

// MonthlyWithdrawn returns the sum withdrawn in the current calendar month.
func (s *Savings) MonthlyWithdrawn() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.withdrawnIn(s.now())
}

func memoFor(memo string, party transfer.Counterparty) string {
	if party == nil {
		return memo
	}
	return fmt.Sprintf("%s (account %d)", memo, party.ID())
}
