// Package ledger keeps account balances, holdings and lock state. Every
// operation on an account is serialized by that account's own mutex.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/market"
	"github.com/shopspring/decimal"
)

// Operation names carried by notifications.
const (
	OpDeposit           = "deposit"
	OpWithdraw          = "withdraw"
	OpLock              = "lock"
	OpUnlock            = "unlock"
	OpChangeCurrency    = "changeCurrency"
	OpSetOwner          = "setOwner"
	OpSetOverdraftLimit = "setOverdraftLimit"
	OpClose             = "close"
	OpBuy               = "buy"
	OpSell              = "sell"
	OpTransferOut       = "transferOut"
	OpTransferIn        = "transferIn"
)

var defaultBase = currency.Currency{Code: "EUR", Rate: decimal.NewFromInt(1)}

// Holding is the quantity of one instrument held by an account.
type Holding struct {
	Instrument *market.Instrument
	Quantity   int64
}

type options struct {
	base                currency.Currency
	notifier            *Notifier
	allowLockedDeposits bool
	now                 func() time.Time
}

type Option func(*options)

// WithBase sets the base currency. New accounts start in it.
func WithBase(c currency.Currency) Option {
	return func(o *options) { o.base = c }
}

func WithNotifier(n *Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithLockedDeposits controls whether a locked account accepts credits.
// Defaults to true.
func WithLockedDeposits(allow bool) Option {
	return func(o *options) { o.allowLockedDeposits = allow }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Account is the state shared by every account variant.
type Account struct {
	mu sync.Mutex

	id       int64
	owner    *domain.Customer
	balance  decimal.Decimal
	cur      currency.Currency
	locked   bool
	closed   bool
	holdings map[string]Holding
	policy   Policy
	seq      uint64

	base                currency.Currency
	notifier            *Notifier
	allowLockedDeposits bool
	now                 func() time.Time
}

func (a *Account) init(id int64, owner *domain.Customer, policy Policy, opts []Option) error {
	if owner == nil {
		return fmt.Errorf("%w: account owner is required", domain.ErrInvalidArgument)
	}
	if id <= 0 {
		return fmt.Errorf("%w: account id must be positive, got %d", domain.ErrInvalidArgument, id)
	}

	o := options{base: defaultBase, allowLockedDeposits: true, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.base.IsZero() || !o.base.Rate.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: base currency %q must have rate 1", domain.ErrInvalidArgument, o.base.Code)
	}

	a.id = id
	a.owner = owner
	a.cur = o.base
	a.holdings = make(map[string]Holding)
	a.policy = policy
	a.base = o.base
	a.notifier = o.notifier
	a.allowLockedDeposits = o.allowLockedDeposits
	a.now = o.now
	return nil
}

func (a *Account) ID() int64 { return a.id }

func (a *Account) Owner() *domain.Customer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.owner
}

func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

func (a *Account) Currency() currency.Currency {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cur
}

func (a *Account) Locked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.locked
}

func (a *Account) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

func (a *Account) PolicyKind() PolicyKind { return a.policy.kind }

// Holding returns the holding of one instrument.
func (a *Account) Holding(instrumentID string) (Holding, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	h, ok := a.holdings[instrumentID]
	return h, ok
}

// Holdings returns a copy of all holdings.
func (a *Account) Holdings() map[string]Holding {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyHoldings(a.holdings)
}

// Snapshot is a consistent view of an account.
type Snapshot struct {
	ID       int64
	Owner    *domain.Customer
	Kind     PolicyKind
	Balance  decimal.Decimal
	Currency currency.Currency
	Locked   bool
	Closed   bool
	Holdings map[string]int64
}

func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		ID:       a.id,
		Owner:    a.owner,
		Kind:     a.policy.kind,
		Balance:  a.balance,
		Currency: a.cur,
		Locked:   a.locked,
		Closed:   a.closed,
		Holdings: quantities(a.holdings),
	}
}

// Deposit credits amount. A currency argument converts the amount from that
// currency into the account currency.
func (a *Account) Deposit(amount float64, cur ...currency.Currency) error {
	value, err := currency.ParseAmount(amount)
	if err != nil {
		return err
	}
	return a.mutate(OpDeposit, "", func() ([]Change, error) {
		credit, err := a.inAccountCurrency(value, cur)
		if err != nil {
			return nil, err
		}
		if err := a.checkCredit(); err != nil {
			return nil, err
		}
		return []Change{a.setBalance(a.balance.Add(credit))}, nil
	})
}

// Withdraw debits amount if the withdrawal policy allows it. A declined
// withdrawal returns false and no error.
func (a *Account) Withdraw(amount float64, cur ...currency.Currency) (bool, error) {
	ok := false
	err := a.mutate(OpWithdraw, "", func() ([]Change, error) {
		change, _, err := a.debit(amount, cur)
		if errors.Is(err, errDeclined) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		ok = true
		return []Change{change}, nil
	})
	return ok, err
}

// errDeclined reports a policy decline from debit; callers turn it into false.
var errDeclined = errors.New("withdrawal declined")

// debit runs the policy check and books a withdrawal, returning the debited
// amount. A locked account fails before the amount is validated. Must hold a.mu.
func (a *Account) debit(raw float64, cur []currency.Currency) (Change, decimal.Decimal, error) {
	if a.locked {
		return Change{}, decimal.Zero, fmt.Errorf("account %d: %w", a.id, domain.ErrAccountLocked)
	}
	value, err := currency.ParseAmount(raw)
	if err != nil {
		return Change{}, decimal.Zero, err
	}
	amount, err := a.inAccountCurrency(value, cur)
	if err != nil {
		return Change{}, decimal.Zero, err
	}
	now := a.now()
	if !a.policy.Allow(amount, State{Balance: a.balance, Currency: a.cur, Base: a.base, Now: now}) {
		return Change{}, decimal.Zero, errDeclined
	}
	a.policy.Record(amount, now)
	return a.setBalance(a.balance.Sub(amount)), amount, nil
}

func (a *Account) Lock() error {
	return a.mutate(OpLock, "", func() ([]Change, error) {
		if a.locked {
			return nil, nil
		}
		a.locked = true
		return []Change{{Property: PropLocked, Old: false, New: true}}, nil
	})
}

func (a *Account) Unlock() error {
	return a.mutate(OpUnlock, "", func() ([]Change, error) {
		if !a.locked {
			return nil, nil
		}
		a.locked = false
		return []Change{{Property: PropLocked, Old: true, New: false}}, nil
	})
}

// ChangeCurrency converts the balance and the policy totals into c and
// switches the account to it. Negative balances convert by magnitude.
func (a *Account) ChangeCurrency(c currency.Currency) error {
	if c.IsZero() {
		return fmt.Errorf("%w: currency is required", domain.ErrInvalidArgument)
	}
	return a.mutate(OpChangeCurrency, "", func() ([]Change, error) {
		if a.cur.Equal(c) {
			return nil, nil
		}
		balance, err := currency.ConvertSigned(a.balance, a.cur, c)
		if err != nil {
			return nil, err
		}
		policy := a.policy
		if err := policy.Rebase(a.cur, c); err != nil {
			return nil, err
		}

		changes := []Change{
			{Property: PropCurrency, Old: a.cur.Code, New: c.Code},
			a.setBalance(balance),
		}
		if a.policy.kind == Overdraft && !policy.limit.Equal(a.policy.limit) {
			changes = append(changes, Change{Property: PropOverdraftLimit, Old: a.policy.limit, New: policy.limit})
		}
		a.cur = c
		a.policy = policy
		return changes, nil
	})
}

func (a *Account) SetOwner(owner *domain.Customer) error {
	if owner == nil {
		return fmt.Errorf("%w: account owner is required", domain.ErrInvalidArgument)
	}
	return a.mutate(OpSetOwner, "", func() ([]Change, error) {
		if a.locked {
			return nil, fmt.Errorf("account %d: %w", a.id, domain.ErrAccountLocked)
		}
		old := a.owner
		a.owner = owner
		return []Change{{Property: PropOwner, Old: old.ID, New: owner.ID}}, nil
	})
}

// Close rejects every later operation with domain.ErrAccountClosed. Closing a
// closed account is a no-op.
func (a *Account) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	note := a.note(OpClose, "", []Change{{Property: PropClosed, Old: false, New: true}})
	a.mu.Unlock()
	a.notifier.publish(note)
}

// FillBuy debits quantity*price and adds quantity to the holding of inst.
// It returns the cost, or zero when the account cannot pay or may not trade.
func (a *Account) FillBuy(inst *market.Instrument, quantity int64, price decimal.Decimal) (decimal.Decimal, error) {
	if inst == nil || quantity <= 0 || !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: buy fill %d @ %s", domain.ErrInvalidArgument, quantity, price)
	}
	cost := price.Mul(decimal.NewFromInt(quantity))
	filled := decimal.Zero

	err := a.mutate(OpBuy, "", func() ([]Change, error) {
		if a.locked || a.balance.LessThan(cost) {
			return nil, nil
		}
		before := quantities(a.holdings)
		h := a.holdings[inst.ID()]
		h.Instrument = inst
		h.Quantity += quantity
		a.holdings[inst.ID()] = h
		filled = cost
		return []Change{
			a.setBalance(a.balance.Sub(cost)),
			{Property: PropHoldings, Old: before, New: quantities(a.holdings)},
		}, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return filled, nil
}

// FillSell sells the full holding of an instrument at price and returns the
// proceeds and the quantity sold. Both are zero without a holding.
func (a *Account) FillSell(instrumentID string, price decimal.Decimal) (decimal.Decimal, int64, error) {
	if !price.IsPositive() {
		return decimal.Zero, 0, fmt.Errorf("%w: sell fill @ %s", domain.ErrInvalidArgument, price)
	}
	proceeds := decimal.Zero
	var sold int64

	err := a.mutate(OpSell, "", func() ([]Change, error) {
		h, ok := a.holdings[instrumentID]
		if !ok || h.Quantity == 0 {
			return nil, nil
		}
		if a.locked && !a.allowLockedDeposits {
			return nil, nil
		}
		before := quantities(a.holdings)
		delete(a.holdings, instrumentID)
		sold = h.Quantity
		proceeds = price.Mul(decimal.NewFromInt(h.Quantity))
		return []Change{
			a.setBalance(a.balance.Add(proceeds)),
			{Property: PropHoldings, Old: before, New: quantities(a.holdings)},
		}, nil
	})
	if err != nil {
		return decimal.Zero, 0, err
	}
	return proceeds, sold, nil
}

// FormattedBalance renders the balance with its currency symbol.
func (a *Account) FormattedBalance() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cur.Format(a.balance)
}

// FormattedID renders the identifier right-aligned in ten columns.
func (a *Account) FormattedID() string {
	return fmt.Sprintf("%10d", a.id)
}

func (a *Account) String() string {
	return fmt.Sprintf("account %d", a.id)
}

// Equal reports whether both accounts have the same identifier.
func (a *Account) Equal(o *Account) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.id == o.id
}

// Compare orders accounts by identifier.
func (a *Account) Compare(o *Account) int {
	switch {
	case a.id < o.id:
		return -1
	case a.id > o.id:
		return 1
	default:
		return 0
	}
}

// SortByID sorts accounts by ascending identifier.
func SortByID(accounts []*Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].id < accounts[j].id })
}

// mutate runs fn under the account lock and publishes one notification when
// fn reports changes. Closed accounts fail before fn runs.
func (a *Account) mutate(op, memo string, fn func() ([]Change, error)) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return fmt.Errorf("account %d: %w", a.id, domain.ErrAccountClosed)
	}
	changes, err := fn()
	if err != nil || len(changes) == 0 {
		a.mu.Unlock()
		return err
	}
	note := a.note(op, memo, changes)
	a.mu.Unlock()

	a.notifier.publish(note)
	return nil
}

// note stamps the next sequence number. Must hold a.mu.
func (a *Account) note(op, memo string, changes []Change) Notification {
	a.seq++
	return Notification{AccountID: a.id, Op: op, Seq: a.seq, Memo: memo, Changes: changes, At: a.now()}
}

func (a *Account) setBalance(next decimal.Decimal) Change {
	old := a.balance
	a.balance = next
	return Change{Property: PropBalance, Old: old, New: next}
}

func (a *Account) checkCredit() error {
	if a.locked && !a.allowLockedDeposits {
		return fmt.Errorf("account %d: %w", a.id, domain.ErrAccountLocked)
	}
	return nil
}

func (a *Account) inAccountCurrency(value decimal.Decimal, cur []currency.Currency) (decimal.Decimal, error) {
	if len(cur) == 0 || cur[0].IsZero() || cur[0].Equal(a.cur) {
		return value, nil
	}
	return currency.Convert(value, cur[0], a.cur)
}

func copyHoldings(in map[string]Holding) map[string]Holding {
	out := make(map[string]Holding, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func quantities(in map[string]Holding) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v.Quantity
	}
	return out
}
