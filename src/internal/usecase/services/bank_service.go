package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/transfer"
	"github.com/shopspring/decimal"
)

const (
	FirstAccountNumber int64 = 10_000_000
	MaxAccountNumber   int64 = 99_999_999
)

// ErrAccountNumbersExhausted is returned once every account number was issued.
var ErrAccountNumbersExhausted = errors.New("account numbers exhausted")

// registered is one account of the registry. variant is the *ledger.Checking
// or *ledger.Savings the account was created as.
type registered struct {
	account *ledger.Account
	variant any
}

// BankService owns the accounts of one bank, issues their numbers and routes
// calls by number.
type BankService struct {
	mu       sync.RWMutex
	accounts map[int64]registered
	next     int64

	protocol       *transfer.Protocol
	overdraftLimit float64
	opts           []ledger.Option
}

func NewBankService(protocol *transfer.Protocol, opts ...ledger.Option) *BankService {
	if protocol == nil {
		protocol = transfer.NewProtocol()
	}
	return &BankService{
		accounts:       make(map[int64]registered),
		next:           FirstAccountNumber,
		protocol:       protocol,
		overdraftLimit: ledger.DefaultOverdraftLimit,
		opts:           opts,
	}
}

// CreateChecking opens a checking account with the default overdraft line.
func (s *BankService) CreateChecking(owner *domain.Customer) (*ledger.Checking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.issueNumber()
	if err != nil {
		return nil, err
	}
	acct, err := ledger.NewChecking(id, owner, s.overdraftLimit, s.opts...)
	if err != nil {
		return nil, err
	}
	s.accounts[id] = registered{account: &acct.Account, variant: acct}
	s.next++

	logger.Info("bank service checking account created", logger.Fields{"accountNumber": id, "customerId": owner.ID})
	return acct, nil
}

func (s *BankService) CreateSavings(owner *domain.Customer) (*ledger.Savings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.issueNumber()
	if err != nil {
		return nil, err
	}
	acct, err := ledger.NewSavings(id, owner, s.opts...)
	if err != nil {
		return nil, err
	}
	s.accounts[id] = registered{account: &acct.Account, variant: acct}
	s.next++

	logger.Info("bank service savings account created", logger.Fields{"accountNumber": id, "customerId": owner.ID})
	return acct, nil
}

func (s *BankService) issueNumber() (int64, error) {
	if s.next > MaxAccountNumber {
		return 0, ErrAccountNumbersExhausted
	}
	return s.next, nil
}

// Account returns the account with the given number.
func (s *BankService) Account(id int64) (*ledger.Account, error) {
	r, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return r.account, nil
}

// Checking returns the account if it is a checking account.
func (s *BankService) Checking(id int64) (*ledger.Checking, error) {
	r, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	c, ok := r.variant.(*ledger.Checking)
	if !ok {
		return nil, fmt.Errorf("%w: account %d is not a checking account", domain.ErrInvalidArgument, id)
	}
	return c, nil
}

func (s *BankService) lookup(id int64) (registered, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.accounts[id]
	if !ok {
		return registered{}, fmt.Errorf("account %d: %w", id, domain.ErrAccountNotFound)
	}
	return r, nil
}

func (s *BankService) Balance(id int64) (decimal.Decimal, error) {
	acct, err := s.Account(id)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance(), nil
}

func (s *BankService) Deposit(id int64, amount float64, cur ...currency.Currency) error {
	acct, err := s.Account(id)
	if err != nil {
		return err
	}
	return acct.Deposit(amount, cur...)
}

func (s *BankService) Withdraw(id int64, amount float64, cur ...currency.Currency) (bool, error) {
	acct, err := s.Account(id)
	if err != nil {
		return false, err
	}
	return acct.Withdraw(amount, cur...)
}

// Transfer moves amount between two registered accounts. It returns false
// without touching either account when one of them cannot take part in
// transfers.
func (s *BankService) Transfer(ctx context.Context, from, to int64, amount float64, memo string) (bool, error) {
	sender, err := s.lookup(from)
	if err != nil {
		return false, err
	}
	receiver, err := s.lookup(to)
	if err != nil {
		return false, err
	}

	src, ok := sender.variant.(transfer.Capable)
	if !ok {
		return false, nil
	}
	dst, ok := receiver.variant.(transfer.Capable)
	if !ok {
		return false, nil
	}
	return s.protocol.Transfer(ctx, src, dst, amount, memo)
}

func (s *BankService) Lock(id int64) error {
	acct, err := s.Account(id)
	if err != nil {
		return err
	}
	return acct.Lock()
}

func (s *BankService) Unlock(id int64) error {
	acct, err := s.Account(id)
	if err != nil {
		return err
	}
	return acct.Unlock()
}

func (s *BankService) ChangeCurrency(id int64, c currency.Currency) error {
	acct, err := s.Account(id)
	if err != nil {
		return err
	}
	return acct.ChangeCurrency(c)
}

func (s *BankService) SetOverdraftLimit(id int64, limit float64) error {
	c, err := s.Checking(id)
	if err != nil {
		return err
	}
	return c.SetOverdraftLimit(limit)
}

// Delete closes the account and removes it from the registry. Its number
// becomes free again.
func (s *BankService) Delete(id int64) error {
	s.mu.Lock()
	r, ok := s.accounts[id]
	delete(s.accounts, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("account %d: %w", id, domain.ErrAccountNotFound)
	}
	r.account.Close()

	logger.Info("bank service account deleted", logger.Fields{"accountNumber": id})
	return nil
}

// Accounts returns every registered account ordered by number.
func (s *BankService) Accounts() []*ledger.Account {
	s.mu.RLock()
	out := make([]*ledger.Account, 0, len(s.accounts))
	for _, r := range s.accounts {
		out = append(out, r.account)
	}
	s.mu.RUnlock()
	ledger.SortByID(out)
	return out
}

// LockOverdrawn locks every account with a negative balance and returns their
// numbers.
func (s *BankService) LockOverdrawn() ([]int64, error) {
	var locked []int64
	for _, acct := range s.Accounts() {
		if !acct.Balance().IsNegative() {
			continue
		}
		if err := acct.Lock(); err != nil {
			// closed by a concurrent Delete after the snapshot
			if errors.Is(err, domain.ErrAccountClosed) {
				continue
			}
			return locked, fmt.Errorf("lock account %d: %w", acct.ID(), err)
		}
		locked = append(locked, acct.ID())
	}
	logger.Info("bank service overdrawn accounts locked", logger.Fields{"count": len(locked)})
	return locked, nil
}

// CustomersWithMinimumBalance returns the distinct owners of accounts whose
// balance is at least min.
func (s *BankService) CustomersWithMinimumBalance(min decimal.Decimal) []*domain.Customer {
	seen := make(map[string]bool)
	var out []*domain.Customer
	for _, acct := range s.Accounts() {
		snap := acct.Snapshot()
		if snap.Balance.LessThan(min) || seen[snap.Owner.ID] {
			continue
		}
		seen[snap.Owner.ID] = true
		out = append(out, snap.Owner)
	}
	return out
}

// CustomerAddresses lists "name, address" of every distinct owner, sorted by
// name.
func (s *BankService) CustomerAddresses() []string {
	seen := make(map[string]bool)
	var out []string
	for _, acct := range s.Accounts() {
		owner := acct.Owner()
		if seen[owner.ID] {
			continue
		}
		seen[owner.ID] = true
		out = append(out, owner.Name+", "+owner.Address)
	}
	sort.Strings(out)
	return out
}

// FreeAccountNumbers returns up to limit unused numbers in the issued range
// followed by the next numbers to be issued.
func (s *BankService) FreeAccountNumbers(limit int) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int64
	for id := FirstAccountNumber; id <= MaxAccountNumber && len(out) < limit; id++ {
		if _, used := s.accounts[id]; !used {
			out = append(out, id)
		}
	}
	return out
}
