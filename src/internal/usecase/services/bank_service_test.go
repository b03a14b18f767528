package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const testPin = "4321"

func seedCustomer(t *testing.T, repo *memory.CustomerRepository, id, name, address string) *domain.Customer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to generate test hash: %v", err)
	}
	created, err := repo.Create(context.Background(), domain.Customer{ID: id, Name: name, Address: address, PinHash: string(hash)})
	if err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return &created
}

func TestBankServiceIssuesSequentialNumbers(t *testing.T) {
	bank := services.NewBankService(nil)

	first, err := bank.CreateChecking(domain.Sample)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	second, err := bank.CreateSavings(domain.Sample)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if first.ID() != services.FirstAccountNumber || second.ID() != services.FirstAccountNumber+1 {
		t.Fatalf("expected numbers %d and %d, got %d and %d", services.FirstAccountNumber, services.FirstAccountNumber+1, first.ID(), second.ID())
	}
	if len(bank.Accounts()) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(bank.Accounts()))
	}
}

func TestBankServiceUnknownAccount(t *testing.T) {
	bank := services.NewBankService(nil)

	if _, err := bank.Balance(12345678); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if err := bank.Deposit(12345678, 10); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := bank.Transfer(context.Background(), 12345678, 12345679, 10, ""); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestBankServiceTransferBetweenCheckingAccounts(t *testing.T) {
	bank := services.NewBankService(nil)
	a, _ := bank.CreateChecking(domain.Sample)
	b, _ := bank.CreateChecking(domain.Sample)

	if err := bank.Deposit(a.ID(), 1000); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	ok, err := bank.Transfer(context.Background(), a.ID(), b.ID(), 300, "rent")
	if err != nil || !ok {
		t.Fatalf("expected completed transfer, got ok=%v err=%v", ok, err)
	}

	balanceA, _ := bank.Balance(a.ID())
	balanceB, _ := bank.Balance(b.ID())
	if !balanceA.Equal(decimal.NewFromInt(700)) || !balanceB.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected balances 700/300, got %s/%s", balanceA, balanceB)
	}
}

func TestBankServiceTransferWithSavingsIsDeclined(t *testing.T) {
	bank := services.NewBankService(nil)
	checking, _ := bank.CreateChecking(domain.Sample)
	savings, _ := bank.CreateSavings(domain.Sample)
	_ = bank.Deposit(checking.ID(), 100)

	ok, err := bank.Transfer(context.Background(), checking.ID(), savings.ID(), 50, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ok {
		t.Fatal("expected transfer into savings to be declined")
	}
	if !checking.Balance().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected untouched balance 100, got %s", checking.Balance())
	}
}

func TestBankServiceDeleteFreesNumber(t *testing.T) {
	bank := services.NewBankService(nil)
	first, _ := bank.CreateChecking(domain.Sample)
	_, _ = bank.CreateChecking(domain.Sample)

	if err := bank.Delete(first.ID()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !first.Closed() {
		t.Fatal("expected deleted account to be closed")
	}
	if err := bank.Delete(first.ID()); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound on second delete, got %v", err)
	}

	free := bank.FreeAccountNumbers(2)
	if len(free) != 2 || free[0] != services.FirstAccountNumber || free[1] != services.FirstAccountNumber+2 {
		t.Fatalf("unexpected free numbers %v", free)
	}
}

func TestBankServiceLockOverdrawn(t *testing.T) {
	bank := services.NewBankService(nil)
	overdrawn, _ := bank.CreateChecking(domain.Sample)
	healthy, _ := bank.CreateChecking(domain.Sample)
	_ = bank.Deposit(healthy.ID(), 10)

	ok, err := bank.Withdraw(overdrawn.ID(), 200)
	if err != nil || !ok {
		t.Fatalf("expected overdraft withdrawal, got ok=%v err=%v", ok, err)
	}

	locked, err := bank.LockOverdrawn()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(locked) != 1 || locked[0] != overdrawn.ID() {
		t.Fatalf("expected only %d locked, got %v", overdrawn.ID(), locked)
	}
	if !overdrawn.Locked() || healthy.Locked() {
		t.Fatal("unexpected lock state after LockOverdrawn")
	}
}

func TestBankServiceLockOverdrawnSkipsClosedAccounts(t *testing.T) {
	bank := services.NewBankService(nil)
	closing, _ := bank.CreateChecking(domain.Sample)
	first, _ := bank.CreateChecking(domain.Sample)
	second, _ := bank.CreateChecking(domain.Sample)
	for _, id := range []int64{closing.ID(), first.ID(), second.ID()} {
		if ok, err := bank.Withdraw(id, 100); err != nil || !ok {
			t.Fatalf("account %d: expected overdraft withdrawal, got ok=%v err=%v", id, ok, err)
		}
	}

	// still registered, so LockOverdrawn sees it the way it would after a racing Delete
	closing.Close()

	locked, err := bank.LockOverdrawn()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(locked) != 2 || locked[0] != first.ID() || locked[1] != second.ID() {
		t.Fatalf("expected %d and %d locked, got %v", first.ID(), second.ID(), locked)
	}
	if !first.Locked() || !second.Locked() || closing.Locked() {
		t.Fatal("unexpected lock state after LockOverdrawn")
	}
}

func TestBankServiceCustomerQueries(t *testing.T) {
	repo := memory.NewCustomerRepository()
	ada := seedCustomer(t, repo, "1000000001", "Ada", "12 Crescent")
	bob := seedCustomer(t, repo, "1000000002", "Bob", "3 Harbour Rd")

	bank := services.NewBankService(nil, ledger.WithLockedDeposits(true))
	a1, _ := bank.CreateChecking(ada)
	a2, _ := bank.CreateSavings(ada)
	b1, _ := bank.CreateChecking(bob)
	_ = bank.Deposit(a1.ID(), 50)
	_ = bank.Deposit(a2.ID(), 600)
	_ = bank.Deposit(b1.ID(), 100)

	rich := bank.CustomersWithMinimumBalance(decimal.NewFromInt(500))
	if len(rich) != 1 || rich[0].ID != ada.ID {
		t.Fatalf("expected only Ada, got %v", rich)
	}

	addresses := bank.CustomerAddresses()
	if len(addresses) != 2 || addresses[0] != "Ada, 12 Crescent" || addresses[1] != "Bob, 3 Harbour Rd" {
		t.Fatalf("unexpected addresses %v", addresses)
	}
}
