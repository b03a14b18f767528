package service_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, accountNumber string) (commons.Response[models.AccountResponse], error)
	ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error)
	DepositFunds(ctx context.Context, req models.DepositFundsRequest) (commons.Response[models.FundsResponse], error)
	WithdrawFunds(ctx context.Context, req models.WithdrawFundsRequest) (commons.Response[models.FundsResponse], error)
	LockAccount(ctx context.Context, req models.AccountActionRequest) (commons.Response[models.AccountResponse], error)
	UnlockAccount(ctx context.Context, req models.AccountActionRequest) (commons.Response[models.AccountResponse], error)
	CloseAccount(ctx context.Context, req models.AccountActionRequest) (commons.Response[models.AccountResponse], error)
	ChangeCurrency(ctx context.Context, req models.ChangeCurrencyRequest) (commons.Response[models.AccountResponse], error)
	SetOverdraftLimit(ctx context.Context, req models.SetOverdraftRequest) (commons.Response[models.AccountResponse], error)
	LockOverdrawn(ctx context.Context) (commons.Response[models.LockOverdrawnResponse], error)
	CustomersWithMinimumBalance(ctx context.Context, minimum string) (commons.Response[models.MinimumBalanceResponse], error)
}
