package controller

import (
	"context"
	"net/http"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/accounts", protect(c.accounts, authMiddleware))
	mux.Handle("/accounts/deposit", protect(c.deposit, authMiddleware))
	mux.Handle("/accounts/withdraw", protect(c.withdraw, authMiddleware))
	mux.Handle("/accounts/lock", protect(c.lock, authMiddleware))
	mux.Handle("/accounts/unlock", protect(c.unlock, authMiddleware))
	mux.Handle("/accounts/close", protect(c.close, authMiddleware))
	mux.Handle("/accounts/currency", protect(c.changeCurrency, authMiddleware))
	mux.Handle("/accounts/overdraft", protect(c.setOverdraft, authMiddleware))
	mux.Handle("/accounts/lock-overdrawn", protect(c.lockOverdrawn, authMiddleware))
	mux.Handle("/customers/minimum-balance", protect(c.minimumBalance, authMiddleware))
}

// accounts creates an account on POST. GET lists every account, or one
// account when ?accountNumber= is given.
func (c *AccountController) accounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		serveBody(w, r, http.StatusCreated, c.service.CreateAccount)
		return
	}
	if accountNumber := r.URL.Query().Get("accountNumber"); accountNumber != "" {
		serveQuery(w, r, func(ctx context.Context) (commons.Response[models.AccountResponse], error) {
			return c.service.GetAccount(ctx, accountNumber)
		})
		return
	}
	serveQuery(w, r, c.service.ListAccounts)
}

func (c *AccountController) deposit(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, c.service.DepositFunds)
}

func (c *AccountController) withdraw(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, c.service.WithdrawFunds)
}

func (c *AccountController) lock(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, c.service.LockAccount)
}

func (c *AccountController) unlock(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, c.service.UnlockAccount)
}

func (c *AccountController) close(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, c.service.CloseAccount)
}

func (c *AccountController) changeCurrency(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, c.service.ChangeCurrency)
}

func (c *AccountController) setOverdraft(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, c.service.SetOverdraftLimit)
}

func (c *AccountController) lockOverdrawn(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, func(ctx context.Context, _ models.LockOverdrawnRequest) (commons.Response[models.LockOverdrawnResponse], error) {
		return c.service.LockOverdrawn(ctx)
	})
}

func (c *AccountController) minimumBalance(w http.ResponseWriter, r *http.Request) {
	serveQuery(w, r, func(ctx context.Context) (commons.Response[models.MinimumBalanceResponse], error) {
		return c.service.CustomersWithMinimumBalance(ctx, r.URL.Query().Get("minimum"))
	})
}
