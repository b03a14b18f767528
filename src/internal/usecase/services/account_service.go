package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

// Verify that AccountService implements the service_interfaces.AccountService interface
var _ service_interfaces.AccountService = (*AccountService)(nil)

type AccountService struct {
	bank         *BankService
	customerRepo domain.CustomerRepository
	currencies   *currency.Table
}

func NewAccountService(bank *BankService, customerRepo domain.CustomerRepository, currencies *currency.Table) *AccountService {
	return &AccountService{
		bank:         bank,
		customerRepo: customerRepo,
		currencies:   currencies,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse](MsgValidationFailed, err.Error()), err
	}

	customerID := strings.TrimSpace(req.CustomerID)
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		logger.Error("account service create account customer lookup failed", err, logger.Fields{
			"customerId": customerID,
		})
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse](MsgCustomerNotFound), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	var cur currency.Currency
	if code := strings.TrimSpace(req.Currency); code != "" {
		if cur, err = s.currencies.Lookup(code); err != nil {
			return commons.ErrorResponse[models.AccountResponse](MsgValidationFailed, err.Error()), err
		}
	}
	var initial float64
	if strings.TrimSpace(req.InitialDeposit) != "" {
		if initial, err = parseAmount(req.InitialDeposit); err != nil {
			return commons.ErrorResponse[models.AccountResponse](MsgValidationFailed, err.Error()), err
		}
	}

	owner := &customer
	var acct *ledger.Account
	if strings.EqualFold(strings.TrimSpace(req.Type), models.AccountTypeSavings) {
		savings, err := s.bank.CreateSavings(owner)
		if err != nil {
			logger.Error("account service create savings failed", err, logger.Fields{"customerId": customerID})
			return failure[models.AccountResponse](err, "failed to create account", "Unable to create account right now"), err
		}
		acct = &savings.Account
	} else {
		checking, err := s.bank.CreateChecking(owner)
		if err != nil {
			logger.Error("account service create checking failed", err, logger.Fields{"customerId": customerID})
			return failure[models.AccountResponse](err, "failed to create account", "Unable to create account right now"), err
		}
		acct = &checking.Account
	}

	if !cur.IsZero() {
		if err := acct.ChangeCurrency(cur); err != nil {
			logger.Error("account service create account set currency failed", err, logger.Fields{"accountNumber": acct.ID()})
			return failure[models.AccountResponse](err, "failed to create account", "Unable to create account right now"), err
		}
	}
	if initial > 0 {
		if err := acct.Deposit(initial); err != nil {
			logger.Error("account service create account initial deposit failed", err, logger.Fields{"accountNumber": acct.ID()})
			return failure[models.AccountResponse](err, "failed to create account", "Unable to create account right now"), err
		}
	}

	response := s.mapAccount(acct)
	logger.Info("account service create account success", logger.Fields{
		"accountNumber": response.AccountNumber,
		"customerId":    response.CustomerID,
		"type":          response.Type,
	})

	return commons.SuccessResponse("account created successfully", response), nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountNumber string) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service get account request", logger.Fields{
		"accountNumber": accountNumber,
	})

	acct, resp, err := s.resolve(accountNumber)
	if err != nil {
		return resp, err
	}

	return commons.SuccessResponse("account fetched successfully", s.mapAccount(acct)), nil
}

func (s *AccountService) ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error) {
	logger.Info("account service list accounts request", nil)

	accounts := s.bank.Accounts()
	response := make([]models.AccountResponse, 0, len(accounts))
	for _, acct := range accounts {
		response = append(response, s.mapAccount(acct))
	}

	logger.Info("account service list accounts success", logger.Fields{"count": len(response)})
	return commons.SuccessResponse("accounts fetched successfully", response), nil
}

func (s *AccountService) DepositFunds(ctx context.Context, req models.DepositFundsRequest) (commons.Response[models.FundsResponse], error) {
	logger.Info("account service deposit funds request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service deposit funds validation failed", err, nil)
		return commons.ErrorResponse[models.FundsResponse](MsgValidationFailed, err.Error()), err
	}

	acct, amount, cur, err := s.fundsInput(req.AccountNumber, req.Amount, req.Currency)
	if err != nil {
		return failure[models.FundsResponse](err, "failed to deposit funds", "Unable to deposit funds right now"), err
	}

	if err := acct.Deposit(amount, cur...); err != nil {
		logger.Error("account service deposit funds failed", err, logger.Fields{
			"accountNumber": acct.ID(),
			"amount":        req.Amount,
		})
		return failure[models.FundsResponse](err, "failed to deposit funds", "Unable to deposit funds right now"), err
	}

	response := s.mapFunds(acct, req.Amount, req.Currency, true)
	logger.Info("account service deposit funds success", logger.Fields{
		"accountNumber": response.AccountNumber,
		"amount":        response.Amount,
		"balance":       response.Balance,
	})

	return commons.SuccessResponse("funds deposited successfully", response), nil
}

func (s *AccountService) WithdrawFunds(ctx context.Context, req models.WithdrawFundsRequest) (commons.Response[models.FundsResponse], error) {
	logger.Info("account service withdraw funds request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service withdraw funds validation failed", err, nil)
		return commons.ErrorResponse[models.FundsResponse](MsgValidationFailed, err.Error()), err
	}

	acct, amount, cur, err := s.fundsInput(req.AccountNumber, req.Amount, req.Currency)
	if err != nil {
		return failure[models.FundsResponse](err, "failed to withdraw funds", "Unable to withdraw funds right now"), err
	}
	if err := verifyPin(ctx, s.customerRepo, acct.Owner().ID, req.Pin); err != nil {
		return failure[models.FundsResponse](err, "failed to withdraw funds", "Unable to verify pin right now"), err
	}

	ok, err := acct.Withdraw(amount, cur...)
	if err != nil {
		logger.Error("account service withdraw funds failed", err, logger.Fields{
			"accountNumber": acct.ID(),
			"amount":        req.Amount,
		})
		return failure[models.FundsResponse](err, "failed to withdraw funds", "Unable to withdraw funds right now"), err
	}
	if !ok {
		logger.Info("account service withdraw funds declined", logger.Fields{
			"accountNumber": acct.ID(),
			"amount":        req.Amount,
		})
		return commons.ErrorResponse[models.FundsResponse](MsgDeclined, "withdrawal exceeds the account's allowance"), domain.ErrInsufficientBalance
	}

	response := s.mapFunds(acct, req.Amount, req.Currency, true)
	logger.Info("account service withdraw funds success", logger.Fields{
		"accountNumber": response.AccountNumber,
		"amount":        response.Amount,
		"balance":       response.Balance,
	})

	return commons.SuccessResponse("funds withdrawn successfully", response), nil
}

func (s *AccountService) LockAccount(ctx context.Context, req models.AccountActionRequest) (commons.Response[models.AccountResponse], error) {
	return s.accountAction("lock", req, func(acct *ledger.Account) error { return acct.Lock() })
}

func (s *AccountService) UnlockAccount(ctx context.Context, req models.AccountActionRequest) (commons.Response[models.AccountResponse], error) {
	return s.accountAction("unlock", req, func(acct *ledger.Account) error { return acct.Unlock() })
}

// CloseAccount closes the account and removes it from the registry.
func (s *AccountService) CloseAccount(ctx context.Context, req models.AccountActionRequest) (commons.Response[models.AccountResponse], error) {
	return s.accountAction("close", req, func(acct *ledger.Account) error { return s.bank.Delete(acct.ID()) })
}

func (s *AccountService) ChangeCurrency(ctx context.Context, req models.ChangeCurrencyRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service change currency request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse](MsgValidationFailed, err.Error()), err
	}
	cur, err := s.currencies.Lookup(req.Currency)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse](MsgValidationFailed, err.Error()), err
	}

	return s.accountAction("change currency", models.AccountActionRequest{AccountNumber: req.AccountNumber}, func(acct *ledger.Account) error {
		return acct.ChangeCurrency(cur)
	})
}

func (s *AccountService) SetOverdraftLimit(ctx context.Context, req models.SetOverdraftRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service set overdraft request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse](MsgValidationFailed, err.Error()), err
	}
	limit, err := parseAmount(req.Limit)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse](MsgValidationFailed, err.Error()), err
	}

	return s.accountAction("set overdraft", models.AccountActionRequest{AccountNumber: req.AccountNumber}, func(acct *ledger.Account) error {
		return s.bank.SetOverdraftLimit(acct.ID(), limit)
	})
}

func (s *AccountService) LockOverdrawn(ctx context.Context) (commons.Response[models.LockOverdrawnResponse], error) {
	logger.Info("account service lock overdrawn request", nil)

	ids, err := s.bank.LockOverdrawn()
	if err != nil {
		logger.Error("account service lock overdrawn failed", err, nil)
		return failure[models.LockOverdrawnResponse](err, "failed to lock overdrawn accounts", "Unable to lock accounts right now"), err
	}

	response := models.LockOverdrawnResponse{Locked: make([]string, 0, len(ids))}
	for _, id := range ids {
		response.Locked = append(response.Locked, formatAccountNumber(id))
	}
	return commons.SuccessResponse("overdrawn accounts locked successfully", response), nil
}

func (s *AccountService) CustomersWithMinimumBalance(ctx context.Context, minimum string) (commons.Response[models.MinimumBalanceResponse], error) {
	logger.Info("account service customers with minimum balance request", logger.Fields{
		"minimum": minimum,
	})

	floor, err := decimal.NewFromString(strings.TrimSpace(minimum))
	if err != nil {
		return commons.ErrorResponse[models.MinimumBalanceResponse](MsgValidationFailed, "minimum must be numeric"), err
	}

	customers := s.bank.CustomersWithMinimumBalance(floor)
	response := models.MinimumBalanceResponse{Minimum: floor.StringFixed(currency.Places), Customers: make([]models.CustomerResponse, 0, len(customers))}
	for _, c := range customers {
		response.Customers = append(response.Customers, mapCustomer(*c))
	}
	return commons.SuccessResponse("customers fetched successfully", response), nil
}

func (s *AccountService) accountAction(action string, req models.AccountActionRequest, fn func(*ledger.Account) error) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service "+action+" request", logger.Fields{
		"accountNumber": req.AccountNumber,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse](MsgValidationFailed, err.Error()), err
	}
	acct, resp, err := s.resolve(req.AccountNumber)
	if err != nil {
		return resp, err
	}

	if err := fn(acct); err != nil {
		logger.Error("account service "+action+" failed", err, logger.Fields{
			"accountNumber": acct.ID(),
		})
		return failure[models.AccountResponse](err, "failed to "+action+" account", "Unable to update account right now"), err
	}

	response := s.mapAccount(acct)
	logger.Info("account service "+action+" success", logger.Fields{
		"accountNumber": response.AccountNumber,
		"locked":        response.Locked,
		"currency":      response.Currency,
	})
	return commons.SuccessResponse("account updated successfully", response), nil
}

func (s *AccountService) resolve(accountNumber string) (*ledger.Account, commons.Response[models.AccountResponse], error) {
	id, err := parseAccountNumber(accountNumber)
	if err != nil {
		return nil, commons.ErrorResponse[models.AccountResponse](MsgValidationFailed, err.Error()), err
	}
	acct, err := s.bank.Account(id)
	if err != nil {
		logger.Error("account service account lookup failed", err, logger.Fields{"accountNumber": accountNumber})
		return nil, failure[models.AccountResponse](err, "failed to get account", "Unable to fetch account right now"), err
	}
	return acct, commons.Response[models.AccountResponse]{}, nil
}

func (s *AccountService) fundsInput(accountNumber, rawAmount, code string) (*ledger.Account, float64, []currency.Currency, error) {
	id, err := parseAccountNumber(accountNumber)
	if err != nil {
		return nil, 0, nil, err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, 0, nil, err
	}
	var cur []currency.Currency
	if strings.TrimSpace(code) != "" {
		c, err := s.currencies.Lookup(code)
		if err != nil {
			return nil, 0, nil, err
		}
		cur = append(cur, c)
	}
	acct, err := s.bank.Account(id)
	if err != nil {
		return nil, 0, nil, err
	}
	return acct, amount, cur, nil
}

func (s *AccountService) mapAccount(acct *ledger.Account) models.AccountResponse {
	snap := acct.Snapshot()
	response := models.AccountResponse{
		AccountNumber:    formatAccountNumber(snap.ID),
		CustomerID:       snap.Owner.ID,
		AccountName:      snap.Owner.Name,
		Type:             models.AccountTypeChecking,
		Currency:         snap.Currency.Code,
		Balance:          snap.Balance.StringFixed(currency.Places),
		FormattedBalance: snap.Currency.Format(snap.Balance),
		Locked:           snap.Locked,
		Closed:           snap.Closed,
		Holdings:         snap.Holdings,
	}
	if snap.Kind == ledger.Capped {
		response.Type = models.AccountTypeSavings
	} else if c, err := s.bank.Checking(snap.ID); err == nil {
		response.OverdraftLimit = c.OverdraftLimit().StringFixed(currency.Places)
	}
	return response
}

func (s *AccountService) mapFunds(acct *ledger.Account, amount, code string, accepted bool) models.FundsResponse {
	snap := acct.Snapshot()
	if strings.TrimSpace(code) == "" {
		code = snap.Currency.Code
	}
	return models.FundsResponse{
		AccountNumber: formatAccountNumber(snap.ID),
		Currency:      strings.ToUpper(strings.TrimSpace(code)),
		Amount:        strings.TrimSpace(amount),
		Accepted:      accepted,
		Balance:       snap.Balance.StringFixed(currency.Places),
	}
}
