package models

import (
	"errors"
	"strings"
)

const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"
)

type CreateAccountRequest struct {
	CustomerID     string `json:"customerId"`
	Type           string `json:"type"`
	Currency       string `json:"currency,omitempty"`
	InitialDeposit string `json:"initialDeposit,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.CustomerID) == "" {
		errs = append(errs, "customerId is required")
	}
	switch strings.ToLower(strings.TrimSpace(r.Type)) {
	case AccountTypeChecking, AccountTypeSavings:
	case "":
		errs = append(errs, "type is required")
	default:
		errs = append(errs, "type must be checking or savings")
	}
	errs = checkCurrency(errs, "currency", r.Currency, false)
	if strings.TrimSpace(r.InitialDeposit) != "" {
		errs = checkAmount(errs, "initialDeposit", r.InitialDeposit, true)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type AccountResponse struct {
	AccountNumber    string           `json:"accountNumber"`
	CustomerID       string           `json:"customerId"`
	AccountName      string           `json:"accountName,omitempty"`
	Type             string           `json:"type"`
	Currency         string           `json:"currency"`
	Balance          string           `json:"balance"`
	FormattedBalance string           `json:"formattedBalance"`
	OverdraftLimit   string           `json:"overdraftLimit,omitempty"`
	Locked           bool             `json:"locked"`
	Closed           bool             `json:"closed"`
	Holdings         map[string]int64 `json:"holdings,omitempty"`
}

type DepositFundsRequest struct {
	AccountNumber string `json:"accountNumber"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency,omitempty"`
}

func (r DepositFundsRequest) Validate() error {
	var errs []string

	errs = checkAccountNumber(errs, "accountNumber", r.AccountNumber)
	errs = checkAmount(errs, "amount", r.Amount, false)
	errs = checkCurrency(errs, "currency", r.Currency, false)

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type WithdrawFundsRequest struct {
	AccountNumber string `json:"accountNumber"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency,omitempty"`
	Pin           string `json:"pin"`
}

func (r WithdrawFundsRequest) Validate() error {
	var errs []string

	errs = checkAccountNumber(errs, "accountNumber", r.AccountNumber)
	errs = checkAmount(errs, "amount", r.Amount, false)
	errs = checkCurrency(errs, "currency", r.Currency, false)
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type FundsResponse struct {
	AccountNumber string `json:"accountNumber"`
	Currency      string `json:"currency"`
	Amount        string `json:"amount"`
	Accepted      bool   `json:"accepted"`
	Balance       string `json:"balance"`
}

type AccountActionRequest struct {
	AccountNumber string `json:"accountNumber"`
}

func (r AccountActionRequest) Validate() error {
	if errs := checkAccountNumber(nil, "accountNumber", r.AccountNumber); len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ChangeCurrencyRequest struct {
	AccountNumber string `json:"accountNumber"`
	Currency      string `json:"currency"`
}

func (r ChangeCurrencyRequest) Validate() error {
	var errs []string

	errs = checkAccountNumber(errs, "accountNumber", r.AccountNumber)
	errs = checkCurrency(errs, "currency", r.Currency, true)

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type SetOverdraftRequest struct {
	AccountNumber string `json:"accountNumber"`
	Limit         string `json:"limit"`
}

func (r SetOverdraftRequest) Validate() error {
	var errs []string

	errs = checkAccountNumber(errs, "accountNumber", r.AccountNumber)
	errs = checkAmount(errs, "limit", r.Limit, true)

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LockOverdrawnResponse struct {
	Locked []string `json:"locked"`
}

// LockOverdrawnRequest carries no fields. The sweep covers every account.
type LockOverdrawnRequest struct{}

func (LockOverdrawnRequest) Validate() error { return nil }
