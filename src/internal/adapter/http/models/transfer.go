package models

import (
	"errors"
	"strings"
)

const (
	TransferStatusCompleted = "COMPLETED"
	TransferStatusDeclined  = "DECLINED"
)

type TransferRequest struct {
	DebitAccountNumber  string `json:"debitAccountNumber"`
	CreditAccountNumber string `json:"creditAccountNumber"`
	Amount              string `json:"amount"`
	Narration           string `json:"narration,omitempty"`
	Pin                 string `json:"pin"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	errs = checkAccountNumber(errs, "debitAccountNumber", r.DebitAccountNumber)
	errs = checkAccountNumber(errs, "creditAccountNumber", r.CreditAccountNumber)
	if strings.TrimSpace(r.DebitAccountNumber) != "" && strings.TrimSpace(r.DebitAccountNumber) == strings.TrimSpace(r.CreditAccountNumber) {
		errs = append(errs, "debitAccountNumber and creditAccountNumber cannot be the same")
	}
	errs = checkAmount(errs, "amount", r.Amount, false)
	if len(strings.TrimSpace(r.Narration)) > 140 {
		errs = append(errs, "narration must be at most 140 characters")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type TransferResponse struct {
	DebitAccountNumber  string `json:"debitAccountNumber"`
	CreditAccountNumber string `json:"creditAccountNumber"`
	Amount              string `json:"amount"`
	Narration           string `json:"narration,omitempty"`
	Status              string `json:"status"`
	DebitBalance        string `json:"debitBalance"`
}
