package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrInsufficientBalance = errors.New("Insufficient balance")

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrAccountLocked   = errors.New("account is locked")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountClosed   = errors.New("account is closed")
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Market and transfer faults.
var (
	ErrFeedRunning            = errors.New("price feed already running")
	ErrTransferCompensated    = errors.New("transfer credit failed, debit refunded")
	ErrReconciliationRequired = errors.New("transfer credit failed and refund failed, manual reconciliation required")
)
