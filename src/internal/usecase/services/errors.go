package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/market"
	"github.com/api-sage/account-ledger/src/internal/scheduler"
)

// Response messages the HTTP layer maps to status codes.
const (
	MsgValidationFailed   = "validation failed"
	MsgAccountNotFound    = "Account not found"
	MsgCustomerNotFound   = "Customer not found"
	MsgInstrumentNotFound = "Instrument not found"
	MsgOrderNotFound      = "Order not found"
	MsgAccountLocked      = "Account locked"
	MsgAccountClosed      = "Account closed"
	MsgInvalidPin         = "invalid pin"
	MsgDeclined           = "Insufficient balance"
	MsgUnavailable        = "Service unavailable"
)

var errInvalidPin = errors.New("invalid pin")

// failure maps a ledger error onto the response envelope. fallback is the
// message of errors the caller cannot act on.
func failure[T any](err error, fallback, detail string) commons.Response[T] {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return commons.ErrorResponse[T](MsgAccountNotFound)
	case errors.Is(err, domain.ErrAccountLocked):
		return commons.ErrorResponse[T](MsgAccountLocked, err.Error())
	case errors.Is(err, domain.ErrAccountClosed):
		return commons.ErrorResponse[T](MsgAccountClosed, err.Error())
	case errors.Is(err, errInvalidPin):
		return commons.ErrorResponse[T](MsgInvalidPin, "provided pin does not match")
	case errors.Is(err, domain.ErrInsufficientBalance):
		return commons.ErrorResponse[T](MsgDeclined, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnknownCurrency):
		return commons.ErrorResponse[T](MsgValidationFailed, err.Error())
	case errors.Is(err, market.ErrRetired):
		return commons.ErrorResponse[T](MsgInstrumentNotFound, err.Error())
	case errors.Is(err, scheduler.ErrShutdown):
		return commons.ErrorResponse[T](MsgUnavailable, "server is shutting down")
	default:
		return commons.ErrorResponse[T](fallback, detail)
	}
}

func parseAccountNumber(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < FirstAccountNumber || id > MaxAccountNumber {
		return 0, fmt.Errorf("%w: accountNumber %q is not a valid account number", domain.ErrInvalidArgument, raw)
	}
	return id, nil
}

func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q must be numeric", domain.ErrInvalidAmount, raw)
	}
	return amount, nil
}

func formatAccountNumber(id int64) string {
	return strconv.FormatInt(id, 10)
}
