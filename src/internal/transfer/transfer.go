// Package transfer moves funds between two transfer-capable accounts by
// debiting the sender and crediting the receiver.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

// Counterparty identifies the other side of a transfer.
type Counterparty interface {
	ID() int64
}

// Capable is implemented by account variants that take part in transfers.
type Capable interface {
	Counterparty
	// SendTransfer validates and debits amount in the sender's currency. A
	// locked sender fails before the amount is validated. A policy decline
	// returns false and no error.
	SendTransfer(amount float64, to Counterparty, memo string) (currency.Money, bool, error)
	// ReceiveTransfer credits funds, converting them when needed.
	ReceiveTransfer(funds currency.Money, from Counterparty, memo string) error
}

// Protocol runs the debit-then-credit exchange. It takes no cross-account
// lock; each half is serialized by its own account.
type Protocol struct{}

func NewProtocol() *Protocol {
	return &Protocol{}
}

// Transfer moves amount from one account to another. It returns false with
// no error when the sender's policy declines the debit.
//
// When the credit fails after a successful debit the sender is refunded and
// domain.ErrTransferCompensated is returned. If the refund fails as well the
// error wraps domain.ErrReconciliationRequired.
func (p *Protocol) Transfer(ctx context.Context, from, to Capable, amount float64, memo string) (bool, error) {
	if from == nil || to == nil {
		return false, fmt.Errorf("%w: transfer needs two accounts", domain.ErrInvalidArgument)
	}
	if from.ID() == to.ID() {
		return false, fmt.Errorf("%w: cannot transfer account %d to itself", domain.ErrInvalidArgument, from.ID())
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fields := logger.Fields{
		"from":   from.ID(),
		"to":     to.ID(),
		"amount": amount,
		"memo":   memo,
	}

	sent, ok, err := from.SendTransfer(amount, to, memo)
	if err != nil {
		return false, err
	}
	if !ok {
		logger.Info("transfer declined by sender policy", fields)
		return false, nil
	}

	creditErr := to.ReceiveTransfer(sent, from, memo)
	if creditErr == nil {
		return true, nil
	}

	logger.Error("transfer credit failed after debit", creditErr, fields)
	if refundErr := from.ReceiveTransfer(sent, to, "refund: "+memo); refundErr != nil {
		logger.Error("transfer refund failed", refundErr, fields)
		return false, fmt.Errorf("%w: credit: %w, refund: %w", domain.ErrReconciliationRequired, creditErr, refundErr)
	}
	logger.Warn("transfer refunded to sender", fields)
	return false, errors.Join(domain.ErrTransferCompensated, creditErr)
}
