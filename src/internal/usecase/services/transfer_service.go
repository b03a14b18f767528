package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
)

// Verify that TransferService implements the service_interfaces.TransferService interface
var _ service_interfaces.TransferService = (*TransferService)(nil)

type TransferService struct {
	bank         *BankService
	customerRepo domain.CustomerRepository
}

func NewTransferService(bank *BankService, customerRepo domain.CustomerRepository) *TransferService {
	return &TransferService{
		bank:         bank,
		customerRepo: customerRepo,
	}
}

func (s *TransferService) TransferFunds(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("transfer service transfer validation failed", err, nil)
		return commons.ErrorResponse[models.TransferResponse](MsgValidationFailed, err.Error()), err
	}

	from, err := parseAccountNumber(req.DebitAccountNumber)
	if err != nil {
		return commons.ErrorResponse[models.TransferResponse](MsgValidationFailed, err.Error()), err
	}
	to, err := parseAccountNumber(req.CreditAccountNumber)
	if err != nil {
		return commons.ErrorResponse[models.TransferResponse](MsgValidationFailed, err.Error()), err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return commons.ErrorResponse[models.TransferResponse](MsgValidationFailed, err.Error()), err
	}

	debitAccount, err := s.bank.Account(from)
	if err != nil {
		logger.Error("transfer service debit account lookup failed", err, logger.Fields{"accountNumber": from})
		return failure[models.TransferResponse](err, "failed to process transfer", "Unable to process transfer right now"), err
	}
	if err := verifyPin(ctx, s.customerRepo, debitAccount.Owner().ID, req.Pin); err != nil {
		return failure[models.TransferResponse](err, "failed to process transfer", "Unable to verify pin right now"), err
	}

	narration := strings.TrimSpace(req.Narration)
	ok, err := s.bank.Transfer(ctx, from, to, amount, narration)
	if err != nil {
		logger.Error("transfer service transfer failed", err, logger.Fields{
			"debitAccountNumber":  from,
			"creditAccountNumber": to,
			"amount":              req.Amount,
		})
		switch {
		case errors.Is(err, domain.ErrReconciliationRequired):
			return commons.ErrorResponse[models.TransferResponse]("transfer failed", "Transfer requires manual reconciliation"), err
		case errors.Is(err, domain.ErrTransferCompensated):
			return commons.ErrorResponse[models.TransferResponse]("transfer failed", "Credit failed and the debit was reversed"), err
		}
		return failure[models.TransferResponse](err, "failed to process transfer", "Unable to process transfer right now"), err
	}

	response := models.TransferResponse{
		DebitAccountNumber:  formatAccountNumber(from),
		CreditAccountNumber: formatAccountNumber(to),
		Amount:              strings.TrimSpace(req.Amount),
		Narration:           narration,
		Status:              models.TransferStatusCompleted,
		DebitBalance:        debitAccount.Balance().StringFixed(currency.Places),
	}
	if !ok {
		response.Status = models.TransferStatusDeclined
		logger.Info("transfer service transfer declined", logger.Fields{
			"debitAccountNumber":  response.DebitAccountNumber,
			"creditAccountNumber": response.CreditAccountNumber,
			"amount":              response.Amount,
		})
		return commons.DeclinedResponse(MsgDeclined, response, "transfer exceeds the debit account's allowance"), domain.ErrInsufficientBalance
	}

	logger.Info("transfer service transfer success", logger.Fields{
		"debitAccountNumber":  response.DebitAccountNumber,
		"creditAccountNumber": response.CreditAccountNumber,
		"amount":              response.Amount,
		"debitBalance":        response.DebitBalance,
	})

	return commons.SuccessResponse("Transaction successful", response), nil
}
