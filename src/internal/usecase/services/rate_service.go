package services

import (
	"context"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

// Verify that RateService implements the service_interfaces.RateService interface
var _ service_interfaces.RateService = (*RateService)(nil)

// RateService exposes the fixed currency table.
type RateService struct {
	currencies *currency.Table
}

func NewRateService(currencies *currency.Table) *RateService {
	return &RateService{currencies: currencies}
}

func (s *RateService) GetCurrencies(ctx context.Context) (commons.Response[[]models.CurrencyResponse], error) {
	logger.Info("rate service get currencies request", nil)

	base := s.currencies.Base()
	all := s.currencies.All()
	resp := make([]models.CurrencyResponse, 0, len(all))
	for _, c := range all {
		resp = append(resp, models.CurrencyResponse{
			Code: c.Code,
			Rate: c.Rate.String(),
			Base: c.Equal(base),
		})
	}

	logger.Info("rate service get currencies success", logger.Fields{
		"count": len(resp),
		"base":  base.Code,
	})

	return commons.SuccessResponse("currencies fetched successfully", resp), nil
}

func (s *RateService) Convert(ctx context.Context, req models.ConvertRequest) (commons.Response[models.ConvertResponse], error) {
	logger.Info("rate service convert request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("rate service convert validation failed", err, nil)
		return commons.ErrorResponse[models.ConvertResponse](MsgValidationFailed, err.Error()), err
	}

	from, err := s.currencies.Lookup(req.FromCcy)
	if err != nil {
		return commons.ErrorResponse[models.ConvertResponse](MsgValidationFailed, err.Error()), err
	}
	to, err := s.currencies.Lookup(req.ToCcy)
	if err != nil {
		return commons.ErrorResponse[models.ConvertResponse](MsgValidationFailed, err.Error()), err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return commons.ErrorResponse[models.ConvertResponse](MsgValidationFailed, "amount must be numeric"), err
	}
	converted, err := currency.Convert(amount, from, to)
	if err != nil {
		logger.Error("rate service convert failed", err, logger.Fields{
			"fromCcy": from.Code,
			"toCcy":   to.Code,
		})
		return failure[models.ConvertResponse](err, "failed to convert amount", "Unable to convert amount right now"), err
	}

	response := models.ConvertResponse{
		Amount:          amount.StringFixed(currency.Places),
		FromCcy:         from.Code,
		ToCcy:           to.Code,
		ConvertedAmount: converted.StringFixed(currency.Places),
		Formatted:       to.Format(converted),
	}

	logger.Info("rate service convert success", logger.Fields{
		"fromCcy":         response.FromCcy,
		"toCcy":           response.ToCcy,
		"convertedAmount": response.ConvertedAmount,
	})

	return commons.SuccessResponse("amount converted successfully", response), nil
}

// SyncCurrencyTable seeds repo with the rates of seed that it does not hold
// yet and rebuilds the table from the stored rates. Stored rates win over seed.
func SyncCurrencyTable(ctx context.Context, repo domain.RateRepository, seed *currency.Table) (*currency.Table, error) {
	all := seed.All()
	rates := make([]domain.Rate, 0, len(all))
	for _, c := range all {
		rates = append(rates, domain.Rate{Code: c.Code, Rate: c.Rate})
	}
	if err := repo.EnsureRates(ctx, rates); err != nil {
		return nil, err
	}

	stored, err := repo.GetRates(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]decimal.Decimal, len(stored))
	for _, rate := range stored {
		byCode[strings.TrimSpace(rate.Code)] = rate.Rate
	}

	table, err := currency.NewTable(seed.Base().Code, byCode)
	if err != nil {
		logger.Error("rate service sync currency table failed", err, logger.Fields{"base": seed.Base().Code})
		return nil, err
	}
	logger.Info("rate service sync currency table success", logger.Fields{"count": len(byCode)})
	return table, nil
}
