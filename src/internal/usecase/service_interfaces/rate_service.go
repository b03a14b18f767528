package service_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
)

type RateService interface {
	GetCurrencies(ctx context.Context) (commons.Response[[]models.CurrencyResponse], error)
	Convert(ctx context.Context, req models.ConvertRequest) (commons.Response[models.ConvertResponse], error)
}
