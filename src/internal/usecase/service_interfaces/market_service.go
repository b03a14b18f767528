package service_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
)

type MarketService interface {
	GetInstruments(ctx context.Context) (commons.Response[[]models.InstrumentResponse], error)
	GetInstrument(ctx context.Context, id string) (commons.Response[models.InstrumentResponse], error)
	WatchPrices(ctx context.Context, id string) (<-chan models.InstrumentResponse, error)
	SubmitOrder(ctx context.Context, req models.SubmitOrderRequest) (commons.Response[models.OrderResponse], error)
	GetOrder(ctx context.Context, reference string) (commons.Response[models.OrderResponse], error)
	CancelOrder(ctx context.Context, reference string) (commons.Response[models.OrderResponse], error)
}
