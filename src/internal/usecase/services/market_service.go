package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/market"
	"github.com/api-sage/account-ledger/src/internal/orders"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
)

var orderRefCounter uint32

// Verify that MarketService implements the service_interfaces.MarketService interface
var _ service_interfaces.MarketService = (*MarketService)(nil)

// MarketService lists instruments and places limit orders against registry
// accounts. Orders outlive the request that submitted them.
type MarketService struct {
	bank    *BankService
	catalog *market.Catalog
	engine  *orders.Engine

	mu     sync.RWMutex
	orders map[string]*orders.Order
}

func NewMarketService(bank *BankService, catalog *market.Catalog, engine *orders.Engine) *MarketService {
	return &MarketService{
		bank:    bank,
		catalog: catalog,
		engine:  engine,
		orders:  make(map[string]*orders.Order),
	}
}

func (s *MarketService) GetInstruments(ctx context.Context) (commons.Response[[]models.InstrumentResponse], error) {
	logger.Info("market service get instruments request", nil)

	all := s.catalog.All()
	resp := make([]models.InstrumentResponse, 0, len(all))
	for _, inst := range all {
		resp = append(resp, mapInstrument(inst))
	}

	logger.Info("market service get instruments success", logger.Fields{"count": len(resp)})
	return commons.SuccessResponse("instruments fetched successfully", resp), nil
}

func (s *MarketService) GetInstrument(ctx context.Context, id string) (commons.Response[models.InstrumentResponse], error) {
	logger.Info("market service get instrument request", logger.Fields{"instrumentId": id})

	inst, err := s.catalog.Get(id)
	if err != nil {
		logger.Error("market service get instrument failed", err, logger.Fields{"instrumentId": id})
		return commons.ErrorResponse[models.InstrumentResponse](MsgInstrumentNotFound), err
	}
	return commons.SuccessResponse("instrument fetched successfully", mapInstrument(inst)), nil
}

// WatchPrices streams the current price of an instrument and every update
// after it. The channel closes when ctx ends or the instrument is retired.
func (s *MarketService) WatchPrices(ctx context.Context, id string) (<-chan models.InstrumentResponse, error) {
	inst, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}

	out := make(chan models.InstrumentResponse, 1)
	go func() {
		defer close(out)
		for {
			_, changed := inst.Changes()
			update := mapInstrument(inst)
			select {
			case out <- update:
			case <-ctx.Done():
				return
			}
			if update.Retired {
				return
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *MarketService) SubmitOrder(ctx context.Context, req models.SubmitOrderRequest) (commons.Response[models.OrderResponse], error) {
	logger.Info("market service submit order request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("market service submit order validation failed", err, nil)
		return commons.ErrorResponse[models.OrderResponse](MsgValidationFailed, err.Error()), err
	}

	id, err := parseAccountNumber(req.AccountNumber)
	if err != nil {
		return commons.ErrorResponse[models.OrderResponse](MsgValidationFailed, err.Error()), err
	}
	limit, err := parseAmount(req.LimitPrice)
	if err != nil {
		return commons.ErrorResponse[models.OrderResponse](MsgValidationFailed, err.Error()), err
	}
	acct, err := s.bank.Account(id)
	if err != nil {
		return failure[models.OrderResponse](err, "failed to submit order", "Unable to submit order right now"), err
	}

	var opts []orders.Option
	if req.TimeoutSeconds > 0 {
		opts = append(opts, orders.WithTimeout(time.Duration(req.TimeoutSeconds)*time.Second))
	}
	orderCtx := context.WithoutCancel(ctx)

	var order *orders.Order
	if strings.EqualFold(strings.TrimSpace(req.Side), models.OrderSideBuy) {
		inst, lookupErr := s.catalog.Get(req.InstrumentID)
		if lookupErr != nil {
			logger.Error("market service submit order instrument lookup failed", lookupErr, logger.Fields{"instrumentId": req.InstrumentID})
			return commons.ErrorResponse[models.OrderResponse](MsgInstrumentNotFound), lookupErr
		}
		order, err = s.engine.SubmitBuy(orderCtx, acct, inst, req.Quantity, limit, opts...)
	} else {
		order, err = s.engine.SubmitSell(orderCtx, acct, strings.TrimSpace(req.InstrumentID), limit, opts...)
	}
	if err != nil {
		logger.Error("market service submit order failed", err, logger.Fields{
			"accountNumber": id,
			"instrumentId":  req.InstrumentID,
		})
		return failure[models.OrderResponse](err, "failed to submit order", "Unable to submit order right now"), err
	}

	reference := generateOrderReference()
	s.mu.Lock()
	s.orders[reference] = order
	s.mu.Unlock()

	response := mapOrder(reference, order)
	logger.Info("market service submit order success", logger.Fields{
		"reference":    reference,
		"side":         response.Side,
		"instrumentId": response.InstrumentID,
		"status":       response.Status,
	})

	return commons.SuccessResponse("order submitted successfully", response), nil
}

func (s *MarketService) GetOrder(ctx context.Context, reference string) (commons.Response[models.OrderResponse], error) {
	logger.Info("market service get order request", logger.Fields{"reference": reference})

	order, err := s.order(reference)
	if err != nil {
		return commons.ErrorResponse[models.OrderResponse](MsgOrderNotFound), err
	}
	return commons.SuccessResponse("order fetched successfully", mapOrder(reference, order)), nil
}

// CancelOrder cancels a pending order and waits for it to resolve. An order
// that already resolved keeps its outcome.
func (s *MarketService) CancelOrder(ctx context.Context, reference string) (commons.Response[models.OrderResponse], error) {
	logger.Info("market service cancel order request", logger.Fields{"reference": reference})

	order, err := s.order(reference)
	if err != nil {
		return commons.ErrorResponse[models.OrderResponse](MsgOrderNotFound), err
	}

	order.Cancel()
	if _, err := order.Wait(ctx); err != nil && ctx.Err() != nil {
		logger.Error("market service cancel order wait failed", err, logger.Fields{"reference": reference})
		return commons.ErrorResponse[models.OrderResponse]("failed to cancel order", "Unable to cancel order right now"), err
	}

	response := mapOrder(reference, order)
	logger.Info("market service cancel order success", logger.Fields{
		"reference": reference,
		"status":    response.Status,
	})
	return commons.SuccessResponse("order cancelled successfully", response), nil
}

func (s *MarketService) order(reference string) (*orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[strings.TrimSpace(reference)]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", reference, domain.ErrRecordNotFound)
	}
	return order, nil
}

func mapInstrument(inst *market.Instrument) models.InstrumentResponse {
	return models.InstrumentResponse{
		ID:      inst.ID(),
		Name:    inst.Name(),
		Price:   inst.Price().StringFixed(currency.Places),
		Retired: inst.Retired(),
	}
}

func mapOrder(reference string, order *orders.Order) models.OrderResponse {
	response := models.OrderResponse{
		Reference:     reference,
		Side:          string(order.Side()),
		AccountNumber: formatAccountNumber(order.AccountID()),
		InstrumentID:  order.InstrumentID(),
		Quantity:      order.Quantity(),
		LimitPrice:    order.Limit().StringFixed(currency.Places),
		Status:        string(order.Status()),
	}
	if value, err, ok := order.Result(); ok {
		response.Value = value.StringFixed(currency.Places)
		if err != nil && !errors.Is(err, context.Canceled) {
			response.Error = err.Error()
		}
	}
	return response
}

func generateOrderReference() string {
	now := time.Now().UTC()
	counter := atomic.AddUint32(&orderRefCounter, 1) % 1000000
	return now.Format("20060102150405") + fmt.Sprintf("%06d", counter)
}
