package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/gorilla/websocket"
)

const priceWriteTimeout = 5 * time.Second

type MarketController struct {
	service  service_interfaces.MarketService
	upgrader websocket.Upgrader
}

func NewMarketController(service service_interfaces.MarketService) *MarketController {
	return &MarketController{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (c *MarketController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/instruments", protect(c.instruments, authMiddleware))
	mux.Handle("/orders", protect(c.orders, authMiddleware))
	mux.Handle("/orders/cancel", protect(c.cancelOrder, authMiddleware))
	mux.Handle("/ws/prices", protect(c.prices, authMiddleware))
}

// instruments lists the catalog, or one instrument when ?id= is given.
func (c *MarketController) instruments(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		serveQuery(w, r, func(ctx context.Context) (commons.Response[models.InstrumentResponse], error) {
			return c.service.GetInstrument(ctx, id)
		})
		return
	}
	serveQuery(w, r, c.service.GetInstruments)
}

// orders submits an order on POST and fetches one by ?reference= on GET.
func (c *MarketController) orders(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		serveQuery(w, r, func(ctx context.Context) (commons.Response[models.OrderResponse], error) {
			return c.service.GetOrder(ctx, r.URL.Query().Get("reference"))
		})
		return
	}
	serveBody(w, r, http.StatusAccepted, c.service.SubmitOrder)
}

func (c *MarketController) cancelOrder(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, func(ctx context.Context, req models.CancelOrderRequest) (commons.Response[models.OrderResponse], error) {
		return c.service.CancelOrder(ctx, req.Reference)
	})
}

// prices streams price updates of ?instrumentId= over a websocket until the
// client goes away or the instrument is retired.
func (c *MarketController) prices(w http.ResponseWriter, r *http.Request) {
	instrumentID := r.URL.Query().Get("instrumentId")
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates, err := c.service.WatchPrices(ctx, instrumentID)
	if err != nil {
		logError(r, err, logger.Fields{"instrumentId": instrumentID})
		writeJSON(w, http.StatusNotFound, commons.ErrorResponse[models.InstrumentResponse](services.MsgInstrumentNotFound))
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logError(r, err, logger.Fields{"instrumentId": instrumentID})
		return
	}
	defer conn.Close()
	logger.Info("price stream opened", logger.Fields{"instrumentId": instrumentID})

	// The read side only notices the client closing.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for update := range updates {
		_ = conn.SetWriteDeadline(time.Now().Add(priceWriteTimeout))
		if err := conn.WriteJSON(update); err != nil {
			logger.Warn("price stream write failed", logger.Fields{"instrumentId": instrumentID, "error": err.Error()})
			return
		}
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream ended"),
		time.Now().Add(priceWriteTimeout))
	logger.Info("price stream closed", logger.Fields{"instrumentId": instrumentID})
}
