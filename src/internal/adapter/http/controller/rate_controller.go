package controller

import (
	"net/http"

	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
)

type RateController struct {
	service service_interfaces.RateService
}

func NewRateController(service service_interfaces.RateService) *RateController {
	return &RateController{service: service}
}

func (c *RateController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/currencies", protect(c.currencies, authMiddleware))
	mux.Handle("/convert", protect(c.convert, authMiddleware))
}

func (c *RateController) currencies(w http.ResponseWriter, r *http.Request) {
	serveQuery(w, r, c.service.GetCurrencies)
}

func (c *RateController) convert(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, c.service.Convert)
}
