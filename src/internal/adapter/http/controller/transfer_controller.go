package controller

import (
	"net/http"

	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
)

type TransferController struct {
	service service_interfaces.TransferService
}

func NewTransferController(service service_interfaces.TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/transfer-funds", protect(c.transfer, authMiddleware))
}

func (c *TransferController) transfer(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, c.service.TransferFunds)
}
