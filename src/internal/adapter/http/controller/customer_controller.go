package controller

import (
	"context"
	"net/http"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
)

type CustomerController struct {
	service service_interfaces.CustomerService
}

func NewCustomerController(service service_interfaces.CustomerService) *CustomerController {
	return &CustomerController{service: service}
}

func (c *CustomerController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/customers", protect(c.customers, authMiddleware))
	mux.Handle("/verify-pin", protect(c.verifyPin, authMiddleware))
}

// customers creates a customer on POST and fetches one by ?id= on GET.
func (c *CustomerController) customers(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		serveQuery(w, r, func(ctx context.Context) (commons.Response[models.CustomerResponse], error) {
			return c.service.GetCustomer(ctx, r.URL.Query().Get("id"))
		})
		return
	}
	serveBody(w, r, http.StatusCreated, c.service.CreateCustomer)
}

func (c *CustomerController) verifyPin(w http.ResponseWriter, r *http.Request) {
	serveBody(w, r, http.StatusOK, func(ctx context.Context, req models.VerifyPinRequest) (commons.Response[models.VerifyPinResponse], error) {
		return c.service.VerifyPin(ctx, req.CustomerID, req.Pin)
	})
}
