package service_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (commons.Response[models.CustomerResponse], error)
	GetCustomer(ctx context.Context, id string) (commons.Response[models.CustomerResponse], error)
	VerifyPin(ctx context.Context, customerID string, pin string) (commons.Response[models.VerifyPinResponse], error)
}
