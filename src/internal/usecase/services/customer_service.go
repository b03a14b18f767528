package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
	"golang.org/x/crypto/bcrypt"
)

// Verify that CustomerService implements the service_interfaces.CustomerService interface
var _ service_interfaces.CustomerService = (*CustomerService)(nil)

type CustomerService struct {
	customerRepo domain.CustomerRepository
}

func NewCustomerService(customerRepo domain.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (commons.Response[models.CustomerResponse], error) {
	logger.Info("customer service create customer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("customer service create customer validation failed", err, nil)
		return commons.ErrorResponse[models.CustomerResponse](MsgValidationFailed, err.Error()), err
	}

	hashedPin, err := hashPin(strings.TrimSpace(req.Pin))
	if err != nil {
		logger.Error("customer service create customer hash pin failed", err, nil)
		return commons.ErrorResponse[models.CustomerResponse]("failed to create customer", "failed to hash pin"), err
	}

	customer := domain.Customer{
		ID:      generateCustomerID(),
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		PinHash: hashedPin,
	}

	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		logger.Error("customer service create customer repository failed", err, logger.Fields{
			"customerId": customer.ID,
		})
		return commons.ErrorResponse[models.CustomerResponse]("failed to create customer", "Unable to create customer right now"), err
	}

	response := mapCustomer(created)
	logger.Info("customer service create customer success", logger.Fields{
		"customerId": response.ID,
		"name":       response.Name,
	})

	return commons.SuccessResponse("customer created successfully", response), nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (commons.Response[models.CustomerResponse], error) {
	logger.Info("customer service get customer request", logger.Fields{
		"customerId": id,
	})

	if strings.TrimSpace(id) == "" {
		return commons.ErrorResponse[models.CustomerResponse](MsgValidationFailed, "id is required"), fmt.Errorf("id is required")
	}

	customer, err := s.customerRepo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		logger.Error("customer service get customer failed", err, logger.Fields{
			"customerId": id,
		})
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CustomerResponse](MsgCustomerNotFound), err
		}
		return commons.ErrorResponse[models.CustomerResponse]("failed to get customer", "Unable to fetch customer right now"), err
	}

	return commons.SuccessResponse("customer fetched successfully", mapCustomer(customer)), nil
}

func (s *CustomerService) VerifyPin(ctx context.Context, customerID string, pin string) (commons.Response[models.VerifyPinResponse], error) {
	logger.Info("customer service verify pin request", logger.Fields{
		"payload": logger.SanitizePayload(map[string]string{
			"customerId": customerID,
			"pin":        pin,
		}),
	})

	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return commons.ErrorResponse[models.VerifyPinResponse](MsgValidationFailed, "customerId is required"), fmt.Errorf("customerId is required")
	}
	if strings.TrimSpace(pin) == "" {
		return commons.ErrorResponse[models.VerifyPinResponse](MsgValidationFailed, "pin is required"), fmt.Errorf("pin is required")
	}

	if err := verifyPin(ctx, s.customerRepo, customerID, pin); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.VerifyPinResponse](MsgCustomerNotFound), err
		}
		return failure[models.VerifyPinResponse](err, "failed to verify pin", "Unable to verify pin right now"), err
	}

	logger.Info("customer service verify pin success", logger.Fields{
		"customerId": customerID,
		"isValidPin": true,
	})

	return commons.SuccessResponse("pin verified successfully", models.VerifyPinResponse{CustomerID: customerID, IsValidPin: true}), nil
}

// verifyPin compares pin with the stored hash of the customer.
func verifyPin(ctx context.Context, repo domain.CustomerRepository, customerID, pin string) error {
	storedPinHash, err := repo.GetPinHash(ctx, customerID)
	if err != nil {
		logger.Error("customer pin lookup failed", err, logger.Fields{"customerId": customerID})
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedPinHash), []byte(strings.TrimSpace(pin))); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("customer pin mismatch", logger.Fields{"customerId": customerID})
			return errInvalidPin
		}
		wrappedErr := fmt.Errorf("verify customer pin: %w", err)
		logger.Error("customer pin compare failed", wrappedErr, logger.Fields{"customerId": customerID})
		return wrappedErr
	}
	return nil
}

func mapCustomer(c domain.Customer) models.CustomerResponse {
	response := models.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Address: c.Address,
	}
	if !c.CreatedAt.IsZero() {
		response.CreatedAt = c.CreatedAt.Format(time.RFC3339)
	}
	return response
}

func generateCustomerID() string {
	return fmt.Sprintf("%010d", time.Now().UnixNano()%10_000_000_000)
}

func hashPin(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}

	return string(hashed), nil
}
