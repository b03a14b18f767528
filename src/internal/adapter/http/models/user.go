package models

import (
	"errors"
	"strings"
)

type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Pin     string `json:"pin"`
}

func (r CreateCustomerRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.Address) == "" {
		errs = append(errs, "address is required")
	}
	pin := strings.TrimSpace(r.Pin)
	if pin == "" {
		errs = append(errs, "pin is required")
	} else if len(pin) < 4 {
		errs = append(errs, "pin must be at least 4 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type VerifyPinRequest struct {
	CustomerID string `json:"customerId"`
	Pin        string `json:"pin"`
}

func (r VerifyPinRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.CustomerID) == "" {
		errs = append(errs, "customerId is required")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type VerifyPinResponse struct {
	CustomerID string `json:"customerId"`
	IsValidPin bool   `json:"isValidPin"`
}

type MinimumBalanceResponse struct {
	Minimum   string             `json:"minimum"`
	Customers []CustomerResponse `json:"customers"`
}
