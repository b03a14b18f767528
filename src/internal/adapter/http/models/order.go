package models

import (
	"errors"
	"strings"
)

const (
	OrderSideBuy  = "buy"
	OrderSideSell = "sell"
)

type InstrumentResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Price   string `json:"price"`
	Retired bool   `json:"retired"`
}

type SubmitOrderRequest struct {
	AccountNumber  string `json:"accountNumber"`
	InstrumentID   string `json:"instrumentId"`
	Side           string `json:"side"`
	Quantity       int64  `json:"quantity,omitempty"`
	LimitPrice     string `json:"limitPrice"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty"`
}

func (r SubmitOrderRequest) Validate() error {
	var errs []string

	errs = checkAccountNumber(errs, "accountNumber", r.AccountNumber)
	if strings.TrimSpace(r.InstrumentID) == "" {
		errs = append(errs, "instrumentId is required")
	}
	switch strings.ToLower(strings.TrimSpace(r.Side)) {
	case OrderSideBuy:
		if r.Quantity <= 0 {
			errs = append(errs, "quantity must be greater than zero")
		}
	case OrderSideSell:
	case "":
		errs = append(errs, "side is required")
	default:
		errs = append(errs, "side must be buy or sell")
	}
	errs = checkAmount(errs, "limitPrice", r.LimitPrice, false)
	if r.TimeoutSeconds < 0 {
		errs = append(errs, "timeoutSeconds cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type OrderResponse struct {
	Reference     string `json:"reference"`
	Side          string `json:"side"`
	AccountNumber string `json:"accountNumber"`
	InstrumentID  string `json:"instrumentId"`
	Quantity      int64  `json:"quantity"`
	LimitPrice    string `json:"limitPrice"`
	Status        string `json:"status"`
	Value         string `json:"value,omitempty"`
	Error         string `json:"error,omitempty"`
}

type CancelOrderRequest struct {
	Reference string `json:"reference"`
}

func (r CancelOrderRequest) Validate() error {
	if strings.TrimSpace(r.Reference) == "" {
		return errors.New("reference is required")
	}
	return nil
}
