package domain

import (
	"context"
	"time"
)

// Customer owns one or more accounts.
type Customer struct {
	ID        string
	Name      string
	Address   string
	PinHash   string
	CreatedAt time.Time
}

// Sample is the placeholder owner used by demo tooling.
var Sample = &Customer{ID: "0000000001", Name: "Max Mustermann", Address: "Musterstrasse 1, 10115 Berlin"}

type CustomerRepository interface {
	Create(ctx context.Context, customer Customer) (Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	GetPinHash(ctx context.Context, id string) (string, error)
}
