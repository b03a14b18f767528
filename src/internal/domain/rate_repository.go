package domain

import "context"

type RateRepository interface {
	// EnsureRates stores the rates whose code is not stored yet.
	EnsureRates(ctx context.Context, rates []Rate) error
	GetRates(ctx context.Context) ([]Rate, error)
}
