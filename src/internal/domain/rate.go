package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is the fixed rate of one currency, in units per one base unit.
type Rate struct {
	Code      string
	Rate      decimal.Decimal
	UpdatedAt time.Time
}
