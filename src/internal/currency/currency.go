// Package currency converts monetary amounts between currencies through a
// single base currency using fixed, configuration-time exchange rates.
//
// All results are truncated toward zero to two decimal places.
package currency

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every conversion result keeps.
const Places = 2

// Currency is a currency code together with its fixed rate to the base
// currency, expressed as units of this currency per one base unit.
type Currency struct {
	Code string
	Rate decimal.Decimal
}

func (c Currency) String() string { return c.Code }

// IsZero reports whether c is the zero Currency.
func (c Currency) IsZero() bool { return c.Code == "" }

// Equal compares currencies by code.
func (c Currency) Equal(o Currency) bool { return c.Code == o.Code }

// Format renders amount with the currency's symbol and grouping.
func (c Currency) Format(amount decimal.Decimal) string {
	cur := money.GetCurrency(c.Code)
	if cur == nil {
		return amount.StringFixed(Places) + " " + c.Code
	}
	minor := amount.Shift(int32(cur.Fraction)).Truncate(0).IntPart()
	return money.New(minor, c.Code).Display()
}

// Money is an amount in a given currency.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

func (m Money) String() string { return m.Amount.StringFixed(Places) + " " + m.Currency.Code }

// ParseAmount validates a raw monetary input. NaN, infinite and negative
// values are rejected with domain.ErrInvalidAmount.
func ParseAmount(amount float64) (decimal.Decimal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, amount)
	}
	return decimal.NewFromFloat(amount), nil
}

// ToBase converts amount expressed in c into the base currency.
func ToBase(amount float64, c Currency) (decimal.Decimal, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		return decimal.Zero, err
	}
	return ToBaseDecimal(d, c)
}

// FromBase converts amount expressed in the base currency into c.
func FromBase(amount float64, c Currency) (decimal.Decimal, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		return decimal.Zero, err
	}
	return FromBaseDecimal(d, c)
}

func ToBaseDecimal(amount decimal.Decimal, c Currency) (decimal.Decimal, error) {
	if err := checkInput(amount, c); err != nil {
		return decimal.Zero, err
	}
	return amount.Div(c.Rate).Truncate(Places), nil
}

func FromBaseDecimal(amount decimal.Decimal, c Currency) (decimal.Decimal, error) {
	if err := checkInput(amount, c); err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(c.Rate).Truncate(Places), nil
}

// Convert moves amount from one currency into another through the base
// currency. Identical currencies return amount unchanged.
func Convert(amount decimal.Decimal, from, to Currency) (decimal.Decimal, error) {
	if from.Equal(to) {
		if amount.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount)
		}
		return amount, nil
	}
	base, err := ToBaseDecimal(amount, from)
	if err != nil {
		return decimal.Zero, err
	}
	return FromBaseDecimal(base, to)
}

// ConvertSigned converts the magnitude of amount and restores its sign.
// Truncation toward zero therefore never increases the absolute value.
func ConvertSigned(amount decimal.Decimal, from, to Currency) (decimal.Decimal, error) {
	converted, err := Convert(amount.Abs(), from, to)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return converted.Neg(), nil
	}
	return converted, nil
}

func checkInput(amount decimal.Decimal, c Currency) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount)
	}
	if c.Rate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %q has no usable rate", domain.ErrUnknownCurrency, c.Code)
	}
	return nil
}

// Table is an immutable set of currencies keyed by code. One entry is the
// base currency with rate 1.
type Table struct {
	base       Currency
	currencies map[string]Currency
}

// NewTable builds a table from code -> rate pairs. The base currency must be
// present with rate exactly 1 and every code must be a known ISO 4217 code.
func NewTable(baseCode string, rates map[string]decimal.Decimal) (*Table, error) {
	baseCode = strings.ToUpper(strings.TrimSpace(baseCode))
	t := &Table{currencies: make(map[string]Currency, len(rates))}
	for code, rate := range rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if money.GetCurrency(code) == nil {
			return nil, fmt.Errorf("%w: %q is not an ISO 4217 code", domain.ErrUnknownCurrency, code)
		}
		if rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("rate for %s must be greater than zero", code)
		}
		t.currencies[code] = Currency{Code: code, Rate: rate}
	}

	base, ok := t.currencies[baseCode]
	if !ok {
		return nil, fmt.Errorf("%w: base currency %q missing from table", domain.ErrUnknownCurrency, baseCode)
	}
	if !base.Rate.Equal(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("base currency %s must have rate 1, got %s", baseCode, base.Rate)
	}
	t.base = base
	return t, nil
}

// DefaultTable is the reference rate set, with EUR as the base currency.
func DefaultTable() *Table {
	t, err := NewTable("EUR", map[string]decimal.Decimal{
		"EUR": decimal.NewFromInt(1),
		"BGN": decimal.RequireFromString("1.9558"),
		"DKK": decimal.RequireFromString("7.4604"),
		"MKD": decimal.RequireFromString("61.62"),
	})
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Base() Currency { return t.base }

// Lookup returns the currency for code, case-insensitively.
func (t *Table) Lookup(code string) (Currency, error) {
	c, ok := t.currencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", domain.ErrUnknownCurrency, code)
	}
	return c, nil
}

// All returns the currencies ordered by code.
func (t *Table) All() []Currency {
	out := make([]Currency, 0, len(t.currencies))
	for _, c := range t.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
