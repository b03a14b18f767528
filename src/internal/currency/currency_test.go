package currency

import (
	"errors"
	"math"
	"testing"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

func mustLookup(t *testing.T, table *Table, code string) Currency {
	t.Helper()
	c, err := table.Lookup(code)
	if err != nil {
		t.Fatalf("lookup %s: %v", code, err)
	}
	return c
}

func TestToBaseTruncatesTowardZero(t *testing.T) {
	bgn := mustLookup(t, DefaultTable(), "BGN")

	// 100 / 1.9558 = 51.12997...
	got, err := ToBase(100, bgn)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !got.Equal(decimal.RequireFromString("51.12")) {
		t.Fatalf("expected 51.12, got %s", got)
	}
}

func TestFromBaseTruncatesTowardZero(t *testing.T) {
	dkk := mustLookup(t, DefaultTable(), "DKK")

	// 10.01 * 7.4604 = 74.678604
	got, err := FromBase(10.01, dkk)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !got.Equal(decimal.RequireFromString("74.67")) {
		t.Fatalf("expected 74.67, got %s", got)
	}
}

func TestConversionRejectsInvalidAmounts(t *testing.T) {
	eur := DefaultTable().Base()
	for _, amount := range []float64{-0.01, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := ToBase(amount, eur); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("ToBase(%v): expected ErrInvalidAmount, got %v", amount, err)
		}
		if _, err := FromBase(amount, eur); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("FromBase(%v): expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestRoundTripNeverIncreasesValue(t *testing.T) {
	table := DefaultTable()
	amounts := []float64{0, 0.01, 0.99, 1, 13.37, 100, 999.99, 123456.78}

	for _, c := range table.All() {
		for _, x := range amounts {
			base, err := ToBase(x, c)
			if err != nil {
				t.Fatalf("ToBase(%v, %s): %v", x, c, err)
			}
			back, err := FromBaseDecimal(base, c)
			if err != nil {
				t.Fatalf("FromBase(%s, %s): %v", base, c, err)
			}
			if back.GreaterThan(decimal.NewFromFloat(x)) {
				t.Fatalf("%s round trip of %v grew to %s", c, x, back)
			}

			again, _ := ToBase(x, c)
			if !again.Equal(base) {
				t.Fatalf("%s conversion of %v not idempotent: %s vs %s", c, x, base, again)
			}
		}
	}
}

func TestConvertSignedKeepsSign(t *testing.T) {
	table := DefaultTable()
	eur := table.Base()
	mkd := mustLookup(t, table, "MKD")

	got, err := ConvertSigned(decimal.NewFromInt(-10), eur, mkd)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !got.Equal(decimal.RequireFromString("-616.2")) {
		t.Fatalf("expected -616.20, got %s", got)
	}
}

func TestConvertSameCurrencyIsIdentity(t *testing.T) {
	eur := DefaultTable().Base()
	amount := decimal.RequireFromString("12.345")

	got, err := Convert(amount, eur, eur)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !got.Equal(amount) {
		t.Fatalf("expected %s, got %s", amount, got)
	}
}

func TestNewTableValidation(t *testing.T) {
	if _, err := NewTable("EUR", map[string]decimal.Decimal{"USD": decimal.NewFromInt(1)}); err == nil {
		t.Fatal("expected error for missing base currency")
	}
	if _, err := NewTable("EUR", map[string]decimal.Decimal{"EUR": decimal.NewFromInt(2)}); err == nil {
		t.Fatal("expected error for base rate other than 1")
	}
	if _, err := NewTable("EUR", map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1), "XYZ1": decimal.NewFromInt(3)}); !errors.Is(err, domain.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
	if _, err := NewTable("EUR", map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1), "USD": decimal.Zero}); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	table := DefaultTable()
	c, err := table.Lookup(" dkk ")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if c.Code != "DKK" {
		t.Fatalf("expected DKK, got %s", c.Code)
	}
	if _, err := table.Lookup("USD"); !errors.Is(err, domain.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	eur := DefaultTable().Base()
	got := eur.Format(decimal.RequireFromString("1234.567"))
	if got != "€1,234.56" {
		t.Fatalf("expected €1,234.56, got %q", got)
	}
}
