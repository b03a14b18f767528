package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountNumberDigits is the width of a registry account number.
const AccountNumberDigits = 8

func isAccountNumber(raw string) bool {
	if len(raw) != AccountNumberDigits {
		return false
	}
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func checkAccountNumber(errs []string, field, raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return append(errs, field+" is required")
	}
	if !isAccountNumber(raw) {
		return append(errs, field+" must be exactly 8 digits")
	}
	return errs
}

func checkAmount(errs []string, field, raw string, allowZero bool) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return append(errs, field+" is required")
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return append(errs, field+" must be numeric")
	}
	if parsed.IsNegative() || (!allowZero && parsed.IsZero()) {
		if allowZero {
			return append(errs, field+" cannot be negative")
		}
		return append(errs, field+" must be greater than zero")
	}
	return errs
}

func checkCurrency(errs []string, field, raw string, required bool) []string {
	ccy := strings.TrimSpace(raw)
	if ccy == "" {
		if required {
			return append(errs, field+" is required")
		}
		return errs
	}
	if len(ccy) != 3 {
		return append(errs, field+" must be 3 characters")
	}
	return errs
}
