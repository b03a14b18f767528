package models

import (
	"errors"
	"strings"
)

type CurrencyResponse struct {
	Code string `json:"code"`
	Rate string `json:"rate"`
	Base bool   `json:"base"`
}

type ConvertRequest struct {
	Amount  string `json:"amount"`
	FromCcy string `json:"fromCcy"`
	ToCcy   string `json:"toCcy"`
}

func (r ConvertRequest) Validate() error {
	var errs []string

	errs = checkAmount(errs, "amount", r.Amount, true)
	errs = checkCurrency(errs, "fromCcy", r.FromCcy, true)
	errs = checkCurrency(errs, "toCcy", r.ToCcy, true)

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type ConvertResponse struct {
	Amount          string `json:"amount"`
	FromCcy         string `json:"fromCcy"`
	ToCcy           string `json:"toCcy"`
	ConvertedAmount string `json:"convertedAmount"`
	Formatted       string `json:"formatted"`
}
