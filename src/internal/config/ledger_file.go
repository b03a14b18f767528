package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/currency"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LedgerFile is the YAML document naming the currency table and the
// instruments offered for trading.
//
//	base: EUR
//	currencies:
//	  EUR: "1"
//	  BGN: "1.9558"
//	instruments:
//	  - id: ACME
//	    name: Acme Corp
//	    price: "50"
//	feed:
//	  boundPercent: 3
type LedgerFile struct {
	Base        string            `yaml:"base"`
	Currencies  map[string]string `yaml:"currencies"`
	Instruments []InstrumentEntry `yaml:"instruments"`
	Feed        FeedEntry         `yaml:"feed"`
}

type InstrumentEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

type FeedEntry struct {
	BoundPercent float64 `yaml:"boundPercent"`
	// Disabled keeps every price fixed at its configured value.
	Disabled bool `yaml:"disabled"`
}

func DefaultLedgerFile() LedgerFile {
	return LedgerFile{
		Base: "EUR",
		Currencies: map[string]string{
			"EUR": "1",
			"BGN": "1.9558",
			"DKK": "7.4604",
			"MKD": "61.62",
		},
		Instruments: []InstrumentEntry{
			{ID: "ACME", Name: "Acme Corp", Price: "50"},
			{ID: "GLBX", Name: "Globex", Price: "120.50"},
			{ID: "INIT", Name: "Initech", Price: "8.75"},
		},
		Feed: FeedEntry{BoundPercent: 3},
	}
}

func LoadLedgerFile(path string) (LedgerFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LedgerFile{}, fmt.Errorf("read ledger config %q: %w", path, err)
	}
	return ParseLedgerFile(raw)
}

// ParseLedgerFile decodes a ledger config. Sections left out keep their
// defaults.
func ParseLedgerFile(raw []byte) (LedgerFile, error) {
	f := DefaultLedgerFile()
	var parsed LedgerFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return LedgerFile{}, fmt.Errorf("parse ledger config: %w", err)
	}

	if len(parsed.Currencies) > 0 {
		f.Base = parsed.Base
		f.Currencies = parsed.Currencies
	}
	if parsed.Instruments != nil {
		f.Instruments = parsed.Instruments
	}
	if parsed.Feed != (FeedEntry{}) {
		f.Feed = parsed.Feed
	}

	if _, err := f.Table(); err != nil {
		return LedgerFile{}, err
	}
	seen := make(map[string]bool, len(f.Instruments))
	for _, inst := range f.Instruments {
		id := strings.TrimSpace(inst.ID)
		if id == "" {
			return LedgerFile{}, fmt.Errorf("instrument id is required")
		}
		if seen[id] {
			return LedgerFile{}, fmt.Errorf("instrument %s listed twice", id)
		}
		seen[id] = true
		if _, err := decimal.NewFromString(strings.TrimSpace(inst.Price)); err != nil {
			return LedgerFile{}, fmt.Errorf("instrument %s price %q must be numeric", id, inst.Price)
		}
	}
	return f, nil
}

// Table builds the currency table of the file.
func (f LedgerFile) Table() (*currency.Table, error) {
	rates := make(map[string]decimal.Decimal, len(f.Currencies))
	for code, raw := range f.Currencies {
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("rate for %s must be numeric, got %q", code, raw)
		}
		rates[code] = rate
	}
	table, err := currency.NewTable(f.Base, rates)
	if err != nil {
		return nil, fmt.Errorf("ledger config currencies: %w", err)
	}
	return table, nil
}
