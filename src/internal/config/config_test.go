package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/api-sage/account-ledger/src/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DATABASE_DSN", "KAFKA_BROKERS", "PRICE_TICK_INTERVAL", "ALLOW_LOCKED_DEPOSITS", "LEDGER_CONFIG_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.HTTPAddr != defaultHTTPAddr || cfg.DatabaseDSN != "" || len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.PriceTickInterval != time.Second || !cfg.AllowLockedDeposits {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if len(cfg.Ledger.Instruments) != 3 {
		t.Fatalf("expected default instruments, got %d", len(cfg.Ledger.Instruments))
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DSN", "Host=db;Port=5432;Database=ledger;Username=app;Password=secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("PRICE_TICK_INTERVAL", "250ms")
	t.Setenv("ALLOW_LOCKED_DEPOSITS", "false")
	t.Setenv("LEDGER_CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.DatabaseDSN != "host=db port=5432 dbname=ledger user=app password=secret sslmode=disable" {
		t.Fatalf("unexpected dsn %q", cfg.DatabaseDSN)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.PriceTickInterval != 250*time.Millisecond || cfg.AllowLockedDeposits {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LEDGER_CONFIG_FILE", "")
	t.Setenv("ALLOW_LOCKED_DEPOSITS", "")
	t.Setenv("PRICE_TICK_INTERVAL", "-1s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative tick interval")
	}

	t.Setenv("PRICE_TICK_INTERVAL", "")
	t.Setenv("ALLOW_LOCKED_DEPOSITS", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-boolean flag")
	}
}

func TestNormalizeConnectionStringKeepsURL(t *testing.T) {
	url := "postgres://app:secret@db:5432/ledger?sslmode=disable"
	if got := normalizeConnectionString(url); got != url {
		t.Fatalf("expected url unchanged, got %q", got)
	}
}

func TestLoadLedgerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	doc := `
base: BGN
currencies:
  BGN: "1"
  EUR: "0.5113"
instruments:
  - id: ACME
    name: Acme Corp
    price: "42.10"
feed:
  disabled: true
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("LEDGER_CONFIG_FILE", path)
	t.Setenv("PRICE_TICK_INTERVAL", "")
	t.Setenv("ALLOW_LOCKED_DEPOSITS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	table, err := cfg.Ledger.Table()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if table.Base().Code != "BGN" || len(table.All()) != 2 {
		t.Fatalf("unexpected table base %s with %d currencies", table.Base().Code, len(table.All()))
	}
	if len(cfg.Ledger.Instruments) != 1 || cfg.Ledger.Instruments[0].Price != "42.10" {
		t.Fatalf("unexpected instruments %+v", cfg.Ledger.Instruments)
	}
	if !cfg.Ledger.Feed.Disabled {
		t.Fatal("expected disabled feed")
	}
}

func TestParseLedgerFileErrors(t *testing.T) {
	cases := map[string]string{
		"missing base":   "base: USD\ncurrencies:\n  EUR: \"1\"\n",
		"unknown code":   "base: EUR\ncurrencies:\n  EUR: \"1\"\n  XXQ: \"2\"\n",
		"duplicate id":   "instruments:\n  - {id: A, price: \"1\"}\n  - {id: A, price: \"2\"}\n",
		"bad price":      "instruments:\n  - {id: A, price: lots}\n",
		"malformed yaml": "currencies: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseLedgerFile([]byte(doc)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}

	_, err := ParseLedgerFile([]byte("base: EUR\ncurrencies:\n  EUR: \"1\"\n  XXQ: \"2\"\n"))
	if !errors.Is(err, domain.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}
