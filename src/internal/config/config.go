package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultHTTPAddr = ":8080"
const defaultChannelID = "LedgerApp"
const defaultChannelKey = "LedgerKey001"
const defaultKafkaTopic = "ledger-events"
const defaultPriceTickInterval = time.Second

type Config struct {
	HTTPAddr            string
	DatabaseDSN         string
	MigrationsDir       string
	ChannelID           string
	ChannelKey          string
	KafkaBrokers        []string
	KafkaTopic          string
	PriceTickInterval   time.Duration
	AllowLockedDeposits bool
	LedgerConfigFile    string
	LogLevel            string
	Ledger              LedgerFile
}

// Load reads the environment. DATABASE_DSN and KAFKA_BROKERS are optional;
// without them the matching sinks stay off.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:         envOr("HTTP_ADDR", defaultHTTPAddr),
		MigrationsDir:    envOr("MIGRATIONS_DIR", filepath.Join("src", "migrations")),
		ChannelID:        envOr("CHANNEL_ID", defaultChannelID),
		ChannelKey:       envOr("CHANNEL_KEY", defaultChannelKey),
		KafkaTopic:       envOr("KAFKA_TOPIC", defaultKafkaTopic),
		LedgerConfigFile: strings.TrimSpace(os.Getenv("LEDGER_CONFIG_FILE")),
		LogLevel:         envOr("LOG_LEVEL", "info"),
	}

	if conn := strings.TrimSpace(os.Getenv("DATABASE_DSN")); conn != "" {
		cfg.DatabaseDSN = normalizeConnectionString(conn)
	}

	for _, broker := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
		}
	}

	cfg.PriceTickInterval = defaultPriceTickInterval
	if raw := strings.TrimSpace(os.Getenv("PRICE_TICK_INTERVAL")); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil || interval <= 0 {
			return Config{}, fmt.Errorf("PRICE_TICK_INTERVAL must be a positive duration, got %q", raw)
		}
		cfg.PriceTickInterval = interval
	}

	cfg.AllowLockedDeposits = true
	if raw := strings.TrimSpace(os.Getenv("ALLOW_LOCKED_DEPOSITS")); raw != "" {
		allow, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("ALLOW_LOCKED_DEPOSITS must be a boolean, got %q", raw)
		}
		cfg.AllowLockedDeposits = allow
	}

	ledgerFile := DefaultLedgerFile()
	if cfg.LedgerConfigFile != "" {
		loaded, err := LoadLedgerFile(cfg.LedgerConfigFile)
		if err != nil {
			return Config{}, err
		}
		ledgerFile = loaded
	}
	cfg.Ledger = ledgerFile

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	// Already a URL or key=value DSN.
	if len(out) == 0 || !strings.Contains(raw, ";") {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
