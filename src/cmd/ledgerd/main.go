package main

import (
	"context"
	"flag"
	"os"

	"github.com/api-sage/account-ledger/src/internal/config"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "ledgerd")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&serveCmd{}, "")
	commander.Register(&migrateCmd{}, "database")
	commander.Register(&historyCmd{}, "database")
	commander.Register(&currenciesCmd{}, "")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// loadConfig reads the environment and applies the log level.
func loadConfig() (config.Config, bool) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config failed", err, nil)
		return config.Config{}, false
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	return cfg, true
}
