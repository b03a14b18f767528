package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/google/subcommands"
)

type currenciesCmd struct{}

func (*currenciesCmd) Name() string     { return "currencies" }
func (*currenciesCmd) Synopsis() string { return "prints the configured currency table" }
func (*currenciesCmd) Usage() string {
	return `currencies

Prints every currency with its rate to the base currency.
`
}

func (*currenciesCmd) SetFlags(*flag.FlagSet) {}

func (*currenciesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}
	table, err := cfg.Ledger.Table()
	if err != nil {
		logger.Error("currencies build table failed", err, nil)
		return subcommands.ExitFailure
	}

	base := table.Base()
	for _, c := range table.All() {
		marker := ""
		if c.Equal(base) {
			marker = " (base)"
		}
		fmt.Printf("%s %s%s\n", c.Code, c.Rate.String(), marker)
	}
	return subcommands.ExitSuccess
}
