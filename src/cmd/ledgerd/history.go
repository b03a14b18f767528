package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/google/subcommands"
)

type historyCmd struct {
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "prints the journaled notifications of an account" }
func (*historyCmd) Usage() string {
	return `history [-limit 20] <account-number>

Prints the latest journaled notifications of an account, newest first. Requires DATABASE_DSN.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "limit", 20, "Maximum number of entries.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one account number is required.")
		return subcommands.ExitUsageError
	}
	accountID, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid account number %q.\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}
	if cfg.DatabaseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: DATABASE_DSN is required.")
		return subcommands.ExitUsageError
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("history open database failed", err, nil)
		return subcommands.ExitFailure
	}
	defer db.Close()

	entries, err := postgres.NewEventJournal(db).History(ctx, accountID, c.limit)
	if err != nil {
		logger.Error("history query failed", err, logger.Fields{"accountNumber": accountID})
		return subcommands.ExitFailure
	}
	for _, e := range entries {
		fmt.Printf("%s  #%-5d %-16s %s %s\n", e.OccurredAt.Format("2006-01-02 15:04:05"), e.Seq, e.Op, e.Changes, e.Memo)
	}
	return subcommands.ExitSuccess
}
