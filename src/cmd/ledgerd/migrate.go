package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/google/subcommands"
)

type migrateCmd struct {
	dir string
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "applies pending database migrations" }
func (*migrateCmd) Usage() string {
	return `migrate [-dir src/migrations]

Applies every migration not yet recorded in schema_migrations. Requires DATABASE_DSN.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Migrations directory. Overrides MIGRATIONS_DIR.")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}
	if cfg.DatabaseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: DATABASE_DSN is required.")
		return subcommands.ExitUsageError
	}
	if c.dir != "" {
		cfg.MigrationsDir = c.dir
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("migrate open database failed", err, nil)
		return subcommands.ExitFailure
	}
	defer db.Close()

	applied, err := postgres.RunMigrations(ctx, db, cfg.MigrationsDir)
	if err != nil {
		logger.Error("migrate run failed", err, logger.Fields{"applied": applied})
		return subcommands.ExitFailure
	}

	for _, file := range applied {
		fmt.Println("applied", file)
	}
	logger.Info("migrations completed successfully", logger.Fields{"count": len(applied)})
	return subcommands.ExitSuccess
}
