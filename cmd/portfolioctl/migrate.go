// cmd/portfolioctl/migrate.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"portfolio-tracker/internal/config"
	"portfolio-tracker/internal/util"
	"portfolio-tracker/pkg/db"
)

type migrateCmd struct {
	down   bool
	status bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply, roll back or inspect database migrations" }
func (*migrateCmd) Usage() string {
	return `portfolioctl migrate [-down] [-status]

  Applies every pending migration to the database configured by the DB_*
  environment variables. -down rolls back the most recent migration and
  -status prints the state of each migration instead.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.down, "down", false, "Roll back the most recent migration.")
	f.BoolVar(&c.status, "status", false, "Print migration status and exit.")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.down && c.status {
		fmt.Fprintln(os.Stderr, "-down and -status are mutually exclusive")
		return subcommands.ExitUsageError
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	util.InitLogger(cfg.LogLevel)
	logger := util.GetLogger()

	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return subcommands.ExitFailure
	}
	defer database.Close()

	switch {
	case c.status:
		err = db.MigrationStatus(ctx, database.DB)
	case c.down:
		err = db.MigrateDown(ctx, database.DB)
	default:
		err = db.MigrateUp(ctx, database.DB)
	}
	if err != nil {
		logger.Error("Migration failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
