package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"barter-auth/internal/db"
)

// NewMigrateCmd crea el subcomando migrate.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending embedded schema migrations against DATABASE_URL and exit.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cmd.Println("Connecting to database...")
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	if err := db.Migrate(ctx, pool); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
