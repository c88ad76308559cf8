package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/boardly/boardly/internal/db"
	"github.com/boardly/boardly/pkg/pg"
)

var errNoDatabase = errors.New("DATABASE_URL is not set, nothing to migrate")

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply Postgres migrations and exit",
		Long:  "serve applies migrations on start as well; this command is for release pipelines.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Postgres.Enabled() {
				return errNoDatabase
			}

			log := newLogger(cmd, cfg)
			ctx := cmd.Context()

			pool, err := pg.Connect(ctx, cfg.Postgres, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := pg.Migrate(ctx, pool, db.Migrations, cfg.Postgres, log); err != nil {
				return err
			}
			log.InfoContext(ctx, "migrations applied")
			return nil
		},
	}
}
