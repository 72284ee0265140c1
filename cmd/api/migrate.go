package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fkhayef/secretsanta/internal/database"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(opts.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			opts.logger.Info("Migrations applied")
			return nil
		},
	}
}
