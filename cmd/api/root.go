package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fkhayef/secretsanta/internal/config"
	"github.com/fkhayef/secretsanta/pkg/logging"
)

var version = "dev"

type options struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "secretsanta",
		Short:        "Secret Santa group draw service",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loadedDotEnv, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logging.Setup(cfg.LogLevel)
			if !loadedDotEnv {
				opts.logger.Debug("No .env file found, using environment variables")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))

	return cmd
}
