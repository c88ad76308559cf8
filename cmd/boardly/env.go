package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/boardly/boardly/internal/server"
	"github.com/boardly/boardly/pkg/config"
	"github.com/boardly/boardly/pkg/environment"
	"github.com/boardly/boardly/pkg/logger"
)

// loadConfig reads --env-file files, when given, and parses the environment.
// Without the flag config.Load picks up ./.env if there is one.
func loadConfig(cmd *cobra.Command) (server.Config, error) {
	files, err := cmd.Flags().GetStringSlice("env-file")
	if err != nil {
		return server.Config{}, err
	}
	if len(files) > 0 {
		if err := config.LoadEnv(files...); err != nil {
			return server.Config{}, err
		}
	}

	var cfg server.Config
	if err := config.Load(&cfg); err != nil {
		return server.Config{}, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg server.Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithRequestID(),
		logger.WithContextExtractors(environment.LoggerExtractor()),
	}
	if cfg.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	}
	return logger.New(opts...)
}
