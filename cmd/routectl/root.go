package main

import (
	"github.com/spf13/cobra"

	"routing-service/internal/config"
	"routing-service/internal/platform/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "routectl",
		Short:         "Routing service maintenance and offline planning",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSolveCmd())
	return root
}

// loadConfig loads the shared configuration and points logs at stderr so
// command output stays machine readable.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()})
	return cfg, nil
}
