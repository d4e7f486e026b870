package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/app"
	"github.com/rovshanmuradov/reclaim-hub/internal/config"
	"github.com/rovshanmuradov/reclaim-hub/internal/utils/logger"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "reclaim-hub",
		Short:        "Backend for the Solana reclaim dashboard and pump.fun Creator Hub",
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `
Run the reclaim-hub HTTP API.

Settings are read from the optional --config file, a .env file and
RECLAIM_HUB_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			logCfg := logger.DefaultConfig()
			logCfg.LogFile = cfg.LogFile
			logCfg.Development = cfg.DebugLogging

			log, err := logger.New(logCfg)
			if err != nil {
				return err
			}

			runner, err := app.NewRunner(cfg, log)
			if err != nil {
				log.LogError("Failed to initialize", err)
				return err
			}

			if err := runner.Run(cmd.Context()); err != nil {
				log.Error("Shutdown finished with errors", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (json, yaml or toml)")
	return cmd
}
