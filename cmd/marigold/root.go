package main

import (
	"github.com/Gobusters/ectologger"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/marigold/config"
	"github.com/Ramsey-B/marigold/pkg/logging"
)

// app is filled in by the root command before any subcommand runs.
type app struct {
	cfg    *config.Config
	logger ectologger.Logger
}

func rootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "marigold",
		Short:         "Celebrity finder: search fragments over a SQLite database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.DatabasePath, _ = cmd.Flags().GetString("db")
			}

			logger, err := logging.NewLogger(cfg.AppName, cfg.LogLevel, cfg.PrettyLogs)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	root.PersistentFlags().String("db", "", "path to the celebrities database (overrides DB_PATH)")
	root.AddCommand(serveCommand(a), migrateCommand(a), searchCommand(a))
	return root
}
