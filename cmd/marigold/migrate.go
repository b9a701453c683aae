package main

import (
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/marigold/pkg/database"
)

// migrate is the only command that opens the database writable. It creates
// the schema in a fresh file; loading rows is left to the data import.
func migrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the celebrity schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(database.Config{
				Path:          a.cfg.DatabasePath,
				BusyTimeoutMs: a.cfg.DatabaseBusyTimeoutMs,
				MaxOpenConns:  1,
			}, a.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := database.NewMigrationService(a.logger, &database.MigrationConfig{
				Version:      uint(a.cfg.DatabaseMigrationVersion),
				Force:        a.cfg.DatabaseMigrationForce,
				AutoRollback: a.cfg.DatabaseMigrationAutoRollback,
			})
			return svc.Migrate(db.DB.DB)
		},
	}
}
