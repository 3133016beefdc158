package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vare7/cloud-db-inventory/internal/config"
	"github.com/vare7/cloud-db-inventory/internal/database"
)

// migrateCmd applies the embedded schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		pool, err := database.Open(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		slog.Info("schema applied")
		return nil
	},
}
