package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations for the mysql or sqlite backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openSQL(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("migrations applied", zap.String("backend", cfg.StorageBackend))
		return nil
	},
}
