package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fixpoint-backend/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		gormDB, err := db.Init(&cfg.Database)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			defer sqlDB.Close()
		}
		log.Info().Msg("schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
