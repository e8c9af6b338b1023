package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Leganyst/class-scheduler/internal/model"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema (GORM AutoMigrate)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := root.bootstrap()
			if err != nil {
				return err
			}
			gormDB, closeDB, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := model.AutoMigrate(gormDB.WithContext(cmd.Context())); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			log.Info("schema migrated")
			return nil
		},
	}
}
