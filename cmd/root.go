package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Leganyst/class-scheduler/internal/config"
	"github.com/Leganyst/class-scheduler/internal/db"
	"github.com/Leganyst/class-scheduler/internal/logging"
)

type rootOptions struct {
	envFiles []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "class-scheduler",
		Short:         "Timetable core: conflict-checked scheduling over gRPC",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env", ".env.local"}, "Env files to load before reading the environment")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newPeriodsCmd(opts))
	cmd.AddCommand(newTokenCmd(opts))
	return cmd
}

// bootstrap собирает конфиг и логгер, общие для всех команд.
func (o *rootOptions) bootstrap() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logging.New(cfg.Log, nil), nil
}

func openDB(cfg *config.Config, log *logrus.Logger) (*gorm.DB, func(), error) {
	gormDB, err := db.NewGormDB(&cfg.DB, logrus.NewEntry(log))
	if err != nil {
		return nil, nil, fmt.Errorf("init db: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("sql DB: %w", err)
	}
	return gormDB, func() { _ = sqlDB.Close() }, nil
}
