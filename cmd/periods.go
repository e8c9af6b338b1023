package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Leganyst/class-scheduler/internal/calendar"
	"github.com/Leganyst/class-scheduler/internal/repository"
)

func newPeriodsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Manage the day grid of periods",
	}
	cmd.AddCommand(newPeriodsGenerateCmd(root))
	return cmd
}

func newPeriodsGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		overwrite   bool
		dayStart    string
		dayEnd      string
		slotMinutes int
	)
	def := calendar.DefaultGrid()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate periods for the day grid",
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

			store := repository.NewStore(gormDB)
			opts := calendar.GridOptions{
				DayStart:     dayStart,
				DayEnd:       dayEnd,
				SlotDuration: time.Duration(slotMinutes) * time.Minute,
			}
			periods, err := calendar.GeneratePeriods(cmd.Context(), store.Periods, opts, overwrite)
			if errors.Is(err, calendar.ErrPeriodsExist) {
				return fmt.Errorf("%w (use --overwrite to replace them)", err)
			}
			if err != nil {
				return err
			}
			log.WithField("count", len(periods)).Info("periods generated")
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing periods")
	cmd.Flags().StringVar(&dayStart, "day-start", def.DayStart, "First period start (HH:MM)")
	cmd.Flags().StringVar(&dayEnd, "day-end", def.DayEnd, "Last period end (HH:MM)")
	cmd.Flags().IntVar(&slotMinutes, "slot-minutes", int(def.SlotDuration/time.Minute), "Period length in minutes")
	return cmd
}
