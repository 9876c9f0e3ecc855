package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"medscribe/internal/artifacts"
	"medscribe/internal/config"
	"medscribe/internal/logging"
	"medscribe/internal/retention"
)

func newSweepCommand(cmdCtx *commandContext) *cobra.Command {
	var retentionDays int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete sessions older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, logger *slog.Logger) error {
				days := retentionDays
				if days <= 0 {
					days = cfg.Retention.Days
				}
				sweeper := retention.NewSweeper(cfg, store, logger)
				removed, err := sweeper.Sweep(ctx, time.Duration(days)*24*time.Hour)
				if err != nil {
					return err
				}
				logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, cfg.Paths.LogDir, "medscribe*.log")
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d session(s) older than %d day(s)\n", removed, days)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "Override the configured retention period")
	return cmd
}
