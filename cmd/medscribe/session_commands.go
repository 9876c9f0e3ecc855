package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"medscribe/internal/artifacts"
	"medscribe/internal/config"
	"medscribe/internal/pipeline"
	"medscribe/internal/status"
)

func newNewSessionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "new-session",
		Short: "Mint a fresh session identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), pipeline.NewSessionID())
			return nil
		},
	}
}

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <session-id>",
		Short: "Show workflow progress for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, logger *slog.Logger) error {
				snapshot := status.Project(ctx, store, args[0])
				out := cmd.OutOrStdout()
				for _, line := range renderSnapshot(snapshot, shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
}

func newSessionsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, logger *slog.Logger) error {
				sessions, err := store.ListSessions(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(sessions) == 0 {
					fmt.Fprintln(out, "No sessions stored.")
					return nil
				}
				rows := make([][]string, 0, len(sessions))
				for _, sessionID := range sessions {
					snapshot := status.Project(ctx, store, sessionID)
					modified := ""
					if when, ok, err := store.LastModified(ctx, sessionID); err == nil && ok {
						modified = when.Local().Format(time.RFC3339)
					}
					rows = append(rows, []string{
						sessionID,
						string(snapshot.Stage),
						fmt.Sprintf("%d%%", snapshot.CompletionPercent),
						modified,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Session", "Stage", "Complete", "Last Modified"},
					rows,
					3,
				))
				return nil
			})
		},
	}
}

func newDeleteSessionCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-session <session-id>",
		Short: "Delete a session and all of its artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, logger *slog.Logger) error {
				if err := store.DeleteSession(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
				return nil
			})
		},
	}
}
