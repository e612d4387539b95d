package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/filesift/filesift/internal/cli"
	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/config"
	"github.com/filesift/filesift/internal/execute"
)

func undoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Reverse the most recent run",
		Long: `Undo replays the last run's journal in reverse: moved files return to
their original locations and copies are deleted. Only the most recent
run is reversed; run undo again to unwind earlier ones.`,
		RunE: runUndo,
	}

	cmd.Flags().String("dest", "", "destination root holding the journal (required)")
	cmd.Flags().Bool("dry-run", false, "log what would happen without touching files")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

func runUndo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	destRoot := config.ExpandPath(mustFlag(cmd, "dest"))
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	store, err := initStorage(ctx, destRoot)
	if err != nil {
		return common.NewUserError("could not open mapping database", err)
	}
	defer func() { _ = store.Close() }()

	undoRun, stats, err := execute.New(store, dryRun).Undo(ctx)
	if err != nil {
		return common.NewUserError("undo failed", err)
	}

	if undoRun != "" {
		slog.Info("Undo complete", "run_id", undoRun)
	}
	summary := fmt.Sprintf("Restored %d moves, deleted %d copies, skipped %d, errors %d",
		stats.Restored, stats.Deleted, stats.Skipped, stats.Errors)
	if dryRun {
		summary = "[dry-run] " + summary
	}
	style := cli.SuccessStyle
	if stats.Errors > 0 {
		style = cli.WarningStyle
	}
	fmt.Fprintln(os.Stdout, style.Render(summary))
	return nil
}
