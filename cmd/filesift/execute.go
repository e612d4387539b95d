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

func executeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Apply the plan: move and copy files",
		Long: `Execute applies every Move and Copy decision in the persisted plan.
Residual and Suggest rows are left untouched. Every operation is
journaled so the run can be undone.`,
		RunE: runExecute,
	}

	cmd.Flags().String("dest", "", "destination root holding the plan (required)")
	cmd.Flags().Bool("dry-run", false, "log what would happen without touching files")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

func runExecute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	destRoot := config.ExpandPath(mustFlag(cmd, "dest"))
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	store, err := initStorage(ctx, destRoot)
	if err != nil {
		return common.NewUserError("could not open mapping database", err)
	}
	defer func() { _ = store.Close() }()

	runID, stats, err := execute.New(store, dryRun).Run(ctx)
	if err != nil {
		return common.NewUserError("execution failed", err)
	}

	if runID != "" {
		slog.Info("Run complete", "run_id", runID)
	}
	summary := fmt.Sprintf("Moved %d, copied %d, skipped %d (%d residual), errors %d",
		stats.Moved, stats.Copied, stats.SkippedByAction, stats.SkippedResiduals, stats.Errors)
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
