package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/filesift/filesift/internal/cli"
	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/config"
	"github.com/filesift/filesift/internal/model"
	"github.com/filesift/filesift/internal/refine"
	"github.com/filesift/filesift/internal/route"
)

func refineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Re-classify residual files with batch context",
		Long: `Refine runs another classification pass over the files the last pass
could not place confidently, using what the batch has already learned.
Each pass chains onto the previous one's history.`,
		RunE: runRefine,
	}

	cmd.Flags().String("dest", "", "destination root holding the plan (required)")
	cmd.Flags().String("root", "", "source directory (defaults to the drafted scan root)")
	cmd.Flags().String("rules", "", "user rules YAML file")
	cmd.Flags().String("preserve", "smart", "structure preservation: on, off, or smart")
	cmd.Flags().Int("pass", 0, "pass number (default: latest pass + 1)")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

func runRefine(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	destRoot := config.ExpandPath(mustFlag(cmd, "dest"))
	scanRoot := config.ExpandPath(mustFlag(cmd, "root"))
	mode := model.ParseStructureMode(mustFlag(cmd, "preserve"))

	ruleSet, err := loadRules(mustFlag(cmd, "rules"))
	if err != nil {
		return common.NewUserError("could not load rules", err)
	}

	store, err := initStorage(ctx, destRoot)
	if err != nil {
		return common.NewUserError("could not open mapping database", err)
	}
	defer func() { _ = store.Close() }()

	rows, err := store.GetDecisions(ctx)
	if err != nil {
		return common.NewUserError("could not load plan", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: draft a plan first", common.ErrNoFiles)
	}

	passID, _ := cmd.Flags().GetInt("pass")
	if passID == 0 {
		latest, latestErr := store.LatestPassID(ctx)
		if latestErr != nil {
			return latestErr
		}
		passID = latest + 1
	}

	if scanRoot == "" {
		scanRoot = inferScanRoot(rows)
	}

	planner := &route.Planner{
		DestRoot: destRoot,
		ScanRoot: scanRoot,
		Mode:     mode,
		Rules:    ruleSet,
	}

	refined, stats, err := refine.New(planner).Refine(rows, passID)
	if err != nil {
		return common.NewUserError("refinement failed", err)
	}

	if err := store.SaveDecisions(ctx, refined); err != nil {
		return common.NewUserError("could not persist refined plan", err)
	}

	slog.Info("Refinement pass complete", "pass", passID, "residuals_in", stats.ResidualsIn)
	fmt.Fprintln(os.Stdout, cli.RenderRefineStats(stats))
	return nil
}
