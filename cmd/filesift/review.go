package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filesift/filesift/internal/cli"
	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/config"
	"github.com/filesift/filesift/internal/model"
	"github.com/filesift/filesift/internal/route"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Show the current plan's tree and statistics",
		RunE:  runReview,
	}

	cmd.Flags().String("dest", "", "destination root holding the plan (required)")
	cmd.Flags().Bool("residuals", false, "also list the rows still unresolved")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	destRoot := config.ExpandPath(mustFlag(cmd, "dest"))

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

	fmt.Fprintln(os.Stdout, cli.RenderTree(route.TreeFromDecisions(destRoot, rows)))
	fmt.Fprintln(os.Stdout, cli.RenderPlanStats(statsFromRows(rows)))

	if showResiduals, _ := cmd.Flags().GetBool("residuals"); showResiduals {
		residuals, resErr := store.GetResiduals(ctx)
		if resErr != nil {
			return resErr
		}
		fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Residuals"))
		fmt.Fprintln(os.Stdout, cli.RenderDecisions(residuals))
	}
	return nil
}

func statsFromRows(rows []model.RoutingDecision) model.PlanStats {
	stats := model.PlanStats{
		ByAction:   make(map[model.Action]int),
		ByDomain:   make(map[string]int),
		TotalFiles: len(rows),
	}
	for _, row := range rows {
		stats.ByAction[row.Action]++
		stats.ByDomain[row.Domain]++
		if row.IsResidual {
			stats.ResidualCount++
		}
	}
	if stats.TotalFiles > 0 {
		stats.ResidualPercent = float64(stats.ResidualCount) / float64(stats.TotalFiles) * 100
	}
	return stats
}
