package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filesift/filesift/internal/cli"
	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/config"
	"github.com/filesift/filesift/internal/model"
)

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the plan by path",
		RunE:  runSearch,
	}

	cmd.Flags().String("dest", "", "destination root holding the plan (required)")
	cmd.Flags().String("pattern", "", "substring to match against source and target paths (required)")
	cmd.Flags().Bool("residuals-only", false, "only show unresolved rows")
	_ = cmd.MarkFlagRequired("dest")
	_ = cmd.MarkFlagRequired("pattern")

	return cmd
}

func runSearch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	destRoot := config.ExpandPath(mustFlag(cmd, "dest"))
	pattern := mustFlag(cmd, "pattern")
	residualsOnly, _ := cmd.Flags().GetBool("residuals-only")

	store, err := initStorage(ctx, destRoot)
	if err != nil {
		return common.NewUserError("could not open mapping database", err)
	}
	defer func() { _ = store.Close() }()

	rows, err := store.SearchDecisions(ctx, pattern)
	if err != nil {
		return common.NewUserError("search failed", err)
	}

	if residualsOnly {
		var filtered []model.RoutingDecision
		for _, row := range rows {
			if row.IsResidual {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	fmt.Fprintln(os.Stdout, cli.RenderDecisions(rows))
	return nil
}
