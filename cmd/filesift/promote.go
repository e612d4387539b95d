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

func promoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote Suggest rows to Move",
		Long: `Promote accepts the plan's suggestions wholesale: every Suggest row
becomes a Move and loses its residual flag, so the next execute applies
it. Review the plan first.`,
		RunE: runPromote,
	}

	cmd.Flags().String("dest", "", "destination root holding the plan (required)")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

func runPromote(cmd *cobra.Command, _ []string) error {
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

	var promoted []model.RoutingDecision
	for _, row := range rows {
		if row.Action != model.ActionSuggest {
			continue
		}
		row.Action = model.ActionMove
		row.IsResidual = false
		promoted = append(promoted, row)
	}

	if len(promoted) == 0 {
		fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("nothing to promote"))
		return nil
	}

	if err := store.SaveDecisions(ctx, promoted); err != nil {
		return common.NewUserError("could not persist promotions", err)
	}

	fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
		fmt.Sprintf("Promoted %d suggestions to Move", len(promoted))))
	return nil
}
