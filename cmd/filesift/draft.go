package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/filesift/filesift/internal/analyze"
	"github.com/filesift/filesift/internal/cli"
	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/config"
	"github.com/filesift/filesift/internal/detect"
	"github.com/filesift/filesift/internal/model"
	"github.com/filesift/filesift/internal/route"
	"github.com/filesift/filesift/internal/scan"
)

func draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Scan a directory and draft a routing plan",
		Long: `Draft walks the source tree, classifies every regular file, and
persists a first-pass routing plan under the destination's state
directory. Nothing is moved; review the plan before executing.`,
		RunE: runDraft,
	}

	cmd.Flags().String("root", "", "source directory to scan (required)")
	cmd.Flags().String("dest", "", "destination root for the sorted tree (required)")
	cmd.Flags().String("rules", "", "user rules YAML file")
	cmd.Flags().String("preserve", "smart", "structure preservation: on, off, or smart")
	_ = cmd.MarkFlagRequired("root")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

func runDraft(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	scanRoot := config.ExpandPath(mustFlag(cmd, "root"))
	destRoot := config.ExpandPath(mustFlag(cmd, "dest"))
	rulesPath := mustFlag(cmd, "rules")
	mode := model.ParseStructureMode(mustFlag(cmd, "preserve"))

	ruleSet, err := loadRules(rulesPath)
	if err != nil {
		return common.NewUserError("could not load rules", err)
	}

	paths, err := scan.Walk(scanRoot)
	if err != nil {
		return common.NewUserError("could not scan source directory", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w under %s", common.ErrNoFiles, scanRoot)
	}
	slog.Info("Scanned source tree", "root", scanRoot, "files", len(paths))

	bar := newProgressBar(len(paths), "Classifying files...")
	analyzer := analyze.New(detect.Defaults())
	for _, path := range paths {
		analyzer.Add(path)
		_ = bar.Add(1)
	}
	results := analyzer.Results(1)

	planner := &route.Planner{
		DestRoot: destRoot,
		ScanRoot: scanRoot,
		Mode:     mode,
		Rules:    ruleSet,
	}
	plan := planner.BuildPlan(results, 1)

	store, err := initStorage(ctx, destRoot)
	if err != nil {
		return common.NewUserError("could not open mapping database", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveDecisions(ctx, plan.Rows); err != nil {
		return common.NewUserError("could not persist plan", err)
	}
	if err := writeTreePlan(destRoot, plan.Tree); err != nil {
		slog.Warn("Could not write tree plan artifact", "error", err)
	}

	fmt.Fprintln(os.Stdout, cli.RenderTree(plan.Tree))
	fmt.Fprintln(os.Stdout, cli.RenderPlanStats(plan.Stats))

	residualStats := analyze.CollectResidualStats(results)
	for _, suggestion := range residualStats.Suggestions {
		fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("hint: "+suggestion))
	}
	return nil
}

func mustFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
