package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filesift/filesift/internal/cli"
	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/config"
	"github.com/filesift/filesift/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage user routing rules",
	}

	cmd.AddCommand(rulesValidateCmd())
	return cmd
}

func rulesValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a rules file for problems",
		RunE:  runRulesValidate,
	}

	cmd.Flags().String("rules", "", "user rules YAML file (required)")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func runRulesValidate(cmd *cobra.Command, _ []string) error {
	rulesPath := config.ExpandPath(mustFlag(cmd, "rules"))

	set, warnings, err := rules.Load(rulesPath)
	if err != nil {
		return common.NewUserError("rules file is invalid", err)
	}

	for _, w := range warnings {
		fmt.Fprintln(os.Stdout, cli.WarningStyle.Render("warning: "+w))
	}
	if len(warnings) == 0 {
		fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
			fmt.Sprintf("OK: %d rules compiled (built-ins included)", set.Len())))
	} else {
		fmt.Fprintf(os.Stdout, "%d rules compiled, %d skipped\n", set.Len(), len(warnings))
	}
	return nil
}
