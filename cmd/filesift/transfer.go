package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filesift/filesift/internal/cli"
	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/config"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the plan to a CSV file for editing",
		RunE:  runExport,
	}

	cmd.Flags().String("dest", "", "destination root holding the plan (required)")
	cmd.Flags().String("out", "", "CSV file to write (required)")
	_ = cmd.MarkFlagRequired("dest")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	destRoot := config.ExpandPath(mustFlag(cmd, "dest"))
	outPath := config.ExpandPath(mustFlag(cmd, "out"))

	store, err := initStorage(ctx, destRoot)
	if err != nil {
		return common.NewUserError("could not open mapping database", err)
	}
	defer func() { _ = store.Close() }()

	written, err := store.ExportMappingCSV(ctx, outPath)
	if err != nil {
		return common.NewUserError("export failed", err)
	}

	fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
		fmt.Sprintf("Exported %d rows to %s", written, outPath)))
	return nil
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an edited plan CSV",
		Long: `Import reads a CSV previously produced by export (possibly edited in a
spreadsheet) and upserts its rows back into the plan, keyed by source
path. Malformed rows are skipped and counted.`,
		RunE: runImport,
	}

	cmd.Flags().String("dest", "", "destination root holding the plan (required)")
	cmd.Flags().String("in", "", "CSV file to read (required)")
	_ = cmd.MarkFlagRequired("dest")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	destRoot := config.ExpandPath(mustFlag(cmd, "dest"))
	inPath := config.ExpandPath(mustFlag(cmd, "in"))

	store, err := initStorage(ctx, destRoot)
	if err != nil {
		return common.NewUserError("could not open mapping database", err)
	}
	defer func() { _ = store.Close() }()

	imported, skipped, err := store.ImportMappingCSV(ctx, inPath)
	if err != nil {
		return common.NewUserError("import failed", err)
	}

	msg := fmt.Sprintf("Imported %d rows from %s", imported, inPath)
	if skipped > 0 {
		msg += cli.WarningStyle.Render(fmt.Sprintf(" (%d malformed rows skipped)", skipped))
	}
	fmt.Fprintln(os.Stdout, msg)
	return nil
}
