package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/filesift/filesift/internal/config"
	"github.com/filesift/filesift/internal/model"
	"github.com/filesift/filesift/internal/rules"
	"github.com/filesift/filesift/internal/service"
	"github.com/filesift/filesift/internal/storage"
)

// initStorage opens the mapping database under the destination root's
// state directory and runs migrations.
func initStorage(ctx context.Context, destRoot string) (service.Store, error) {
	dbPath := config.DatabasePath(config.ExpandPath(destRoot))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadRules loads user rules from the flag, falling back to any path in
// the config file. Warnings for skipped rules are logged, not fatal.
func loadRules(rulesPath string) (*rules.Set, error) {
	if rulesPath == "" {
		rulesPath = viper.GetString("rules.path")
	}
	rulesPath = config.ExpandPath(rulesPath)

	set, warnings, err := rules.Load(rulesPath)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn("Skipped rule", "warning", w)
	}
	return set, nil
}

// writeTreePlan drops the destination preview as a JSON artifact next
// to the database, where external tools can pick it up.
func writeTreePlan(destRoot string, tree model.TreePlan) error {
	stateDir := config.StateDir(destRoot)
	if err := os.MkdirAll(stateDir, 0750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(stateDir, "tree_plan.json"), data, 0600)
}

// inferScanRoot derives the scan root from persisted rows as the
// longest directory prefix shared by every source path.
func inferScanRoot(rows []model.RoutingDecision) string {
	if len(rows) == 0 {
		return ""
	}
	root := filepath.Dir(rows[0].SourcePath)
	for _, row := range rows[1:] {
		dir := filepath.Dir(row.SourcePath)
		for root != "" && !strings.HasPrefix(dir+string(filepath.Separator), root+string(filepath.Separator)) {
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}
	return root
}
