// Package execute applies a persisted plan to the filesystem and
// records a replayable journal so a run can be undone.
package execute

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/filesift/filesift/internal/model"
	"github.com/filesift/filesift/internal/service"
)

// Executor moves or copies files according to their routing decisions.
type Executor struct {
	store  service.Store
	DryRun bool
}

// New creates an executor backed by the given store.
func New(store service.Store, dryRun bool) *Executor {
	return &Executor{store: store, DryRun: dryRun}
}

// Run applies every actionable decision in the mapping table. Move and
// Copy rows are executed; Suggest and Skip rows are counted but left
// alone. Every filesystem operation is journaled under a fresh run ID
// unless the executor is in dry-run mode.
func (e *Executor) Run(ctx context.Context) (string, model.ExecStats, error) {
	var stats model.ExecStats

	decisions, err := e.store.GetDecisions(ctx)
	if err != nil {
		return "", stats, err
	}
	if len(decisions) == 0 {
		return "", stats, nil
	}

	runID := uuid.New().String()
	var events []model.JournalEvent

	for _, d := range decisions {
		if d.IsResidual {
			stats.SkippedResiduals++
			continue
		}
		if d.Action != model.ActionMove && d.Action != model.ActionCopy {
			stats.SkippedByAction++
			continue
		}

		dest, renamed := freeDestination(d.TargetPath)
		if renamed && !e.DryRun {
			events = append(events, event(runID, d.PassID, model.OpCollisionRename, d.TargetPath, dest, "ok", "destination existed"))
		}

		if e.DryRun {
			slog.Info("Would apply",
				"action", d.Action,
				"source", d.SourcePath,
				"dest", dest)
			if d.Action == model.ActionMove {
				stats.Moved++
			} else {
				stats.Copied++
			}
			continue
		}

		var opErr error
		op := model.OpMove
		if d.Action == model.ActionMove {
			opErr = moveFile(d.SourcePath, dest)
		} else {
			op = model.OpCopy
			opErr = copyFile(d.SourcePath, dest)
		}

		if opErr != nil {
			stats.Errors++
			slog.Error("Operation failed",
				"action", d.Action,
				"source", d.SourcePath,
				"error", opErr)
			events = append(events, event(runID, d.PassID, model.OpError, d.SourcePath, dest, "error", opErr.Error()))
			continue
		}

		if d.Action == model.ActionMove {
			stats.Moved++
		} else {
			stats.Copied++
		}
		events = append(events, event(runID, d.PassID, op, d.SourcePath, dest, "ok", ""))
	}

	if e.DryRun || len(events) == 0 {
		return "", stats, nil
	}
	if err := e.store.AppendEvents(ctx, events); err != nil {
		return runID, stats, fmt.Errorf("executed but journaling failed: %w", err)
	}
	return runID, stats, nil
}

func event(runID string, passID int, op model.JournalOp, source, dest, status, details string) model.JournalEvent {
	return model.JournalEvent{
		Time:       time.Now().UTC(),
		RunID:      runID,
		Operation:  op,
		SourcePath: source,
		DestPath:   dest,
		Status:     status,
		Details:    details,
		PassID:     passID,
	}
}

// freeDestination returns a destination path that does not yet exist,
// appending __dupN before the extension when the planned target is
// already occupied.
func freeDestination(target string) (string, bool) {
	if _, err := os.Lstat(target); os.IsNotExist(err) {
		return target, false
	}

	ext := filepath.Ext(target)
	stem := target[:len(target)-len(ext)]
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s__dup%d%s", stem, n, ext)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, true
		}
	}
}

func moveFile(source, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	if err := os.Rename(source, dest); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copy and delete.
	if err := copyFile(source, dest); err != nil {
		return err
	}
	if err := os.Remove(source); err != nil {
		return fmt.Errorf("copied but failed to remove source: %w", err)
	}
	return nil
}

func copyFile(source, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("failed to copy contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finalize destination: %w", err)
	}
	return nil
}
