package execute

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/model"
)

// UndoStats reports what an undo pass did.
type UndoStats struct {
	Restored int
	Deleted  int
	Skipped  int
	Errors   int
}

// Undo reverses the most recent executor run: moves are restored to
// their recorded source paths and copies are deleted. Events replay in
// reverse order so later renames unwind before earlier ones. The undo
// itself is journaled under a new run ID.
func (e *Executor) Undo(ctx context.Context) (string, UndoStats, error) {
	var stats UndoStats

	lastRun, err := e.store.LastRunID(ctx)
	if err != nil {
		return "", stats, err
	}
	if lastRun == "" {
		return "", stats, fmt.Errorf("nothing to undo: %w", common.ErrNotFound)
	}

	events, err := e.store.GetRunEvents(ctx, lastRun)
	if err != nil {
		return "", stats, err
	}

	undoRun := uuid.New().String()
	var undoEvents []model.JournalEvent

	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		switch ev.Operation {
		case model.OpMove:
			restored, undoErr := e.undoMove(ev)
			if undoErr != nil {
				stats.Errors++
				slog.Error("Undo failed", "dest", ev.DestPath, "error", undoErr)
				continue
			}
			stats.Restored++
			if !e.DryRun {
				undoEvents = append(undoEvents, model.JournalEvent{
					Time:       time.Now().UTC(),
					RunID:      undoRun,
					Operation:  model.OpUndoMove,
					SourcePath: ev.DestPath,
					DestPath:   restored,
					Status:     "ok",
					PassID:     ev.PassID,
				})
			}
		case model.OpCopy:
			if undoErr := e.undoCopy(ev); undoErr != nil {
				stats.Errors++
				slog.Error("Undo failed", "dest", ev.DestPath, "error", undoErr)
				continue
			}
			stats.Deleted++
			if !e.DryRun {
				undoEvents = append(undoEvents, model.JournalEvent{
					Time:       time.Now().UTC(),
					RunID:      undoRun,
					Operation:  model.OpUndoCopy,
					SourcePath: ev.DestPath,
					Status:     "ok",
					PassID:     ev.PassID,
				})
			}
		default:
			stats.Skipped++
		}
	}

	if e.DryRun || len(undoEvents) == 0 {
		return "", stats, nil
	}
	if err := e.store.AppendEvents(ctx, undoEvents); err != nil {
		return undoRun, stats, fmt.Errorf("undone but journaling failed: %w", err)
	}
	return undoRun, stats, nil
}

// undoMove puts a moved file back, picking a collision-safe name if
// something now occupies the original source path.
func (e *Executor) undoMove(ev model.JournalEvent) (string, error) {
	restore, _ := freeDestination(ev.SourcePath)
	if e.DryRun {
		slog.Info("Would restore", "from", ev.DestPath, "to", restore)
		return restore, nil
	}
	if err := os.MkdirAll(filepath.Dir(restore), 0750); err != nil {
		return "", fmt.Errorf("failed to create restore directory: %w", err)
	}
	if err := os.Rename(ev.DestPath, restore); err != nil {
		return "", fmt.Errorf("failed to restore %s: %w", ev.DestPath, err)
	}
	return restore, nil
}

func (e *Executor) undoCopy(ev model.JournalEvent) error {
	if e.DryRun {
		slog.Info("Would delete copy", "dest", ev.DestPath)
		return nil
	}
	if err := os.Remove(ev.DestPath); err != nil {
		return fmt.Errorf("failed to delete copy %s: %w", ev.DestPath, err)
	}
	return nil
}
