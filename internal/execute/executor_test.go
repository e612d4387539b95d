package execute

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/model"
	"github.com/filesift/filesift/internal/storage"
)

func createTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func decision(source, target string, action model.Action) model.RoutingDecision {
	return model.RoutingDecision{
		SourcePath: source,
		Domain:     "Finance",
		Kind:       "Invoices",
		TargetPath: target,
		Confidence: 0.9,
		Action:     action,
		PassID:     1,
	}
}

func TestRunMovesAndCopies(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	src := t.TempDir()
	dst := t.TempDir()

	moveSrc := filepath.Join(src, "invoice.pdf")
	copySrc := filepath.Join(src, "photo.jpg")
	writeTestFile(t, moveSrc, "invoice")
	writeTestFile(t, copySrc, "photo")

	moveDst := filepath.Join(dst, "Finance", "Invoices", "invoice.pdf")
	copyDst := filepath.Join(dst, "Media", "Photos", "photo.jpg")
	require.NoError(t, store.SaveDecisions(ctx, []model.RoutingDecision{
		decision(moveSrc, moveDst, model.ActionMove),
		decision(copySrc, copyDst, model.ActionCopy),
	}))

	runID, stats, err := New(store, false).Run(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, runID)
	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 1, stats.Copied)
	assert.Equal(t, 0, stats.Errors)

	assert.NoFileExists(t, moveSrc)
	assert.FileExists(t, moveDst)
	assert.FileExists(t, copySrc, "copy keeps the source")
	assert.FileExists(t, copyDst)

	events, err := store.GetRunEvents(ctx, runID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.OpMove, events[0].Operation)
	assert.Equal(t, model.OpCopy, events[1].Operation)
}

func TestRunSkipsResidualsAndInactionableRows(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	src := t.TempDir()

	residual := decision(filepath.Join(src, "misc.tmp"), "/out/x", model.ActionSkip)
	residual.IsResidual = true
	suggest := decision(filepath.Join(src, "maybe.pdf"), "/out/y", model.ActionSuggest)
	skip := decision(filepath.Join(src, "secrets.kdbx"), "/out/z", model.ActionSkip)
	require.NoError(t, store.SaveDecisions(ctx, []model.RoutingDecision{residual, suggest, skip}))

	runID, stats, err := New(store, false).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, runID, "no filesystem work means no run")
	assert.Equal(t, 1, stats.SkippedResiduals)
	assert.Equal(t, 2, stats.SkippedByAction)
	assert.Equal(t, 0, stats.Moved)
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	src := t.TempDir()
	dst := t.TempDir()

	moveSrc := filepath.Join(src, "invoice.pdf")
	writeTestFile(t, moveSrc, "invoice")
	moveDst := filepath.Join(dst, "Finance", "invoice.pdf")
	require.NoError(t, store.SaveDecisions(ctx, []model.RoutingDecision{
		decision(moveSrc, moveDst, model.ActionMove),
	}))

	runID, stats, err := New(store, true).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, runID)
	assert.Equal(t, 1, stats.Moved, "dry-run still counts planned work")

	assert.FileExists(t, moveSrc)
	assert.NoFileExists(t, moveDst)

	last, err := store.LastRunID(ctx)
	require.NoError(t, err)
	assert.Empty(t, last, "dry-run never journals")
}

func TestRunRenamesOnOccupiedDestination(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	src := t.TempDir()
	dst := t.TempDir()

	moveSrc := filepath.Join(src, "report.pdf")
	writeTestFile(t, moveSrc, "new report")
	moveDst := filepath.Join(dst, "report.pdf")
	writeTestFile(t, moveDst, "already here")

	require.NoError(t, store.SaveDecisions(ctx, []model.RoutingDecision{
		decision(moveSrc, moveDst, model.ActionMove),
	}))

	runID, stats, err := New(store, false).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Moved)

	renamed := filepath.Join(dst, "report__dup1.pdf")
	assert.FileExists(t, renamed)
	content, readErr := os.ReadFile(moveDst)
	require.NoError(t, readErr)
	assert.Equal(t, "already here", string(content), "occupant untouched")

	events, err := store.GetRunEvents(ctx, runID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.OpCollisionRename, events[0].Operation)
	assert.Equal(t, renamed, events[0].DestPath)
	assert.Equal(t, model.OpMove, events[1].Operation)
}

func TestUndoReversesLastRun(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	src := t.TempDir()
	dst := t.TempDir()

	moveSrc := filepath.Join(src, "invoice.pdf")
	copySrc := filepath.Join(src, "photo.jpg")
	writeTestFile(t, moveSrc, "invoice")
	writeTestFile(t, copySrc, "photo")
	moveDst := filepath.Join(dst, "Finance", "invoice.pdf")
	copyDst := filepath.Join(dst, "Media", "photo.jpg")

	require.NoError(t, store.SaveDecisions(ctx, []model.RoutingDecision{
		decision(moveSrc, moveDst, model.ActionMove),
		decision(copySrc, copyDst, model.ActionCopy),
	}))

	exec := New(store, false)
	_, _, err := exec.Run(ctx)
	require.NoError(t, err)

	undoRun, stats, err := exec.Undo(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, undoRun)
	assert.Equal(t, 1, stats.Restored)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, 0, stats.Errors)

	assert.FileExists(t, moveSrc, "move restored")
	assert.NoFileExists(t, moveDst)
	assert.NoFileExists(t, copyDst, "copy deleted")
	assert.FileExists(t, copySrc)

	events, err := store.GetRunEvents(ctx, undoRun)
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Reverse order: the copy was journaled last, so it unwinds first.
	assert.Equal(t, model.OpUndoCopy, events[0].Operation)
	assert.Equal(t, model.OpUndoMove, events[1].Operation)
}

func TestUndoRestoresWithCollisionSafeName(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	src := t.TempDir()
	dst := t.TempDir()

	moveSrc := filepath.Join(src, "notes.txt")
	writeTestFile(t, moveSrc, "original")
	moveDst := filepath.Join(dst, "notes.txt")
	require.NoError(t, store.SaveDecisions(ctx, []model.RoutingDecision{
		decision(moveSrc, moveDst, model.ActionMove),
	}))

	exec := New(store, false)
	_, _, err := exec.Run(ctx)
	require.NoError(t, err)

	// Something new appears at the original location.
	writeTestFile(t, moveSrc, "usurper")

	_, stats, err := exec.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Restored)

	restored := filepath.Join(src, "notes__dup1.txt")
	assert.FileExists(t, restored)
	content, readErr := os.ReadFile(restored)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(content))
}

func TestUndoEmptyJournal(t *testing.T) {
	store := createTestStore(t)

	_, _, err := New(store, false).Undo(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
