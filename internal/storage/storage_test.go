package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/model"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTestDecisions(count int) []model.RoutingDecision {
	rows := make([]model.RoutingDecision, count)
	for i := 0; i < count; i++ {
		rows[i] = model.RoutingDecision{
			SourcePath: fmt.Sprintf("/in/docs/file_%02d.pdf", i),
			Domain:     "Finance",
			Kind:       "Invoices",
			Entity:     "ClientA",
			Year:       2024,
			TargetPath: fmt.Sprintf("/out/Finance/Invoices/ClientA/2024/file_%02d.pdf", i),
			Confidence: 0.85,
			Action:     model.ActionMove,
			Why:        "extension match: documents",
			PassID:     1,
		}
	}
	return rows
}

func TestMigrateReachesExpectedVersion(t *testing.T) {
	store := createTestStorage(t)

	var version int
	err := store.db.QueryRow("PRAGMA user_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Migrating again is a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndGetDecisions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rows := createTestDecisions(3)
	require.NoError(t, store.SaveDecisions(ctx, rows))

	got, err := store.GetDecisions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Insertion order is preserved.
	for i, d := range got {
		assert.Equal(t, rows[i].SourcePath, d.SourcePath)
		assert.Equal(t, rows[i].TargetPath, d.TargetPath)
		assert.Equal(t, model.ActionMove, d.Action)
		assert.InDelta(t, 0.85, d.Confidence, 0.0001)
	}
}

func TestSaveDecisionsUpsertsBySourcePath(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rows := createTestDecisions(2)
	require.NoError(t, store.SaveDecisions(ctx, rows))

	// Second pass revises the first file.
	revised := rows[0]
	revised.TargetPath = "/out/Finance/Invoices/ClientA/2024/file_00__dup1.pdf"
	revised.Confidence = 0.93
	revised.PassID = 2
	revised.PreviousPassID = 1
	revised.PreviousAction = model.ActionSuggest
	revised.PreviousConfidence = 0.85
	revised.PreviousTargetPath = rows[0].TargetPath
	require.NoError(t, store.SaveDecisions(ctx, []model.RoutingDecision{revised}))

	got, err := store.GetDecisions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2, "upsert must not grow the table")

	first, err := store.GetDecision(ctx, rows[0].SourcePath)
	require.NoError(t, err)
	assert.Equal(t, 2, first.PassID)
	assert.Equal(t, 1, first.PreviousPassID)
	assert.Equal(t, model.ActionSuggest, first.PreviousAction)
	assert.InDelta(t, 0.85, first.PreviousConfidence, 0.0001)
	assert.Equal(t, rows[0].TargetPath, first.PreviousTargetPath)
	assert.InDelta(t, 0.93, first.Confidence, 0.0001)
}

func TestGetDecisionNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetDecision(context.Background(), "/in/missing.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetResiduals(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rows := createTestDecisions(4)
	rows[1].IsResidual = true
	rows[1].Action = model.ActionSkip
	rows[3].IsResidual = true
	rows[3].Action = model.ActionSuggest
	require.NoError(t, store.SaveDecisions(ctx, rows))

	residuals, err := store.GetResiduals(ctx)
	require.NoError(t, err)
	require.Len(t, residuals, 2)
	assert.Equal(t, rows[1].SourcePath, residuals[0].SourcePath)
	assert.Equal(t, rows[3].SourcePath, residuals[1].SourcePath)
	for _, r := range residuals {
		assert.True(t, r.IsResidual)
	}
}

func TestSearchDecisionsCaseInsensitive(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rows := createTestDecisions(2)
	rows[1].SourcePath = "/in/Taxes/W2_2023.pdf"
	rows[1].TargetPath = "/out/Finance/Taxes/2023/W2_2023.pdf"
	require.NoError(t, store.SaveDecisions(ctx, rows))

	got, err := store.SearchDecisions(ctx, "taxes")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/in/Taxes/W2_2023.pdf", got[0].SourcePath)

	got, err = store.SearchDecisions(ctx, "clienta")
	require.NoError(t, err)
	assert.Len(t, got, 1, "target path is searched too")

	got, err = store.SearchDecisions(ctx, "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLatestPassID(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	pass, err := store.LatestPassID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pass, "empty table reports pass 0")

	rows := createTestDecisions(2)
	rows[1].PassID = 3
	require.NoError(t, store.SaveDecisions(ctx, rows))

	pass, err = store.LatestPassID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pass)
}

func TestSaveDecisionsValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		mutate  func(*model.RoutingDecision)
		name    string
		wantErr error
	}{
		{
			name:    "missing source path",
			mutate:  func(d *model.RoutingDecision) { d.SourcePath = "" },
			wantErr: ErrInvalidDecision,
		},
		{
			name:    "unknown action",
			mutate:  func(d *model.RoutingDecision) { d.Action = "Teleport" },
			wantErr: ErrInvalidDecision,
		},
		{
			name:    "zero pass id",
			mutate:  func(d *model.RoutingDecision) { d.PassID = 0 },
			wantErr: ErrInvalidDecision,
		},
		{
			name:    "confidence out of range",
			mutate:  func(d *model.RoutingDecision) { d.Confidence = 1.2 },
			wantErr: ErrInvalidDecision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := createTestDecisions(1)
			tt.mutate(&rows[0])
			err := store.SaveDecisions(ctx, rows)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	err := store.SaveDecisions(ctx, []model.RoutingDecision{})
	assert.ErrorIs(t, err, ErrEmptySlice)
}

func TestJournalRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	runID, err := store.LastRunID(ctx)
	require.NoError(t, err)
	assert.Empty(t, runID, "empty journal has no last run")

	now := time.Now().UTC().Truncate(time.Second)
	events := []model.JournalEvent{
		{
			Time:       now,
			RunID:      "run-1",
			Operation:  model.OpMove,
			SourcePath: "/in/a.pdf",
			DestPath:   "/out/Finance/a.pdf",
			Status:     "ok",
			PassID:     1,
		},
		{
			Time:       now.Add(time.Second),
			RunID:      "run-1",
			Operation:  model.OpSkip,
			SourcePath: "/in/b.tmp",
			Status:     "ok",
			Details:    "residual",
			PassID:     1,
		},
	}
	require.NoError(t, store.AppendEvents(ctx, events))

	later := []model.JournalEvent{
		{
			Time:       now.Add(time.Minute),
			RunID:      "run-2",
			Operation:  model.OpCopy,
			SourcePath: "/in/c.jpg",
			DestPath:   "/out/Media/c.jpg",
			Status:     "ok",
			PassID:     2,
		},
	}
	require.NoError(t, store.AppendEvents(ctx, later))

	got, err := store.GetRunEvents(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.OpMove, got[0].Operation)
	assert.Equal(t, "/out/Finance/a.pdf", got[0].DestPath)
	assert.Equal(t, model.OpSkip, got[1].Operation)
	assert.Equal(t, "residual", got[1].Details)

	runID, err = store.LastRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", runID)
}

func TestAppendEventsValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	err := store.AppendEvents(ctx, []model.JournalEvent{{Operation: model.OpMove}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	err = store.AppendEvents(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)
}

func TestExportImportMappingCSV(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rows := createTestDecisions(3)
	rows[2].IsResidual = true
	rows[2].Action = model.ActionSkip
	rows[2].Confidence = 0.41
	require.NoError(t, store.SaveDecisions(ctx, rows))

	csvPath := filepath.Join(t.TempDir(), "mapping.csv")
	written, err := store.ExportMappingCSV(ctx, csvPath)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	// Import into a fresh database.
	other := createTestStorage(t)
	imported, skipped, err := other.ImportMappingCSV(ctx, csvPath)
	require.NoError(t, err)
	assert.Equal(t, 3, imported)
	assert.Equal(t, 0, skipped)

	got, err := other.GetDecisions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, rows[2].SourcePath, got[2].SourcePath)
	assert.True(t, got[2].IsResidual)
	assert.Equal(t, model.ActionSkip, got[2].Action)
	assert.InDelta(t, 0.41, got[2].Confidence, 0.001)
}

func TestImportMappingCSVRejectsBadHeader(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	csvPath := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("foo,bar\n1,2\n"), 0600))

	_, _, err := store.ImportMappingCSV(ctx, csvPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected mapping header")
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyString)
}
