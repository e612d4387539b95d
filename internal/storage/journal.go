package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/filesift/filesift/internal/model"
)

// AppendEvents records journal events in one transaction. Events of a
// single executor run share a RunID.
func (s *SQLiteStorage) AppendEvents(ctx context.Context, events []model.JournalEvent) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEvents(events); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO journal (run_id, pass_id, operation, source_path, dest_path, status, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare journal insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx,
			ev.RunID,
			ev.PassID,
			string(ev.Operation),
			ev.SourcePath,
			ev.DestPath,
			ev.Status,
			ev.Details,
			ev.Time.UTC(),
		); err != nil {
			return fmt.Errorf("failed to append journal event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit journal events: %w", err)
	}
	return nil
}

// GetRunEvents returns all events of one run in recorded order.
func (s *SQLiteStorage) GetRunEvents(ctx context.Context, runID string) ([]model.JournalEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, pass_id, operation, source_path, dest_path, status, details, created_at
		FROM journal WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.JournalEvent
	for rows.Next() {
		var ev model.JournalEvent
		var op string
		if err := rows.Scan(
			&ev.RunID,
			&ev.PassID,
			&op,
			&ev.SourcePath,
			&ev.DestPath,
			&ev.Status,
			&ev.Details,
			&ev.Time,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal event: %w", err)
		}
		ev.Operation = model.JournalOp(op)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}
	return events, nil
}

// LastRunID reports the most recently recorded run, empty when the
// journal has no entries.
func (s *SQLiteStorage) LastRunID(ctx context.Context) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}

	var runID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id FROM journal ORDER BY id DESC LIMIT 1`).Scan(&runID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to get last run: %w", err)
	}
	if !runID.Valid {
		return "", nil
	}
	return runID.String, nil
}
