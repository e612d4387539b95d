package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/model"
)

const decisionColumns = `source_path, domain, kind, entity, year, target_path,
	confidence, action, is_residual, why, pass_id,
	previous_pass_id, previous_action, previous_confidence, previous_target_path`

// SaveDecisions upserts routing decisions keyed by source path. Rows
// for a file already in the table replace the earlier decision; the
// history columns carry whatever the caller filled in.
func (s *SQLiteStorage) SaveDecisions(ctx context.Context, rows []model.RoutingDecision) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDecisions(rows); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mappings (`+decisionColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			domain = excluded.domain,
			kind = excluded.kind,
			entity = excluded.entity,
			year = excluded.year,
			target_path = excluded.target_path,
			confidence = excluded.confidence,
			action = excluded.action,
			is_residual = excluded.is_residual,
			why = excluded.why,
			pass_id = excluded.pass_id,
			previous_pass_id = excluded.previous_pass_id,
			previous_action = excluded.previous_action,
			previous_confidence = excluded.previous_confidence,
			previous_target_path = excluded.previous_target_path,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			row.SourcePath,
			row.Domain,
			row.Kind,
			row.Entity,
			row.Year,
			row.TargetPath,
			row.Confidence,
			string(row.Action),
			row.IsResidual,
			row.Why,
			row.PassID,
			row.PreviousPassID,
			string(row.PreviousAction),
			row.PreviousConfidence,
			row.PreviousTargetPath,
			now,
		); err != nil {
			return fmt.Errorf("failed to save decision for %s: %w", row.SourcePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit decisions: %w", err)
	}
	return nil
}

// GetDecisions returns every persisted decision in insertion order.
func (s *SQLiteStorage) GetDecisions(ctx context.Context) ([]model.RoutingDecision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryDecisions(ctx,
		`SELECT `+decisionColumns+` FROM mappings ORDER BY id`)
}

// GetResiduals returns only the rows still flagged residual, in
// insertion order.
func (s *SQLiteStorage) GetResiduals(ctx context.Context) ([]model.RoutingDecision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryDecisions(ctx,
		`SELECT `+decisionColumns+` FROM mappings WHERE is_residual = 1 ORDER BY id`)
}

// GetDecision returns the decision for one source path.
func (s *SQLiteStorage) GetDecision(ctx context.Context, sourcePath string) (*model.RoutingDecision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sourcePath, "sourcePath"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+decisionColumns+` FROM mappings WHERE source_path = ?`, sourcePath)

	decision, err := scanDecision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("decision for %s: %w", sourcePath, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}
	return decision, nil
}

// SearchDecisions returns rows whose source or target path contains the
// pattern, matched case-insensitively.
func (s *SQLiteStorage) SearchDecisions(ctx context.Context, pattern string) ([]model.RoutingDecision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(pattern, "pattern"); err != nil {
		return nil, err
	}

	like := "%" + pattern + "%"
	return s.queryDecisions(ctx,
		`SELECT `+decisionColumns+` FROM mappings
		 WHERE source_path LIKE ? COLLATE NOCASE OR target_path LIKE ? COLLATE NOCASE
		 ORDER BY id`, like, like)
}

// LatestPassID reports the highest pass recorded, 0 for an empty table.
func (s *SQLiteStorage) LatestPassID(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var pass sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(pass_id) FROM mappings`).Scan(&pass)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest pass: %w", err)
	}
	if !pass.Valid {
		return 0, nil
	}
	return int(pass.Int64), nil
}

func (s *SQLiteStorage) queryDecisions(ctx context.Context, query string, args ...any) ([]model.RoutingDecision, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decisions []model.RoutingDecision
	for rows.Next() {
		decision, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, *decision)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decisions: %w", err)
	}
	return decisions, nil
}

// scanner abstracts sql.Row and sql.Rows so one scan routine serves
// both single-row and multi-row reads.
type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(sc scanner) (*model.RoutingDecision, error) {
	var d model.RoutingDecision
	var action, prevAction string
	err := sc.Scan(
		&d.SourcePath,
		&d.Domain,
		&d.Kind,
		&d.Entity,
		&d.Year,
		&d.TargetPath,
		&d.Confidence,
		&action,
		&d.IsResidual,
		&d.Why,
		&d.PassID,
		&d.PreviousPassID,
		&prevAction,
		&d.PreviousConfidence,
		&d.PreviousTargetPath,
	)
	if err != nil {
		return nil, err
	}
	d.Action = model.Action(action)
	d.PreviousAction = model.Action(prevAction)
	return &d, nil
}
