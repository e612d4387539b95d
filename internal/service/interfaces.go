// Package service defines the contracts between the classification
// pipeline and its collaborators.
package service

import (
	"context"

	"github.com/filesift/filesift/internal/model"
)

// MappingStore persists routing decisions. The mapping table is the
// single source of truth the executor and the refinement engine both
// read and write.
type MappingStore interface {
	// SaveDecisions upserts rows keyed by source path, replacing any
	// earlier decision for the same file.
	SaveDecisions(ctx context.Context, rows []model.RoutingDecision) error

	// GetDecisions returns every persisted row in insertion order.
	GetDecisions(ctx context.Context) ([]model.RoutingDecision, error)

	// GetResiduals returns only the rows still flagged residual.
	GetResiduals(ctx context.Context) ([]model.RoutingDecision, error)

	// GetDecision returns the row for one source path, or
	// common.ErrNotFound.
	GetDecision(ctx context.Context, sourcePath string) (*model.RoutingDecision, error)

	// SearchDecisions returns rows whose source or target path contains
	// the (case-insensitive) pattern.
	SearchDecisions(ctx context.Context, pattern string) ([]model.RoutingDecision, error)

	// LatestPassID reports the highest pass recorded, 0 when empty.
	LatestPassID(ctx context.Context) (int, error)
}

// JournalStore records what the executor did, run by run, so a run can
// be undone later.
type JournalStore interface {
	AppendEvents(ctx context.Context, events []model.JournalEvent) error
	GetRunEvents(ctx context.Context, runID string) ([]model.JournalEvent, error)
	LastRunID(ctx context.Context) (string, error)
}

// Store is the full persistence surface.
type Store interface {
	MappingStore
	JournalStore

	// ExportMappingCSV writes all decisions to a CSV file and reports
	// how many rows were written.
	ExportMappingCSV(ctx context.Context, path string) (int, error)

	// ImportMappingCSV upserts decisions from an edited CSV, reporting
	// imported and skipped row counts.
	ImportMappingCSV(ctx context.Context, path string) (imported, skipped int, err error)

	Migrate(ctx context.Context) error
	Close() error
}
