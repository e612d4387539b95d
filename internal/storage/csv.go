package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/filesift/filesift/internal/model"
)

// ExportMappingCSV writes every persisted decision to a CSV file with a
// stable header, suitable for review in a spreadsheet and for re-import.
func (s *SQLiteStorage) ExportMappingCSV(ctx context.Context, path string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(path, "path"); err != nil {
		return 0, err
	}

	decisions, err := s.GetDecisions(ctx)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(model.MappingCSVFields); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	for _, d := range decisions {
		if err := w.Write(d.CSVRecord()); err != nil {
			return 0, fmt.Errorf("failed to write record for %s: %w", d.SourcePath, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush export: %w", err)
	}
	return len(decisions), nil
}

// ImportMappingCSV reads an edited mapping CSV back into the database,
// upserting by source path. The header row is validated against the
// expected column order; malformed data rows are skipped and counted.
func (s *SQLiteStorage) ImportMappingCSV(ctx context.Context, path string) (imported, skipped int, err error) {
	if err := validateContext(ctx); err != nil {
		return 0, 0, err
	}
	if err := validateString(path, "path"); err != nil {
		return 0, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) != len(model.MappingCSVFields) || header[0] != model.MappingCSVFields[0] {
		return 0, 0, fmt.Errorf("unexpected mapping header: %v", header)
	}

	var decisions []model.RoutingDecision
	for {
		rec, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return 0, 0, fmt.Errorf("failed to read record: %w", readErr)
		}

		d, parseErr := model.DecisionFromCSVRecord(rec)
		if parseErr != nil || validateDecision(&d) != nil {
			skipped++
			continue
		}
		decisions = append(decisions, d)
	}

	if len(decisions) > 0 {
		if err := s.SaveDecisions(ctx, decisions); err != nil {
			return 0, skipped, err
		}
	}
	return len(decisions), skipped, nil
}
