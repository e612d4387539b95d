package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrEmptySlice      = errors.New("slice cannot be empty")
	ErrInvalidDecision = errors.New("invalid routing decision")
	ErrInvalidEvent    = errors.New("invalid journal event")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDecisions validates a slice of routing decisions.
func validateDecisions(rows []model.RoutingDecision) error {
	if rows == nil {
		return fmt.Errorf("%w: rows", ErrNilParameter)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: rows", ErrEmptySlice)
	}
	for i, row := range rows {
		if err := validateDecision(&row); err != nil {
			return fmt.Errorf("row at index %d: %w", i, err)
		}
	}
	return nil
}

// validateDecision validates a single routing decision.
func validateDecision(row *model.RoutingDecision) error {
	if strings.TrimSpace(row.SourcePath) == "" {
		return fmt.Errorf("%w: missing source path", ErrInvalidDecision)
	}
	if !model.ValidActions[row.Action] {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidDecision, row.Action)
	}
	if row.PassID < 1 {
		return fmt.Errorf("%w: pass id must be >= 1, got %d", ErrInvalidDecision, row.PassID)
	}
	if row.Confidence < 0 || row.Confidence > 1 {
		return fmt.Errorf("%w: confidence %f out of range", ErrInvalidDecision, row.Confidence)
	}
	return nil
}

// validateEvents validates a slice of journal events.
func validateEvents(events []model.JournalEvent) error {
	if events == nil {
		return fmt.Errorf("%w: events", ErrNilParameter)
	}
	if len(events) == 0 {
		return fmt.Errorf("%w: events", ErrEmptySlice)
	}
	for i, ev := range events {
		if strings.TrimSpace(ev.RunID) == "" {
			return fmt.Errorf("event at index %d: %w: missing run id", i, ErrInvalidEvent)
		}
		if ev.Operation == "" {
			return fmt.Errorf("event at index %d: %w: missing operation", i, ErrInvalidEvent)
		}
	}
	return nil
}
