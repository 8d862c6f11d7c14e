/*
errors.go - Centralized error types for the core domain

PURPOSE:
  All domain error values in one place for consistency and
  discoverability. Other packages wrap these with additional context
  via fmt.Errorf("...: %w", err).

ERROR CATEGORIES:
  1. Parse errors   - malformed rows/cells; skipped per-row, never fatal
  2. Lookup errors  - missing records on explicit user actions
  3. Input errors   - invalid caller arguments

SEE ALSO:
  - decode: wraps parse errors with sheet/row context
  - store: has its own tier-level sentinels
*/
package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnparseableDate is returned for a date cell that is neither a
	// spreadsheet day-serial nor a recognized date string. Rows with
	// this error are skipped, counted, and never abort a batch.
	ErrUnparseableDate = errors.New("unparseable date cell")

	// ErrMissingField is returned for a row lacking a required field.
	ErrMissingField = errors.New("required field missing")

	// ErrMissingReference is returned for a monthly-verse row whose
	// reference cannot be extracted. Monthly verses require an explicit
	// reference; there is no lesson-name fallback.
	ErrMissingReference = errors.New("monthly verse without reference")

	// ErrInvalidMonth is returned when a month value is outside 1..12.
	ErrInvalidMonth = errors.New("month out of range")

	// ErrInvalidAgeGroup is returned for an unknown cohort name.
	ErrInvalidAgeGroup = errors.New("unknown age group")

	// ErrEventNotFound is returned by delete-by-id when no event has
	// the given id.
	ErrEventNotFound = errors.New("event not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RowError identifies a skipped spreadsheet or CSV row.
type RowError struct {
	Sheet string
	Row   int // zero-based, as scanned
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("sheet %q row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
