package apperr

import (
	"errors"
	"fmt"
)

// ErrNoData means an invocation produced nothing to render at all.
// Per-record and per-dataset failures are absorbed upstream; this one is
// surfaced to the caller.
var ErrNoData = errors.New("no data to plot")

// ErrDatasetNotFound means the dataset provider has no ground truth for
// the requested name.
var ErrDatasetNotFound = errors.New("dataset not found")

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// MalformedRecordError marks a run record whose raw arrays are
// inconsistent with its query count. The record is skipped; siblings in
// the same batch still get processed.
type MalformedRecordError struct {
	Algorithm string
	RunID     string
	Reason    string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed run record %s (%s): %s", e.RunID, e.Algorithm, e.Reason)
}

func NewMalformedRecord(algorithm, runID, reason string) *MalformedRecordError {
	return &MalformedRecordError{Algorithm: algorithm, RunID: runID, Reason: reason}
}
