package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/ann-bench/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	if err.Error() != "field is required" {
		t.Errorf("expected 'field is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid axis", inner)

	if err.Error() != "invalid axis: parse failed" {
		t.Errorf("expected 'invalid axis: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("unknown metric")

	wrapped := fmt.Errorf("failed to project: %w", original)
	doubleWrapped := fmt.Errorf("plot error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "unknown metric" {
		t.Errorf("expected 'unknown metric', got %q", ve.Message)
	}
}

func TestMalformedRecordError_FoundThroughWrapping(t *testing.T) {
	original := apperr.NewMalformedRecord("hnsw", "run-1", "neighbors length 3, want 10")
	wrapped := fmt.Errorf("compute metrics: %w", original)

	var me *apperr.MalformedRecordError
	if !errors.As(wrapped, &me) {
		t.Fatal("errors.As should find MalformedRecordError")
	}
	if me.Algorithm != "hnsw" {
		t.Errorf("expected 'hnsw', got %q", me.Algorithm)
	}
}

func TestErrNoData_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("results store unavailable")
	wrapped := fmt.Errorf("plot error: %w", plain)

	if errors.Is(wrapped, apperr.ErrNoData) {
		t.Fatal("errors.Is should NOT match ErrNoData in plain error chain")
	}
}
