package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestRowErrorMessage(t *testing.T) {
	err := Row(3, "missing values", "Name", "Salary")
	want := "row 3: missing values: Name, Salary"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = Row(2, "no identifier value found")
	want = "row 2: no identifier value found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPredicates(t *testing.T) {
	if !IsValidation(Validation("bad input")) {
		t.Error("IsValidation should match ValidationError")
	}
	if !IsValidation(Row(2, "missing values", "Name")) {
		t.Error("IsValidation should match RowError")
	}
	if !IsNotFound(NotFound("missing: %s", "x")) {
		t.Error("IsNotFound should match NotFoundError")
	}
	if !IsProvider(Provider("ai", errors.New("timeout"))) {
		t.Error("IsProvider should match ProviderError")
	}
	if IsNotFound(Validation("bad input")) {
		t.Error("IsNotFound should not match ValidationError")
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("row 2: %w", Provider("pdf", errors.New("down")))
	if !IsProvider(wrapped) {
		t.Error("IsProvider should unwrap")
	}

	var pe *ProviderError
	if !errors.As(wrapped, &pe) || pe.Provider != "pdf" {
		t.Errorf("expected wrapped pdf provider error, got %v", wrapped)
	}
}
