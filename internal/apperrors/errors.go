package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a bad request: missing or malformed input fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError covers unknown ids and expired/absent translation previews.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// RowError is a bulk-generation failure tied to a specific spreadsheet row.
// Row is 1-indexed counting the header row, so the first data row is row 2.
type RowError struct {
	Row    int
	Fields []string
	Reason string
}

func (e *RowError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Reason, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func Row(row int, reason string, fields ...string) *RowError {
	return &RowError{Row: row, Fields: fields, Reason: reason}
}

// ProviderError wraps a failure from an upstream capability (AI text or PDF
// rendering). The underlying message is kept for diagnosability.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func Provider(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	var re *RowError
	return errors.As(err, &ve) || errors.As(err, &re)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
