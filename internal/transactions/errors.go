package transactions

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the analyzers and the ingestion layer
// matches exactly one of these via errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrDataError       = errors.New("data error")
	ErrDataUnavailable = errors.New("data unavailable")
)

// FieldError reports which parameter or record field caused a failure.
// Row is the zero-based record index, or -1 when the error is not tied to a record.
type FieldError struct {
	Kind  error
	Field string
	Row   int
	Value string
	Err   error
}

// NewFieldError returns a FieldError not tied to a specific record.
func NewFieldError(kind error, field, value string, err error) *FieldError {
	return &FieldError{Kind: kind, Field: field, Row: -1, Value: value, Err: err}
}

// NewRowError returns a FieldError for the record at row.
func NewRowError(kind error, row int, field, value string, err error) *FieldError {
	return &FieldError{Kind: kind, Field: field, Row: row, Value: value, Err: err}
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Field)
	if e.Row >= 0 {
		msg = fmt.Sprintf("%s (row %d)", msg, e.Row)
	}
	if e.Value != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Value)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is matches the error kind sentinel.
func (e *FieldError) Is(target error) bool {
	return target == e.Kind
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
