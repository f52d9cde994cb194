package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeDegenerateInput  ErrorType = "DEGENERATE_INPUT"
	ErrTypeAlignment        ErrorType = "ALIGNMENT"
	ErrTypeMissingColumn    ErrorType = "MISSING_COLUMN"
	ErrTypeParsing          ErrorType = "PARSING"
	ErrTypeStorage          ErrorType = "STORAGE"
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeConfig           ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type.
// This lets callers match a whole category with the exported sentinels:
//
//	errors.Is(err, apperrors.ErrInsufficientData)
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Sentinels for errors.Is matching by category.
var (
	ErrInsufficientData = &AppError{Type: ErrTypeInsufficientData, Message: "insufficient data"}
	ErrDegenerateInput  = &AppError{Type: ErrTypeDegenerateInput, Message: "degenerate input"}
	ErrAlignment        = &AppError{Type: ErrTypeAlignment, Message: "misaligned columns"}
	ErrMissingColumn    = &AppError{Type: ErrTypeMissingColumn, Message: "missing column"}
	ErrValidation       = &AppError{Type: ErrTypeValidation, Message: "validation failed"}
)

// Helper functions for common error types

// NewInsufficientDataError reports that an operation got fewer points than it needs.
func NewInsufficientDataError(op string, got, need int) *AppError {
	return NewAppError(ErrTypeInsufficientData,
		fmt.Sprintf("%s needs at least %d points, got %d", op, need, got), nil).
		WithContext("operation", op).
		WithContext("got", got).
		WithContext("need", need)
}

// NewDegenerateInputError reports a zero denominator (mean, first value, open price).
func NewDegenerateInputError(op, message string) *AppError {
	return NewAppError(ErrTypeDegenerateInput, fmt.Sprintf("%s: %s", op, message), nil).
		WithContext("operation", op)
}

// NewAlignmentError reports two columns of different length passed to a pairwise operation.
func NewAlignmentError(op string, left, right int) *AppError {
	return NewAppError(ErrTypeAlignment,
		fmt.Sprintf("%s: column lengths differ (%d != %d)", op, left, right), nil).
		WithContext("operation", op)
}

// NewMissingColumnError reports a column name that does not exist in a table.
func NewMissingColumnError(column string) *AppError {
	return NewAppError(ErrTypeMissingColumn, fmt.Sprintf("column %q does not exist", column), nil).
		WithContext("column", column)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
