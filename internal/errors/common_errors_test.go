package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{"insufficient data error type", ErrTypeInsufficientData, "INSUFFICIENT_DATA"},
		{"degenerate input error type", ErrTypeDegenerateInput, "DEGENERATE_INPUT"},
		{"alignment error type", ErrTypeAlignment, "ALIGNMENT"},
		{"missing column error type", ErrTypeMissingColumn, "MISSING_COLUMN"},
		{"parsing error type", ErrTypeParsing, "PARSING"},
		{"storage error type", ErrTypeStorage, "STORAGE"},
		{"validation error type", ErrTypeValidation, "VALIDATION"},
		{"config error type", ErrTypeConfig, "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeAlignment,
				Message: "columns differ",
			},
			wantMessage: "[ALIGNMENT] columns differ",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "parse volume",
				Cause:   fmt.Errorf("invalid syntax"),
			},
			wantMessage: "[PARSING] parse volume: invalid syntax",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("write report", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewAppValidationError("bad").Unwrap())
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"insufficient data matches", NewInsufficientDataError("slope", 1, 2), ErrInsufficientData, true},
		{"degenerate input matches", NewDegenerateInputError("normalized slope", "mean is zero"), ErrDegenerateInput, true},
		{"alignment matches", NewAlignmentError("diff variance", 3, 4), ErrAlignment, true},
		{"missing column matches", NewMissingColumnError("vwap"), ErrMissingColumn, true},
		{"validation matches", NewAppValidationError("bad bar"), ErrValidation, true},
		{"different category", NewAlignmentError("diff variance", 3, 4), ErrInsufficientData, false},
		{"wrapped error still matches", fmt.Errorf("group AAA: %w", NewInsufficientDataError("profit", 0, 1)), ErrInsufficientData, true},
		{"plain error never matches", errors.New("boom"), ErrDegenerateInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestAppError_As(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewMissingColumnError("vwap"))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeMissingColumn, appErr.Type)
	assert.Equal(t, "vwap", appErr.Context["column"])
}

func TestAppError_WithContext(t *testing.T) {
	t.Run("initializes nil context", func(t *testing.T) {
		appError := &AppError{Type: ErrTypeConfig, Message: "bad scale"}

		result := appError.WithContext("scale", 0)

		assert.Same(t, appError, result)
		require.NotNil(t, result.Context)
		assert.Equal(t, 0, result.Context["scale"])
	})

	t.Run("keeps existing keys", func(t *testing.T) {
		appError := &AppError{
			Type:    ErrTypeValidation,
			Message: "bar invalid",
			Context: map[string]interface{}{"symbol": "AAA"},
		}

		appError.WithContext("index", 4)

		assert.Equal(t, "AAA", appError.Context["symbol"])
		assert.Equal(t, 4, appError.Context["index"])
	})
}

func TestHelperConstructors(t *testing.T) {
	t.Run("insufficient data", func(t *testing.T) {
		err := NewInsufficientDataError("slope", 1, 2)
		assert.Equal(t, ErrTypeInsufficientData, err.Type)
		assert.Equal(t, "slope needs at least 2 points, got 1", err.Message)
		assert.Equal(t, 1, err.Context["got"])
		assert.Equal(t, 2, err.Context["need"])
	})

	t.Run("degenerate input", func(t *testing.T) {
		err := NewDegenerateInputError("profit", "first price is zero")
		assert.Equal(t, "[DEGENERATE_INPUT] profit: first price is zero", err.Error())
	})

	t.Run("alignment", func(t *testing.T) {
		err := NewAlignmentError("diff variance", 2, 3)
		assert.Equal(t, "diff variance: column lengths differ (2 != 3)", err.Message)
	})

	t.Run("missing column", func(t *testing.T) {
		err := NewMissingColumnError("vwap")
		assert.Equal(t, `column "vwap" does not exist`, err.Message)
	})

	t.Run("config", func(t *testing.T) {
		cause := errors.New("yaml: line 3")
		err := NewConfigError("load config file", cause)
		assert.Equal(t, ErrTypeConfig, err.Type)
		assert.Same(t, cause, err.Cause)
	})

	t.Run("parsing", func(t *testing.T) {
		err := NewParsingError("parse close", nil)
		assert.Equal(t, "[PARSING] parse close", err.Error())
	})
}
