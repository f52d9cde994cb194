package exporter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"zero value", 0, "0.00"},
		{"integer", 50, "50.00"},
		{"negative", -12.345, "-12.35"},
		{"one decimal", 13.4, "13.40"},
		{"NaN is blank", math.NaN(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"integer", 20, "20"},
		{"negative decimal", -22.222, "-22.222"},
		{"small slope", 0.000123, "0.000123"},
		{"NaN is blank", math.NaN(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMetric(tt.input))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-05", formatDate(time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", formatDate(time.Time{}))
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "-3", formatInt(-3))
	assert.Equal(t, "42", formatInt(42))
}
