package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ohlcvcli/internal/errors"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name      string
		column    []float64
		slope     float64
		intercept float64
		r2        float64
	}{
		{"perfect line", []float64{1, 2, 3, 4, 5, 6}, 1, 0, 1},
		{"two points", []float64{10, 7}, -3, 13, 1},
		{"constant column", []float64{5, 5, 5}, 0, 5, 1},
		{"noisy", []float64{2, 4, 5, 4, 5}, 0.6, 2.2, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := Fit(tt.column)
			require.NoError(t, err)
			assert.InDelta(t, tt.slope, fit.Slope, 1e-12)
			assert.InDelta(t, tt.intercept, fit.Intercept, 1e-12)
			assert.InDelta(t, tt.r2, fit.RSquared, 1e-12)
		})
	}
}

func TestFit_InsufficientData(t *testing.T) {
	for _, column := range [][]float64{nil, {1}} {
		_, err := Fit(column)
		assert.True(t, errors.Is(err, apperrors.ErrInsufficientData))

		_, err = Slope(column)
		assert.True(t, errors.Is(err, apperrors.ErrInsufficientData))

		_, err = FitQuality(column)
		assert.True(t, errors.Is(err, apperrors.ErrInsufficientData))

		_, err = NormalizedSlope(column)
		assert.True(t, errors.Is(err, apperrors.ErrInsufficientData))
	}
}

func TestSlopeOfLinearSequence(t *testing.T) {
	for n := 2; n <= 50; n++ {
		column := make([]float64, n)
		for i := range column {
			column[i] = float64(i + 1)
		}

		slope, err := Slope(column)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, slope, 1e-9, "n=%d", n)

		quality, err := FitQuality(column)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, quality, 1e-9, "n=%d", n)
	}
}

func TestFitQuality_Range(t *testing.T) {
	columns := [][]float64{
		{1, 9, 2, 8, 3, 7},
		{100, 100.5, 99, 101, 98},
		{0.001, 0.002, 0.0015},
	}
	for _, c := range columns {
		q, err := FitQuality(c)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, q, 0.0)
		assert.LessOrEqual(t, q, 1.0)
	}
}

func TestNormalizedSlope(t *testing.T) {
	t.Run("invariant under positive scaling", func(t *testing.T) {
		column := []float64{10, 12, 11, 15, 14, 18}
		base, err := NormalizedSlope(column)
		require.NoError(t, err)

		for _, k := range []float64{0.01, 3.7, 1000} {
			scaled := make([]float64, len(column))
			for i, v := range column {
				scaled[i] = v * k
			}
			got, err := NormalizedSlope(scaled)
			require.NoError(t, err)
			assert.InDelta(t, base, got, 1e-12, "k=%v", k)
		}
	})

	t.Run("divides by the mean", func(t *testing.T) {
		// mean 2, normalized column 0.5, 1, 1.5
		got, err := NormalizedSlope([]float64{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, got, 1e-12)
	})

	t.Run("zero mean", func(t *testing.T) {
		_, err := NormalizedSlope([]float64{-1, 1})
		assert.True(t, errors.Is(err, apperrors.ErrDegenerateInput))
	})

	t.Run("input untouched", func(t *testing.T) {
		column := []float64{4, 5, 6}
		_, err := NormalizedSlope(column)
		require.NoError(t, err)
		assert.Equal(t, []float64{4, 5, 6}, column)
	})
}
