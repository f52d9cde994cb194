package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ohlcvcli/internal/errors"
)

func TestVariance(t *testing.T) {
	tests := []struct {
		name   string
		column []float64
		want   float64
	}{
		{"small integers", []float64{1, 2, 3, 4}, 5.0 / 3},
		{"two points", []float64{10, 12}, 2},
		{"constant", []float64{7, 7, 7, 7}, 0},
		{"large level small spread", []float64{100000.1, 100000.2, 100000.3}, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Variance(tt.column)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := Variance([]float64{1})
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientData))
}

func TestDiffVariance(t *testing.T) {
	t.Run("identical columns", func(t *testing.T) {
		columns := [][]float64{{1, 2, 3}, {100, 95.5, 120, 101}, {0.3, 0.1}}
		for _, a := range columns {
			got, err := DiffVariance(a, a)
			require.NoError(t, err)
			assert.Equal(t, 0.0, got)
		}
	})

	t.Run("difference", func(t *testing.T) {
		// a - b = 1, 2, 3, 4
		got, err := DiffVariance([]float64{11, 12, 13, 14}, []float64{10, 10, 10, 10})
		require.NoError(t, err)
		assert.InDelta(t, 5.0/3, got, 1e-12)
	})

	t.Run("misaligned", func(t *testing.T) {
		_, err := DiffVariance([]float64{1, 2, 3}, []float64{1, 2})
		assert.True(t, errors.Is(err, apperrors.ErrAlignment))
	})
}

func TestNormalizedDiffVariance(t *testing.T) {
	t.Run("relative body", func(t *testing.T) {
		// (a - b) / a = 0.1, 0.2
		got, err := NormalizedDiffVariance([]float64{10, 10}, []float64{9, 8})
		require.NoError(t, err)
		assert.InDelta(t, 0.005, got, 1e-12)
	})

	t.Run("scale free", func(t *testing.T) {
		a := []float64{10, 11, 12, 13}
		b := []float64{9, 11.5, 11, 13.2}
		base, err := NormalizedDiffVariance(a, b)
		require.NoError(t, err)

		a2 := make([]float64, len(a))
		b2 := make([]float64, len(b))
		for i := range a {
			a2[i], b2[i] = a[i]*250, b[i]*250
		}
		scaled, err := NormalizedDiffVariance(a2, b2)
		require.NoError(t, err)
		assert.InDelta(t, base, scaled, 1e-12)
	})

	t.Run("zero base", func(t *testing.T) {
		_, err := NormalizedDiffVariance([]float64{1, 0}, []float64{1, 1})
		assert.True(t, errors.Is(err, apperrors.ErrDegenerateInput))
	})

	t.Run("misaligned", func(t *testing.T) {
		_, err := NormalizedDiffVariance([]float64{1}, []float64{1, 2})
		assert.True(t, errors.Is(err, apperrors.ErrAlignment))
	})
}
