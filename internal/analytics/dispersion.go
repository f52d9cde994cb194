package analytics

import (
	"math"

	"github.com/markcheno/go-talib"

	apperrors "ohlcvcli/internal/errors"
)

// Variance returns the sample variance (n-1 denominator) of column.
func Variance(column []float64) (float64, error) {
	n := len(column)
	if n < 2 {
		return 0, apperrors.NewInsufficientDataError("variance", n, 2)
	}

	// talib.Var works on running sums of x and x^2, so the column is
	// centred first to keep the difference of sums well conditioned.
	m := mean(column)
	centred := make([]float64, n)
	for i, v := range column {
		centred[i] = v - m
	}

	population := talib.Var(centred, n)[n-1]
	return math.Max(0, population) * float64(n) / float64(n-1), nil
}

// DiffVariance returns the variance of a[i] - b[i].
func DiffVariance(a, b []float64) (float64, error) {
	if err := aligned("diff variance", a, b); err != nil {
		return 0, err
	}
	diff := make([]float64, len(a))
	for i := range a {
		diff[i] = a[i] - b[i]
	}
	return Variance(diff)
}

// NormalizedDiffVariance returns the variance of (a[i] - b[i]) / a[i].
func NormalizedDiffVariance(a, b []float64) (float64, error) {
	if err := aligned("normalized diff variance", a, b); err != nil {
		return 0, err
	}
	diff := make([]float64, len(a))
	for i := range a {
		if a[i] == 0 {
			return 0, apperrors.NewDegenerateInputError("normalized diff variance", "base column contains zero").
				WithContext("index", i)
		}
		diff[i] = (a[i] - b[i]) / a[i]
	}
	return Variance(diff)
}
