package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	apperrors "ohlcvcli/internal/errors"
)

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func aligned(op string, a, b []float64) error {
	if len(a) != len(b) {
		return apperrors.NewAlignmentError(op, len(a), len(b))
	}
	return nil
}

// Round rounds v half away from zero on its shortest decimal
// representation. NaN and infinities are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
