package analytics

import (
	"math"

	apperrors "ohlcvcli/internal/errors"
)

// PriceRank returns the percentage of a sample priced above query, rounded
// to 2 places. The query is placed before every sample equal to it, so
// equal samples count as above. Its 1-based rank r among the n+1 values
// gives (n+1-r)/(n+1)*100.
func PriceRank(samples []float64, query float64) (float64, error) {
	if math.IsNaN(query) {
		return 0, apperrors.NewDegenerateInputError("price rank", "query price is NaN")
	}

	var below int
	for _, s := range samples {
		if s < query {
			below++
		}
	}

	total := float64(len(samples) + 1)
	rank := float64(below + 1)
	return Round((total-rank)/total*100, 2), nil
}

// MeanPrice returns the sample mean rounded to 2 places, or NaN for an
// empty sample.
func MeanPrice(samples []float64) float64 {
	if len(samples) == 0 {
		return math.NaN()
	}
	return Round(mean(samples), 2)
}
