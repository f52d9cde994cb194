package analytics

import (
	apperrors "ohlcvcli/internal/errors"
)

const profitPlaces = 3

// StartEndProfit is the percentage change from the first to the last value.
func StartEndProfit(column []float64) (float64, error) {
	first, err := firstPrice("start/end profit", column)
	if err != nil {
		return 0, err
	}
	return percentChange(first, column[len(column)-1]), nil
}

// StartMaxProfit is the percentage change from the first value to the maximum.
func StartMaxProfit(column []float64) (float64, error) {
	first, err := firstPrice("start/max profit", column)
	if err != nil {
		return 0, err
	}
	hi := column[0]
	for _, v := range column[1:] {
		if v > hi {
			hi = v
		}
	}
	return percentChange(first, hi), nil
}

// StartMinProfit is the percentage change from the first value to the minimum.
func StartMinProfit(column []float64) (float64, error) {
	first, err := firstPrice("start/min profit", column)
	if err != nil {
		return 0, err
	}
	lo := column[0]
	for _, v := range column[1:] {
		if v < lo {
			lo = v
		}
	}
	return percentChange(first, lo), nil
}

func firstPrice(op string, column []float64) (float64, error) {
	if len(column) == 0 {
		return 0, apperrors.NewInsufficientDataError(op, 0, 1)
	}
	if column[0] == 0 {
		return 0, apperrors.NewDegenerateInputError(op, "first value is zero")
	}
	return column[0], nil
}

func percentChange(from, to float64) float64 {
	return Round((to-from)/from*100, profitPlaces)
}

// MarketProfitSummary aggregates start/end profits across instruments.
type MarketProfitSummary struct {
	Instruments   int
	AverageProfit float64
	IncreasedPct  float64
	DecreasedPct  float64
}

// MarketProfit averages per-instrument profits, rounded to 2 places, and
// reports the share of instruments with a profit above zero and at or
// below zero. Each share is rounded as a fraction to 2 places before being
// scaled to a percentage, so both land on whole numbers.
func MarketProfit(profits []float64) (MarketProfitSummary, error) {
	n := len(profits)
	if n == 0 {
		return MarketProfitSummary{}, apperrors.NewInsufficientDataError("market profit", 0, 1)
	}

	var up int
	for _, p := range profits {
		if p > 0 {
			up++
		}
	}

	return MarketProfitSummary{
		Instruments:   n,
		AverageProfit: Round(mean(profits), 2),
		IncreasedPct:  Round(Round(float64(up)/float64(n), 2)*100, 2),
		DecreasedPct:  Round(Round(float64(n-up)/float64(n), 2)*100, 2),
	}, nil
}
