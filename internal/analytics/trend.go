package analytics

import (
	"math"

	apperrors "ohlcvcli/internal/errors"
)

// LinearFit is an ordinary least squares fit of y = Slope*x + Intercept
// over x = 1..n.
type LinearFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// At evaluates the fitted line at position x.
func (f LinearFit) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// Fit regresses column on the unit-spaced index 1..n. The index is the
// bar position, not calendar time.
func Fit(column []float64) (LinearFit, error) {
	n := len(column)
	if n < 2 {
		return LinearFit{}, apperrors.NewInsufficientDataError("trend fit", n, 2)
	}

	xMean := float64(n+1) / 2
	yMean := mean(column)

	var sxx, sxy, syy float64
	for i, y := range column {
		dx := float64(i+1) - xMean
		dy := y - yMean
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}

	fit := LinearFit{Slope: sxy / sxx}
	fit.Intercept = yMean - fit.Slope*xMean

	// A constant column is fitted exactly.
	if syy == 0 {
		fit.RSquared = 1
		return fit, nil
	}

	var ssRes float64
	for i, y := range column {
		r := y - fit.At(float64(i+1))
		ssRes += r * r
	}
	fit.RSquared = math.Min(1, math.Max(0, 1-ssRes/syy))
	return fit, nil
}

// Slope returns the OLS slope of column against 1..n.
func Slope(column []float64) (float64, error) {
	fit, err := Fit(column)
	if err != nil {
		return 0, err
	}
	return fit.Slope, nil
}

// FitQuality returns the coefficient of determination of the OLS fit,
// in [0, 1].
func FitQuality(column []float64) (float64, error) {
	fit, err := Fit(column)
	if err != nil {
		return 0, err
	}
	return fit.RSquared, nil
}

// NormalizedSlope divides column by its mean before fitting, which makes
// slopes comparable across instruments trading at different price levels.
func NormalizedSlope(column []float64) (float64, error) {
	if len(column) < 2 {
		return 0, apperrors.NewInsufficientDataError("normalized trend", len(column), 2)
	}
	m := mean(column)
	if m == 0 {
		return 0, apperrors.NewDegenerateInputError("normalized trend", "column mean is zero")
	}

	normalized := make([]float64, len(column))
	for i, v := range column {
		normalized[i] = v / m
	}
	return Slope(normalized)
}
