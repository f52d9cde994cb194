package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ohlcvcli/internal/analytics"
	"ohlcvcli/internal/dataset"
	apperrors "ohlcvcli/internal/errors"
)

const (
	dateLayout = "2006-01-02"
	// gap marks a point ECharts skips when drawing a series.
	gap = "-"
	// maxSymbolSize caps the scatter dot of the heaviest bar.
	maxSymbolSize = 30
)

// PriceChart draws the close, high and low columns of a single-instrument
// table. Close points are repeated as a scatter whose dot size follows the
// bar's normalized volume. A non-nil intrabar slice, one synthetic price
// per bar, is drawn as a further scatter.
func PriceChart(table *dataset.Table, intrabar []float64) (*charts.Line, error) {
	symbol, err := singleSymbol(table)
	if err != nil {
		return nil, err
	}

	var cols [4][]float64
	for i, name := range []string{dataset.ColumnClose, dataset.ColumnHigh, dataset.ColumnLow, dataset.ColumnVolume} {
		if cols[i], err = table.Column(name); err != nil {
			return nil, fmt.Errorf("price chart %s: %w", symbol, err)
		}
	}
	closes, highs, lows, volume := cols[0], cols[1], cols[2], cols[3]
	if intrabar != nil && len(intrabar) != len(closes) {
		return nil, apperrors.NewAlignmentError("price chart", len(closes), len(intrabar))
	}

	sizes, err := analytics.DefaultPriceModel().NormalizedVolume(volume)
	if err != nil {
		return nil, fmt.Errorf("price chart %s: %w", symbol, err)
	}

	dates := axisDates(table)
	line := newLine(symbol+" prices", "date", "price")
	line.SetXAxis(dates).
		AddSeries("close", lineData(closes)).
		AddSeries("high", lineData(highs)).
		AddSeries("low", lineData(lows))

	points := make([]opts.ScatterData, len(closes))
	for i, c := range closes {
		points[i] = opts.ScatterData{Value: c, SymbolSize: symbolSize(sizes[i])}
	}
	scatter := charts.NewScatter()
	scatter.SetXAxis(dates).AddSeries("volume", points)
	if intrabar != nil {
		synthetic := make([]opts.ScatterData, len(intrabar))
		for i, v := range intrabar {
			synthetic[i] = opts.ScatterData{Value: analytics.Round(v, 4)}
		}
		scatter.AddSeries("intrabar", synthetic)
	}
	line.Overlap(scatter)

	return line, nil
}

// RegressionChart splits column into slices consecutive runs of bars
// and draws each run as a scatter with its fitted OLS line. A run with
// fewer than two bars is drawn without a line.
func RegressionChart(table *dataset.Table, column string, slices int) (*charts.Line, error) {
	symbol, err := singleSymbol(table)
	if err != nil {
		return nil, err
	}
	values, err := table.Column(column)
	if err != nil {
		return nil, fmt.Errorf("regression chart %s: %w", symbol, err)
	}
	if slices < 1 {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("regression chart needs at least one slice, got %d", slices))
	}
	if len(values) < 2 {
		return nil, apperrors.NewInsufficientDataError("regression chart", len(values), 2)
	}
	if slices > len(values) {
		slices = len(values)
	}

	dates := axisDates(table)
	line := newLine(fmt.Sprintf("%s %s trend", symbol, column), "date", column)
	line.SetXAxis(dates)
	scatter := charts.NewScatter()
	scatter.SetXAxis(dates)

	for k, bounds := range sliceBounds(len(values), slices) {
		lo, hi := bounds[0], bounds[1]
		name := fmt.Sprintf("slice %d", k+1)

		points := make([]opts.ScatterData, len(values))
		for i := range points {
			points[i] = opts.ScatterData{Value: gap}
		}
		for i := lo; i < hi; i++ {
			points[i] = opts.ScatterData{Value: values[i]}
		}
		scatter.AddSeries(name, points)

		fit, err := analytics.Fit(values[lo:hi])
		if err != nil {
			continue
		}
		fitted := make([]opts.LineData, len(values))
		for i := range fitted {
			fitted[i] = opts.LineData{Value: gap}
		}
		for i := lo; i < hi; i++ {
			fitted[i] = opts.LineData{Value: analytics.Round(fit.At(float64(i-lo+1)), 6)}
		}
		line.AddSeries(name+" fit", fitted)
	}

	line.Overlap(scatter)
	return line, nil
}

func newLine(title, xName, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	return line
}

// sliceBounds returns [lo, hi) index pairs covering n points in k runs.
// Earlier runs take the remainder, so run lengths differ by at most one.
func sliceBounds(n, k int) [][2]int {
	bounds := make([][2]int, 0, k)
	size, extra := n/k, n%k
	lo := 0
	for i := 0; i < k; i++ {
		hi := lo + size
		if i < extra {
			hi++
		}
		bounds = append(bounds, [2]int{lo, hi})
		lo = hi
	}
	return bounds
}

func singleSymbol(table *dataset.Table) (string, error) {
	if table == nil || table.Len() == 0 {
		return "", apperrors.NewInsufficientDataError("chart", 0, 1)
	}
	symbols := table.Symbols()
	if len(symbols) != 1 {
		return "", apperrors.NewAppValidationError(
			fmt.Sprintf("chart needs one symbol, table has %d", len(symbols)))
	}
	return symbols[0], nil
}

func axisDates(table *dataset.Table) []string {
	dates := table.Dates()
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}

func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

func symbolSize(normalizedVolume int) int {
	if normalizedVolume < 1 {
		return 1
	}
	if normalizedVolume > maxSymbolSize {
		return maxSymbolSize
	}
	return normalizedVolume
}
