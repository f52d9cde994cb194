package chart

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohlcvcli/internal/dataset"
	apperrors "ohlcvcli/internal/errors"
	"ohlcvcli/internal/shared/testutil"
)

func table(t *testing.T, closes ...float64) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable(testutil.BarsFromCloses("AAA", closes...))
	require.NoError(t, err)
	return tbl
}

func TestPriceChart_Render(t *testing.T) {
	line, err := PriceChart(table(t, 100, 102, 101, 105), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, line.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "AAA prices")
	assert.Contains(t, html, "2024-01-04")
	assert.Contains(t, html, `"close"`)
	assert.Contains(t, html, `"volume"`)
	assert.NotContains(t, html, `"intrabar"`)
}

func TestPriceChart_Intrabar(t *testing.T) {
	tbl := table(t, 100, 102, 101)

	line, err := PriceChart(tbl, []float64{100.4, 101.6, 100.9})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, line.Render(&buf))
	assert.Contains(t, buf.String(), `"intrabar"`)
	assert.Contains(t, buf.String(), "101.6")

	_, err = PriceChart(tbl, []float64{100})
	assert.True(t, errors.Is(err, apperrors.ErrAlignment), "got %v", err)
}

func TestPriceChart_Errors(t *testing.T) {
	panel, err := dataset.NewTable(testutil.RisingFallingPanel())
	require.NoError(t, err)

	tests := []struct {
		name  string
		table *dataset.Table
		want  error
	}{
		{"nil table", nil, apperrors.ErrInsufficientData},
		{"empty table", table(t), apperrors.ErrInsufficientData},
		{"several symbols", panel, apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PriceChart(tt.table, nil)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRegressionChart_Render(t *testing.T) {
	line, err := RegressionChart(table(t, 1, 2, 3, 4, 10, 8, 6), dataset.ColumnClose, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, line.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "AAA close trend")
	assert.Contains(t, html, "slice 1 fit")
	assert.Contains(t, html, "slice 2 fit")
}

func TestRegressionChart_Errors(t *testing.T) {
	tests := []struct {
		name   string
		column string
		slices int
		closes []float64
		want   error
	}{
		{"missing column", "vwap", 1, []float64{1, 2}, apperrors.ErrMissingColumn},
		{"zero slices", dataset.ColumnClose, 0, []float64{1, 2}, apperrors.ErrValidation},
		{"single bar", dataset.ColumnClose, 1, []float64{1}, apperrors.ErrInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RegressionChart(table(t, tt.closes...), tt.column, tt.slices)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSliceBounds(t *testing.T) {
	tests := []struct {
		name string
		n, k int
		want [][2]int
	}{
		{"even", 6, 3, [][2]int{{0, 2}, {2, 4}, {4, 6}}},
		{"remainder goes first", 7, 3, [][2]int{{0, 3}, {3, 5}, {5, 7}}},
		{"one slice", 4, 1, [][2]int{{0, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sliceBounds(tt.n, tt.k))
		})
	}
}

func TestSymbolSize(t *testing.T) {
	assert.Equal(t, 1, symbolSize(0))
	assert.Equal(t, 12, symbolSize(12))
	assert.Equal(t, maxSymbolSize, symbolSize(500))
}
