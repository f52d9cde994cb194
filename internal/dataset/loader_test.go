package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "ohlcvcli/internal/errors"
	"ohlcvcli/internal/shared/testutil"
)

const panelCSV = `Date,Code,Open,High,Low,Close,Volume
2024-01-02,bbb,100,101,79,80,500
2024-01-01,aaa,100,101,99,100,1000
2024-01-02,aaa,100,121,99,120,"1,500"
2024-01-01,bbb,100,101,99,100,800
`

func TestLoader_ReadCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("mixed panel with code alias", func(t *testing.T) {
		table, err := NewLoader(nil).ReadCSV(ctx, strings.NewReader(panelCSV), "panel.csv")
		require.NoError(t, err)

		assert.Equal(t, 4, table.Len())
		assert.Equal(t, []string{"AAA", "BBB"}, table.Symbols())

		group, ok := table.Partition().Group("AAA")
		require.True(t, ok)
		volume, err := group.Column(ColumnVolume)
		require.NoError(t, err)
		assert.Equal(t, []float64{1000, 1500}, volume)
	})

	t.Run("symbol falls back to file name", func(t *testing.T) {
		data := "date,open,high,low,close,volume\n2024-01-01,10,12,8,10,100\n"
		table, err := NewLoader(nil).ReadCSV(ctx, strings.NewReader(data), "/data/xyz.csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"XYZ"}, table.Symbols())
	})

	t.Run("explicit symbol wins over file name", func(t *testing.T) {
		loader := NewLoader(nil)
		loader.Symbol = "KRX"
		data := "date,open,high,low,close,volume\n2024-01-01,10,12,8,10,100\n"
		table, err := loader.ReadCSV(ctx, strings.NewReader(data), "xyz.csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"KRX"}, table.Symbols())
	})

	t.Run("missing column", func(t *testing.T) {
		data := "date,open,high,low,close\n2024-01-01,10,12,8,10\n"
		_, err := NewLoader(nil).ReadCSV(ctx, strings.NewReader(data), "x.csv")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrMissingColumn))
	})

	t.Run("bad rows are skipped with a warning", func(t *testing.T) {
		logger, handler := testutil.NewTestLogger(t)
		data := "date,open,high,low,close,volume\n2024-01-01,10,12,8,10,100\nnot-a-date,1,1,1,1,1\n2024-01-03,10,12,8,x,100\n"

		table, err := NewLoader(logger).ReadCSV(ctx, strings.NewReader(data), "x.csv")
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
		assert.True(t, handler.ContainsMessage("failed to parse record"))
	})

	t.Run("strict mode fails on bad row", func(t *testing.T) {
		loader := NewLoader(nil)
		loader.Strict = true
		data := "date,open,high,low,close,volume\n2024-01-01,10,12,8,10,100\n2024-01-03,10,12,8,x,100\n"

		_, err := loader.ReadCSV(ctx, strings.NewReader(data), "x.csv")
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	})

	t.Run("invalid bar fails table construction", func(t *testing.T) {
		data := "date,open,high,low,close,volume\n2024-01-01,10,9,8,10,100\n"
		_, err := NewLoader(nil).ReadCSV(ctx, strings.NewReader(data), "x.csv")
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewLoader(nil).ReadCSV(ctx, strings.NewReader(""), "x.csv")
		require.Error(t, err)
	})
}

func TestLoader_LoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.csv")
	require.NoError(t, os.WriteFile(path, []byte(panelCSV), 0o644))

	table, err := NewLoader(nil).LoadCSV(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())

	_, err = NewLoader(nil).LoadCSV(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestLoader_LoadExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.xlsx")

	f := excelize.NewFile()
	_, err := f.NewSheet("Prices")
	require.NoError(t, err)
	rows := [][]interface{}{
		{"Ticker", "Date", "Open", "High", "Low", "Close", "Volume"},
		{"AAA", "2024-01-01", 10, 12, 8, 10, 100},
		{"AAA", "2024-01-02", 10, 13, 9, 12, 200},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Prices", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	t.Run("named sheet", func(t *testing.T) {
		table, err := NewLoader(nil).LoadExcel(context.Background(), path, "Prices")
		require.NoError(t, err)
		closes, err := table.Column(ColumnClose)
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 12}, closes)
		assert.Equal(t, []string{"AAA"}, table.Symbols())
	})

	t.Run("first sheet is the empty default", func(t *testing.T) {
		_, err := NewLoader(nil).LoadExcel(context.Background(), path, "")
		require.Error(t, err)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := NewLoader(nil).LoadExcel(context.Background(), path, "Nope")
		require.Error(t, err)
	})
}
