package exporter

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	apperrors "ohlcvcli/internal/errors"
	"ohlcvcli/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	SummarySheet  = "Summary"
	MetricsSheet  = "Metrics"
	FailuresSheet = "Failures"
)

// WriteWorkbook writes info to a Summary sheet and the series side by
// side to a Metrics sheet. Instruments that failed any series are listed
// on a Failures sheet. Numeric cells are stored as numbers and NaN cells
// are left blank.
func WriteWorkbook(path string, info *domain.MarketInfo, series ...*domain.MetricSeries) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return apperrors.NewStorageError("rename summary sheet", err)
	}
	if info != nil {
		if err := writeRows(f, SummarySheet, MarketInfoHeaders, [][]interface{}{marketInfoCells(*info)}); err != nil {
			return err
		}
	}

	if len(series) > 0 {
		if _, err := f.NewSheet(MetricsSheet); err != nil {
			return apperrors.NewStorageError("add metrics sheet", err)
		}
		headers, rows := metricCells(series)
		if err := writeRows(f, MetricsSheet, headers, rows); err != nil {
			return err
		}
	}

	if failures := failureCells(series); len(failures) > 0 {
		if _, err := f.NewSheet(FailuresSheet); err != nil {
			return apperrors.NewStorageError("add failures sheet", err)
		}
		if err := writeRows(f, FailuresSheet, []string{"Metric", "Symbol", "Error"}, failures); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("save workbook", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("write %s header", sheet), err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("address %s row %d", sheet, i+2), err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("write %s row %d", sheet, i+2), err)
		}
	}
	return nil
}

func marketInfoCells(info domain.MarketInfo) []interface{} {
	row := marketInfoRow(info)
	return []interface{}{
		info.TotalInstruments,
		row[1],
		row[2],
		info.MarketAverageProfit,
		info.IncreasedPct,
		info.DecreasedPct,
		row[6],
	}
}

func metricCells(series []*domain.MetricSeries) ([]string, [][]interface{}) {
	headers, records := metricTable(series)
	rows := make([][]interface{}, len(records))
	for i, record := range records {
		symbol := record[0]
		row := make([]interface{}, 0, len(record))
		row = append(row, symbol)
		for _, s := range series {
			v, ok := s.Get(symbol)
			if !ok || math.IsInf(v, 0) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		rows[i] = row
	}
	return headers, rows
}

func failureCells(series []*domain.MetricSeries) [][]interface{} {
	var rows [][]interface{}
	for _, s := range series {
		for _, symbol := range s.Symbols() {
			if msg, ok := s.Failures[symbol]; ok {
				rows = append(rows, []interface{}{s.Name, symbol, msg})
			}
		}
	}
	return rows
}
