package exporter

import (
	"sort"
	"strings"

	"ohlcvcli/pkg/contracts/domain"
)

// Report headers.
var (
	MarketInfoHeaders = []string{
		"Total Instruments", "Start Date", "End Date",
		"Market Average Profit", "Increased %", "Decreased %", "Failed",
	}
	InstrumentInfoHeaders = []string{
		"Symbol", "Start Date", "End Date",
		"Start/End Profit", "Start/Max Profit", "Start/Min Profit",
	}
	PriceRankHeaders = []string{
		"Symbol", "Start Date", "Date Diff (days)", "End Date",
		"Price", "Mean Price", "Price Rank", "Sample Size",
	}
	TrendHeaders = []string{
		"Symbol", "Start Date", "Date Diff (days)", "End Date", "Column", "Normalized Slope",
	}
)

// WriteMetricSeries writes one row per symbol and one column per series.
// Symbols missing from a series, or failed in it, leave the cell empty.
func (w *CSVWriter) WriteMetricSeries(filePath string, series ...*domain.MetricSeries) (string, error) {
	headers, records := metricTable(series)
	return w.WriteSimpleCSV(filePath, headers, records)
}

// WriteMarketInfo writes the panel summary as a single-row CSV.
func (w *CSVWriter) WriteMarketInfo(filePath string, info domain.MarketInfo) (string, error) {
	return w.WriteSimpleCSV(filePath, MarketInfoHeaders, [][]string{marketInfoRow(info)})
}

// WriteInstrumentInfo writes one row per instrument.
func (w *CSVWriter) WriteInstrumentInfo(filePath string, infos ...domain.InstrumentInfo) (string, error) {
	records := make([][]string, 0, len(infos))
	for _, info := range infos {
		records = append(records, []string{
			info.Symbol,
			formatDate(info.StartDate),
			formatDate(info.EndDate),
			formatMetric(info.StartEndProfit),
			formatMetric(info.StartMaxProfit),
			formatMetric(info.StartMinProfit),
		})
	}
	return w.WriteSimpleCSV(filePath, InstrumentInfoHeaders, records)
}

// WritePriceRank writes one price rank report.
func (w *CSVWriter) WritePriceRank(filePath string, report domain.PriceRankReport) (string, error) {
	return w.WriteSimpleCSV(filePath, PriceRankHeaders, [][]string{{
		report.Symbol,
		formatDate(report.StartDate),
		formatInt(report.DateDiffDays),
		formatDate(report.EndDate),
		formatMetric(report.QueryPrice),
		formatFloat(report.MeanPrice),
		formatFloat(report.PriceRank),
		formatInt(report.SampleSize),
	}})
}

// WriteTrend writes one trend report.
func (w *CSVWriter) WriteTrend(filePath string, report domain.TrendReport) (string, error) {
	return w.WriteSimpleCSV(filePath, TrendHeaders, [][]string{{
		report.Symbol,
		formatDate(report.StartDate),
		formatInt(report.DateDiffDays),
		formatDate(report.EndDate),
		report.Column,
		formatMetric(report.NormalizedSlope),
	}})
}

func marketInfoRow(info domain.MarketInfo) []string {
	return []string{
		formatInt(info.TotalInstruments),
		formatDate(info.StartDate),
		formatDate(info.EndDate),
		formatFloat(info.MarketAverageProfit),
		formatFloat(info.IncreasedPct),
		formatFloat(info.DecreasedPct),
		strings.Join(info.Failed, ";"),
	}
}

// metricTable lays series out side by side over the union of their symbols.
func metricTable(series []*domain.MetricSeries) ([]string, [][]string) {
	headers := make([]string, 0, len(series)+1)
	headers = append(headers, "Symbol")

	set := make(map[string]struct{})
	for _, s := range series {
		headers = append(headers, s.Name)
		for symbol := range s.Values {
			set[symbol] = struct{}{}
		}
	}
	symbols := make([]string, 0, len(set))
	for symbol := range set {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	records := make([][]string, 0, len(symbols))
	for _, symbol := range symbols {
		row := make([]string, 0, len(series)+1)
		row = append(row, symbol)
		for _, s := range series {
			v, ok := s.Get(symbol)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatMetric(v))
		}
		records = append(records, row)
	}
	return headers, records
}
