package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "ohlcvcli/internal/errors"
	"ohlcvcli/pkg/contracts/domain"
)

var headerAliases = map[string]string{
	"date":     "date",
	"datetime": "date",
	"time":     "date",
	"symbol":   "symbol",
	"code":     "symbol",
	"ticker":   "symbol",
	"open":     ColumnOpen,
	"high":     ColumnHigh,
	"low":      ColumnLow,
	"close":    ColumnClose,
	"volume":   ColumnVolume,
}

// Loader reads OHLCV tables from CSV or XLSX files.
type Loader struct {
	logger *slog.Logger
	// Symbol is used for every row when the file has no symbol column.
	// When empty the file name without extension is used instead.
	Symbol string
	// Strict turns unparsable rows into errors instead of skipped rows.
	Strict bool
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadCSV reads a CSV file with a header row.
func (l *Loader) LoadCSV(ctx context.Context, path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open CSV file", err)
	}
	defer file.Close()

	return l.ReadCSV(ctx, file, path)
}

// ReadCSV reads CSV records from r. source names the input in log
// records and supplies the fallback symbol.
func (l *Loader) ReadCSV(ctx context.Context, r io.Reader, source string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("read CSV records", err)
	}
	return l.fromRows(ctx, records, source)
}

// LoadExcel reads one sheet of an XLSX workbook. An empty sheet name
// selects the first sheet.
func (l *Loader) LoadExcel(ctx context.Context, path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open workbook", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read sheet %q", sheet), err)
	}
	return l.fromRows(ctx, rows, path)
}

func (l *Loader) fromRows(ctx context.Context, rows [][]string, source string) (*Table, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("empty input", nil).WithContext("source", source)
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	fallback := l.Symbol
	if fallback == "" {
		base := filepath.Base(source)
		fallback = strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	bars := make([]domain.Bar, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		bar, err := parseBar(rows[i], index, fallback, i+1)
		if err != nil {
			if l.Strict {
				return nil, err
			}
			l.logger.WarnContext(ctx, "failed to parse record",
				"source", filepath.Base(source),
				"line", i+1,
				"error", err,
			)
			continue
		}
		bars = append(bars, bar)
	}

	table, err := NewTable(bars)
	if err != nil {
		return nil, fmt.Errorf("build table from %s: %w", filepath.Base(source), err)
	}

	l.logger.DebugContext(ctx, "loaded table",
		"source", filepath.Base(source),
		"bars", table.Len(),
		"symbols", len(table.Symbols()),
	)
	return table, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := headerAliases[key]; ok {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
			}
		}
	}

	for _, required := range []string{"date", ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume} {
		if _, ok := index[required]; !ok {
			return nil, apperrors.NewMissingColumnError(required)
		}
	}
	return index, nil
}

func parseBar(record []string, index map[string]int, fallbackSymbol string, lineNum int) (domain.Bar, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return domain.Bar{}, apperrors.NewParsingError(fmt.Sprintf("parse date (line %d)", lineNum), err)
	}

	symbol := strings.ToUpper(field("symbol"))
	if symbol == "" {
		symbol = fallbackSymbol
	}

	bar := domain.Bar{Date: date, Symbol: symbol}
	targets := map[string]*float64{
		ColumnOpen:   &bar.Open,
		ColumnHigh:   &bar.High,
		ColumnLow:    &bar.Low,
		ColumnClose:  &bar.Close,
		ColumnVolume: &bar.Volume,
	}
	for _, name := range Columns {
		v, err := parseFloat(field(name), name, lineNum)
		if err != nil {
			return domain.Bar{}, err
		}
		*targets[name] = v
	}
	return bar, nil
}

// parseDate accepts the layouts found in exchange exports.
func parseDate(dateStr string) (time.Time, error) {
	dateFormats := []string{
		"2006-01-02",
		"2006/01/02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"20060102",
		"01/02/2006",
	}

	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %q", dateStr)
}

func parseFloat(str, fieldName string, lineNum int) (float64, error) {
	str = strings.ReplaceAll(strings.TrimSpace(str), ",", "")
	if str == "" {
		return 0, apperrors.NewParsingError(fmt.Sprintf("empty %s (line %d)", fieldName, lineNum), nil)
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, apperrors.NewParsingError(fmt.Sprintf("parse %s (line %d)", fieldName, lineNum), err)
	}
	return v, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
