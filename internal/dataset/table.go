package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "ohlcvcli/internal/errors"
	"ohlcvcli/pkg/contracts/domain"
)

// Numeric column names.
const (
	ColumnOpen   = "open"
	ColumnHigh   = "high"
	ColumnLow    = "low"
	ColumnClose  = "close"
	ColumnVolume = "volume"
)

// Columns lists every numeric column a Table exposes.
var Columns = []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

var validate = validator.New()

// HasColumn reports whether name is a numeric column.
func HasColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

// DateRange is an inclusive date interval. A zero Start or End leaves
// that side unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// All is the unbounded range.
var All = DateRange{}

// NewDateRange parses two YYYY-MM-DD dates. Empty strings stay unbounded.
func NewDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if start != "" {
		if r.Start, err = parseDate(start); err != nil {
			return DateRange{}, apperrors.NewParsingError("parse start date", err)
		}
	}
	if end != "" {
		if r.End, err = parseDate(end); err != nil {
			return DateRange{}, apperrors.NewParsingError("parse end date", err)
		}
	}
	if r.Bounded() && r.End.Before(r.Start) {
		return DateRange{}, apperrors.NewAppValidationError(
			fmt.Sprintf("end date %s is before start date %s", end, start))
	}
	return r, nil
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// Bounded reports whether both sides of the range are set.
func (r DateRange) Bounded() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Days returns the whole days between Start and End.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Table is an immutable, date-ordered collection of bars.
type Table struct {
	bars []domain.Bar
}

// NewTable validates bars and returns them as a Table ordered by date.
// Bars sharing a date keep their input order. A symbol that appears twice
// on the same date is rejected.
func NewTable(bars []domain.Bar) (*Table, error) {
	owned := make([]domain.Bar, len(bars))
	copy(owned, bars)

	for i, bar := range owned {
		if err := validate.Struct(bar); err != nil {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("bar %d (%s %s): %v", i, bar.Symbol, bar.Date.Format("2006-01-02"), err)).
				WithContext("index", i)
		}
		if !bar.IsValid() {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("bar %d (%s %s): non-finite value", i, bar.Symbol, bar.Date.Format("2006-01-02"))).
				WithContext("index", i)
		}
	}

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Date.Before(owned[j].Date)
	})

	seen := make(map[string]time.Time, 16)
	for _, bar := range owned {
		if last, ok := seen[bar.Symbol]; ok && !bar.Date.After(last) {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("duplicate date %s for symbol %s", bar.Date.Format("2006-01-02"), bar.Symbol)).
				WithContext("symbol", bar.Symbol)
		}
		seen[bar.Symbol] = bar.Date
	}

	return &Table{bars: owned}, nil
}

// Len returns the number of bars.
func (t *Table) Len() int {
	return len(t.bars)
}

// Bars returns a copy of the bars in date order.
func (t *Table) Bars() []domain.Bar {
	out := make([]domain.Bar, len(t.bars))
	copy(out, t.bars)
	return out
}

// Filter returns the bars whose date lies in r.
func (t *Table) Filter(r DateRange) *Table {
	out := make([]domain.Bar, 0, len(t.bars))
	for _, bar := range t.bars {
		if r.Contains(bar.Date) {
			out = append(out, bar)
		}
	}
	return &Table{bars: out}
}

// Column returns one numeric column in date order.
func (t *Table) Column(name string) ([]float64, error) {
	if !HasColumn(name) {
		return nil, apperrors.NewMissingColumnError(name)
	}
	values := make([]float64, len(t.bars))
	for i, bar := range t.bars {
		values[i], _ = bar.Value(name)
	}
	return values, nil
}

// Dates returns the bar dates in order.
func (t *Table) Dates() []time.Time {
	dates := make([]time.Time, len(t.bars))
	for i, bar := range t.bars {
		dates[i] = bar.Date
	}
	return dates
}

// Symbols returns the distinct symbols in ascending order.
func (t *Table) Symbols() []string {
	set := make(map[string]struct{})
	for _, bar := range t.bars {
		set[bar.Symbol] = struct{}{}
	}
	symbols := make([]string, 0, len(set))
	for s := range set {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Start returns the earliest date, or the zero time for an empty table.
func (t *Table) Start() time.Time {
	if len(t.bars) == 0 {
		return time.Time{}
	}
	return t.bars[0].Date
}

// End returns the latest date, or the zero time for an empty table.
func (t *Table) End() time.Time {
	if len(t.bars) == 0 {
		return time.Time{}
	}
	return t.bars[len(t.bars)-1].Date
}

// Partition splits the table by symbol.
func (t *Table) Partition() *Panel {
	groups := make(map[string][]domain.Bar)
	for _, bar := range t.bars {
		groups[bar.Symbol] = append(groups[bar.Symbol], bar)
	}

	p := &Panel{groups: make(map[string]*Table, len(groups))}
	for symbol, bars := range groups {
		p.groups[symbol] = &Table{bars: bars}
		p.symbols = append(p.symbols, symbol)
	}
	sort.Strings(p.symbols)
	return p
}

// Panel maps symbols to single-instrument tables. Iteration follows
// ascending symbol order.
type Panel struct {
	symbols []string
	groups  map[string]*Table
}

// Symbols returns the instrument symbols in ascending order.
func (p *Panel) Symbols() []string {
	out := make([]string, len(p.symbols))
	copy(out, p.symbols)
	return out
}

// Group returns the table for one symbol.
func (p *Panel) Group(symbol string) (*Table, bool) {
	t, ok := p.groups[symbol]
	return t, ok
}

// Len returns the number of instruments.
func (p *Panel) Len() int {
	return len(p.symbols)
}
