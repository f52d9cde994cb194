package analyser

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ohlcvcli/internal/analytics"
	"ohlcvcli/internal/dataset"
	apperrors "ohlcvcli/internal/errors"
	"ohlcvcli/internal/infrastructure"
	"ohlcvcli/pkg/contracts/domain"
)

// InstrumentAnalyser answers single-instrument questions over a table
// holding the bars of one symbol.
type InstrumentAnalyser struct {
	table  *dataset.Table
	symbol string
	opts   options
}

// NewInstrumentAnalyser binds table to a new analyser. The table must
// hold at most one symbol.
func NewInstrumentAnalyser(table *dataset.Table, opts ...Option) (*InstrumentAnalyser, error) {
	if table == nil {
		return nil, apperrors.NewAppValidationError("instrument analyser needs a table")
	}
	symbols := table.Symbols()
	if len(symbols) > 1 {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("instrument analyser needs one symbol, table has %d", len(symbols))).
			WithContext("symbols", symbols)
	}

	a := &InstrumentAnalyser{table: table, opts: newOptions(opts)}
	if len(symbols) == 1 {
		a.symbol = symbols[0]
	}
	a.opts.logger = infrastructure.WithComponent(a.opts.logger, "instrument_analyser").
		With("symbol", a.symbol)
	return a, nil
}

// Symbol returns the instrument symbol, or "" for an empty table.
func (a *InstrumentAnalyser) Symbol() string {
	return a.symbol
}

// Info reports the start/end, start/max and start/min profit of the
// close column inside r.
func (a *InstrumentAnalyser) Info(ctx context.Context, r dataset.DateRange) (domain.InstrumentInfo, error) {
	ctx, span := a.start(ctx, "instrument.info")
	defer span.End()

	window := a.table.Filter(r)
	closes, err := window.Column(dataset.ColumnClose)
	if err != nil {
		return domain.InstrumentInfo{}, a.fail(ctx, "info", err)
	}

	info := domain.InstrumentInfo{
		Symbol:    a.symbol,
		StartDate: window.Start(),
		EndDate:   window.End(),
	}
	if info.StartEndProfit, err = analytics.StartEndProfit(closes); err != nil {
		return domain.InstrumentInfo{}, a.fail(ctx, "info", err)
	}
	if info.StartMaxProfit, err = analytics.StartMaxProfit(closes); err != nil {
		return domain.InstrumentInfo{}, a.fail(ctx, "info", err)
	}
	if info.StartMinProfit, err = analytics.StartMinProfit(closes); err != nil {
		return domain.InstrumentInfo{}, a.fail(ctx, "info", err)
	}

	a.opts.logger.DebugContext(ctx, "instrument info computed",
		"bars", window.Len(),
		"start_end_profit", info.StartEndProfit)
	return info, nil
}

// PriceRank ranks price against the statistical price distribution of
// the bars inside r. Both ends of r must be set.
func (a *InstrumentAnalyser) PriceRank(ctx context.Context, r dataset.DateRange, price float64) (domain.PriceRankReport, error) {
	ctx, span := a.start(ctx, "instrument.price_rank")
	defer span.End()

	if err := requireBounded(r); err != nil {
		return domain.PriceRankReport{}, a.fail(ctx, "price rank", err)
	}

	window := a.table.Filter(r)
	cols, err := columns(window, dataset.ColumnHigh, dataset.ColumnLow, dataset.ColumnVolume)
	if err != nil {
		return domain.PriceRankReport{}, a.fail(ctx, "price rank", err)
	}
	high, low, volume := cols[0], cols[1], cols[2]

	samples, err := a.opts.model.StatisticalPrices(high, low, volume, a.opts.source())
	if err != nil {
		return domain.PriceRankReport{}, a.fail(ctx, "price rank", err)
	}
	rank, err := analytics.PriceRank(samples, price)
	if err != nil {
		return domain.PriceRankReport{}, a.fail(ctx, "price rank", err)
	}
	infrastructure.RecordSamples(ctx, a.opts.metrics, "statistical", len(samples))

	report := domain.PriceRankReport{
		Symbol:       a.symbol,
		StartDate:    r.Start,
		DateDiffDays: r.Days(),
		EndDate:      r.End,
		QueryPrice:   price,
		MeanPrice:    analytics.MeanPrice(samples),
		PriceRank:    rank,
		SampleSize:   len(samples),
	}
	span.SetAttributes(attribute.Int("samples", len(samples)), attribute.Float64("rank", rank))
	a.opts.logger.InfoContext(ctx, "price ranked",
		"price", price,
		"rank", rank,
		"samples", len(samples))
	return report, nil
}

// Trend reports the normalized OLS slope of column inside r. Both ends
// of r must be set.
func (a *InstrumentAnalyser) Trend(ctx context.Context, column string, r dataset.DateRange) (domain.TrendReport, error) {
	ctx, span := a.start(ctx, "instrument.trend")
	defer span.End()
	span.SetAttributes(attribute.String("column", column))

	if err := requireBounded(r); err != nil {
		return domain.TrendReport{}, a.fail(ctx, "trend", err)
	}

	values, err := a.table.Filter(r).Column(column)
	if err != nil {
		return domain.TrendReport{}, a.fail(ctx, "trend", err)
	}
	slope, err := analytics.NormalizedSlope(values)
	if err != nil {
		return domain.TrendReport{}, a.fail(ctx, "trend", err)
	}

	return domain.TrendReport{
		Symbol:          a.symbol,
		StartDate:       r.Start,
		DateDiffDays:    r.Days(),
		EndDate:         r.End,
		Column:          column,
		NormalizedSlope: slope,
	}, nil
}

// Pressure splits the volume inside r into buy and sell shares and
// reconstructs a price distribution for each. With statistical set the
// prices are drawn from each bar's high/low range, otherwise every unit
// is priced at close.
func (a *InstrumentAnalyser) Pressure(ctx context.Context, r dataset.DateRange, statistical bool) (domain.PressureReport, error) {
	ctx, span := a.start(ctx, "instrument.pressure")
	defer span.End()
	span.SetAttributes(attribute.Bool("statistical", statistical))

	window := a.table.Filter(r)
	cols, err := columns(window, dataset.ColumnOpen, dataset.ColumnClose, dataset.ColumnVolume)
	if err != nil {
		return domain.PressureReport{}, a.fail(ctx, "pressure", err)
	}
	open, closes, volume := cols[0], cols[1], cols[2]

	var prices analytics.BuySellPrices
	kind := "general"
	if statistical {
		kind = "statistical"
		var hl [][]float64
		if hl, err = columns(window, dataset.ColumnHigh, dataset.ColumnLow); err != nil {
			return domain.PressureReport{}, a.fail(ctx, "pressure", err)
		}
		prices, err = a.opts.model.BuySellStatisticalPrices(open, closes, hl[0], hl[1], volume, a.opts.source())
	} else {
		prices, err = a.opts.model.BuySellGeneralPrices(open, closes, volume)
	}
	if err != nil {
		return domain.PressureReport{}, a.fail(ctx, "pressure", err)
	}
	infrastructure.RecordSamples(ctx, a.opts.metrics, kind, len(prices.Buy)+len(prices.Sell))

	dates := window.Dates()
	report := domain.PressureReport{
		Symbol:     a.symbol,
		BuyPrices:  prices.Buy,
		SellPrices: prices.Sell,
	}
	for _, i := range prices.OutOfRange {
		report.OutOfRangeBars = append(report.OutOfRangeBars, dates[i])
	}
	if len(report.OutOfRangeBars) > 0 {
		a.opts.logger.WarnContext(ctx, "pressure pushed volume share below zero",
			"bars", len(report.OutOfRangeBars))
	}
	return report, nil
}

// IntrabarPrices draws one synthetic price per bar inside r from the
// bar's high/low range.
func (a *InstrumentAnalyser) IntrabarPrices(ctx context.Context, r dataset.DateRange) ([]float64, error) {
	ctx, span := a.start(ctx, "instrument.intrabar_prices")
	defer span.End()

	cols, err := columns(a.table.Filter(r), dataset.ColumnHigh, dataset.ColumnLow)
	if err != nil {
		return nil, a.fail(ctx, "intrabar prices", err)
	}
	prices, err := analytics.StatisticalPriceSeries(cols[0], cols[1], a.opts.source())
	if err != nil {
		return nil, a.fail(ctx, "intrabar prices", err)
	}
	infrastructure.RecordSamples(ctx, a.opts.metrics, "intrabar", len(prices))
	return prices, nil
}

func (a *InstrumentAnalyser) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return a.opts.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("symbol", a.symbol)))
}

func (a *InstrumentAnalyser) fail(ctx context.Context, op string, err error) error {
	infrastructure.RecordError(ctx, err)
	a.opts.logger.WarnContext(ctx, "instrument analysis failed", "operation", op, "error", err)
	return fmt.Errorf("%s %s: %w", op, a.symbol, err)
}

func requireBounded(r dataset.DateRange) error {
	if !r.Bounded() {
		return apperrors.NewAppValidationError("date range needs both a start and an end date")
	}
	return nil
}

func columns(t *dataset.Table, names ...string) ([][]float64, error) {
	out := make([][]float64, len(names))
	for i, name := range names {
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		out[i] = values
	}
	return out, nil
}
