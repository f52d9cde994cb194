package analyser

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"ohlcvcli/internal/analytics"
	"ohlcvcli/internal/dataset"
	apperrors "ohlcvcli/internal/errors"
	"ohlcvcli/internal/infrastructure"
	"ohlcvcli/pkg/contracts/domain"
)

// Metric series names produced by PanelAnalyser.
const (
	SeriesProfit     = "profit"
	SeriesOCVariance = "oc_variance"
	SeriesHLVariance = "hl_variance"
)

// groupFunc computes one scalar from the bars of one instrument.
type groupFunc func(group *dataset.Table) (float64, error)

// PanelAnalyser computes one metric per instrument of a multi-symbol table.
type PanelAnalyser struct {
	table *dataset.Table
	panel *dataset.Panel
	opts  options
}

// NewPanelAnalyser partitions table by symbol.
func NewPanelAnalyser(table *dataset.Table, opts ...Option) *PanelAnalyser {
	o := newOptions(opts)
	o.logger = infrastructure.WithComponent(o.logger, "panel_analyser")
	return &PanelAnalyser{
		table: table,
		panel: table.Partition(),
		opts:  o,
	}
}

// Symbols returns the instruments of the panel in ascending order.
func (p *PanelAnalyser) Symbols() []string {
	return p.panel.Symbols()
}

// Info aggregates the start/end close profit of every instrument inside r.
// Instruments whose profit cannot be computed are listed in Failed and
// left out of the average and the percentages.
func (p *PanelAnalyser) Info(ctx context.Context, r dataset.DateRange) (domain.MarketInfo, error) {
	series, err := p.Profit(ctx, dataset.ColumnClose, r)
	if err != nil {
		return domain.MarketInfo{}, err
	}

	window := p.table.Filter(r)
	info := domain.MarketInfo{
		StartDate: window.Start(),
		EndDate:   window.End(),
	}

	profits := make([]float64, 0, series.Len())
	for _, symbol := range series.Symbols() {
		if v, ok := series.Get(symbol); ok {
			profits = append(profits, v)
			continue
		}
		info.Failed = append(info.Failed, symbol)
	}

	summary, err := analytics.MarketProfit(profits)
	if err != nil {
		return domain.MarketInfo{}, fmt.Errorf("market info: %w", err)
	}
	info.TotalInstruments = summary.Instruments
	info.MarketAverageProfit = summary.AverageProfit
	info.IncreasedPct = summary.IncreasedPct
	info.DecreasedPct = summary.DecreasedPct

	p.opts.logger.InfoContext(ctx, "market info computed",
		"instruments", info.TotalInstruments,
		"failed", len(info.Failed),
		"average_profit", info.MarketAverageProfit)
	return info, nil
}

// Trend computes the raw OLS slope of column per instrument.
func (p *PanelAnalyser) Trend(ctx context.Context, column string, r dataset.DateRange) (*domain.MetricSeries, error) {
	return p.columnMetric(ctx, column+"_trend", column, r, analytics.Slope)
}

// NormalizedTrend computes the slope of column divided by its mean.
func (p *PanelAnalyser) NormalizedTrend(ctx context.Context, column string, r dataset.DateRange) (*domain.MetricSeries, error) {
	return p.columnMetric(ctx, column+"_normalized_trend", column, r, analytics.NormalizedSlope)
}

// TrendFitQuality computes the R² of the OLS fit of column.
func (p *PanelAnalyser) TrendFitQuality(ctx context.Context, column string, r dataset.DateRange) (*domain.MetricSeries, error) {
	return p.columnMetric(ctx, column+"_fit_quality", column, r, analytics.FitQuality)
}

// Profit computes the start/end profit of column. An empty column means close.
func (p *PanelAnalyser) Profit(ctx context.Context, column string, r dataset.DateRange) (*domain.MetricSeries, error) {
	if column == "" {
		column = dataset.ColumnClose
	}
	return p.columnMetric(ctx, SeriesProfit, column, r, analytics.StartEndProfit)
}

// OCVariance computes the variance of (open-close)/open per instrument.
func (p *PanelAnalyser) OCVariance(ctx context.Context, r dataset.DateRange) (*domain.MetricSeries, error) {
	return p.pairMetric(ctx, SeriesOCVariance, dataset.ColumnOpen, dataset.ColumnClose, r)
}

// HLVariance computes the variance of (high-low)/high per instrument.
func (p *PanelAnalyser) HLVariance(ctx context.Context, r dataset.DateRange) (*domain.MetricSeries, error) {
	return p.pairMetric(ctx, SeriesHLVariance, dataset.ColumnHigh, dataset.ColumnLow, r)
}

func (p *PanelAnalyser) columnMetric(ctx context.Context, name, column string, r dataset.DateRange, fn func([]float64) (float64, error)) (*domain.MetricSeries, error) {
	if !dataset.HasColumn(column) {
		return nil, fmt.Errorf("%s: %w", name, apperrors.NewMissingColumnError(column))
	}
	return p.run(ctx, name, r, func(group *dataset.Table) (float64, error) {
		values, err := group.Column(column)
		if err != nil {
			return math.NaN(), err
		}
		return fn(values)
	})
}

func (p *PanelAnalyser) pairMetric(ctx context.Context, name, base, other string, r dataset.DateRange) (*domain.MetricSeries, error) {
	return p.run(ctx, name, r, func(group *dataset.Table) (float64, error) {
		a, err := group.Column(base)
		if err != nil {
			return math.NaN(), err
		}
		b, err := group.Column(other)
		if err != nil {
			return math.NaN(), err
		}
		return analytics.NormalizedDiffVariance(a, b)
	})
}

type groupResult struct {
	value float64
	err   error
}

// run filters the table to r, partitions what remains and applies fn to
// every instrument. Instruments without bars inside r are absent from the
// series. Only context cancellation fails the whole call.
func (p *PanelAnalyser) run(ctx context.Context, name string, r dataset.DateRange, fn groupFunc) (*domain.MetricSeries, error) {
	start := time.Now()
	panel := p.panel
	if r != dataset.All {
		panel = p.table.Filter(r).Partition()
	}
	ctx, span := p.opts.tracer.Start(ctx, "panel."+name,
		trace.WithAttributes(attribute.Int("instruments", panel.Len())))
	defer span.End()

	symbols := panel.Symbols()
	results := make([]groupResult, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.maxConcurrency)
	for i, symbol := range symbols {
		group, _ := panel.Group(symbol)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(group)
			results[i] = groupResult{value: v, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	series := domain.NewMetricSeries(name)
	var failures int
	for i, symbol := range symbols {
		res := results[i]
		if res.err != nil {
			failures++
			series.Values[symbol] = math.NaN()
			series.Failures[symbol] = res.err.Error()
			p.opts.logger.WarnContext(ctx, "instrument skipped",
				"metric", name,
				"symbol", symbol,
				"error", res.err)
			continue
		}
		series.Values[symbol] = res.value
	}

	span.SetAttributes(attribute.Int("failures", failures))
	infrastructure.RecordAnalysis(ctx, p.opts.metrics, name, len(symbols), failures, time.Since(start))
	p.opts.logger.DebugContext(ctx, "panel metric computed",
		"metric", name,
		"instruments", len(symbols),
		"failures", failures,
		"duration", time.Since(start))
	return series, nil
}
