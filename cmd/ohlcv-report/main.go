package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ohlcvcli/internal/analyser"
	"ohlcvcli/internal/chart"
	"ohlcvcli/internal/config"
	"ohlcvcli/internal/dataset"
	"ohlcvcli/internal/exporter"
	"ohlcvcli/internal/infrastructure"
	"ohlcvcli/internal/validation"
	"ohlcvcli/pkg/contracts/domain"
)

// Set at build time with -ldflags "-X main.Version=... -X main.BuildTime=...".
var (
	Version   = config.AppVersion
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("ohlcv-report failed", "error", err)
		os.Exit(1)
	}
}

// flags holds the parsed command line.
type flags struct {
	in          string
	sheet       string
	from        string
	to          string
	symbol      string
	price       float64
	hasPrice    bool
	column      string
	out         string
	xlsx        bool
	chart       bool
	slices      int
	pressure    bool
	statistical bool
	version     bool
}

func parseFlags(args []string, output io.Writer) (*flags, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(output)

	f := &flags{}
	fs.StringVar(&f.in, "in", "", "input CSV or XLSX file with date, symbol, open, high, low, close, volume columns")
	fs.StringVar(&f.sheet, "sheet", "", "sheet to read from an XLSX input (defaults to the first sheet)")
	fs.StringVar(&f.from, "from", "", "start date YYYY-MM-DD (inclusive)")
	fs.StringVar(&f.to, "to", "", "end date YYYY-MM-DD (inclusive)")
	fs.StringVar(&f.symbol, "symbol", "", "analyse a single instrument instead of the whole panel")
	fs.Float64Var(&f.price, "price", 0, "price to rank against the instrument's price distribution (needs -symbol, -from and -to)")
	fs.StringVar(&f.column, "column", dataset.ColumnClose, "column used for trend and profit metrics")
	fs.StringVar(&f.out, "out", "", "output directory for reports and charts (defaults to the configured paths)")
	fs.BoolVar(&f.xlsx, "xlsx", false, "also write the panel metrics as an XLSX workbook")
	fs.BoolVar(&f.chart, "chart", false, "write price and regression charts as HTML (needs -symbol)")
	fs.IntVar(&f.slices, "slices", 3, "number of regression slices in the trend chart")
	fs.BoolVar(&f.pressure, "pressure", false, "split the instrument's volume into buy and sell prices (needs -symbol)")
	fs.BoolVar(&f.statistical, "statistical", true, "draw pressure prices from each bar's high/low range instead of close")
	fs.BoolVar(&f.version, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "price" {
			f.hasPrice = true
		}
	})

	if f.version {
		return f, nil
	}
	f.symbol = strings.ToUpper(strings.TrimSpace(f.symbol))
	if f.in == "" {
		fs.Usage()
		return nil, fmt.Errorf("-in is required")
	}
	if f.hasPrice && f.symbol == "" {
		return nil, fmt.Errorf("-price needs -symbol")
	}
	if (f.chart || f.pressure) && f.symbol == "" {
		return nil, fmt.Errorf("-chart and -pressure need -symbol")
	}
	return f, nil
}

// run executes one report and writes a short summary to stdout.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	start := time.Now()

	f, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	if f.version {
		fmt.Fprintf(stdout, "%s %s (built %s)\n", config.AppName, Version, BuildTime)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if f.out != "" {
		cfg.Paths.ReportsDir = f.out
		cfg.Paths.ChartsDir = f.out
	}

	paths, err := config.ResolvePaths(cfg.Paths, "")
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	if err := validation.NewFileValidator(nil).ValidateOutputDirectory(paths.ReportsDir); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "Starting ohlcv report",
		slog.String("input", f.in),
		slog.String("symbol", f.symbol),
		slog.String("from", f.from),
		slog.String("to", f.to),
		slog.String("reports_dir", paths.ReportsDir))
	logger.DebugContext(ctx, "Configuration loaded", slog.String("config", cfg.String()))

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	metrics, err := infrastructure.CreateAnalysisMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create analysis metrics: %w", err)
	}

	table, err := loadTable(ctx, f, paths, logger)
	if err != nil {
		return err
	}

	r, err := dataset.NewDateRange(f.from, f.to)
	if err != nil {
		return err
	}

	opts := append(analyser.FromConfig(cfg.Analysis),
		analyser.WithLogger(logger),
		analyser.WithMetrics(metrics),
		analyser.WithTracer(providers.Tracer),
	)
	writer := exporter.NewCSVWriter(paths, logger)

	if f.symbol != "" {
		err = runInstrument(ctx, f, table, r, paths, writer, opts, stdout)
	} else {
		err = runPanel(ctx, f, table, r, paths, writer, opts, stdout)
	}
	if err != nil {
		return err
	}

	if err := infrastructure.RecordRunStats(ctx, providers.Meter, infrastructure.CollectRunStats(start)); err != nil {
		logger.WarnContext(ctx, "Failed to record run stats", "error", err)
	}
	if err := providers.WriteMetrics(cfg.Telemetry.MetricsFile); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Report complete", slog.Duration("duration", time.Since(start)))
	return nil
}

func loadTable(ctx context.Context, f *flags, paths *config.Paths, logger *slog.Logger) (*dataset.Table, error) {
	path := paths.GetDataPath(f.in)
	if !config.FileExists(path) {
		path = f.in
	}

	format, err := validation.NewFileValidator(logger).ValidateInput(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	loader := dataset.NewLoader(logger)
	loader.Symbol = f.symbol

	var table *dataset.Table
	switch format {
	case validation.FormatExcel:
		table, err = loader.LoadExcel(ctx, path, f.sheet)
	default:
		table, err = loader.LoadCSV(ctx, path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	logger.InfoContext(ctx, "Loaded bars",
		slog.String("format", string(format)),
		slog.Int("bars", table.Len()),
		slog.Int("instruments", len(table.Symbols())))
	return table, nil
}

func runPanel(ctx context.Context, f *flags, table *dataset.Table, r dataset.DateRange, paths *config.Paths, writer *exporter.CSVWriter, opts []analyser.Option, stdout io.Writer) error {
	panel := analyser.NewPanelAnalyser(table, opts...)

	info, err := panel.Info(ctx, r)
	if err != nil {
		return err
	}
	if _, err := writer.WriteMarketInfo(config.MarketInfoFile, info); err != nil {
		return err
	}

	var series []*domain.MetricSeries
	for _, compute := range []func() (*domain.MetricSeries, error){
		func() (*domain.MetricSeries, error) { return panel.Profit(ctx, f.column, r) },
		func() (*domain.MetricSeries, error) { return panel.Trend(ctx, f.column, r) },
		func() (*domain.MetricSeries, error) { return panel.NormalizedTrend(ctx, f.column, r) },
		func() (*domain.MetricSeries, error) { return panel.TrendFitQuality(ctx, f.column, r) },
		func() (*domain.MetricSeries, error) { return panel.OCVariance(ctx, r) },
		func() (*domain.MetricSeries, error) { return panel.HLVariance(ctx, r) },
	} {
		s, err := compute()
		if err != nil {
			return err
		}
		series = append(series, s)
	}

	metricsPath, err := writer.WriteMetricSeries(config.PanelMetricsFile, series...)
	if err != nil {
		return err
	}
	if f.xlsx {
		if err := exporter.WriteWorkbook(paths.GetReportPath(config.PanelWorkbookFile), &info, series...); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "instruments: %d (failed: %d)\n", info.TotalInstruments, len(info.Failed))
	fmt.Fprintf(stdout, "period: %s .. %s\n", info.StartDate.Format("2006-01-02"), info.EndDate.Format("2006-01-02"))
	fmt.Fprintf(stdout, "average profit: %.2f%%  increased: %.0f%%  decreased: %.0f%%\n",
		info.MarketAverageProfit, info.IncreasedPct, info.DecreasedPct)
	fmt.Fprintf(stdout, "metrics: %s\n", metricsPath)
	return nil
}

func runInstrument(ctx context.Context, f *flags, table *dataset.Table, r dataset.DateRange, paths *config.Paths, writer *exporter.CSVWriter, opts []analyser.Option, stdout io.Writer) error {
	group, ok := table.Partition().Group(f.symbol)
	if !ok {
		return fmt.Errorf("symbol %q not found in input", f.symbol)
	}
	inst, err := analyser.NewInstrumentAnalyser(group, opts...)
	if err != nil {
		return err
	}

	info, err := inst.Info(ctx, r)
	if err != nil {
		return err
	}
	if _, err := writer.WriteInstrumentInfo(config.SymbolReportName(f.symbol, "info", "csv"), info); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s start/end: %.3f%%  start/max: %.3f%%  start/min: %.3f%%\n",
		info.Symbol, info.StartEndProfit, info.StartMaxProfit, info.StartMinProfit)

	if r.Bounded() {
		trend, err := inst.Trend(ctx, f.column, r)
		if err != nil {
			return err
		}
		if _, err := writer.WriteTrend(config.SymbolReportName(f.symbol, f.column+"_trend", "csv"), trend); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s normalized trend: %g\n", trend.Column, trend.NormalizedSlope)
	}

	if f.hasPrice {
		rank, err := inst.PriceRank(ctx, r, f.price)
		if err != nil {
			return err
		}
		if _, err := writer.WritePriceRank(config.SymbolReportName(f.symbol, "price_rank", "csv"), rank); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "price %g ranks %.2f%% (mean %.2f over %d samples)\n",
			rank.QueryPrice, rank.PriceRank, rank.MeanPrice, rank.SampleSize)
	}

	if f.pressure {
		report, err := inst.Pressure(ctx, r, f.statistical)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "buy samples: %d  sell samples: %d  out of range bars: %d\n",
			len(report.BuyPrices), len(report.SellPrices), len(report.OutOfRangeBars))
	}

	if f.chart {
		if err := writeCharts(ctx, inst, group.Filter(r), r, f, paths); err != nil {
			return err
		}
	}
	return nil
}

func writeCharts(ctx context.Context, inst *analyser.InstrumentAnalyser, table *dataset.Table, r dataset.DateRange, f *flags, paths *config.Paths) error {
	intrabar, err := inst.IntrabarPrices(ctx, r)
	if err != nil {
		return err
	}
	price, err := chart.PriceChart(table, intrabar)
	if err != nil {
		return err
	}
	if err := renderTo(paths.GetChartPath(config.SymbolReportName(f.symbol, "price", "html")), price.Render); err != nil {
		return err
	}

	trend, err := chart.RegressionChart(table, f.column, f.slices)
	if err != nil {
		return err
	}
	return renderTo(paths.GetChartPath(config.SymbolReportName(f.symbol, f.column+"_trend", "html")), trend.Render)
}

func renderTo(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := render(file); err != nil {
		file.Close()
		return fmt.Errorf("render chart %s: %w", path, err)
	}
	return file.Close()
}
