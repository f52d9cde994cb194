package analyser

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"ohlcvcli/internal/analytics"
	"ohlcvcli/internal/config"
	"ohlcvcli/internal/infrastructure"
)

// Option configures an analyser.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	model          analytics.PriceModel
	seed           int64
	maxConcurrency int
	tracer         trace.Tracer
	metrics        *infrastructure.AnalysisMetrics
}

func newOptions(opts []Option) options {
	o := options{
		logger:         slog.Default(),
		model:          analytics.DefaultPriceModel(),
		maxConcurrency: config.DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(infrastructure.MeterName)
	}
	return o
}

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithModel sets the price reconstruction tunables.
func WithModel(model analytics.PriceModel) Option {
	return func(o *options) { o.model = model }
}

// WithSeed makes every random draw reproducible. Each call gets a fresh
// source from the same seed. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithMaxConcurrency bounds the number of instruments analysed at once.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithTracer sets the tracer used for analyser spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// WithMetrics records analysis counters on metrics.
func WithMetrics(metrics *infrastructure.AnalysisMetrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// FromConfig maps the analysis section of the config to options.
func FromConfig(cfg config.AnalysisConfig) []Option {
	return []Option{
		WithModel(analytics.PriceModel{
			VolumeScale:    cfg.VolumeScale,
			PressureFactor: cfg.PressureFactor,
		}),
		WithSeed(cfg.Seed),
		WithMaxConcurrency(cfg.MaxConcurrency),
	}
}

func (o options) source() analytics.NormalSource {
	return analytics.NewSource(o.seed)
}
