package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohlcvcli/internal/config"
)

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{
		Environment:    "test",
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    0.5,
	})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "none", cfg.MetricExporter)
	assert.Equal(t, 0.5, cfg.SampleRatio)
}

func TestInitializeOTel_Exporters(t *testing.T) {
	tests := []struct {
		name         string
		trace        string
		metric       string
		wantErr      bool
		wantRegistry bool
	}{
		{"all disabled", "none", "none", false, false},
		{"prometheus metrics", "none", "prometheus", false, true},
		{"stdout traces", "stdout", "none", false, false},
		{"unknown trace exporter", "jaeger", "none", true, false},
		{"unknown metric exporter", "none", "statsd", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &OTelConfig{
				ServiceName:    ServiceName,
				ServiceVersion: "test",
				Environment:    "test",
				TraceExporter:  tt.trace,
				MetricExporter: tt.metric,
				SampleRatio:    1,
				TraceWriter:    &bytes.Buffer{},
			}

			providers, err := InitializeOTel(cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer providers.Shutdown(context.Background())

			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.Equal(t, tt.wantRegistry, providers.Registry != nil)
		})
	}
}

func TestStdoutTracesWriteSpans(t *testing.T) {
	var buf bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: "test",
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    1,
		TraceWriter:    &buf,
	}, nil)
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "panel.trend")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("group failed"))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "panel.trend")
	assert.Contains(t, buf.String(), "group failed")
}

func TestAnalysisMetricsTextfile(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
	}, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateAnalysisMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordAnalysis(ctx, metrics, "close_trend", 3, 1, 20*time.Millisecond)
	RecordSamples(ctx, metrics, "statistical", 50)
	require.NoError(t, RecordRunStats(ctx, providers.Meter, CollectRunStats(time.Now())))

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "ohlcv_groups_analysed_total")
	assert.Contains(t, text, "ohlcv_group_failures_total")
	assert.Contains(t, text, "ohlcv_synthetic_samples_total")
	assert.Contains(t, text, "ohlcv_analysis_duration_seconds")
	assert.Contains(t, text, "ohlcv_heap_alloc_bytes")
	assert.Contains(t, text, `metric="close_trend"`)
}

func TestWriteMetrics_NoRegistry(t *testing.T) {
	providers := &OTelProviders{}
	path := filepath.Join(t.TempDir(), "metrics.prom")

	require.NoError(t, providers.WriteMetrics(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordAnalysis(context.Background(), nil, "x", 1, 1, time.Second)
		RecordSamples(context.Background(), nil, "x", 1)
		RecordError(context.Background(), errors.New("no span"))
	})
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
