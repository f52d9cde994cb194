package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RunStats is a snapshot of process resources at the end of a run.
type RunStats struct {
	Goroutines  int
	HeapAlloc   uint64
	TotalAlloc  uint64
	NumGC       uint32
	RunDuration time.Duration
}

// CollectRunStats reads the Go runtime counters.
func CollectRunStats(start time.Time) RunStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RunStats{
		Goroutines:  runtime.NumGoroutine(),
		HeapAlloc:   m.HeapAlloc,
		TotalAlloc:  m.TotalAlloc,
		NumGC:       m.NumGC,
		RunDuration: time.Since(start),
	}
}

// RecordRunStats publishes stats as gauges on meter so they land in the
// metrics textfile next to the analysis counters.
func RecordRunStats(ctx context.Context, meter metric.Meter, stats RunStats) error {
	heap, err := meter.Int64Gauge(
		"ohlcv_heap_alloc_bytes",
		metric.WithDescription("Heap bytes allocated at the end of the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return err
	}

	total, err := meter.Int64Gauge(
		"ohlcv_total_alloc_bytes",
		metric.WithDescription("Cumulative bytes allocated during the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return err
	}

	gcCount, err := meter.Int64Gauge(
		"ohlcv_gc_cycles",
		metric.WithDescription("Completed GC cycles"),
	)
	if err != nil {
		return err
	}

	duration, err := meter.Float64Gauge(
		"ohlcv_run_duration_seconds",
		metric.WithDescription("Wall time of the run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	heap.Record(ctx, int64(stats.HeapAlloc))
	total.Record(ctx, int64(stats.TotalAlloc))
	gcCount.Record(ctx, int64(stats.NumGC))
	duration.Record(ctx, stats.RunDuration.Seconds())
	return nil
}
