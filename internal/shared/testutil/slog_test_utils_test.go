package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("group analysed", slog.String("symbol", "AAA"))
		logger.Error("group failed", slog.Int("bars", 1))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("group analysed"))
		assert.True(t, handler.ContainsAttr("symbol", "AAA"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 1)
		AssertLogContains(t, handler, slog.LevelDebug, "debug msg")
		AssertNoErrors(t, handler)
	})

	t.Run("derived handlers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "panel").Info("started")

		assert.True(t, handler.ContainsAttr("component", "panel"))

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})
}

func TestBarsFromCloses(t *testing.T) {
	bars := BarsFromCloses("AAA", 10, 11, 12)

	assert.Len(t, bars, 3)
	for i, b := range bars {
		assert.True(t, b.IsValid())
		assert.Equal(t, Day(i), b.Date)
	}
	for _, b := range RisingFallingPanel() {
		assert.True(t, b.IsValid())
	}
}
