package analyser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ohlcvcli/internal/analytics"
	"ohlcvcli/internal/config"
)

func TestNewOptions_Defaults(t *testing.T) {
	o := newOptions(nil)

	assert.NotNil(t, o.logger)
	assert.NotNil(t, o.tracer)
	assert.Equal(t, analytics.DefaultPriceModel(), o.model)
	assert.Equal(t, config.DefaultMaxConcurrency, o.maxConcurrency)
	assert.Nil(t, o.metrics)
}

func TestFromConfig(t *testing.T) {
	o := newOptions(FromConfig(config.AnalysisConfig{
		VolumeScale:    20,
		PressureFactor: 1.5,
		Seed:           99,
		MaxConcurrency: 16,
	}))

	assert.Equal(t, analytics.PriceModel{VolumeScale: 20, PressureFactor: 1.5}, o.model)
	assert.Equal(t, int64(99), o.seed)
	assert.Equal(t, 16, o.maxConcurrency)
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	o := newOptions([]Option{WithLogger(nil), WithMaxConcurrency(0)})

	assert.NotNil(t, o.logger)
	assert.Equal(t, config.DefaultMaxConcurrency, o.maxConcurrency)
}

func TestOptions_SeededSourcesRepeat(t *testing.T) {
	o := newOptions([]Option{WithSeed(5)})

	a, b := o.source(), o.source()
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.NormFloat64(), b.NormFloat64())
	}
}
