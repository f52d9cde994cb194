package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBar_IsValid(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		bar  Bar
		want bool
	}{
		{
			name: "valid bar",
			bar:  Bar{Date: day, Symbol: "AAA", Open: 10, High: 12, Low: 8, Close: 11, Volume: 100},
			want: true,
		},
		{
			name: "flat bar with zero volume",
			bar:  Bar{Date: day, Symbol: "AAA", Open: 10, High: 10, Low: 10, Close: 10},
			want: true,
		},
		{
			name: "high below close",
			bar:  Bar{Date: day, Symbol: "AAA", Open: 10, High: 10.5, Low: 8, Close: 11, Volume: 100},
			want: false,
		},
		{
			name: "low above open",
			bar:  Bar{Date: day, Symbol: "AAA", Open: 10, High: 12, Low: 10.5, Close: 11, Volume: 100},
			want: false,
		},
		{
			name: "negative low",
			bar:  Bar{Date: day, Symbol: "AAA", Open: 0, High: 1, Low: -1, Close: 0, Volume: 100},
			want: false,
		},
		{
			name: "negative volume",
			bar:  Bar{Date: day, Symbol: "AAA", Open: 10, High: 12, Low: 8, Close: 11, Volume: -1},
			want: false,
		},
		{
			name: "missing symbol",
			bar:  Bar{Date: day, Open: 10, High: 12, Low: 8, Close: 11, Volume: 100},
			want: false,
		},
		{
			name: "missing date",
			bar:  Bar{Symbol: "AAA", Open: 10, High: 12, Low: 8, Close: 11, Volume: 100},
			want: false,
		},
		{
			name: "NaN close",
			bar:  Bar{Date: day, Symbol: "AAA", Open: 10, High: 12, Low: 8, Close: math.NaN(), Volume: 100},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bar.IsValid())
		})
	}
}

func TestBar_Value(t *testing.T) {
	bar := Bar{Open: 1, High: 4, Low: 0.5, Close: 2, Volume: 300}

	for column, want := range map[string]float64{
		"open": 1, "high": 4, "low": 0.5, "close": 2, "volume": 300,
	} {
		got, ok := bar.Value(column)
		assert.True(t, ok, column)
		assert.Equal(t, want, got, column)
	}

	_, ok := bar.Value("vwap")
	assert.False(t, ok)
}
