package domain

import (
	"math"
	"time"
)

// Bar is one OHLCV record for one instrument at one timestamp.
// A Bar is never modified after it has been loaded into a table.
type Bar struct {
	Date   time.Time `json:"date" csv:"Date" validate:"required"`
	Symbol string    `json:"symbol" csv:"Symbol" validate:"required"`
	Open   float64   `json:"open" csv:"Open" validate:"gte=0"`
	High   float64   `json:"high" csv:"High" validate:"gtefield=Open,gtefield=Close,gtefield=Low"`
	Low    float64   `json:"low" csv:"Low" validate:"gte=0,ltefield=Open,ltefield=Close"`
	Close  float64   `json:"close" csv:"Close" validate:"gte=0"`
	Volume float64   `json:"volume" csv:"Volume" validate:"gte=0"`
}

// IsValid checks the price ordering high >= max(open, close) >= min(open, close) >= low >= 0
// and a non-negative volume. NaN in any field makes the bar invalid.
func (b Bar) IsValid() bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if b.Symbol == "" || b.Date.IsZero() {
		return false
	}
	return b.High >= math.Max(b.Open, b.Close) &&
		math.Min(b.Open, b.Close) >= b.Low &&
		b.Low >= 0 &&
		b.Volume >= 0
}

// Value returns the named price or volume field.
func (b Bar) Value(column string) (float64, bool) {
	switch column {
	case "open":
		return b.Open, true
	case "high":
		return b.High, true
	case "low":
		return b.Low, true
	case "close":
		return b.Close, true
	case "volume":
		return b.Volume, true
	}
	return 0, false
}
