package testutil

import (
	"time"

	"ohlcvcli/pkg/contracts/domain"
)

// FixtureStart is the date of the first bar built by the fixture helpers.
var FixtureStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Day returns FixtureStart shifted by n calendar days.
func Day(n int) time.Time {
	return FixtureStart.AddDate(0, 0, n)
}

// BarsFromCloses builds one bar per close on consecutive days. Each bar
// opens at its close, spans one percent either side and trades 1000 units.
func BarsFromCloses(symbol string, closes ...float64) []domain.Bar {
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = domain.Bar{
			Date:   Day(i),
			Symbol: symbol,
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

// OHLCV builds one bar from explicit values.
func OHLCV(symbol string, day int, open, high, low, close, volume float64) domain.Bar {
	return domain.Bar{
		Date:   Day(day),
		Symbol: symbol,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}
}

// RisingFallingPanel returns two instruments over the same two days:
// AAA rises 100 to 120 and BBB falls 100 to 80.
func RisingFallingPanel() []domain.Bar {
	return []domain.Bar{
		OHLCV("AAA", 0, 100, 100, 100, 100, 1000),
		OHLCV("BBB", 0, 100, 100, 100, 100, 1000),
		OHLCV("AAA", 1, 100, 120, 100, 120, 1000),
		OHLCV("BBB", 1, 100, 100, 80, 80, 1000),
	}
}
