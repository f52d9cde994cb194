package domain

import "time"

// InstrumentInfo summarises one instrument's close prices over a date range.
type InstrumentInfo struct {
	Symbol         string    `json:"symbol"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	StartEndProfit float64   `json:"start_end_profit"`
	StartMaxProfit float64   `json:"start_max_profit"`
	StartMinProfit float64   `json:"start_min_profit"`
}

// MarketInfo aggregates start/end profit across a panel.
// Failed lists the instruments left out of the averages.
type MarketInfo struct {
	TotalInstruments    int       `json:"total_instruments"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	MarketAverageProfit float64   `json:"market_average_profit"`
	IncreasedPct        float64   `json:"increased_pct"`
	DecreasedPct        float64   `json:"decreased_pct"`
	Failed              []string  `json:"failed,omitempty"`
}

// PriceRankReport places a query price against the synthetic price
// distribution of a date range.
type PriceRankReport struct {
	Symbol       string    `json:"symbol"`
	StartDate    time.Time `json:"start_date"`
	DateDiffDays int       `json:"date_diff_days"`
	EndDate      time.Time `json:"end_date"`
	QueryPrice   float64   `json:"query_price"`
	MeanPrice    float64   `json:"mean_price"`
	PriceRank    float64   `json:"price_rank"`
	SampleSize   int       `json:"sample_size"`
}

// TrendReport holds the normalized OLS slope of one column.
type TrendReport struct {
	Symbol          string    `json:"symbol"`
	StartDate       time.Time `json:"start_date"`
	DateDiffDays    int       `json:"date_diff_days"`
	EndDate         time.Time `json:"end_date"`
	Column          string    `json:"column"`
	NormalizedSlope float64   `json:"normalized_slope"`
}

// PressureReport holds the buy and sell price distributions derived
// from splitting volume by the pressure indicator.
type PressureReport struct {
	Symbol         string      `json:"symbol"`
	BuyPrices      []float64   `json:"buy_prices"`
	SellPrices     []float64   `json:"sell_prices"`
	OutOfRangeBars []time.Time `json:"out_of_range_bars,omitempty"`
}
