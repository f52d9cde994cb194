package analytics

import (
	"math"
	"math/rand"
	"time"

	apperrors "ohlcvcli/internal/errors"
)

// NormalSource draws standard normal variates. *rand.Rand satisfies it.
type NormalSource interface {
	NormFloat64() float64
}

// NewSource returns a seeded random source. A zero seed uses the clock.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// PriceModel holds the tunables of price reconstruction.
type PriceModel struct {
	// VolumeScale is the sample budget of a bar with average volume.
	VolumeScale int
	// PressureFactor amplifies a bar's open/close return into a buy share.
	PressureFactor float64
}

// DefaultPriceModel returns a scale of 10 samples per average bar and a
// pressure factor of 3.
func DefaultPriceModel() PriceModel {
	return PriceModel{VolumeScale: 10, PressureFactor: 3}
}

// NormalizedVolume rescales volume so its mean maps to VolumeScale and
// rounds each bar half to even. Negative results are clamped to zero.
func (m PriceModel) NormalizedVolume(volume []float64) ([]int, error) {
	if len(volume) == 0 {
		return nil, apperrors.NewInsufficientDataError("normalized volume", 0, 1)
	}
	avg := mean(volume)
	if avg == 0 {
		return nil, apperrors.NewDegenerateInputError("normalized volume", "mean volume is zero")
	}

	out := make([]int, len(volume))
	for i, v := range volume {
		n := math.RoundToEven(v / avg * float64(m.VolumeScale))
		if n > 0 {
			out[i] = int(n)
		}
	}
	return out, nil
}

// GeneralPrices repeats each bar's price once per unit of its normalized
// volume and concatenates the bars in order.
func (m PriceModel) GeneralPrices(price, volume []float64) ([]float64, error) {
	if err := aligned("general prices", price, volume); err != nil {
		return nil, err
	}
	budget, err := m.NormalizedVolume(volume)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, sum(budget))
	for i, p := range price {
		for k := 0; k < budget[i]; k++ {
			out = append(out, p)
		}
	}
	return out, nil
}

// StatisticalPrices draws normalized-volume samples per bar from
// Normal((high+low)/2, (high-low)/4). A bar with a zero budget adds nothing.
func (m PriceModel) StatisticalPrices(high, low, volume []float64, src NormalSource) ([]float64, error) {
	if err := aligned("statistical prices", high, low); err != nil {
		return nil, err
	}
	if err := aligned("statistical prices", high, volume); err != nil {
		return nil, err
	}
	if err := checkRange(high, low); err != nil {
		return nil, err
	}
	budget, err := m.NormalizedVolume(volume)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSource(0)
	}

	out := make([]float64, 0, sum(budget))
	for i := range high {
		mu, sigma := barDistribution(high[i], low[i])
		for k := 0; k < budget[i]; k++ {
			out = append(out, mu+sigma*src.NormFloat64())
		}
	}
	return out, nil
}

// StatisticalPriceSeries draws a single price per bar from the same
// per-bar distribution as StatisticalPrices.
func StatisticalPriceSeries(high, low []float64, src NormalSource) ([]float64, error) {
	if err := aligned("statistical price series", high, low); err != nil {
		return nil, err
	}
	if err := checkRange(high, low); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSource(0)
	}

	out := make([]float64, len(high))
	for i := range high {
		mu, sigma := barDistribution(high[i], low[i])
		out[i] = mu + sigma*src.NormFloat64()
	}
	return out, nil
}

// PressureIndicator converts each bar's open/close return into a signed
// weight: (close-open)/open*100*PressureFactor. Values are not clamped.
func (m PriceModel) PressureIndicator(open, close []float64) ([]float64, error) {
	if err := aligned("pressure indicator", open, close); err != nil {
		return nil, err
	}
	out := make([]float64, len(open))
	for i := range open {
		if open[i] == 0 {
			return nil, apperrors.NewDegenerateInputError("pressure indicator", "open price is zero").
				WithContext("index", i)
		}
		out[i] = (close[i] - open[i]) / open[i] * 100 * m.PressureFactor
	}
	return out, nil
}

// VolumeSplit divides normalized volume into buy and sell shares.
// OutOfRange lists the bars whose pressure pushed a share below zero;
// their values are kept as computed.
type VolumeSplit struct {
	Buy        []float64
	Sell       []float64
	OutOfRange []int
}

// SplitVolume computes buy = nv*(100+pressure)/200 and sell = nv-buy.
func (m PriceModel) SplitVolume(open, close, volume []float64) (VolumeSplit, error) {
	if err := aligned("split volume", open, volume); err != nil {
		return VolumeSplit{}, err
	}
	pressure, err := m.PressureIndicator(open, close)
	if err != nil {
		return VolumeSplit{}, err
	}
	nv, err := m.NormalizedVolume(volume)
	if err != nil {
		return VolumeSplit{}, err
	}

	split := VolumeSplit{
		Buy:  make([]float64, len(nv)),
		Sell: make([]float64, len(nv)),
	}
	for i := range nv {
		total := float64(nv[i])
		split.Buy[i] = total * (100 + pressure[i]) / 200
		split.Sell[i] = total - split.Buy[i]
		if split.Buy[i] < 0 || split.Sell[i] < 0 {
			split.OutOfRange = append(split.OutOfRange, i)
		}
	}
	return split, nil
}

// BuySellPrices holds the two synthetic distributions of a volume split.
type BuySellPrices struct {
	Buy        []float64
	Sell       []float64
	OutOfRange []int
}

// BuySellGeneralPrices prices the buy and sell volumes at close. Each
// share column is normalized again as if it were raw volume.
func (m PriceModel) BuySellGeneralPrices(open, close, volume []float64) (BuySellPrices, error) {
	split, err := m.SplitVolume(open, close, volume)
	if err != nil {
		return BuySellPrices{}, err
	}
	buy, err := m.GeneralPrices(close, split.Buy)
	if err != nil {
		return BuySellPrices{}, err
	}
	sell, err := m.GeneralPrices(close, split.Sell)
	if err != nil {
		return BuySellPrices{}, err
	}
	return BuySellPrices{Buy: buy, Sell: sell, OutOfRange: split.OutOfRange}, nil
}

// BuySellStatisticalPrices samples the buy and sell volumes from the
// high/low distribution of each bar. Buy samples are drawn before sell
// samples from the same source.
func (m PriceModel) BuySellStatisticalPrices(open, close, high, low, volume []float64, src NormalSource) (BuySellPrices, error) {
	split, err := m.SplitVolume(open, close, volume)
	if err != nil {
		return BuySellPrices{}, err
	}
	if src == nil {
		src = NewSource(0)
	}
	buy, err := m.StatisticalPrices(high, low, split.Buy, src)
	if err != nil {
		return BuySellPrices{}, err
	}
	sell, err := m.StatisticalPrices(high, low, split.Sell, src)
	if err != nil {
		return BuySellPrices{}, err
	}
	return BuySellPrices{Buy: buy, Sell: sell, OutOfRange: split.OutOfRange}, nil
}

func barDistribution(high, low float64) (mu, sigma float64) {
	return (high + low) / 2, (high - low) / 4
}

func checkRange(high, low []float64) error {
	for i := range high {
		if high[i] < low[i] {
			return apperrors.NewInsufficientDataError("statistical prices", 0, 1).
				WithContext("index", i).
				WithContext("reason", "high below low")
		}
	}
	return nil
}

func sum(values []int) int {
	var total int
	for _, v := range values {
		total += v
	}
	return total
}
