package domain

import (
	"math"
	"sort"
)

// MetricSeries maps instrument symbols to one scalar metric.
// Instruments whose computation failed hold NaN in Values and the
// failure message in Failures.
type MetricSeries struct {
	Name     string             `json:"name"`
	Values   map[string]float64 `json:"values"`
	Failures map[string]string  `json:"failures,omitempty"`
}

// NewMetricSeries creates an empty series with the given name.
func NewMetricSeries(name string) *MetricSeries {
	return &MetricSeries{
		Name:     name,
		Values:   make(map[string]float64),
		Failures: make(map[string]string),
	}
}

// Symbols returns the instrument symbols in ascending order.
func (m *MetricSeries) Symbols() []string {
	symbols := make([]string, 0, len(m.Values))
	for s := range m.Values {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Get returns the value for symbol. ok is false when the symbol is
// absent or its computation failed.
func (m *MetricSeries) Get(symbol string) (float64, bool) {
	v, found := m.Values[symbol]
	if !found || math.IsNaN(v) {
		return v, false
	}
	return v, true
}

// Len returns the number of instruments, failed ones included.
func (m *MetricSeries) Len() int {
	return len(m.Values)
}
