package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int32
		want   float64
	}{
		{"shortest decimal tie rounds up", 2.675, 2, 2.68},
		{"negative tie rounds away from zero", -2.675, 2, -2.68},
		{"half to whole", 0.5, 0, 1},
		{"exact binary tie", 0.125, 2, 0.13},
		{"negative exact binary tie", -0.125, 2, -0.13},
		{"repeating fraction", 100.0 / 3, 3, 33.333},
		{"below tie", 22.2224, 3, 22.222},
		{"already rounded", 10, 3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round(tt.value, tt.places))
		})
	}
}

func TestRound_NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
	assert.True(t, math.IsInf(Round(math.Inf(-1), 2), -1))
}
