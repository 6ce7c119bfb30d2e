package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = float64(i + 1)
	}

	sma := MovingAverage(closes, 20)
	require.Len(t, sma, 25)

	// First full window averages 1..20
	assert.InDelta(t, 10.5, sma[19], 1e-9)
	// Last window averages 6..25
	assert.InDelta(t, 15.5, sma[24], 1e-9)
}

func TestMovingAverage_TooShort(t *testing.T) {
	closes := []float64{1, 2, 3}

	assert.Nil(t, MovingAverage(closes, 20))
	assert.Nil(t, MovingAverage(nil, 20))
}
