package formulas

import (
	"github.com/markcheno/go-talib"
)

// MovingAverage calculates a simple moving average over closing prices.
//
// Returns a slice aligned with the input: the first length-1 entries stay
// zero (lookback period), matching talib's convention. Returns nil when
// the input is shorter than the window.
func MovingAverage(closes []float64, length int) []float64 {
	if length < 1 || len(closes) < length {
		return nil
	}

	return talib.Sma(closes, length)
}
