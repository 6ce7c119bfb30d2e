// Package charts turns raw price/volume history into a render-ready chart
// projection: price line, volume bars with a derived secondary-axis bound,
// and a moving-average overlay.
package charts

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/stockfolio/internal/domain"
	"github.com/stockfolio/pkg/formulas"
)

// volumeBandScale keeps the volume bars inside a fixed visual band below
// the price line: the hidden secondary axis tops out at max volume times
// this factor. Presentation constant, not derived from the data.
const volumeBandScale = 1600.0 / 250.0

// smaLength is the window of the moving-average overlay
const smaLength = 20

// Projection is the chart payload served to the UI
type Projection struct {
	Ticker        string    `json:"ticker"`
	Name          string    `json:"name"`
	CurrentPrice  float64   `json:"current_price"`
	MarketCap     string    `json:"market_cap"`
	Dates         []string  `json:"dates"`
	Prices        []float64 `json:"prices"`
	Volumes       []float64 `json:"volumes"`
	VolumeAxisMax float64   `json:"volume_axis_max"`
	SMA           []float64 `json:"sma,omitempty"` // 20-day overlay, empty when the series is too short
}

// ProjectSeries derives the chart projection from a fetched series
func ProjectSeries(series domain.Series) Projection {
	proj := Projection{
		Ticker:       series.Ticker,
		Name:         series.Name,
		CurrentPrice: series.CurrentPrice,
		MarketCap:    series.MarketCap,
		Dates:        series.Dates,
		Prices:       series.Prices,
		Volumes:      series.Volumes,
	}

	if len(series.Volumes) > 0 {
		proj.VolumeAxisMax = floats.Max(series.Volumes) * volumeBandScale
	}

	if sma := formulas.MovingAverage(series.Prices, smaLength); sma != nil {
		// NaN is unrepresentable in JSON; the renderer skips zero points
		// before the window fills
		for i := range sma {
			if math.IsNaN(sma[i]) {
				sma[i] = 0
			}
		}
		proj.SMA = sma
	}

	return proj
}
