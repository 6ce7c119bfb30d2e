package portfolio

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Sort orders holdings in place by the configured column. Equal keys keep
// their relative order, so re-sorting never shuffles ties. Weight sorts
// identically to valuation: for a fixed total the two are monotonic.
func Sort(holdings []Holding, state SortState) {
	if state.Column == SortNone {
		return
	}

	asc := state.Direction == "asc"

	sort.SliceStable(holdings, func(i, j int) bool {
		a, b := holdings[i], holdings[j]

		var less bool
		switch state.Column {
		case SortIndustry:
			if a.Industry == b.Industry {
				return false
			}
			less = a.Industry < b.Industry
		case SortRate:
			if a.Rate == b.Rate {
				return false
			}
			less = a.Rate < b.Rate
		case SortValuation, SortWeight:
			va, vb := a.Valuation(), b.Valuation()
			if va == vb {
				return false
			}
			less = va < vb
		default:
			return false
		}

		if asc {
			return less
		}
		return !less
	})
}

// TotalValuation sums valuations over the entire collection
func TotalValuation(holdings []Holding) float64 {
	if len(holdings) == 0 {
		return 0
	}
	valuations := make([]float64, len(holdings))
	for i, h := range holdings {
		valuations[i] = h.Valuation()
	}
	return floats.Sum(valuations)
}

// Project derives the render-ready view from an already-sorted collection.
// The filter only selects which rows appear; it never reorders them, and
// the total (and therefore every weight) is computed over the whole
// collection so a filtered tab still shows portfolio-wide percentages.
func Project(holdings []Holding, filter string, sortState SortState) View {
	total := TotalValuation(holdings)

	rows := []Row{}
	for _, h := range holdings {
		if filter != FilterAll && h.Industry != filter {
			continue
		}

		valuation := h.Valuation()
		weight := 0.0
		if total > 0 {
			weight = valuation / total
		}

		rows = append(rows, Row{
			Ticker:     h.Ticker,
			Name:       h.Name,
			Industry:   h.Industry,
			Price:      h.Price,
			Rate:       h.Rate,
			Shares:     h.Shares,
			Valuation:  valuation,
			Weight:     weight,
			PriceStyle: styleForRate(h.Rate),
		})
	}

	return View{
		Rows:           rows,
		TotalValuation: total,
		Sort:           sortState,
		Filter:         filter,
	}
}

func styleForRate(rate float64) PriceStyle {
	switch {
	case rate > 0:
		return PriceUp
	case rate < 0:
		return PriceDown
	default:
		return PriceEven
	}
}
