package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort(t *testing.T) {
	base := []Holding{
		{Ticker: "A", Industry: "바이오", Shares: 2, Price: 100, Rate: 1.5}, // valuation 200
		{Ticker: "B", Industry: "금융", Shares: 1, Price: 50, Rate: -2.0},  // valuation 50
		{Ticker: "C", Industry: "반도체", Shares: 100, Price: 10, Rate: 0},  // valuation 1000
	}

	tests := []struct {
		name  string
		state SortState
		want  []string
	}{
		{
			name:  "valuation descending",
			state: SortState{Column: SortValuation, Direction: "desc"},
			want:  []string{"C", "A", "B"},
		},
		{
			name:  "valuation ascending",
			state: SortState{Column: SortValuation, Direction: "asc"},
			want:  []string{"B", "A", "C"},
		},
		{
			name:  "weight equals valuation",
			state: SortState{Column: SortWeight, Direction: "desc"},
			want:  []string{"C", "A", "B"},
		},
		{
			name:  "rate descending",
			state: SortState{Column: SortRate, Direction: "desc"},
			want:  []string{"A", "C", "B"},
		},
		{
			name:  "industry ascending is lexicographic",
			state: SortState{Column: SortIndustry, Direction: "asc"},
			want:  []string{"B", "C", "A"},
		},
		{
			name:  "no column keeps insertion order",
			state: SortState{Column: SortNone, Direction: "desc"},
			want:  []string{"A", "B", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holdings := make([]Holding, len(base))
			copy(holdings, base)

			Sort(holdings, tt.state)

			tickers := make([]string, len(holdings))
			for i, h := range holdings {
				tickers[i] = h.Ticker
			}
			assert.Equal(t, tt.want, tickers)
		})
	}
}

func TestSort_TiesKeepRelativeOrder(t *testing.T) {
	holdings := []Holding{
		{Ticker: "A", Industry: "IT", Shares: 1, Price: 100},
		{Ticker: "B", Industry: "IT", Shares: 2, Price: 50},  // same valuation as A
		{Ticker: "C", Industry: "IT", Shares: 4, Price: 25},  // same valuation again
		{Ticker: "D", Industry: "IT", Shares: 1, Price: 500},
	}

	Sort(holdings, SortState{Column: SortValuation, Direction: "desc"})

	assert.Equal(t, "D", holdings[0].Ticker)
	// The tied group keeps its insertion order
	assert.Equal(t, "A", holdings[1].Ticker)
	assert.Equal(t, "B", holdings[2].Ticker)
	assert.Equal(t, "C", holdings[3].Ticker)
}

func TestProject_Weights(t *testing.T) {
	holdings := []Holding{
		{Ticker: "A", Industry: "반도체", Shares: 3, Price: 100, Rate: 0.5},  // 300
		{Ticker: "B", Industry: "자동차", Shares: 1, Price: 700, Rate: -1.0}, // 700
	}

	view := Project(holdings, FilterAll, DefaultSortState())

	require.Len(t, view.Rows, 2)
	assert.Equal(t, 1000.0, view.TotalValuation)
	assert.InDelta(t, 0.3, view.Rows[0].Weight, 1e-9)
	assert.InDelta(t, 0.7, view.Rows[1].Weight, 1e-9)
}

func TestProject_ZeroTotalHasZeroWeights(t *testing.T) {
	holdings := []Holding{
		{Ticker: "A", Industry: "반도체", Shares: 1, Price: 0},
	}

	view := Project(holdings, FilterAll, DefaultSortState())

	require.Len(t, view.Rows, 1)
	assert.Equal(t, 0.0, view.TotalValuation)
	assert.Equal(t, 0.0, view.Rows[0].Weight)
}

func TestProject_PriceStyle(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want PriceStyle
	}{
		{name: "positive rate", rate: 1.25, want: PriceUp},
		{name: "negative rate", rate: -0.01, want: PriceDown},
		{name: "zero rate", rate: 0, want: PriceEven},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Project([]Holding{
				{Ticker: "A", Industry: "IT", Shares: 1, Price: 100, Rate: tt.rate},
			}, FilterAll, DefaultSortState())

			require.Len(t, view.Rows, 1)
			assert.Equal(t, tt.want, view.Rows[0].PriceStyle)
		})
	}
}

func TestProject_FilterKeepsOrderAndTotal(t *testing.T) {
	holdings := []Holding{
		{Ticker: "A", Industry: "반도체", Shares: 1, Price: 500},
		{Ticker: "B", Industry: "자동차", Shares: 1, Price: 400},
		{Ticker: "C", Industry: "반도체", Shares: 1, Price: 300},
		{Ticker: "D", Industry: "바이오", Shares: 1, Price: 200},
		{Ticker: "E", Industry: "금융", Shares: 1, Price: 100},
	}

	view := Project(holdings, "반도체", DefaultSortState())

	require.Len(t, view.Rows, 2)
	assert.Equal(t, "A", view.Rows[0].Ticker)
	assert.Equal(t, "C", view.Rows[1].Ticker)
	assert.Equal(t, 1500.0, view.TotalValuation)
	assert.Equal(t, "반도체", view.Filter)
}

func TestProject_EmptyCollection(t *testing.T) {
	view := Project(nil, FilterAll, DefaultSortState())

	assert.NotNil(t, view.Rows)
	assert.Empty(t, view.Rows)
	assert.Equal(t, 0.0, view.TotalValuation)
}

func TestValidIndustry(t *testing.T) {
	assert.True(t, ValidIndustry("반도체"))
	assert.True(t, ValidIndustry("기타"))
	assert.False(t, ValidIndustry(FilterAll))
	assert.False(t, ValidIndustry(""))
	assert.False(t, ValidIndustry("semiconductor"))
}
