package domain

// Quote is the current market snapshot for one instrument, as resolved by
// the market data API from a ticker or a free-form name search.
type Quote struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Rate   float64 `json:"rate"` // daily percent change, signed
}

// Series is the historical chart payload for one instrument. Dates, Prices
// and Volumes are parallel slices ordered oldest first.
type Series struct {
	Ticker       string    `json:"ticker"`
	Name         string    `json:"name"`
	CurrentPrice float64   `json:"current_price"`
	MarketCap    string    `json:"market_cap"` // pre-formatted by the upstream (조/억원)
	Dates        []string  `json:"dates"`
	Prices       []float64 `json:"prices"`
	Volumes      []float64 `json:"volumes"`
}
