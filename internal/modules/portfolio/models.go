package portfolio

// Holding is one tracked position. Industry and Shares belong to the user
// and survive market refreshes; Name, Price and Rate belong to the market
// and are overwritten on every successful refresh.
type Holding struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Industry string  `json:"industry"`
	Shares   int     `json:"shares"`
	Price    float64 `json:"price"`
	Rate     float64 `json:"rate"`
}

// Valuation is the current market value of the position
func (h Holding) Valuation() float64 {
	return h.Price * float64(h.Shares)
}

// FilterAll is the sentinel industry tab meaning "no filter"
const FilterAll = "전체"

// Industries a holding can be tagged with, matching the UI tabs
var Industries = []string{"반도체", "자동차", "2차전지", "바이오", "IT", "금융", "기타"}

// ValidIndustry reports whether tag is an assignable industry.
// The filter sentinel is not assignable to a holding.
func ValidIndustry(tag string) bool {
	for _, ind := range Industries {
		if ind == tag {
			return true
		}
	}
	return false
}

// SortColumn identifies the active sort key
type SortColumn string

const (
	SortNone      SortColumn = ""
	SortIndustry  SortColumn = "industry"
	SortRate      SortColumn = "rate"
	SortValuation SortColumn = "valuation"
	SortWeight    SortColumn = "weight" // sorts identically to valuation
)

// ValidSortColumn reports whether col names a sortable column
func ValidSortColumn(col SortColumn) bool {
	switch col {
	case SortIndustry, SortRate, SortValuation, SortWeight:
		return true
	}
	return false
}

// SortState holds the active column and direction.
// Direction is "asc" or "desc".
type SortState struct {
	Column    SortColumn `json:"column"`
	Direction string     `json:"direction"`
}

// DefaultSortState is the initial sort: valuation, descending
func DefaultSortState() SortState {
	return SortState{Column: SortValuation, Direction: "desc"}
}

// PriceStyle classifies a rate for display coloring
type PriceStyle string

const (
	PriceUp   PriceStyle = "up"
	PriceDown PriceStyle = "down"
	PriceEven PriceStyle = "even"
)

// Row is one render-ready line of the portfolio table
type Row struct {
	Ticker     string     `json:"ticker"`
	Name       string     `json:"name"`
	Industry   string     `json:"industry"`
	Price      float64    `json:"price"`
	Rate       float64    `json:"rate"`
	Shares     int        `json:"shares"`
	Valuation  float64    `json:"valuation"`
	Weight     float64    `json:"weight"` // fraction of the whole portfolio, 0..1
	PriceStyle PriceStyle `json:"price_style"`
}

// View is the derived presentation of the collection: filtered rows in
// sort order plus the portfolio-wide total. TotalValuation always covers
// the entire collection, so weights stay portfolio-relative even when a
// single industry is displayed.
type View struct {
	Rows           []Row     `json:"rows"`
	TotalValuation float64   `json:"total_valuation"`
	Sort           SortState `json:"sort"`
	Filter         string    `json:"filter"`
}
