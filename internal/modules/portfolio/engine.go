package portfolio

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/stockfolio/internal/domain"
	"github.com/stockfolio/internal/events"
)

// QuoteFetcher resolves a search term or ticker to a current quote
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, term string) (domain.Quote, error)
}

// Engine owns the holdings collection and the sort/filter state. All
// mutation goes through its methods; the UI layer only ever sees the
// projected View. A single mutex serializes the read-modify-persist
// sections, so two adds racing through their quote fetches cannot drop
// one another's write.
type Engine struct {
	store  Store
	quotes QuoteFetcher
	events *events.Manager
	log    zerolog.Logger

	mu         sync.Mutex
	holdings   []Holding
	sortState  SortState
	filter     string
	refreshing atomic.Bool
}

// NewEngine creates a portfolio engine with default sort and filter state
func NewEngine(store Store, quotes QuoteFetcher, eventMgr *events.Manager, log zerolog.Logger) *Engine {
	return &Engine{
		store:     store,
		quotes:    quotes,
		events:    eventMgr,
		log:       log.With().Str("module", "portfolio").Logger(),
		holdings:  []Holding{},
		sortState: DefaultSortState(),
		filter:    FilterAll,
	}
}

// Load reads the persisted collection into memory and reports whether any
// holdings were found. A store with nothing saved yet is an empty
// portfolio, not an error.
func (e *Engine) Load(ctx context.Context) (bool, error) {
	holdings, err := e.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load holdings: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.holdings = holdings
	Sort(e.holdings, e.sortState)

	e.log.Info().Int("count", len(holdings)).Msg("Portfolio loaded")
	return len(holdings) > 0, nil
}

// Add resolves term through the market data client and appends a new
// holding with the fetched market fields plus the given user fields.
// Validation failures and fetch failures leave the collection untouched.
func (e *Engine) Add(ctx context.Context, term, industry string, shares int) (View, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return e.View(), fmt.Errorf("%w: search term is empty", domain.ErrInvalidInput)
	}
	if shares < 1 {
		return e.View(), fmt.Errorf("%w: shares must be at least 1, got %d", domain.ErrInvalidInput, shares)
	}
	if !ValidIndustry(industry) {
		return e.View(), fmt.Errorf("%w: unknown industry %q", domain.ErrInvalidInput, industry)
	}

	// Suspension point: no lock held during the fetch
	quote, err := e.quotes.FetchQuote(ctx, term)
	if err != nil {
		return e.View(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, h := range e.holdings {
		if h.Ticker == quote.Ticker {
			return e.projectLocked(), fmt.Errorf("%w: %s", domain.ErrDuplicateHolding, quote.Ticker)
		}
	}

	e.holdings = append(e.holdings, Holding{
		Ticker:   quote.Ticker,
		Name:     quote.Name,
		Industry: industry,
		Shares:   shares,
		Price:    quote.Price,
		Rate:     quote.Rate,
	})
	Sort(e.holdings, e.sortState)

	e.events.Emit(events.HoldingAdded, "portfolio", map[string]interface{}{
		"ticker": quote.Ticker,
		"shares": shares,
	})

	if err := e.persistLocked(ctx); err != nil {
		// The in-memory addition stands; the caller sees the persistence
		// failure and the next successful mutation writes it through.
		return e.projectLocked(), err
	}

	return e.projectLocked(), nil
}

// Remove deletes the holding with the given ticker. Removing an absent
// ticker is a no-op, not an error.
func (e *Engine) Remove(ctx context.Context, ticker string) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.holdings[:0]
	removed := false
	for _, h := range e.holdings {
		if h.Ticker == ticker {
			removed = true
			continue
		}
		kept = append(kept, h)
	}
	e.holdings = kept

	if !removed {
		return e.projectLocked(), nil
	}

	e.events.Emit(events.HoldingRemoved, "portfolio", map[string]interface{}{
		"ticker": ticker,
	})

	if err := e.persistLocked(ctx); err != nil {
		return e.projectLocked(), err
	}

	return e.projectLocked(), nil
}

// UpdateShares sets the share count for a ticker. A count below 1 is a
// user-correctable input mistake, not a hard error: the collection keeps
// its prior value and the returned reverted flag tells the caller to roll
// back any optimistic UI edit.
func (e *Engine) UpdateShares(ctx context.Context, ticker string, shares int) (View, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, h := range e.holdings {
		if h.Ticker == ticker {
			idx = i
			break
		}
	}
	if idx < 0 {
		return e.projectLocked(), false, nil
	}

	if shares < 1 {
		return e.projectLocked(), true, nil
	}

	e.holdings[idx].Shares = shares
	Sort(e.holdings, e.sortState)

	e.events.Emit(events.SharesUpdated, "portfolio", map[string]interface{}{
		"ticker": ticker,
		"shares": shares,
	})

	if err := e.persistLocked(ctx); err != nil {
		return e.projectLocked(), false, err
	}

	return e.projectLocked(), false, nil
}

// refreshResult pairs a ticker with the outcome of its quote fetch
type refreshResult struct {
	ticker string
	quote  domain.Quote
	err    error
}

// RefreshAll re-fetches market data for every holding concurrently and
// merges the outcomes: name, price and rate are overwritten per successful
// ticker, industry and shares are never touched, and a failed ticker keeps
// all of its prior values. The collection is persisted exactly once, after
// every outcome has been observed. Only one refresh runs at a time; the
// timer must skip, not restart, an in-flight one.
func (e *Engine) RefreshAll(ctx context.Context) (View, error) {
	if !e.refreshing.CompareAndSwap(false, true) {
		return e.View(), domain.ErrRefreshInProgress
	}
	defer e.refreshing.Store(false)

	e.mu.Lock()
	tickers := make([]string, len(e.holdings))
	for i, h := range e.holdings {
		tickers[i] = h.Ticker
	}
	e.mu.Unlock()

	if len(tickers) == 0 {
		return e.View(), nil
	}

	e.events.Emit(events.RefreshStarted, "portfolio", map[string]interface{}{
		"count": len(tickers),
	})

	// Fire all fetches, then wait for every outcome. Completion order is
	// irrelevant: the merge below is keyed by ticker.
	results := make([]refreshResult, len(tickers))
	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			quote, err := e.quotes.FetchQuote(ctx, ticker)
			results[i] = refreshResult{ticker: ticker, quote: quote, err: err}
		}(i, ticker)
	}
	wg.Wait()

	updated := 0
	failed := 0

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, res := range results {
		if res.err != nil {
			failed++
			e.log.Warn().Err(res.err).Str("ticker", res.ticker).Msg("Refresh failed for ticker, keeping prior values")
			continue
		}
		for i := range e.holdings {
			if e.holdings[i].Ticker != res.ticker {
				continue
			}
			e.holdings[i].Name = res.quote.Name
			e.holdings[i].Price = res.quote.Price
			e.holdings[i].Rate = res.quote.Rate
			updated++
			break
		}
	}
	Sort(e.holdings, e.sortState)

	e.events.Emit(events.RefreshCompleted, "portfolio", map[string]interface{}{
		"updated": updated,
		"failed":  failed,
	})

	if err := e.persistLocked(ctx); err != nil {
		return e.projectLocked(), err
	}

	e.log.Info().Int("updated", updated).Int("failed", failed).Msg("Portfolio refreshed")
	return e.projectLocked(), nil
}

// SetSort selects the sort column. Selecting the active column flips the
// direction; selecting a new one starts descending. Pure state change, no
// network or persistence activity.
func (e *Engine) SetSort(column SortColumn) (View, error) {
	if !ValidSortColumn(column) {
		return e.View(), fmt.Errorf("%w: unknown sort column %q", domain.ErrInvalidInput, column)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sortState.Column == column {
		if e.sortState.Direction == "asc" {
			e.sortState.Direction = "desc"
		} else {
			e.sortState.Direction = "asc"
		}
	} else {
		e.sortState = SortState{Column: column, Direction: "desc"}
	}

	Sort(e.holdings, e.sortState)
	return e.projectLocked(), nil
}

// SetFilter selects the industry tab. Display-only: the underlying sort
// order is untouched, so switching tabs never re-sorts.
func (e *Engine) SetFilter(industry string) (View, error) {
	if industry != FilterAll && !ValidIndustry(industry) {
		return e.View(), fmt.Errorf("%w: unknown industry filter %q", domain.ErrInvalidInput, industry)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.filter = industry
	return e.projectLocked(), nil
}

// View returns the current projection without touching network or store
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projectLocked()
}

// projectLocked derives the view. Caller must hold e.mu.
func (e *Engine) projectLocked() View {
	return Project(e.holdings, e.filter, e.sortState)
}

// persistLocked writes the full collection through the store. Caller must
// hold e.mu. A failed write is surfaced but the in-memory state is kept
// as-is; there is no rollback.
func (e *Engine) persistLocked(ctx context.Context) error {
	if err := e.store.Save(ctx, e.holdings); err != nil {
		e.events.Emit(events.ErrorOccurred, "portfolio", map[string]interface{}{
			"operation": "save",
			"error":     err.Error(),
		})
		return fmt.Errorf("failed to save holdings: %w", err)
	}
	return nil
}
