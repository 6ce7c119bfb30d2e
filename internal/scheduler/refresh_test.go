package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfolio/internal/domain"
	"github.com/stockfolio/internal/events"
	"github.com/stockfolio/internal/modules/portfolio"
)

type stubStore struct {
	mu       sync.Mutex
	holdings []portfolio.Holding
	saves    int
}

func (s *stubStore) Load(ctx context.Context) ([]portfolio.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]portfolio.Holding, len(s.holdings))
	copy(out, s.holdings)
	return out, nil
}

func (s *stubStore) Save(ctx context.Context, holdings []portfolio.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.holdings = holdings
	return nil
}

func (s *stubStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type stubQuotes struct {
	quote   domain.Quote
	block   chan struct{} // when set, fetches wait on it
	started chan struct{} // closed once on first fetch, when set
	once    sync.Once
}

func (q *stubQuotes) FetchQuote(ctx context.Context, term string) (domain.Quote, error) {
	if q.started != nil {
		q.once.Do(func() { close(q.started) })
	}
	if q.block != nil {
		<-q.block
	}
	return q.quote, nil
}

func newEngine(store *stubStore, quotes *stubQuotes) *portfolio.Engine {
	return portfolio.NewEngine(store, quotes, events.NewManager(zerolog.Nop()), zerolog.Nop())
}

func TestRefreshJob_Run(t *testing.T) {
	store := &stubStore{holdings: []portfolio.Holding{
		{Ticker: "005930", Name: "삼성전자", Industry: "반도체", Shares: 10, Price: 69000, Rate: 0.3},
	}}
	quotes := &stubQuotes{quote: domain.Quote{Ticker: "005930", Name: "삼성전자", Price: 70000, Rate: 1.2}}
	engine := newEngine(store, quotes)

	_, err := engine.Load(context.Background())
	require.NoError(t, err)

	job := NewRefreshJob(engine, time.Minute, zerolog.Nop())
	assert.Equal(t, "portfolio_refresh", job.Name())

	require.NoError(t, job.Run())

	// Refresh merged and persisted once
	assert.Equal(t, 1, store.saveCount())
	view := engine.View()
	require.Len(t, view.Rows, 1)
	assert.Equal(t, 70000.0, view.Rows[0].Price)
	assert.Equal(t, 10, view.Rows[0].Shares)
}

func TestRunNow_ExecutesRefreshImmediately(t *testing.T) {
	store := &stubStore{holdings: []portfolio.Holding{
		{Ticker: "005930", Name: "삼성전자", Industry: "반도체", Shares: 10, Price: 69000, Rate: 0.3},
	}}
	quotes := &stubQuotes{quote: domain.Quote{Ticker: "005930", Name: "삼성전자", Price: 70000, Rate: 1.2}}
	engine := newEngine(store, quotes)

	_, err := engine.Load(context.Background())
	require.NoError(t, err)

	sched := New(zerolog.Nop())
	job := NewRefreshJob(engine, time.Minute, zerolog.Nop())

	// Runs outside any registered schedule
	require.NoError(t, sched.RunNow(job))

	assert.Equal(t, 1, store.saveCount())
	view := engine.View()
	require.Len(t, view.Rows, 1)
	assert.Equal(t, 70000.0, view.Rows[0].Price)
}

func TestRefreshJob_SkipsWhenRefreshInFlight(t *testing.T) {
	store := &stubStore{holdings: []portfolio.Holding{
		{Ticker: "005930", Name: "삼성전자", Industry: "반도체", Shares: 10, Price: 69000, Rate: 0.3},
	}}
	started := make(chan struct{})
	block := make(chan struct{})
	quotes := &stubQuotes{
		quote:   domain.Quote{Ticker: "005930", Name: "삼성전자", Price: 70000, Rate: 1.2},
		block:   block,
		started: started,
	}
	engine := newEngine(store, quotes)

	_, err := engine.Load(context.Background())
	require.NoError(t, err)

	job := NewRefreshJob(engine, time.Minute, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- job.Run() }()

	// Second tick while the first is mid-fetch: skipped, not an error
	<-started
	require.NoError(t, job.Run())

	close(block)
	require.NoError(t, <-done)
}
