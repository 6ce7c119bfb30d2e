package charts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfolio/internal/domain"
)

// mockMarketClient serves canned quotes and series
type mockMarketClient struct {
	quote     domain.Quote
	quoteErr  error
	series    domain.Series
	seriesErr error
	lastDays  int
}

func (m *mockMarketClient) FetchQuote(ctx context.Context, term string) (domain.Quote, error) {
	if m.quoteErr != nil {
		return domain.Quote{}, m.quoteErr
	}
	return m.quote, nil
}

func (m *mockMarketClient) FetchSeries(ctx context.Context, term string, days int) (domain.Series, error) {
	m.lastDays = days
	if m.seriesErr != nil {
		return domain.Series{}, m.seriesErr
	}
	return m.series, nil
}

func newTestRouter(client MarketClient) *chi.Mux {
	r := chi.NewRouter()
	handler := NewHandler(client, zerolog.Nop())
	r.Route("/api/stocks", handler.RegisterRoutes)
	return r
}

func TestHandleGetQuote(t *testing.T) {
	client := &mockMarketClient{
		quote: domain.Quote{Ticker: "005930", Name: "삼성전자", Price: 70000, Rate: 1.2},
	}
	router := newTestRouter(client)

	req := httptest.NewRequest("GET", "/api/stocks/005930", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var quote domain.Quote
	require.NoError(t, json.NewDecoder(w.Body).Decode(&quote))
	assert.Equal(t, "005930", quote.Ticker)
	assert.Equal(t, 70000.0, quote.Price)
}

func TestHandleGetQuote_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: fmt.Errorf("%w: XYZ", domain.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "unavailable", err: fmt.Errorf("%w: refused", domain.ErrUnavailable), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockMarketClient{quoteErr: tt.err})

			req := httptest.NewRequest("GET", "/api/stocks/XYZ", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleGetDetails(t *testing.T) {
	client := &mockMarketClient{
		series: domain.Series{
			Ticker:       "005930",
			Name:         "삼성전자",
			CurrentPrice: 70500,
			MarketCap:    "420조원",
			Dates:        []string{"2025-01-02", "2025-01-03"},
			Prices:       []float64{70000, 70500},
			Volumes:      []float64{100, 200},
		},
	}
	router := newTestRouter(client)

	req := httptest.NewRequest("GET", "/api/stocks/005930/details?days=90", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 90, client.lastDays)

	var proj Projection
	require.NoError(t, json.NewDecoder(w.Body).Decode(&proj))
	assert.Equal(t, "005930", proj.Ticker)
	assert.Equal(t, "420조원", proj.MarketCap)
	assert.InDelta(t, 200*(1600.0/250.0), proj.VolumeAxisMax, 1e-6)
}

func TestHandleGetDetails_DefaultDays(t *testing.T) {
	client := &mockMarketClient{}
	router := newTestRouter(client)

	req := httptest.NewRequest("GET", "/api/stocks/005930/details", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 60, client.lastDays)
}

func TestHandleGetDetails_BadDays(t *testing.T) {
	router := newTestRouter(&mockMarketClient{})

	req := httptest.NewRequest("GET", "/api/stocks/005930/details?days=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetDetails_DurationTooShort(t *testing.T) {
	client := &mockMarketClient{
		seriesErr: fmt.Errorf("%w: duration must be at least 60 days", domain.ErrInvalidInput),
	}
	router := newTestRouter(client)

	req := httptest.NewRequest("GET", "/api/stocks/005930/details?days=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
