package charts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/stockfolio/internal/clients/marketdata"
	"github.com/stockfolio/internal/domain"
)

// MarketClient is the slice of the market data API the chart pages need
type MarketClient interface {
	FetchQuote(ctx context.Context, term string) (domain.Quote, error)
	FetchSeries(ctx context.Context, term string, days int) (domain.Series, error)
}

// Handler serves the stock lookup and detail chart endpoints
type Handler struct {
	client MarketClient
	log    zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(client MarketClient, log zerolog.Logger) *Handler {
	return &Handler{
		client: client,
		log:    log.With().Str("handler", "charts").Logger(),
	}
}

// RegisterRoutes mounts the stock endpoints on the given router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/{term}", h.HandleGetQuote)
	r.Get("/{term}/details", h.HandleGetDetails)
}

// HandleGetQuote resolves a search term to a current quote
func (h *Handler) HandleGetQuote(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")

	quote, err := h.client.FetchQuote(r.Context(), term)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, quote)
}

// HandleGetDetails serves the chart projection for a term.
// Durations below the minimum are rejected before any upstream call.
func (h *Handler) HandleGetDetails(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")

	days := marketdata.MinChartDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}

	series, err := h.client.FetchSeries(r.Context(), term, days)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ProjectSeries(series))
}

// writeDomainError maps the shared failure taxonomy to HTTP status codes
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		h.writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
