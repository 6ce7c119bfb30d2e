package portfolio

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/stockfolio/internal/domain"
)

// Handler exposes the portfolio engine over HTTP. The UI is a thin
// subscriber: every mutating endpoint returns the freshly projected view.
type Handler struct {
	engine *Engine
	log    zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(engine *Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "portfolio").Logger(),
	}
}

// RegisterRoutes mounts the portfolio endpoints on the given router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetView)
	r.Post("/holdings", h.HandleAddHolding)
	r.Delete("/holdings/{ticker}", h.HandleRemoveHolding)
	r.Put("/holdings/{ticker}/shares", h.HandleUpdateShares)
	r.Post("/refresh", h.HandleRefresh)
	r.Put("/sort", h.HandleSetSort)
	r.Put("/filter", h.HandleSetFilter)
}

// HandleGetView returns the current sorted, filtered view
func (h *Handler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.engine.View())
}

// addRequest is the add-holding payload
type addRequest struct {
	Term     string `json:"term"`
	Industry string `json:"industry"`
	Shares   int    `json:"shares"`
}

// HandleAddHolding resolves a term and appends a new holding
func (h *Handler) HandleAddHolding(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.engine.Add(r.Context(), req.Term, req.Industry, req.Shares)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, view)
}

// HandleRemoveHolding removes a holding; removing an absent ticker is
// idempotent and still returns the current view
func (h *Handler) HandleRemoveHolding(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	view, err := h.engine.Remove(r.Context(), ticker)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// sharesRequest is the update-shares payload
type sharesRequest struct {
	Shares int `json:"shares"`
}

// sharesResponse wraps the view with the revert signal for optimistic UIs
type sharesResponse struct {
	View     View `json:"view"`
	Reverted bool `json:"reverted"`
}

// HandleUpdateShares sets the share count for a ticker. An invalid count
// is not an error: the response carries reverted=true and the unchanged
// view so the UI can roll back its edit.
func (h *Handler) HandleUpdateShares(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	var req sharesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Non-numeric input is the same user-correctable mistake as a
		// non-positive count: signal a revert, not a hard failure.
		h.writeJSON(w, http.StatusOK, sharesResponse{View: h.engine.View(), Reverted: true})
		return
	}

	view, reverted, err := h.engine.UpdateShares(r.Context(), ticker, req.Shares)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, sharesResponse{View: view, Reverted: reverted})
}

// HandleRefresh triggers a full market data refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.RefreshAll(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// sortRequest is the set-sort payload
type sortRequest struct {
	Column string `json:"column"`
}

// HandleSetSort selects the sort column, flipping direction on repeat
func (h *Handler) HandleSetSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.engine.SetSort(SortColumn(req.Column))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// filterRequest is the set-filter payload
type filterRequest struct {
	Industry string `json:"industry"`
}

// HandleSetFilter selects the industry tab
func (h *Handler) HandleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.engine.SetFilter(req.Industry)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// writeDomainError maps the shared failure taxonomy to HTTP status codes
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateHolding),
		errors.Is(err, domain.ErrRefreshInProgress):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		h.writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrPersistence):
		h.writeError(w, http.StatusInternalServerError, err.Error())
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
