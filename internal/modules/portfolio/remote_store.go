package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockfolio/internal/domain"
)

// RemoteStore persists holdings through the portfolio backend:
// GET /api/portfolio returns the full ordered sequence, POST replaces it
// (last writer wins, no merge at the transport layer).
type RemoteStore struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewRemoteStore creates a new backend-backed holdings store
func NewRemoteStore(baseURL string, timeout time.Duration, log zerolog.Logger) *RemoteStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteStore{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("store", "remote").Logger(),
	}
}

// Load fetches the stored sequence from the backend.
// A 404 or an empty body means no portfolio has been saved yet.
func (s *RemoteStore) Load(ctx context.Context) ([]Holding, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/portfolio", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []Holding{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: backend returned status %d", domain.ErrPersistence, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrPersistence, err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return []Holding{}, nil
	}

	var holdings []Holding
	if err := json.Unmarshal(body, &holdings); err != nil {
		return nil, fmt.Errorf("%w: failed to parse portfolio: %v", domain.ErrPersistence, err)
	}

	if holdings == nil {
		holdings = []Holding{}
	}

	return holdings, nil
}

// Save posts the full sequence to the backend, replacing server-side state
func (s *RemoteStore) Save(ctx context.Context, holdings []Holding) error {
	payload, err := json.Marshal(holdings)
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/portfolio", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: backend returned status %d", domain.ErrPersistence, resp.StatusCode)
	}

	s.log.Debug().Int("count", len(holdings)).Msg("Holdings saved")
	return nil
}
