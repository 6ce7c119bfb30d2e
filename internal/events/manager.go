package events

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// EventType represents different event types
type EventType string

const (
	HoldingAdded     EventType = "HOLDING_ADDED"
	HoldingRemoved   EventType = "HOLDING_REMOVED"
	SharesUpdated    EventType = "SHARES_UPDATED"
	RefreshStarted   EventType = "REFRESH_STARTED"
	RefreshCompleted EventType = "REFRESH_COMPLETED"
	ErrorOccurred    EventType = "ERROR_OCCURRED"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}

// Manager handles event emission and logging
type Manager struct {
	log zerolog.Logger
}

// NewManager creates a new event manager
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		log: log.With().Str("component", "events").Logger(),
	}
}

// Emit records an event in the structured log
func (m *Manager) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	payload, err := json.Marshal(event.Data)
	if err != nil {
		payload = []byte("{}")
	}

	m.log.Info().
		Str("event", string(event.Type)).
		Str("module", event.Module).
		RawJSON("data", payload).
		Msg("Event emitted")
}
