package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event raised by a submission session
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	SessionID     string                 `json:"session_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// NewEvent creates a new domain event with auto-generated ID and timestamp
func NewEvent(eventType Type, sessionID string, payload map[string]interface{}) *Event {
	return NewEventWithCorrelation(eventType, sessionID, payload, uuid.NewString())
}

// NewEventWithCorrelation creates an event linked to a correlation chain
func NewEventWithCorrelation(eventType Type, sessionID string, payload map[string]interface{}, correlationID string) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		SessionID:     sessionID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: correlationID,
	}
}

// WithPayload returns a new Event with an added payload key-value pair (immutable operation)
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	return &Event{
		ID:            e.ID,
		Type:          e.Type,
		SessionID:     e.SessionID,
		Payload:       newPayload,
		Timestamp:     e.Timestamp,
		CorrelationID: e.CorrelationID,
	}
}

// Get returns the raw payload value for key
func (e *Event) Get(key string) (interface{}, bool) {
	val, ok := e.Payload[key]
	return val, ok
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadInt retrieves an int64 value from the payload
func (e *Event) GetPayloadInt(key string) int64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case uint64:
			return int64(v)
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}
