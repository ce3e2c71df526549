package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the kind of change the event describes
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeRecorded EventType = "recorded"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeLoan    EntityType = "loan"
	EntityTypePayment EntityType = "payment"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "loan.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "loan"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LoanCreated creates a loan.created event
func LoanCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeLoan, payload)
}

// PaymentRecorded creates a payment.recorded event
func PaymentRecorded(payload interface{}) Event {
	return NewEvent(EventTypeRecorded, EntityTypePayment, payload)
}
