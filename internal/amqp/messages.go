package amqp

import (
	"encoding/json"
	"time"
)

// Entity and action values carried by entry events.
const (
	EntityEarning = "earning"
	EntityExpense = "expense"

	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// EntryEventMessage signals that a financial entry changed. It carries
// only the entity and ID; the worker reloads whatever it needs from the
// database before recomputing target progress.
type EntryEventMessage struct {
	Entity    string    `json:"entity"`
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntryEventMessage creates an entry event stamped with the current time.
func NewEntryEventMessage(entity string, id int64, action string) *EntryEventMessage {
	return &EntryEventMessage{
		Entity:    entity,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventMessageFromJSON creates a message from JSON bytes
func EntryEventMessageFromJSON(data []byte) (*EntryEventMessage, error) {
	var msg EntryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
