package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by a ledger change message.
const (
	ActionSaved    = "saved"
	ActionDeleted  = "deleted"
	ActionImported = "imported"
	ActionRate     = "rate_updated"
)

// LedgerChangedMessage announces that the ledger changed. It carries only the
// entry ID and the action; consumers fetch current state from the store, so a
// lost or reordered message at worst delays a recompute.
type LedgerChangedMessage struct {
	EntryID   string    `json:"entryId,omitempty"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage creates a change message stamped with the current time.
func NewLedgerChangedMessage(entryID, action string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		EntryID:   entryID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
