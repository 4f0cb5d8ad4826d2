package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerChangedMessage(t *testing.T) {
	msg := NewLedgerChangedMessage("e1", ActionSaved)

	if msg.EntryID != "e1" {
		t.Errorf("EntryID = %q, want %q", msg.EntryID, "e1")
	}
	if msg.Action != ActionSaved {
		t.Errorf("Action = %q, want %q", msg.Action, ActionSaved)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestLedgerChangedMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &LedgerChangedMessage{
		EntryID:   "abc-123",
		Action:    ActionDeleted,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := LedgerChangedMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("LedgerChangedMessageFromJSON() error = %v", err)
	}

	if parsed.EntryID != msg.EntryID {
		t.Errorf("Parsed EntryID = %v, want %v", parsed.EntryID, msg.EntryID)
	}
	if parsed.Action != msg.Action {
		t.Errorf("Parsed Action = %v, want %v", parsed.Action, msg.Action)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestLedgerChangedMessage_OmitsEmptyEntryID(t *testing.T) {
	msg := NewLedgerChangedMessage("", ActionImported)
	b, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if string(b) == "" {
		t.Fatal("ToJSON() returned empty body")
	}
	for i := 0; i+len(`"entryId"`) <= len(b); i++ {
		if string(b[i:i+len(`"entryId"`)]) == `"entryId"` {
			t.Fatalf("entryId should be omitted when empty: %s", b)
		}
	}
}

func TestLedgerChangedMessage_InvalidJSON(t *testing.T) {
	if _, err := LedgerChangedMessageFromJSON([]byte(`{"action": 5`)); err == nil {
		t.Error("LedgerChangedMessageFromJSON() should fail with invalid JSON")
	}
}
