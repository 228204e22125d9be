package event

import (
	"testing"
	"time"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{
			name:      "valid - submission resolved",
			eventType: TypeSubmissionResolved,
			want:      true,
		},
		{
			name:      "valid - submission failed",
			eventType: TypeSubmissionFailed,
			want:      true,
		},
		{
			name:      "valid - submission discarded",
			eventType: TypeSubmissionDiscarded,
			want:      true,
		},
		{
			name:      "valid - session expired",
			eventType: TypeSessionExpired,
			want:      true,
		},
		{
			name:      "invalid - unknown type",
			eventType: Type("unknown.type"),
			want:      false,
		},
		{
			name:      "invalid - empty string",
			eventType: Type(""),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		KeyEmployeeName: "Alice Smith",
		KeyCycle:        uint64(3),
	}

	event := NewEvent(TypeSubmissionResolved, "session-1", payload)

	if event == nil {
		t.Fatal("NewEvent() returned nil")
	}

	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}

	if event.Type != TypeSubmissionResolved {
		t.Errorf("Event Type = %v, want %v", event.Type, TypeSubmissionResolved)
	}

	if event.SessionID != "session-1" {
		t.Errorf("Event SessionID = %v, want %v", event.SessionID, "session-1")
	}

	if event.GetPayloadString(KeyEmployeeName) != "Alice Smith" {
		t.Errorf("Event Payload[%s] = %v, want %v", KeyEmployeeName, event.Payload[KeyEmployeeName], "Alice Smith")
	}

	if event.GetPayloadInt(KeyCycle) != 3 {
		t.Errorf("Event Payload[%s] = %v, want 3", KeyCycle, event.Payload[KeyCycle])
	}

	if event.CorrelationID == "" || event.CorrelationID == event.ID {
		t.Error("Event CorrelationID should be set and distinct from ID")
	}

	if time.Since(event.Timestamp) > time.Second {
		t.Error("Event Timestamp should be recent")
	}
}

func TestEvent_WithPayload(t *testing.T) {
	original := NewEventWithCorrelation(TypeSubmissionFailed, "session-1", map[string]interface{}{
		KeyError: "Failed to submit reimbursement request",
	}, "corr-1")

	modified := original.WithPayload(KeyReason, "timeout")

	if _, exists := original.Payload[KeyReason]; exists {
		t.Error("Original event should not be modified")
	}

	if modified.GetPayloadString(KeyError) != "Failed to submit reimbursement request" {
		t.Error("Modified event should retain original payload")
	}

	if modified.GetPayloadString(KeyReason) != "timeout" {
		t.Error("Modified event should have new payload")
	}

	if modified.ID != original.ID || modified.CorrelationID != "corr-1" || modified.SessionID != "session-1" {
		t.Error("Modified event should keep identity fields")
	}
}

func TestEvent_Get(t *testing.T) {
	event := NewEvent(TypeSubmissionResolved, "s", map[string]interface{}{
		KeyOutcome: struct{ Status string }{"approved"},
	})

	if _, ok := event.Get(KeyOutcome); !ok {
		t.Error("Get() should find the outcome")
	}

	if _, ok := event.Get(KeyFileName); ok {
		t.Error("Get() should report missing keys")
	}

	if got := event.GetPayloadString(KeyOutcome); got != "" {
		t.Errorf("GetPayloadString() on non-string = %q, want empty", got)
	}
}

func TestEvent_UniqueIDs(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		event := NewEvent(TypeSubmissionDiscarded, "s", nil)
		if ids[event.ID] {
			t.Errorf("Duplicate event ID found: %s", event.ID)
		}
		ids[event.ID] = true
	}
}
