package amqp

import (
	"testing"
	"time"
)

func TestNewExpenseEvent(t *testing.T) {
	before := time.Now()
	event := NewExpenseEvent(42, 7, ActionCreated)

	if event.ExpenseID != 42 || event.OwnerID != 7 {
		t.Fatalf("unexpected identifiers: %+v", event)
	}
	if event.Action != ActionCreated {
		t.Fatalf("unexpected action: %q", event.Action)
	}
	if event.OccurredAt.Before(before) || event.OccurredAt.After(time.Now()) {
		t.Fatalf("OccurredAt not stamped with current time: %v", event.OccurredAt)
	}
}

func TestExpenseEventJSONRoundTrip(t *testing.T) {
	event := NewExpenseEvent(42, 7, ActionDeleted)

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := ExpenseEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ExpenseID != event.ExpenseID || decoded.OwnerID != event.OwnerID || decoded.Action != event.Action {
		t.Fatalf("round trip lost data: %+v", decoded)
	}
}

func TestExpenseEventFromJSONRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"invalid json", `{not json`},
		{"unknown action", `{"expenseId":1,"ownerId":2,"action":"exploded"}`},
		{"missing action", `{"expenseId":1,"ownerId":2}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ExpenseEventFromJSON([]byte(tc.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
