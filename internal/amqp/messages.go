package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Actions carried by an ExpenseEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEvent is the lightweight message published on every expense write.
// It carries identifiers only; consumers fetch whatever detail they need.
type ExpenseEvent struct {
	ExpenseID  int64     `json:"expenseId"`
	OwnerID    int64     `json:"ownerId"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewExpenseEvent builds an event stamped with the current time.
func NewExpenseEvent(expenseID, ownerID int64, action string) *ExpenseEvent {
	return &ExpenseEvent{
		ExpenseID:  expenseID,
		OwnerID:    ownerID,
		Action:     action,
		OccurredAt: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON decodes an event, rejecting payloads without a known
// action so malformed messages can be dropped instead of requeued.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return nil, fmt.Errorf("unknown expense event action %q", e.Action)
	}
	return &e, nil
}
