// Package worker contains the consumer side of the expense event stream:
// every create, update and delete published by the API lands in the audit
// trail here.
package worker

import (
	"context"
	"fmt"
	"time"

	"spendtrack/internal/amqp"
	applog "spendtrack/internal/log"
)

// AuditStore is the slice of the storage layer the worker writes to.
type AuditStore interface {
	RecordAuditEvent(ctx context.Context, expenseID, ownerID int64, action string, occurredAt time.Time) error
}

// AuditWorker appends one audit row per consumed expense event.
type AuditWorker struct {
	store AuditStore
}

func NewAuditWorker(store AuditStore) *AuditWorker {
	return &AuditWorker{store: store}
}

// HandleExpenseEvent processes a single event. A returned error makes the
// consumer nack with requeue, so transient storage failures are retried.
func (w *AuditWorker) HandleExpenseEvent(ctx context.Context, event *amqp.ExpenseEvent) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentWorker)
	logger.InfoContext(ctx, "processing expense event",
		applog.FieldExpenseID, event.ExpenseID,
		applog.FieldOwnerID, event.OwnerID,
		applog.FieldOperation, event.Action,
	)

	if err := w.store.RecordAuditEvent(ctx, event.ExpenseID, event.OwnerID, event.Action, event.OccurredAt); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}
