package storage

import (
	"context"
	"fmt"
	"time"
)

// RecordAuditEvent appends one row to the expense audit trail. Consumed by
// the worker binary, never by the request path.
func (r *SQLiteRepository) RecordAuditEvent(ctx context.Context, expenseID, ownerID int64, action string, occurredAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (expense_id, owner_id, action, occurred_at)
		VALUES (?, ?, ?, ?)`, expenseID, ownerID, action, occurredAt)
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

// CountAuditEvents returns the number of audit rows for one owner.
func (r *SQLiteRepository) CountAuditEvents(ctx context.Context, ownerID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(id) FROM audit_log WHERE owner_id = ?", ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}
