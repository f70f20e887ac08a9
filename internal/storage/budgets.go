package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendtrack/internal/core"
)

// FindBudget returns the single budget for (owner, month, year), or
// (nil, nil) when none is configured. Absence is not an error.
func (r *SQLiteRepository) FindBudget(ctx context.Context, ownerID int64, month, year int) (*core.Budget, error) {
	var b core.Budget
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, month, year, amount_cents, created_at, updated_at
		FROM budgets WHERE owner_id = ? AND month = ? AND year = ?`,
		ownerID, month, year).Scan(&b.ID, &b.OwnerID, &b.Month, &b.Year, &b.Amount.Cents, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find budget: %w", err)
	}
	return &b, nil
}

// UpsertBudget creates or overwrites the unique budget for the period as a
// single atomic conditional write. The ON CONFLICT clause rides the
// (owner_id, month, year) unique constraint, so concurrent upserts for the
// same key serialize into updates instead of racing an existence check
// against an insert.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, ownerID int64, month, year int, amountCents int64) (core.Budget, error) {
	var b core.Budget
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO budgets (owner_id, month, year, amount_cents)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner_id, month, year)
		DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = CURRENT_TIMESTAMP
		RETURNING id, owner_id, month, year, amount_cents, created_at, updated_at`,
		ownerID, month, year, amountCents).Scan(&b.ID, &b.OwnerID, &b.Month, &b.Year, &b.Amount.Cents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget upserted",
		"id", b.ID,
		"owner_id", ownerID,
		"month", month,
		"year", year,
		"amount_cents", amountCents)

	return b, nil
}
