// Package report computes monthly spend summaries, per-category breakdowns
// and year-long trend series on demand from the expense ledger. It owns all
// aggregation semantics (ordering, dense-fill, percentage rounding) while the
// storage layer only answers fixed grouped-sum queries.
package report

import (
	"context"

	"spendtrack/internal/core"
)

// LedgerReader is the read side of the ledger consumed by the Aggregator.
// Grouped results come back unordered and sparse; ordering and dense-fill
// are this package's responsibility.
type LedgerReader interface {
	// SumAndCountByOwnerAndMonth returns the total cents and entry count
	// for one owner within a calendar month. Zero values, not an error,
	// when the period is empty.
	SumAndCountByOwnerAndMonth(ctx context.Context, ownerID int64, month, year int) (int64, int64, error)

	// SumAndCountGroupedByCategory returns one row per category with at
	// least one matching expense, in no particular order.
	SumAndCountGroupedByCategory(ctx context.Context, ownerID int64, month, year int) ([]core.CategorySum, error)

	// SumAndCountGroupedByMonth returns one row per month of the year that
	// has at least one expense, in no particular order.
	SumAndCountGroupedByMonth(ctx context.Context, ownerID int64, year int) ([]core.MonthSum, error)
}

// BudgetStore is the budget lookup and upsert surface consumed by the
// Resolver. Upsert must be atomic on the (owner, month, year) unique key at
// the storage layer.
type BudgetStore interface {
	// FindBudget returns (nil, nil) when no budget is configured for the
	// period; absence is a normal outcome, not an error.
	FindBudget(ctx context.Context, ownerID int64, month, year int) (*core.Budget, error)

	UpsertBudget(ctx context.Context, ownerID int64, month, year int, amountCents int64) (core.Budget, error)
}
