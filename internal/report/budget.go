package report

import (
	"context"
	"fmt"

	"spendtrack/internal/core"
)

// BudgetStatus pairs the configured budget for a period with what is left of
// it. Both fields are nil when no budget is configured, which is distinct
// from a zero budget. Remaining goes negative on overspend; that is a valid,
// meaningful value.
type BudgetStatus struct {
	Amount    *core.Money
	Remaining *core.Money
}

// Resolver combines a period's spend total with the optional configured
// budget.
type Resolver struct {
	budgets BudgetStore
}

func NewResolver(budgets BudgetStore) *Resolver {
	return &Resolver{budgets: budgets}
}

// Resolve looks up the budget for (ownerID, month, year) and derives the
// remaining amount from spent.
func (r *Resolver) Resolve(ctx context.Context, ownerID int64, month, year int, spent core.Money) (BudgetStatus, error) {
	budget, err := r.budgets.FindBudget(ctx, ownerID, month, year)
	if err != nil {
		return BudgetStatus{}, fmt.Errorf("find budget (month=%d, year=%d): %w", month, year, err)
	}
	if budget == nil {
		return BudgetStatus{}, nil
	}
	amount := budget.Amount
	remaining := amount.Sub(spent)
	return BudgetStatus{Amount: &amount, Remaining: &remaining}, nil
}

// Upsert creates or overwrites the single budget record for the period.
// Uniqueness on (owner, month, year) is enforced by the storage layer with
// an atomic conditional write, so concurrent upserts collapse into updates
// instead of duplicate rows.
func (r *Resolver) Upsert(ctx context.Context, ownerID int64, month, year int, amount core.Money) (core.Budget, error) {
	if err := (core.Period{Month: month, Year: year}).Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := amount.Validate(); err != nil {
		return core.Budget{}, err
	}
	budget, err := r.budgets.UpsertBudget(ctx, ownerID, month, year, amount.Cents)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget (month=%d, year=%d): %w", month, year, err)
	}
	return budget, nil
}
