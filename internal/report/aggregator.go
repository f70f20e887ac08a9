package report

import (
	"context"
	"fmt"
	"sort"

	"spendtrack/internal/core"
)

// Aggregator computes sums and counts over one owner's expenses for a given
// period. Every operation degrades to zero/empty results for periods without
// data; "no expenses" is never an error here.
type Aggregator struct {
	ledger LedgerReader
}

func NewAggregator(ledger LedgerReader) *Aggregator {
	return &Aggregator{ledger: ledger}
}

// TotalForPeriod returns the spend total and transaction count for the
// calendar month year-month.
func (a *Aggregator) TotalForPeriod(ctx context.Context, ownerID int64, month, year int) (core.Money, int64, error) {
	cents, count, err := a.ledger.SumAndCountByOwnerAndMonth(ctx, ownerID, month, year)
	if err != nil {
		return core.Money{}, 0, fmt.Errorf("sum and count for period (month=%d, year=%d): %w", month, year, err)
	}
	return core.NewMoney(cents), count, nil
}

// GroupByCategory returns one entry per category with at least one matching
// expense, ordered by subtotal descending with ties broken by category ID
// ascending. The ordering is deterministic for any input.
func (a *Aggregator) GroupByCategory(ctx context.Context, ownerID int64, month, year int) ([]core.CategorySum, error) {
	rows, err := a.ledger.SumAndCountGroupedByCategory(ctx, ownerID, month, year)
	if err != nil {
		return nil, fmt.Errorf("group by category (month=%d, year=%d): %w", month, year, err)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Sum.Cents != rows[j].Sum.Cents {
			return rows[i].Sum.Cents > rows[j].Sum.Cents
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
	return rows, nil
}

// TopCategory returns the highest-spend category of the period, or nil when
// the period has no expenses. It shares GroupByCategory's ordering, tie-break
// included.
func (a *Aggregator) TopCategory(ctx context.Context, ownerID int64, month, year int) (*core.CategorySum, error) {
	rows, err := a.GroupByCategory(ctx, ownerID, month, year)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	top := rows[0]
	return &top, nil
}

// YearSeries returns exactly twelve entries, months 1 through 12 ascending.
// The ledger only reports months that have expenses; the remaining months
// are dense-filled with zero totals and counts.
func (a *Aggregator) YearSeries(ctx context.Context, ownerID int64, year int) ([]core.MonthSum, error) {
	rows, err := a.ledger.SumAndCountGroupedByMonth(ctx, ownerID, year)
	if err != nil {
		return nil, fmt.Errorf("group by month (year=%d): %w", year, err)
	}

	series := make([]core.MonthSum, 12)
	for i := range series {
		series[i] = core.MonthSum{Month: i + 1}
	}
	for _, r := range rows {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		series[r.Month-1] = r
	}
	return series, nil
}
