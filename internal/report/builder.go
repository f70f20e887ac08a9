package report

import (
	"context"

	"spendtrack/internal/core"
)

// TopCategory is the highest-spend category of a period with its subtotal.
type TopCategory struct {
	CategoryID int64      `json:"categoryId"`
	Name       string     `json:"name"`
	Icon       string     `json:"icon,omitempty"`
	Amount     core.Money `json:"amount"`
}

// MonthlySummary is the summary report for one owner and calendar month.
// TopCategory is nil for empty periods; the budget fields are nil when no
// budget is configured for the period.
type MonthlySummary struct {
	Month            int          `json:"month"`
	Year             int          `json:"year"`
	TotalSpent       core.Money   `json:"totalSpent"`
	TransactionCount int64        `json:"transactionCount"`
	TopCategory      *TopCategory `json:"topCategory,omitempty"`
	BudgetAmount     *core.Money  `json:"budgetAmount,omitempty"`
	BudgetRemaining  *core.Money  `json:"budgetRemaining,omitempty"`
}

// BreakdownEntry is one category's share of a period's spend.
type BreakdownEntry struct {
	CategoryID       int64      `json:"categoryId"`
	Name             string     `json:"name"`
	Icon             string     `json:"icon,omitempty"`
	Amount           core.Money `json:"totalAmount"`
	TransactionCount int64      `json:"transactionCount"`
	Percentage       float64    `json:"percentage"`
}

// TrendPoint is one month of the twelve-month trend series.
type TrendPoint struct {
	Month            int        `json:"month"`
	Year             int        `json:"year"`
	TotalSpent       core.Money `json:"totalSpent"`
	TransactionCount int64      `json:"transactionCount"`
}

// Builder assembles the three report shapes from Aggregator and Resolver
// output. It is stateless: every report is a pure function of current ledger
// and budget state, so any number of reports may run concurrently.
type Builder struct {
	agg     *Aggregator
	budgets *Resolver
}

func NewBuilder(agg *Aggregator, budgets *Resolver) *Builder {
	return &Builder{agg: agg, budgets: budgets}
}

// MonthlySummary builds the summary report: period total and count, the top
// category if any, and the budget standing when one is configured.
func (b *Builder) MonthlySummary(ctx context.Context, ownerID int64, month, year int) (MonthlySummary, error) {
	total, count, err := b.agg.TotalForPeriod(ctx, ownerID, month, year)
	if err != nil {
		return MonthlySummary{}, err
	}

	summary := MonthlySummary{
		Month:            month,
		Year:             year,
		TotalSpent:       total,
		TransactionCount: count,
	}

	top, err := b.agg.TopCategory(ctx, ownerID, month, year)
	if err != nil {
		return MonthlySummary{}, err
	}
	if top != nil {
		summary.TopCategory = &TopCategory{
			CategoryID: top.CategoryID,
			Name:       top.Name,
			Icon:       top.Icon,
			Amount:     top.Sum,
		}
	}

	status, err := b.budgets.Resolve(ctx, ownerID, month, year, total)
	if err != nil {
		return MonthlySummary{}, err
	}
	summary.BudgetAmount = status.Amount
	summary.BudgetRemaining = status.Remaining

	return summary, nil
}

// CategoryBreakdown builds the per-category report with percentage shares.
// Percentages are rounded half-up to one decimal place against the sum of
// all subtotals in the sequence; a zero total yields 0.0 for every entry.
func (b *Builder) CategoryBreakdown(ctx context.Context, ownerID int64, month, year int) ([]BreakdownEntry, error) {
	rows, err := b.agg.GroupByCategory(ctx, ownerID, month, year)
	if err != nil {
		return nil, err
	}

	var totalCents int64
	for _, r := range rows {
		totalCents += r.Sum.Cents
	}

	breakdown := make([]BreakdownEntry, 0, len(rows))
	for _, r := range rows {
		breakdown = append(breakdown, BreakdownEntry{
			CategoryID:       r.CategoryID,
			Name:             r.Name,
			Icon:             r.Icon,
			Amount:           r.Sum,
			TransactionCount: r.Count,
			Percentage:       percentShare(r.Sum.Cents, totalCents),
		})
	}
	return breakdown, nil
}

// MonthlyTrend is the dense twelve-month series for a year, months 1-12
// ascending, zero-filled where the ledger has no data.
func (b *Builder) MonthlyTrend(ctx context.Context, ownerID int64, year int) ([]TrendPoint, error) {
	series, err := b.agg.YearSeries(ctx, ownerID, year)
	if err != nil {
		return nil, err
	}

	trend := make([]TrendPoint, 0, len(series))
	for _, m := range series {
		trend = append(trend, TrendPoint{
			Month:            m.Month,
			Year:             year,
			TotalSpent:       m.Sum,
			TransactionCount: m.Count,
		})
	}
	return trend, nil
}

// percentShare computes part/total*100 rounded half-up to one decimal place
// using integer arithmetic. A non-positive total short-circuits to 0.0, which
// is the guard against dividing by zero for empty periods.
func percentShare(part, total int64) float64 {
	if total <= 0 {
		return 0.0
	}
	// part/total*100 at one decimal is part*1000/total in tenths of a
	// percent; add half the divisor before dividing for half-up rounding.
	tenths := (part*1000*2 + total) / (2 * total)
	return float64(tenths) / 10.0
}
