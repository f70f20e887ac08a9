package report

import (
	"context"
	"testing"
	"time"

	"spendtrack/internal/core"
)

// fakeLedger answers the grouped-sum queries from an in-memory expense list,
// deliberately returning grouped rows in insertion order so the tests prove
// that ordering and dense-fill happen in this package.
type fakeLedger struct {
	expenses []fakeExpense
}

type fakeExpense struct {
	ownerID    int64
	categoryID int64
	name       string
	icon       string
	cents      int64
	date       time.Time
}

func (f *fakeLedger) SumAndCountByOwnerAndMonth(_ context.Context, ownerID int64, month, year int) (int64, int64, error) {
	var sum, count int64
	for _, e := range f.expenses {
		if e.ownerID == ownerID && int(e.date.Month()) == month && e.date.Year() == year {
			sum += e.cents
			count++
		}
	}
	return sum, count, nil
}

func (f *fakeLedger) SumAndCountGroupedByCategory(_ context.Context, ownerID int64, month, year int) ([]core.CategorySum, error) {
	index := make(map[int64]int)
	var rows []core.CategorySum
	for _, e := range f.expenses {
		if e.ownerID != ownerID || int(e.date.Month()) != month || e.date.Year() != year {
			continue
		}
		i, ok := index[e.categoryID]
		if !ok {
			i = len(rows)
			index[e.categoryID] = i
			rows = append(rows, core.CategorySum{CategoryID: e.categoryID, Name: e.name, Icon: e.icon})
		}
		rows[i].Sum.Cents += e.cents
		rows[i].Count++
	}
	return rows, nil
}

func (f *fakeLedger) SumAndCountGroupedByMonth(_ context.Context, ownerID int64, year int) ([]core.MonthSum, error) {
	index := make(map[int]int)
	var rows []core.MonthSum
	for _, e := range f.expenses {
		if e.ownerID != ownerID || e.date.Year() != year {
			continue
		}
		m := int(e.date.Month())
		i, ok := index[m]
		if !ok {
			i = len(rows)
			index[m] = i
			rows = append(rows, core.MonthSum{Month: m})
		}
		rows[i].Sum.Cents += e.cents
		rows[i].Count++
	}
	return rows, nil
}

type budgetKey struct {
	ownerID     int64
	month, year int
}

type fakeBudgets struct {
	nextID  int64
	budgets map[budgetKey]core.Budget
}

func newFakeBudgets() *fakeBudgets {
	return &fakeBudgets{budgets: make(map[budgetKey]core.Budget)}
}

func (f *fakeBudgets) FindBudget(_ context.Context, ownerID int64, month, year int) (*core.Budget, error) {
	b, ok := f.budgets[budgetKey{ownerID, month, year}]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBudgets) UpsertBudget(_ context.Context, ownerID int64, month, year int, amountCents int64) (core.Budget, error) {
	key := budgetKey{ownerID, month, year}
	b, ok := f.budgets[key]
	if !ok {
		f.nextID++
		b = core.Budget{ID: f.nextID, OwnerID: ownerID, Month: month, Year: year}
	}
	b.Amount = core.NewMoney(amountCents)
	f.budgets[key] = b
	return b, nil
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// marchLedger is the reference scenario: 10.00 and 5.00 in Food (category 1),
// 20.00 in Transport (category 2), all in March 2024.
func marchLedger() *fakeLedger {
	return &fakeLedger{expenses: []fakeExpense{
		{ownerID: 1, categoryID: 1, name: "Food", icon: "🍕", cents: 1000, date: date(2024, 3, 5)},
		{ownerID: 1, categoryID: 1, name: "Food", icon: "🍕", cents: 500, date: date(2024, 3, 12)},
		{ownerID: 1, categoryID: 2, name: "Transport", icon: "🚌", cents: 2000, date: date(2024, 3, 20)},
	}}
}

func TestTotalForPeriod(t *testing.T) {
	agg := NewAggregator(marchLedger())

	total, count, err := agg.TotalForPeriod(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total.Cents != 3500 || count != 3 {
		t.Fatalf("expected (35.00, 3), got (%s, %d)", total, count)
	}
}

func TestTotalForPeriodEmpty(t *testing.T) {
	agg := NewAggregator(&fakeLedger{})

	total, count, err := agg.TotalForPeriod(context.Background(), 42, 1, 2024)
	if err != nil {
		t.Fatalf("empty period must not error: %v", err)
	}
	if total.Cents != 0 || count != 0 {
		t.Fatalf("expected zero results, got (%s, %d)", total, count)
	}
}

func TestGroupByCategoryOrdering(t *testing.T) {
	agg := NewAggregator(marchLedger())

	rows, err := agg.GroupByCategory(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(rows))
	}
	// Transport first: 20.00 > 15.00
	if rows[0].Name != "Transport" || rows[0].Sum.Cents != 2000 || rows[0].Count != 1 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Name != "Food" || rows[1].Sum.Cents != 1500 || rows[1].Count != 2 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestGroupByCategoryTieBreak(t *testing.T) {
	// Equal subtotals: lower category ID wins, regardless of input order.
	ledger := &fakeLedger{expenses: []fakeExpense{
		{ownerID: 1, categoryID: 7, name: "Travel", cents: 1000, date: date(2024, 3, 1)},
		{ownerID: 1, categoryID: 3, name: "Rent", cents: 1000, date: date(2024, 3, 2)},
	}}
	agg := NewAggregator(ledger)

	rows, err := agg.GroupByCategory(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].CategoryID != 3 || rows[1].CategoryID != 7 {
		t.Fatalf("tie-break broken: got order %d, %d", rows[0].CategoryID, rows[1].CategoryID)
	}

	top, err := agg.TopCategory(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top == nil || top.CategoryID != 3 {
		t.Fatalf("TopCategory must share GroupByCategory's tie-break, got %+v", top)
	}
}

func TestGroupByCategoryPartition(t *testing.T) {
	agg := NewAggregator(marchLedger())
	ctx := context.Background()

	rows, err := agg.GroupByCategory(ctx, 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sum int64
	for _, r := range rows {
		sum += r.Sum.Cents
	}
	total, _, err := agg.TotalForPeriod(ctx, 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != total.Cents {
		t.Fatalf("category subtotals (%d) must sum to period total (%d)", sum, total.Cents)
	}
}

func TestTopCategoryEmpty(t *testing.T) {
	agg := NewAggregator(&fakeLedger{})

	top, err := agg.TopCategory(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top != nil {
		t.Fatalf("expected absent top category, got %+v", top)
	}
}

func TestYearSeriesDenseFill(t *testing.T) {
	ledger := &fakeLedger{expenses: []fakeExpense{
		{ownerID: 1, categoryID: 1, name: "Food", cents: 5000, date: date(2024, 1, 10)},
		{ownerID: 1, categoryID: 1, name: "Food", cents: 2000, date: date(2024, 7, 4)},
	}}
	agg := NewAggregator(ledger)

	series, err := agg.YearSeries(context.Background(), 1, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(series))
	}
	for i, m := range series {
		if m.Month != i+1 {
			t.Fatalf("months must ascend 1..12: entry %d has month %d", i, m.Month)
		}
	}
	if series[0].Sum.Cents != 5000 || series[0].Count != 1 {
		t.Fatalf("unexpected January entry: %+v", series[0])
	}
	if series[6].Sum.Cents != 2000 || series[6].Count != 1 {
		t.Fatalf("unexpected July entry: %+v", series[6])
	}
	for i, m := range series {
		if i == 0 || i == 6 {
			continue
		}
		if m.Sum.Cents != 0 || m.Count != 0 {
			t.Fatalf("month %d should be zero-filled, got %+v", i+1, m)
		}
	}
}

func TestYearSeriesEmptyYear(t *testing.T) {
	agg := NewAggregator(&fakeLedger{})

	series, err := agg.YearSeries(context.Background(), 1, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 12 {
		t.Fatalf("expected 12 zero entries, got %d", len(series))
	}
	for _, m := range series {
		if m.Sum.Cents != 0 || m.Count != 0 {
			t.Fatalf("expected all-zero series, got %+v", m)
		}
	}
}

func TestResolverNoBudgetConfigured(t *testing.T) {
	resolver := NewResolver(newFakeBudgets())

	status, err := resolver.Resolve(context.Background(), 1, 3, 2024, core.NewMoney(3500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Amount != nil || status.Remaining != nil {
		t.Fatalf("absent budget must yield nil fields, got %+v", status)
	}
}

func TestResolverRemaining(t *testing.T) {
	cases := []struct {
		name      string
		budget    int64
		spent     int64
		remaining int64
	}{
		{"under budget", 10000, 3500, 6500},
		{"overspend goes negative", 3000, 3500, -500},
		{"zero budget is not absent", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			budgets := newFakeBudgets()
			budgets.budgets[budgetKey{1, 3, 2024}] = core.Budget{
				ID: 1, OwnerID: 1, Month: 3, Year: 2024, Amount: core.NewMoney(tc.budget),
			}
			resolver := NewResolver(budgets)

			status, err := resolver.Resolve(context.Background(), 1, 3, 2024, core.NewMoney(tc.spent))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status.Amount == nil || status.Remaining == nil {
				t.Fatalf("configured budget must yield non-nil fields, got %+v", status)
			}
			if status.Amount.Cents != tc.budget {
				t.Fatalf("expected amount %d, got %d", tc.budget, status.Amount.Cents)
			}
			if status.Remaining.Cents != tc.remaining {
				t.Fatalf("expected remaining %d, got %d", tc.remaining, status.Remaining.Cents)
			}
		})
	}
}

func TestResolverUpsertIdempotence(t *testing.T) {
	budgets := newFakeBudgets()
	resolver := NewResolver(budgets)
	ctx := context.Background()

	first, err := resolver.Upsert(ctx, 1, 3, 2024, core.NewMoney(10000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := resolver.Upsert(ctx, 1, 3, 2024, core.NewMoney(20000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(budgets.budgets) != 1 {
		t.Fatalf("two upserts for one period must leave one record, got %d", len(budgets.budgets))
	}
	if first.ID != second.ID {
		t.Fatalf("upsert must overwrite, not recreate: ids %d and %d", first.ID, second.ID)
	}
	if second.Amount.Cents != 20000 {
		t.Fatalf("latest amount must win, got %d", second.Amount.Cents)
	}
}

func TestResolverUpsertRejectsInvalidInput(t *testing.T) {
	resolver := NewResolver(newFakeBudgets())
	ctx := context.Background()

	if _, err := resolver.Upsert(ctx, 1, 13, 2024, core.NewMoney(100)); err == nil {
		t.Fatal("expected error for month 13")
	}
	if _, err := resolver.Upsert(ctx, 1, 3, 1999, core.NewMoney(100)); err == nil {
		t.Fatal("expected error for out-of-bounds year")
	}
	if _, err := resolver.Upsert(ctx, 1, 3, 2024, core.NewMoney(0)); err == nil {
		t.Fatal("expected error for non-positive amount")
	}
}

func newBuilder(ledger *fakeLedger, budgets *fakeBudgets) *Builder {
	return NewBuilder(NewAggregator(ledger), NewResolver(budgets))
}

func TestMonthlySummary(t *testing.T) {
	budgets := newFakeBudgets()
	budgets.budgets[budgetKey{1, 3, 2024}] = core.Budget{
		ID: 1, OwnerID: 1, Month: 3, Year: 2024, Amount: core.NewMoney(10000),
	}
	builder := newBuilder(marchLedger(), budgets)

	summary, err := builder.MonthlySummary(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Month != 3 || summary.Year != 2024 {
		t.Fatalf("unexpected period: %d/%d", summary.Month, summary.Year)
	}
	if summary.TotalSpent.Cents != 3500 || summary.TransactionCount != 3 {
		t.Fatalf("expected (35.00, 3), got (%s, %d)", summary.TotalSpent, summary.TransactionCount)
	}
	if summary.TopCategory == nil || summary.TopCategory.Name != "Transport" || summary.TopCategory.Amount.Cents != 2000 {
		t.Fatalf("unexpected top category: %+v", summary.TopCategory)
	}
	if summary.BudgetAmount == nil || summary.BudgetAmount.Cents != 10000 {
		t.Fatalf("unexpected budget amount: %+v", summary.BudgetAmount)
	}
	if summary.BudgetRemaining == nil || summary.BudgetRemaining.Cents != 6500 {
		t.Fatalf("expected remaining 65.00, got %+v", summary.BudgetRemaining)
	}
}

func TestMonthlySummaryEmptyPeriod(t *testing.T) {
	builder := newBuilder(&fakeLedger{}, newFakeBudgets())

	summary, err := builder.MonthlySummary(context.Background(), 1, 6, 2024)
	if err != nil {
		t.Fatalf("empty period must not error: %v", err)
	}
	if summary.TotalSpent.Cents != 0 || summary.TransactionCount != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
	if summary.TopCategory != nil {
		t.Fatalf("expected absent top category, got %+v", summary.TopCategory)
	}
	if summary.BudgetAmount != nil || summary.BudgetRemaining != nil {
		t.Fatalf("expected absent budget fields, got %+v", summary)
	}
}

func TestCategoryBreakdownPercentages(t *testing.T) {
	builder := newBuilder(marchLedger(), newFakeBudgets())

	breakdown, err := builder.CategoryBreakdown(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(breakdown))
	}
	// 20.00/35.00 -> 57.1, 15.00/35.00 -> 42.9 (half-up to one decimal)
	if breakdown[0].Name != "Transport" || breakdown[0].Percentage != 57.1 {
		t.Fatalf("unexpected first entry: %+v", breakdown[0])
	}
	if breakdown[1].Name != "Food" || breakdown[1].Percentage != 42.9 {
		t.Fatalf("unexpected second entry: %+v", breakdown[1])
	}
}

func TestCategoryBreakdownPercentagesSumToHundred(t *testing.T) {
	ledger := &fakeLedger{expenses: []fakeExpense{
		{ownerID: 1, categoryID: 1, name: "A", cents: 333, date: date(2024, 3, 1)},
		{ownerID: 1, categoryID: 2, name: "B", cents: 333, date: date(2024, 3, 2)},
		{ownerID: 1, categoryID: 3, name: "C", cents: 334, date: date(2024, 3, 3)},
	}}
	builder := newBuilder(ledger, newFakeBudgets())

	breakdown, err := builder.CategoryBreakdown(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sum float64
	for _, e := range breakdown {
		sum += e.Percentage
	}
	tolerance := 0.1 * float64(len(breakdown))
	if sum < 100.0-tolerance || sum > 100.0+tolerance {
		t.Fatalf("percentages should sum to ~100 within %.1f, got %.1f", tolerance, sum)
	}
}

func TestCategoryBreakdownZeroTotal(t *testing.T) {
	builder := newBuilder(&fakeLedger{}, newFakeBudgets())

	breakdown, err := builder.CategoryBreakdown(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breakdown) != 0 {
		t.Fatalf("expected no entries, got %d", len(breakdown))
	}
}

func TestMonthlyTrend(t *testing.T) {
	ledger := &fakeLedger{expenses: []fakeExpense{
		{ownerID: 1, categoryID: 1, name: "Food", cents: 5000, date: date(2024, 1, 15)},
		{ownerID: 1, categoryID: 2, name: "Transport", cents: 2000, date: date(2024, 7, 8)},
	}}
	builder := newBuilder(ledger, newFakeBudgets())

	trend, err := builder.MonthlyTrend(context.Background(), 1, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trend) != 12 {
		t.Fatalf("expected 12 points, got %d", len(trend))
	}
	for i, p := range trend {
		if p.Month != i+1 || p.Year != 2024 {
			t.Fatalf("unexpected point %d: %+v", i, p)
		}
	}
	if trend[0].TotalSpent.Cents != 5000 || trend[6].TotalSpent.Cents != 2000 {
		t.Fatalf("unexpected data months: %+v, %+v", trend[0], trend[6])
	}
}

func TestPercentShareRounding(t *testing.T) {
	cases := []struct {
		part, total int64
		want        float64
	}{
		{2000, 3500, 57.1},
		{1500, 3500, 42.9},
		{1, 3, 33.3},
		{1, 1, 100.0},
		{0, 100, 0.0},
		{50, 0, 0.0}, // zero-total guard
		{125, 1000, 12.5},
		{1, 1600, 0.1}, // 0.0625% rounds half-up to 0.1
	}
	for _, tc := range cases {
		if got := percentShare(tc.part, tc.total); got != tc.want {
			t.Fatalf("percentShare(%d, %d): expected %.1f, got %.1f", tc.part, tc.total, tc.want, got)
		}
	}
}
