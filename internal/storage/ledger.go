package storage

import (
	"context"
	"fmt"

	"spendtrack/internal/core"
)

// The methods in this file implement the grouped-sum contract consumed by the
// reporting engine (report.LedgerReader). Grouped results are returned in
// whatever order SQLite produces them; ranking and dense-fill belong to the
// aggregator, not to SQL.

func (r *SQLiteRepository) SumAndCountByOwnerAndMonth(ctx context.Context, ownerID int64, month, year int) (int64, int64, error) {
	start, end := monthBounds(month, year)
	var sum, count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0), COUNT(id)
		FROM expenses
		WHERE owner_id = ? AND date >= ? AND date < ?`,
		ownerID, start, end).Scan(&sum, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("sum and count by month: %w", err)
	}
	return sum, count, nil
}

func (r *SQLiteRepository) SumAndCountGroupedByCategory(ctx context.Context, ownerID int64, month, year int) ([]core.CategorySum, error) {
	start, end := monthBounds(month, year)
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.icon, SUM(e.amount_cents), COUNT(e.id)
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.owner_id = ? AND e.date >= ? AND e.date < ?
		GROUP BY c.id, c.name, c.icon`,
		ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum and count grouped by category: %w", err)
	}
	defer rows.Close()

	var sums []core.CategorySum
	for rows.Next() {
		var s core.CategorySum
		if err := rows.Scan(&s.CategoryID, &s.Name, &s.Icon, &s.Sum.Cents, &s.Count); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return sums, nil
}

func (r *SQLiteRepository) SumAndCountGroupedByMonth(ctx context.Context, ownerID int64, year int) ([]core.MonthSum, error) {
	start := fmt.Sprintf("%04d-01-01", year)
	end := fmt.Sprintf("%04d-01-01", year+1)
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(strftime('%m', date) AS INTEGER), SUM(amount_cents), COUNT(id)
		FROM expenses
		WHERE owner_id = ? AND date >= ? AND date < ?
		GROUP BY strftime('%m', date)`,
		ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum and count grouped by month: %w", err)
	}
	defer rows.Close()

	var sums []core.MonthSum
	for rows.Next() {
		var s core.MonthSum
		if err := rows.Scan(&s.Month, &s.Sum.Cents, &s.Count); err != nil {
			return nil, fmt.Errorf("scan month sum: %w", err)
		}
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month sums: %w", err)
	}
	return sums, nil
}
