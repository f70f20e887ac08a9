// Package storage is the SQLite-backed ledger store. It answers the fixed
// set of grouped-sum queries the reporting engine consumes and carries the
// plain CRUD persistence for expenses, categories, budgets and accounts.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendtrack/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is the canonical TEXT encoding of expense dates. Lexicographic
// order equals chronological order, which the range queries rely on.
const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies the database connection, used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// monthBounds returns the half-open [first day of month, first day of next
// month) range as dateLayout strings.
func monthBounds(month, year int) (string, string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start.Format(dateLayout), start.AddDate(0, 1, 0).Format(dateLayout)
}

// CreateExpense inserts a new ledger entry and returns it with its identity
// and timestamps filled in.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO expenses (owner_id, category_id, amount_cents, date, description)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`,
		e.OwnerID, e.CategoryID, e.Amount.Cents, e.Date.Format(dateLayout), e.Description)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"owner_id", e.OwnerID,
		"category_id", e.CategoryID,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.Format(dateLayout))

	return e, nil
}

// GetExpense returns one expense owned by ownerID, or core.ErrNotFound.
func (r *SQLiteRepository) GetExpense(ctx context.Context, ownerID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, category_id, amount_cents, date, description, created_at, updated_at
		FROM expenses WHERE id = ? AND owner_id = ?`, id, ownerID)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, core.ErrNotFound
		}
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

// ExpenseFilter narrows ListExpenses. Zero values mean "no constraint".
type ExpenseFilter struct {
	CategoryID int64
	StartDate  time.Time
	EndDate    time.Time
	Page       int // zero-based
	Size       int
}

// ListExpenses returns one page of an owner's expenses, newest date first,
// together with the total number of matches.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, ownerID int64, filter ExpenseFilter) ([]core.Expense, int64, error) {
	where := "WHERE owner_id = ?"
	args := []any{ownerID}
	if filter.CategoryID != 0 {
		where += " AND category_id = ?"
		args = append(args, filter.CategoryID)
	}
	if !filter.StartDate.IsZero() {
		where += " AND date >= ?"
		args = append(args, filter.StartDate.Format(dateLayout))
	}
	if !filter.EndDate.IsZero() {
		where += " AND date <= ?"
		args = append(args, filter.EndDate.Format(dateLayout))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(id) FROM expenses "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	size := filter.Size
	if size <= 0 {
		size = 20
	}
	query := `SELECT id, owner_id, category_id, amount_cents, date, description, created_at, updated_at
		FROM expenses ` + where + ` ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, size, filter.Page*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, total, nil
}

// UpdateExpense overwrites amount, category, date and description of an
// expense the owner holds. Identity and ownership never change.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE expenses
		SET category_id = ?, amount_cents = ?, date = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?
		RETURNING created_at, updated_at`,
		e.CategoryID, e.Amount.Cents, e.Date.Format(dateLayout), e.Description, e.ID, e.OwnerID)
	if err := row.Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, core.ErrNotFound
		}
		return core.Expense{}, fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	return e, nil
}

// DeleteExpense removes an owner's expense, core.ErrNotFound when it does
// not exist or belongs to someone else.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.CategoryID, &e.Amount.Cents, &dateStr, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return core.Expense{}, err
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense date %q: %w", dateStr, err)
	}
	e.Date = date
	return e, nil
}
