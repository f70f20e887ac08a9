package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"spendtrack/internal/core"
)

// ListCategories returns the global defaults followed by the owner's custom
// categories, defaults first, each group ordered by id.
func (r *SQLiteRepository) ListCategories(ctx context.Context, ownerID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, icon, is_default, owner_id
		FROM categories
		WHERE owner_id IS NULL OR owner_id = ?
		ORDER BY is_default DESC, id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetCategoryForOwner returns the category by id when it is visible to the
// owner: a global default, or a custom the owner holds. Anything else is
// core.ErrNotFound, foreign customs included.
func (r *SQLiteRepository) GetCategoryForOwner(ctx context.Context, ownerID, id int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, icon, is_default, owner_id
		FROM categories
		WHERE id = ? AND (owner_id IS NULL OR owner_id = ?)`, id, ownerID)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Category{}, core.ErrNotFound
		}
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// CreateCustomCategory inserts a user-owned category after checking the name
// against both scopes: the global defaults and the owner's existing customs.
// A clash in either scope is core.ErrNameConflict.
func (r *SQLiteRepository) CreateCustomCategory(ctx context.Context, ownerID int64, name, icon string) (core.Category, error) {
	name = strings.TrimSpace(name)

	var clashes int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(id) FROM categories
		WHERE name = ? AND (owner_id IS NULL OR owner_id = ?)`, name, ownerID).Scan(&clashes)
	if err != nil {
		return core.Category{}, fmt.Errorf("check category name: %w", err)
	}
	if clashes > 0 {
		return core.Category{}, core.ErrNameConflict
	}

	c := core.Category{Name: name, Icon: icon, OwnerID: &ownerID}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, icon, is_default, owner_id)
		VALUES (?, ?, 0, ?)
		RETURNING id`, name, icon, ownerID)
	if err := row.Scan(&c.ID); err != nil {
		// The partial unique indexes back the check above; a constraint hit
		// from a concurrent insert still maps to a name conflict.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.Category{}, core.ErrNameConflict
		}
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c       core.Category
		ownerID sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.IsDefault, &ownerID); err != nil {
		return core.Category{}, err
	}
	if ownerID.Valid {
		c.OwnerID = &ownerID.Int64
	}
	return c, nil
}
