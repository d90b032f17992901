package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budgetbook/internal/core"
)

// CreateCategory inserts a category (top-level when parentID is nil) and
// returns it with its id set.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, parent_id) VALUES (?, ?, ?)`,
		c.Name, optString(c.Description), nullInt(c.ParentID))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	c.ID = id
	return c, nil
}

// GetCategory returns nil (no error) when the category does not exist.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, parent_id FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// FindCategory looks a category up by name under the given parent (nil for
// top level). Returns nil when absent; used by idempotent seeding.
func (r *SQLiteRepository) FindCategory(ctx context.Context, name string, parentID *int64) (*core.Category, error) {
	var row *sql.Row
	if parentID == nil {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, name, description, parent_id FROM categories WHERE name = ? AND parent_id IS NULL`, name)
	} else {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, name, description, parent_id FROM categories WHERE name = ? AND parent_id = ?`, name, *parentID)
	}
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

// ListTopCategories returns all top-level categories ordered by name.
func (r *SQLiteRepository) ListTopCategories(ctx context.Context) ([]core.Category, error) {
	return r.listCategories(ctx,
		`SELECT id, name, description, parent_id FROM categories WHERE parent_id IS NULL ORDER BY name`)
}

// ListSubcategories returns the direct children of a category.
func (r *SQLiteRepository) ListSubcategories(ctx context.Context, parentID int64) ([]core.Category, error) {
	return r.listCategories(ctx,
		`SELECT id, name, description, parent_id FROM categories WHERE parent_id = ? ORDER BY name`, parentID)
}

// CategoryName resolves a category id to its display name; ok is false for
// an unknown id.
func (r *SQLiteRepository) CategoryName(ctx context.Context, categoryID int64) (string, bool, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM categories WHERE id = ?`, categoryID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("category name: %w", err)
	}
	return name, true, nil
}

func (r *SQLiteRepository) listCategories(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// EnsureUser creates the user when absent and returns its id either way.
// Used at startup and by tests; the core never manages users beyond this.
func (r *SQLiteRepository) EnsureUser(ctx context.Context, username, email string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?`, username).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup user: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email) VALUES (?, ?)`, username, email)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}
	return id, nil
}

func scanCategory(s rowScanner) (core.Category, error) {
	var (
		c      core.Category
		desc   sql.NullString
		parent sql.NullInt64
	)
	if err := s.Scan(&c.ID, &c.Name, &desc, &parent); err != nil {
		return core.Category{}, err
	}
	c.Description = desc.String
	c.ParentID = intPtr(parent)
	return c, nil
}
