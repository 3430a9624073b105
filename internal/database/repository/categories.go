package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// CategoryRepo handles categories and subcategories.
type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Upsert(ctx context.Context, c Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories(id, name, description) VALUES(?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description`,
		c.ID, c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("upsert category %q: %w", c.Name, err)
	}
	return nil
}

func (r *CategoryRepo) UpsertSubcategory(ctx context.Context, s Subcategory) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subcategories(id, category_id, name, description) VALUES(?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			name = excluded.name,
			description = excluded.description`,
		s.ID, s.CategoryID, s.Name, s.Description)
	if err != nil {
		return fmt.Errorf("upsert subcategory %q: %w", s.Name, err)
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) ListSubcategories(ctx context.Context) ([]Subcategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, name, description FROM subcategories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var out []Subcategory
	for rows.Next() {
		var s Subcategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) GetSubcategoryByName(ctx context.Context, name string) (*Subcategory, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, category_id, name, description FROM subcategories WHERE name = ?`, name)
	var s Subcategory
	err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subcategory %q: %w", name, err)
	}
	return &s, nil
}
