package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// TagRepo handles tags and their attachment to transactions.
type TagRepo struct{ db *sql.DB }

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{db: db} }

func (r *TagRepo) Upsert(ctx context.Context, t Tag) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tags(id, name, description) VALUES(?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description`,
		t.ID, t.Name, t.Description)
	if err != nil {
		return fmt.Errorf("upsert tag %q: %w", t.Name, err)
	}
	return nil
}

func (r *TagRepo) List(ctx context.Context) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TagRepo) Attach(ctx context.Context, transactionID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO transaction_tags(transaction_id, tag_id) VALUES(?, ?)`,
		transactionID, tagID)
	if err != nil {
		return fmt.Errorf("attach tag %s to transaction %s: %w", tagID, transactionID, err)
	}
	return nil
}

func (r *TagRepo) Detach(ctx context.Context, transactionID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM transaction_tags WHERE transaction_id = ? AND tag_id = ?`,
		transactionID, tagID)
	if err != nil {
		return fmt.Errorf("detach tag %s from transaction %s: %w", tagID, transactionID, err)
	}
	return nil
}

func (r *TagRepo) ForTransaction(ctx context.Context, transactionID string) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.description
		FROM tags t
		JOIN transaction_tags tt ON tt.tag_id = t.id
		WHERE tt.transaction_id = ?
		ORDER BY t.name`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("tags for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
