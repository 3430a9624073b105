package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// KeywordRepo stores categorization rules.
type KeywordRepo struct{ db *sql.DB }

func NewKeywordRepo(db *sql.DB) *KeywordRepo { return &KeywordRepo{db: db} }

func (r *KeywordRepo) Upsert(ctx context.Context, k Keyword) error {
	rules, err := json.Marshal(k.Rules)
	if err != nil {
		return fmt.Errorf("marshal keyword rules: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO keywords(id, description, rules, subcategory_id, want_need_investment, ignore_flag)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			rules = excluded.rules,
			subcategory_id = excluded.subcategory_id,
			want_need_investment = excluded.want_need_investment,
			ignore_flag = excluded.ignore_flag`,
		k.ID, k.Description, string(rules), k.SubcategoryID, k.WantNeedInvestment, boolToInt(k.Ignore))
	if err != nil {
		return fmt.Errorf("upsert keyword %q: %w", k.Description, err)
	}
	return nil
}

func (r *KeywordRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM keywords WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete keyword %s: %w", id, err)
	}
	return nil
}

// List returns all keywords ordered by description then id, which fixes the
// matcher's iteration order.
func (r *KeywordRepo) List(ctx context.Context) ([]Keyword, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, rules, subcategory_id, want_need_investment, ignore_flag
		FROM keywords
		ORDER BY description, id`)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	defer rows.Close()

	var out []Keyword
	for rows.Next() {
		var k Keyword
		var rules string
		var ignore int
		if err := rows.Scan(&k.ID, &k.Description, &rules, &k.SubcategoryID, &k.WantNeedInvestment, &ignore); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		if err := json.Unmarshal([]byte(rules), &k.Rules); err != nil {
			return nil, fmt.Errorf("unmarshal rules of keyword %q: %w", k.Description, err)
		}
		k.Ignore = ignore != 0
		out = append(out, k)
	}
	return out, rows.Err()
}
