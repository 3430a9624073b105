package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// BankAccountRepo handles the user's own accounts.
type BankAccountRepo struct{ db *sql.DB }

func NewBankAccountRepo(db *sql.DB) *BankAccountRepo { return &BankAccountRepo{db: db} }

func (r *BankAccountRepo) Upsert(ctx context.Context, a BankAccount) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bank_accounts(id, account_name, account_number, owner_count, csv_mapping_id)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_name = excluded.account_name,
			account_number = excluded.account_number,
			owner_count = excluded.owner_count,
			csv_mapping_id = excluded.csv_mapping_id`,
		a.ID, a.AccountName, a.AccountNumber, a.OwnerCount, a.CSVMappingID)
	if err != nil {
		return fmt.Errorf("upsert bank account %q: %w", a.AccountName, err)
	}
	return nil
}

func (r *BankAccountRepo) Get(ctx context.Context, id string) (*BankAccount, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, account_name, account_number, owner_count, csv_mapping_id
		FROM bank_accounts WHERE id = ?`, id)
	var a BankAccount
	err := row.Scan(&a.ID, &a.AccountName, &a.AccountNumber, &a.OwnerCount, &a.CSVMappingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bank account %s: %w", id, err)
	}
	return &a, nil
}

func (r *BankAccountRepo) List(ctx context.Context) ([]BankAccount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_name, account_number, owner_count, csv_mapping_id
		FROM bank_accounts ORDER BY account_name, id`)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	var out []BankAccount
	for rows.Next() {
		var a BankAccount
		if err := rows.Scan(&a.ID, &a.AccountName, &a.AccountNumber, &a.OwnerCount, &a.CSVMappingID); err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// OwnAccountNumbers returns every stored account number, the raw input of
// the self-transfer check.
func (r *BankAccountRepo) OwnAccountNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT account_number FROM bank_accounts`)
	if err != nil {
		return nil, fmt.Errorf("list own account numbers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan account number: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
