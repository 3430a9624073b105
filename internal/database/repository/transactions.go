package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsykora/kasa/internal/database"
)

const dateLayout = "2006-01-02"

// TransactionFilters defines list filters. Each field is optional; zero
// values mean "no constraint". Invalid filter keys cannot exist here, which
// is the point of using a struct over a free-form map.
type TransactionFilters struct {
	IDs                       []string
	BankAccountID             string
	SubcategoryID             string
	UncategorizedOnly         bool
	OriginalID                *string
	DateOfTransaction         *time.Time
	Amount                    *decimal.Decimal
	CounterpartyAccountNumber *string
	VariableSymbol            *string
	IncludeIgnored            bool
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionColumns = `id, original_id, bank_account_id, date_of_transaction, date_of_submission,
	amount, currency, counterparty_account_number, counterparty_name, transaction_type,
	variable_symbol, specific_symbol, constant_symbol, counterparty_note, my_note, other_note,
	subcategory_id, want_need_investment, ignore_flag, created_at, updated_at`

func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	var where []string
	var args []any

	if len(f.IDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.IDs)), ",")
		where = append(where, "id IN ("+placeholders+")")
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	if f.BankAccountID != "" {
		where = append(where, "bank_account_id = ?")
		args = append(args, f.BankAccountID)
	}
	if f.SubcategoryID != "" {
		where = append(where, "subcategory_id = ?")
		args = append(args, f.SubcategoryID)
	}
	if f.UncategorizedOnly {
		where = append(where, "subcategory_id IS NULL")
	}
	if f.OriginalID != nil {
		where = append(where, "original_id = ?")
		args = append(args, *f.OriginalID)
	}
	if f.DateOfTransaction != nil {
		where = append(where, "date_of_transaction = ?")
		args = append(args, f.DateOfTransaction.Format(dateLayout))
	}
	if f.Amount != nil {
		where = append(where, "amount = ?")
		args = append(args, f.Amount.String())
	}
	if f.CounterpartyAccountNumber != nil {
		where = append(where, "counterparty_account_number = ?")
		args = append(args, *f.CounterpartyAccountNumber)
	}
	if f.VariableSymbol != nil {
		where = append(where, "variable_symbol = ?")
		args = append(args, *f.VariableSymbol)
	}
	if !f.IncludeIgnored {
		where = append(where, "ignore_flag = 0")
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date_of_transaction DESC, created_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return &t, nil
}

// BulkCreate inserts all transactions in one database transaction. Either
// every row is persisted or none is.
func (r *TransactionRepo) BulkCreate(ctx context.Context, txns []Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO transactions(`+transactionColumns+`)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		now := database.Now()
		for _, t := range txns {
			createdAt := t.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			if _, err := stmt.ExecContext(ctx,
				t.ID, t.OriginalID, t.BankAccountID,
				t.DateOfTransaction.Format(dateLayout), nullableDate(t.DateOfSubmission),
				t.Amount.String(), t.Currency,
				t.CounterpartyAccountNumber, t.CounterpartyName, t.TransactionType,
				t.VariableSymbol, t.SpecificSymbol, t.ConstantSymbol,
				t.CounterpartyNote, t.MyNote, t.OtherNote,
				t.SubcategoryID, t.WantNeedInvestment, boolToInt(t.Ignore),
				createdAt.Format(time.RFC3339), createdAt.Format(time.RFC3339),
			); err != nil {
				return fmt.Errorf("insert transaction %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// BulkUpdateCategorization rewrites only the categorization fields of the
// given transactions, all in one database transaction.
func (r *TransactionRepo) BulkUpdateCategorization(ctx context.Context, updates []CategorizationUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			UPDATE transactions
			SET subcategory_id = ?, want_need_investment = ?, ignore_flag = ?, updated_at = ?
			WHERE id = ?`)
		if err != nil {
			return fmt.Errorf("prepare update: %w", err)
		}
		defer stmt.Close()

		now := database.Now().Format(time.RFC3339)
		for _, u := range updates {
			if _, err := stmt.ExecContext(ctx,
				u.SubcategoryID, u.WantNeedInvestment, boolToInt(u.Ignore), now, u.TransactionID,
			); err != nil {
				return fmt.Errorf("update transaction %s: %w", u.TransactionID, err)
			}
		}
		return nil
	})
}

// DuplicateGroup describes stored transactions sharing amount and original
// ID, surfaced by the duplicate audit.
type DuplicateGroup struct {
	Amount     decimal.Decimal
	OriginalID *string
	Count      int
	IDs        []string
}

// DuplicateGroups lists groups of stored transactions with identical
// (amount, original_id) occurring more than once.
func (r *TransactionRepo) DuplicateGroups(ctx context.Context) ([]DuplicateGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT amount, original_id, COUNT(*) AS n, GROUP_CONCAT(id)
		FROM transactions
		GROUP BY amount, original_id
		HAVING n > 1
		ORDER BY n DESC, amount`)
	if err != nil {
		return nil, fmt.Errorf("duplicate groups: %w", err)
	}
	defer rows.Close()

	var out []DuplicateGroup
	for rows.Next() {
		var amountRaw, ids string
		var g DuplicateGroup
		if err := rows.Scan(&amountRaw, &g.OriginalID, &g.Count, &ids); err != nil {
			return nil, fmt.Errorf("scan duplicate group: %w", err)
		}
		g.Amount, err = decimal.NewFromString(amountRaw)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amountRaw, err)
		}
		g.IDs = strings.Split(ids, ",")
		out = append(out, g)
	}
	return out, rows.Err()
}

// CountUncategorized returns the number of non-ignored transactions with no
// subcategory.
func (r *TransactionRepo) CountUncategorized(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE subcategory_id IS NULL AND ignore_flag = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count uncategorized: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var t Transaction
	var dateTxn string
	var dateSub sql.NullString
	var amountRaw string
	var ignore int
	var createdAt, updatedAt string

	err := row.Scan(
		&t.ID, &t.OriginalID, &t.BankAccountID, &dateTxn, &dateSub,
		&amountRaw, &t.Currency, &t.CounterpartyAccountNumber, &t.CounterpartyName,
		&t.TransactionType, &t.VariableSymbol, &t.SpecificSymbol, &t.ConstantSymbol,
		&t.CounterpartyNote, &t.MyNote, &t.OtherNote,
		&t.SubcategoryID, &t.WantNeedInvestment, &ignore, &createdAt, &updatedAt,
	)
	if err != nil {
		return Transaction{}, err
	}

	if t.DateOfTransaction, err = time.Parse(dateLayout, dateTxn); err != nil {
		return Transaction{}, fmt.Errorf("parse date_of_transaction %q: %w", dateTxn, err)
	}
	if dateSub.Valid && dateSub.String != "" {
		d, err := time.Parse(dateLayout, dateSub.String)
		if err != nil {
			return Transaction{}, fmt.Errorf("parse date_of_submission %q: %w", dateSub.String, err)
		}
		t.DateOfSubmission = &d
	}
	if t.Amount, err = decimal.NewFromString(amountRaw); err != nil {
		return Transaction{}, fmt.Errorf("parse amount %q: %w", amountRaw, err)
	}
	t.Ignore = ignore != 0
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Transaction{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return Transaction{}, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	return t, nil
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
