package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsykora/kasa/internal/database"
	"github.com/jsykora/kasa/internal/database/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	return db
}

// testFixture seeds one bank account with a mapping plus a category tree,
// the minimum an import needs.
type testFixture struct {
	db           *sql.DB
	account      repository.BankAccount
	mapping      repository.CSVMapping
	subcategory  repository.Subcategory
	transactions *repository.TransactionRepo
	keywords     *repository.KeywordRepo
	bankAccounts *repository.BankAccountRepo
	csvMappings  *repository.CSVMappingRepo
	categoryRepo *repository.CategoryRepo
}

func newTestFixture(t *testing.T, ctx context.Context) *testFixture {
	t.Helper()
	db := newTestDB(t)

	f := &testFixture{
		db:           db,
		transactions: repository.NewTransactionRepo(db),
		keywords:     repository.NewKeywordRepo(db),
		bankAccounts: repository.NewBankAccountRepo(db),
		csvMappings:  repository.NewCSVMappingRepo(db),
		categoryRepo: repository.NewCategoryRepo(db),
	}

	require.NoError(t, f.categoryRepo.Upsert(ctx, repository.Category{ID: "cat-1", Name: "Food"}))
	f.subcategory = repository.Subcategory{ID: "sub-1", CategoryID: "cat-1", Name: "Groceries"}
	require.NoError(t, f.categoryRepo.UpsertSubcategory(ctx, f.subcategory))

	f.mapping = repository.CSVMapping{
		ID:              "map-1",
		Name:            "test-bank",
		Delimiter:       ",",
		DateFormat:      "02.01.2006",
		DefaultCurrency: "CZK",
		Columns: repository.ColumnMap{
			OriginalID:                "id",
			DateOfTransaction:         "date",
			Amount:                    "amount",
			Currency:                  "currency",
			CounterpartyAccountNumber: "account",
			CounterpartyBankCode:      "bank_code",
			CounterpartyName:          "name",
			VariableSymbol:            "vs",
			CounterpartyNote:          "note",
			MyNote:                    "my_note",
		},
		CategorizationFields: []string{
			FieldCounterpartyNote, FieldCounterpartyName, FieldMyNote,
		},
	}
	require.NoError(t, f.csvMappings.Upsert(ctx, f.mapping))

	mappingID := f.mapping.ID
	f.account = repository.BankAccount{
		ID:            "acct-1",
		AccountName:   "Main",
		AccountNumber: "123456789/0100",
		OwnerCount:    1,
		CSVMappingID:  &mappingID,
	}
	require.NoError(t, f.bankAccounts.Upsert(ctx, f.account))

	return f
}

func (f *testFixture) addKeyword(t *testing.T, ctx context.Context, k repository.Keyword) {
	t.Helper()
	require.NoError(t, f.keywords.Upsert(ctx, k))
}

func strPtr(s string) *string { return &s }
