package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

// SeedDefaults ensures baseline categories, subcategories and a sample CSV
// mapping exist for new databases. It is idempotent and safe to run on
// every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	catRepo := NewCategoryRepo(db)
	existing, err := catRepo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}

	defaults := []string{
		"Income > Salary",
		"Income > Other Income",
		"Living > Housing",
		"Living > Groceries",
		"Living > Utilities",
		"Transport > Fuel",
		"Transport > Public Transport",
		"Leisure > Restaurants",
		"Leisure > Subscriptions",
		"Finance > Savings",
		"Finance > Investments",
		"Health > Medical",
	}
	for _, path := range defaults {
		parts := strings.SplitN(path, ">", 2)
		catName := strings.TrimSpace(parts[0])
		subName := strings.TrimSpace(parts[1])
		catID := seedID("category:" + catName)
		if err := catRepo.Upsert(ctx, Category{ID: catID, Name: catName}); err != nil {
			return err
		}
		sub := Subcategory{
			ID:         seedID("subcategory:" + catName + ":" + subName),
			CategoryID: catID,
			Name:       subName,
		}
		if err := catRepo.UpsertSubcategory(ctx, sub); err != nil {
			return err
		}
	}

	// Column names follow the Creditas export format.
	mapping := CSVMapping{
		ID:                   seedID("mapping:creditas"),
		Name:                 "Creditas",
		Encoding:             "windows-1250",
		Delimiter:            ";",
		HeaderRow:            0,
		DateFormat:           "02.01.2006",
		SubmissionDateFormat: "02.01.2006",
		DefaultCurrency:      "CZK",
		Columns: ColumnMap{
			DateOfTransaction:         "Datum zaúčtování",
			DateOfSubmission:          "Datum provedení",
			CounterpartyAccountNumber: "Protiúčet",
			CounterpartyBankCode:      "Protiúčet-banka",
			CounterpartyName:          "Název protiúčtu",
			TransactionType:           "Kód transakce",
			VariableSymbol:            "VS",
			SpecificSymbol:            "SS",
			ConstantSymbol:            "KS",
			CounterpartyNote:          "Zpráva pro protistranu",
			MyNote:                    "Poznámka",
			Amount:                    "Částka",
			Currency:                  "Měna",
		},
		OtherNoteColumns: []string{"Kategorie"},
		CategorizationFields: []string{
			"my_note", "other_note", "counterparty_note",
			"counterparty_name", "counterparty_account_number",
		},
	}
	return NewCSVMappingRepo(db).Upsert(ctx, mapping)
}

func seedID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
