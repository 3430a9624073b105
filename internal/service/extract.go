package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsykora/kasa/internal/database/repository"
)

// RawRow is one decoded CSV row keyed by column name. Cells are expected to
// be whitespace-normalized already; the CSV ingestion layer owns that.
type RawRow map[string]string

// ExtractTransactionData converts a raw CSV row into a TransactionData
// record using the mapping's column configuration. A missing or unparseable
// amount or transaction date is a row-scoped validation error; every other
// field degrades to its zero value.
func ExtractTransactionData(row RawRow, m repository.CSVMapping) (TransactionData, error) {
	var d TransactionData
	cols := m.Columns

	amountRaw := cell(row, cols.Amount)
	if amountRaw == "" {
		return TransactionData{}, fmt.Errorf("required field amount is missing")
	}
	amount, err := parseAmount(amountRaw)
	if err != nil {
		return TransactionData{}, fmt.Errorf("parse amount %q: %w", amountRaw, err)
	}
	d.Amount = amount

	dateRaw := cell(row, cols.DateOfTransaction)
	if dateRaw == "" {
		return TransactionData{}, fmt.Errorf("required field date_of_transaction is missing")
	}
	d.DateOfTransaction, err = time.Parse(dateFormatOrDefault(m.DateFormat), dateRaw)
	if err != nil {
		return TransactionData{}, fmt.Errorf("parse date_of_transaction %q: %w", dateRaw, err)
	}

	if subRaw := cell(row, cols.DateOfSubmission); subRaw != "" {
		sub, err := time.Parse(dateFormatOrDefault(m.SubmissionDateFormat), subRaw)
		if err != nil {
			return TransactionData{}, fmt.Errorf("parse date_of_submission %q: %w", subRaw, err)
		}
		d.DateOfSubmission = &sub
	}

	d.Currency = cell(row, cols.Currency)
	if d.Currency == "" {
		d.Currency = m.DefaultCurrency
	}

	d.CounterpartyAccountNumber = joinAccountNumber(
		cell(row, cols.CounterpartyAccountNumber),
		cell(row, cols.CounterpartyBankCode),
	)

	d.OriginalID = cell(row, cols.OriginalID)
	d.CounterpartyName = cell(row, cols.CounterpartyName)
	d.TransactionType = cell(row, cols.TransactionType)
	d.VariableSymbol = cell(row, cols.VariableSymbol)
	d.SpecificSymbol = cell(row, cols.SpecificSymbol)
	d.ConstantSymbol = cell(row, cols.ConstantSymbol)
	d.CounterpartyNote = cell(row, cols.CounterpartyNote)
	d.MyNote = cell(row, cols.MyNote)
	d.OtherNote = joinOtherNote(row, m.OtherNoteColumns)

	return d, nil
}

// cell reads the named column, tolerating unconfigured columns and columns
// absent from the row.
func cell(row RawRow, column string) string {
	if column == "" {
		return ""
	}
	return strings.TrimSpace(row[column])
}

// parseAmount accepts bank-style amounts with a comma decimal separator and
// thousands spaces, e.g. "-1 234,56".
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(raw, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

// joinAccountNumber combines a separate account number and bank code into
// the "{account}/{bankcode}" form used across Czech bank exports. Either
// part alone stands by itself.
func joinAccountNumber(account, bankCode string) string {
	switch {
	case account != "" && bankCode != "":
		return account + "/" + bankCode
	case account != "":
		return account
	default:
		return bankCode
	}
}

// joinOtherNote space-joins the values of the configured note columns.
func joinOtherNote(row RawRow, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		if v := cell(row, col); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func dateFormatOrDefault(layout string) string {
	if strings.TrimSpace(layout) == "" {
		return "02.01.2006"
	}
	return layout
}

// DataFromTransaction rebuilds the transient categorization record from a
// stored transaction, used by recategorization.
func DataFromTransaction(t repository.Transaction) TransactionData {
	d := TransactionData{
		DateOfTransaction:         t.DateOfTransaction,
		DateOfSubmission:          t.DateOfSubmission,
		Amount:                    t.Amount,
		Currency:                  t.Currency,
		CounterpartyAccountNumber: t.CounterpartyAccountNumber,
		CounterpartyName:          t.CounterpartyName,
		TransactionType:           t.TransactionType,
		VariableSymbol:            t.VariableSymbol,
		SpecificSymbol:            t.SpecificSymbol,
		ConstantSymbol:            t.ConstantSymbol,
		CounterpartyNote:          t.CounterpartyNote,
		MyNote:                    t.MyNote,
		OtherNote:                 t.OtherNote,
	}
	if t.OriginalID != nil {
		d.OriginalID = *t.OriginalID
	}
	return d
}
