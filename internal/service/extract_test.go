package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jsykora/kasa/internal/database/repository"
)

func testMapping() repository.CSVMapping {
	return repository.CSVMapping{
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
			CounterpartyNote:          "note",
		},
		OtherNoteColumns: []string{"note1", "note2"},
	}
}

func TestExtractTransactionData(t *testing.T) {
	t.Parallel()

	row := RawRow{
		"id":        "TX-1",
		"date":      "15.03.2026",
		"amount":    "-1 234,56",
		"currency":  "",
		"account":   "123456789",
		"bank_code": "0100",
		"name":      "LIDL",
		"note":      "groceries",
		"note1":     "first",
		"note2":     "second",
	}

	d, err := ExtractTransactionData(row, testMapping())
	require.NoError(t, err)
	require.Equal(t, "TX-1", d.OriginalID)
	require.Equal(t, "2026-03-15", d.DateOfTransaction.Format("2006-01-02"))
	require.True(t, d.Amount.Equal(decimal.RequireFromString("-1234.56")), "got %s", d.Amount)
	require.Equal(t, "CZK", d.Currency, "blank currency falls back to the mapping default")
	require.Equal(t, "123456789/0100", d.CounterpartyAccountNumber)
	require.Equal(t, "first second", d.OtherNote)
}

func TestExtractMissingAmountFails(t *testing.T) {
	t.Parallel()

	_, err := ExtractTransactionData(RawRow{"date": "15.03.2026"}, testMapping())
	require.ErrorContains(t, err, "amount")
}

func TestExtractMissingDateFails(t *testing.T) {
	t.Parallel()

	_, err := ExtractTransactionData(RawRow{"amount": "10"}, testMapping())
	require.ErrorContains(t, err, "date_of_transaction")
}

func TestExtractBadAmountFails(t *testing.T) {
	t.Parallel()

	_, err := ExtractTransactionData(RawRow{"amount": "abc", "date": "15.03.2026"}, testMapping())
	require.ErrorContains(t, err, "parse amount")
}

func TestJoinAccountNumber(t *testing.T) {
	t.Parallel()

	require.Equal(t, "123/0100", joinAccountNumber("123", "0100"))
	require.Equal(t, "123", joinAccountNumber("123", ""))
	require.Equal(t, "0100", joinAccountNumber("", "0100"))
	require.Equal(t, "", joinAccountNumber("", ""))
}

func TestExtractSubmissionDateOwnFormat(t *testing.T) {
	t.Parallel()

	m := testMapping()
	m.Columns.DateOfSubmission = "submitted"
	m.SubmissionDateFormat = "2006-01-02"

	d, err := ExtractTransactionData(RawRow{
		"amount":    "10",
		"date":      "15.03.2026",
		"submitted": "2026-03-14",
	}, m)
	require.NoError(t, err)
	require.NotNil(t, d.DateOfSubmission)
	require.Equal(t, "2026-03-14", d.DateOfSubmission.Format("2006-01-02"))
}

func TestDataFromTransactionRoundTrip(t *testing.T) {
	t.Parallel()

	origID := "TX-9"
	txn := repository.Transaction{
		OriginalID:                &origID,
		Amount:                    decimal.RequireFromString("-50"),
		Currency:                  "CZK",
		CounterpartyAccountNumber: "1/0100",
		CounterpartyNote:          "note",
		MyNote:                    "mine",
	}

	d := DataFromTransaction(txn)
	require.Equal(t, "TX-9", d.OriginalID)
	require.Equal(t, "1/0100", d.CounterpartyAccountNumber)
	require.Equal(t, "note", d.CounterpartyNote)
	require.Equal(t, "mine", d.MyNote)
}
