package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jsykora/kasa/internal/database/repository"
)

func existingTxn(originalID string, date string, amount string) repository.Transaction {
	d, _ := time.Parse("2006-01-02", date)
	t := repository.Transaction{
		ID:                "existing-1",
		DateOfTransaction: d,
		Amount:            decimal.RequireFromString(amount),
	}
	if originalID != "" {
		t.OriginalID = &originalID
	}
	return t
}

func TestDetectAlreadyImported(t *testing.T) {
	t.Parallel()

	d := NewDuplicateDetector([]repository.Transaction{
		existingTxn("TX-1", "2026-03-15", "-100.50"),
	})

	date, _ := time.Parse("2006-01-02", "2026-03-15")
	match := d.Check(TransactionData{
		OriginalID:        "TX-1",
		DateOfTransaction: date,
		Amount:            decimal.RequireFromString("-100.5"),
	})
	require.Equal(t, AlreadyImported, match.Tier, "amounts compare by value, not by formatting")
	require.Equal(t, "existing-1", match.Existing.ID)
}

func TestDetectSameIDDifferentAmountIsNew(t *testing.T) {
	t.Parallel()

	d := NewDuplicateDetector([]repository.Transaction{
		existingTxn("TX-1", "2026-03-15", "-100"),
	})

	date, _ := time.Parse("2006-01-02", "2026-03-15")
	match := d.Check(TransactionData{
		OriginalID:        "TX-1",
		DateOfTransaction: date,
		Amount:            decimal.RequireFromString("-200"),
	})
	require.Equal(t, NotDuplicate, match.Tier)
}

func TestDetectPossibleDuplicateWithoutOriginalID(t *testing.T) {
	t.Parallel()

	existing := existingTxn("", "2026-03-15", "-100")
	existing.CounterpartyAccountNumber = "123/0100"
	existing.VariableSymbol = "42"
	existing.CounterpartyNote = "LIDL PRAHA"
	d := NewDuplicateDetector([]repository.Transaction{existing})

	date, _ := time.Parse("2006-01-02", "2026-03-15")
	match := d.Check(TransactionData{
		DateOfTransaction:         date,
		Amount:                    decimal.RequireFromString("-100"),
		CounterpartyAccountNumber: "123/0100",
		VariableSymbol:            "42",
		CounterpartyNote:          "LIDL PRAHA",
	})
	require.Equal(t, PossibleDuplicate, match.Tier)
	require.InDelta(t, 1.0, match.NoteSimilarity, 0.001)
}

func TestDetectRowWithOriginalIDSkipsFuzzyTier(t *testing.T) {
	t.Parallel()

	existing := existingTxn("", "2026-03-15", "-100")
	existing.CounterpartyAccountNumber = "123/0100"
	d := NewDuplicateDetector([]repository.Transaction{existing})

	date, _ := time.Parse("2006-01-02", "2026-03-15")
	match := d.Check(TransactionData{
		OriginalID:                "TX-NEW",
		DateOfTransaction:         date,
		Amount:                    decimal.RequireFromString("-100"),
		CounterpartyAccountNumber: "123/0100",
	})
	require.Equal(t, NotDuplicate, match.Tier, "a bank-side ID is authoritative; no heuristic matching")
}

func TestNoteSimilarity(t *testing.T) {
	t.Parallel()

	a := TransactionData{CounterpartyNote: "LIDL PRAHA 4"}
	b := repository.Transaction{CounterpartyNote: "lidl praha 4"}
	require.InDelta(t, 1.0, noteSimilarity(a, b), 0.001, "similarity is case-insensitive")

	c := repository.Transaction{CounterpartyNote: "completely different"}
	require.Less(t, noteSimilarity(a, c), 0.5)

	require.InDelta(t, 1.0, noteSimilarity(TransactionData{}, repository.Transaction{}), 0.001)
	require.InDelta(t, 0.0, noteSimilarity(a, repository.Transaction{}), 0.001)
}
