package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jsykora/kasa/internal/database/repository"
	"github.com/jsykora/kasa/internal/logger"
)

func TestAuditFindsStoredDuplicates(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newTestFixture(t, ctx)

	date, _ := time.Parse("2006-01-02", "2026-03-01")
	origID := "TX-1"
	mk := func(id string) repository.Transaction {
		return repository.Transaction{
			ID:                id,
			OriginalID:        &origID,
			BankAccountID:     f.account.ID,
			DateOfTransaction: date,
			Amount:            decimal.RequireFromString("-100"),
			Currency:          "CZK",
		}
	}
	// Two rows sharing amount and original ID, as left behind by imports
	// that predate duplicate detection.
	require.NoError(t, f.transactions.BulkCreate(ctx, []repository.Transaction{mk("t1"), mk("t2")}))

	maint := NewMaintenance(logger.Nop(), f.transactions)
	report, err := maint.Audit(ctx)
	require.NoError(t, err)

	require.Len(t, report.DuplicateGroups, 1)
	require.Equal(t, 2, report.DuplicateGroups[0].Count)
	require.ElementsMatch(t, []string{"t1", "t2"}, report.DuplicateGroups[0].IDs)
	require.Equal(t, 2, report.Uncategorized)
}

func TestAuditCleanStore(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newTestFixture(t, ctx)

	report, err := NewMaintenance(logger.Nop(), f.transactions).Audit(ctx)
	require.NoError(t, err)
	require.Empty(t, report.DuplicateGroups)
	require.Zero(t, report.Uncategorized)
}
