package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVMappingRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCSVMappingRepo(db)

	m := CSVMapping{
		ID:                   "map-1",
		Name:                 "creditas",
		Encoding:             "windows-1250",
		Delimiter:            ";",
		HeaderRow:            0,
		DateFormat:           "02.01.2006",
		SubmissionDateFormat: "02.01.2006",
		DefaultCurrency:      "CZK",
		Columns: ColumnMap{
			DateOfTransaction: "Datum",
			Amount:            "Částka",
			VariableSymbol:    "VS",
		},
		OtherNoteColumns:     []string{"Popis", "Zpráva"},
		CategorizationFields: []string{"counterparty_note", "my_note"},
	}
	require.NoError(t, repo.Upsert(ctx, m))

	got, err := repo.Get(ctx, "map-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, m.Columns, got.Columns)
	require.Equal(t, m.OtherNoteColumns, got.OtherNoteColumns)
	require.Equal(t, m.CategorizationFields, got.CategorizationFields)

	byName, err := repo.GetByName(ctx, "creditas")
	require.NoError(t, err)
	require.NotNil(t, byName)
	require.Equal(t, "map-1", byName.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCSVMappingEmptyLists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCSVMappingRepo(db)

	require.NoError(t, repo.Upsert(ctx, CSVMapping{ID: "map-1", Name: "bare", Delimiter: ","}))

	got, err := repo.Get(ctx, "map-1")
	require.NoError(t, err)
	require.Empty(t, got.OtherNoteColumns)
	require.Empty(t, got.CategorizationFields)
}
