package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeywordRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	repo := NewKeywordRepo(db)

	catRepo := NewCategoryRepo(db)
	require.NoError(t, catRepo.Upsert(ctx, Category{ID: "cat-1", Name: "Food"}))
	require.NoError(t, catRepo.UpsertSubcategory(ctx, Subcategory{ID: "sub-1", CategoryID: "cat-1", Name: "Groceries"}))

	subID := "sub-1"
	k := Keyword{
		ID:                 "k1",
		Description:        "lidl",
		Rules:              KeywordRules{Include: []string{"lidl", "praha"}, Exclude: []string{"refund"}},
		SubcategoryID:      &subID,
		WantNeedInvestment: WNINeed,
	}
	require.NoError(t, repo.Upsert(ctx, k))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, k.Rules, got[0].Rules)
	require.Equal(t, "sub-1", *got[0].SubcategoryID)

	// Upsert with the same ID replaces.
	k.Rules.Exclude = nil
	k.Ignore = true
	require.NoError(t, repo.Upsert(ctx, k))
	got, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Empty(t, got[0].Rules.Exclude)
	require.True(t, got[0].Ignore)

	require.NoError(t, repo.Delete(ctx, "k1"))
	got, err = repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestKeywordListOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	repo := NewKeywordRepo(db)

	require.NoError(t, repo.Upsert(ctx, Keyword{ID: "k2", Description: "beta", Rules: KeywordRules{Include: []string{"b"}}}))
	require.NoError(t, repo.Upsert(ctx, Keyword{ID: "k1", Description: "alpha", Rules: KeywordRules{Include: []string{"a"}}}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "alpha", got[0].Description)
	require.Equal(t, "beta", got[1].Description)
}
