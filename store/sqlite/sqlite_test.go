package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/asset-depreciation/depreciation"
	"github.com/warp/asset-depreciation/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var fixedNow = time.Date(2025, time.March, 1, 9, 30, 0, 123456789, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestService(t *testing.T) (*depreciation.Service, *sqlite.Store) {
	store := newTestStore(t)
	return depreciation.New(store, depreciation.WithClock(func() time.Time { return fixedNow })), store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func seedAsset(t *testing.T, svc *depreciation.Service) (*depreciation.Category, *depreciation.Asset) {
	t.Helper()
	ctx := context.Background()
	cat, err := svc.Categories.CreateCategory(ctx, depreciation.CategoryInput{
		Name:              "Cómputo",
		Description:       "Equipos",
		DefaultUsefulLife: 5,
		AnnualRate:        dec("0.20"),
		AccountingCode:    "1.2.05",
	})
	require.NoError(t, err)
	a, err := svc.Assets.CreateAsset(ctx, depreciation.AssetInput{
		Description:     "Laptop",
		Type:            "Equipo",
		Brand:           "Lenovo",
		Model:           "T14",
		Zone:            "Caja",
		Cost:            dec("5500.50"),
		PurchaseDate:    "2023-01-01",
		CategoryID:      cat.ID,
		UsefulLifeYears: 5,
		ResidualValue:   dec("500.50"),
	})
	require.NoError(t, err)
	return cat, a
}

// =============================================================================
// ROUND TRIPS
// =============================================================================

func TestStore_CategoryRoundTrip(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	cat, _ := seedAsset(t, svc)

	got, err := store.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cat.Name, got.Name)
	assert.Equal(t, "Equipos", got.Description)
	assert.Equal(t, "1.2.05", got.AccountingCode)
	assert.Equal(t, depreciation.StatusActive, got.Status)
	assert.True(t, dec("0.20").Equal(got.AnnualRate))
	assert.True(t, fixedNow.Equal(got.CreatedAt))
	assert.Nil(t, got.UpdatedAt)

	missing, err := store.GetCategory(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_AssetRoundTrip(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	_, a := seedAsset(t, svc)

	got, err := store.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Laptop", got.Description)
	assert.Equal(t, "Lenovo", got.Brand)
	assert.Equal(t, depreciation.MustParseDate("2023-01-01"), got.PurchaseDate)
	assert.True(t, dec("5500.50").Equal(got.Cost))
	assert.True(t, dec("500.50").Equal(got.ResidualValue))
	assert.Equal(t, depreciation.MethodStraightLine, got.Method)
	assert.Nil(t, got.EstimatedUnits)
	assert.Nil(t, got.AnnualDepreciation)

	got.EstimatedUnits = decPtr("1500")
	got.AnnualDepreciation = decPtr("1000")
	require.NoError(t, store.SaveAsset(ctx, *got))

	again, err := store.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, again.EstimatedUnits)
	assert.True(t, dec("1500").Equal(*again.EstimatedUnits))
	assert.True(t, dec("1000").Equal(*again.AnnualDepreciation))
}

func TestStore_ComputeAndReadBack(t *testing.T) {
	// GIVEN: The straight-line laptop in SQLite
	// WHEN: Computing one year
	// THEN: The entry and the annual cache survive a read-back

	svc, store := newTestService(t)
	ctx := context.Background()
	_, a := seedAsset(t, svc)

	entry, err := svc.Engine.ComputeDepreciation(ctx, a.ID, depreciation.MustParseDate("2024-01-01"), nil)
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(entry.Charge))
	assert.True(t, dec("4500.50").Equal(entry.BookValue))

	got, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.AssetID, got.AssetID)
	assert.Equal(t, entry.Date, got.Date)
	assert.True(t, entry.Charge.Equal(got.Charge))
	assert.True(t, entry.BookValue.Equal(got.BookValue))
	assert.True(t, entry.AppliedRate.Equal(*got.AppliedRate))
	assert.Equal(t, entry.Notes, got.Notes)
	assert.Equal(t, 1, got.Periods)
	assert.Nil(t, got.UnitsProduced)
	assert.True(t, fixedNow.Equal(got.CreatedAt))

	latest, err := store.LatestEntry(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, latest.ID)

	stored, err := store.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(*stored.AnnualDepreciation))
}

func TestStore_EntriesOrderedByDate(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	_, a := seedAsset(t, svc)

	for _, d := range []string{"2024-01-01", "2026-01-01", "2028-01-01"} {
		_, err := svc.Engine.ComputeDepreciation(ctx, a.ID, depreciation.MustParseDate(d), nil)
		require.NoError(t, err)
	}

	entries, err := store.ListEntries(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-01-01", entries[0].Date.String())
	assert.Equal(t, "2028-01-01", entries[2].Date.String())
	assert.True(t, dec("500.50").Equal(entries[2].BookValue))

	n, err := store.CountEntriesByAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_CloseRunRoundTrip(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedAsset(t, svc)

	run, err := svc.Engine.ClosePeriod(ctx, depreciation.MustParseDate("2024-01-01"))
	require.NoError(t, err)

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 1, runs[0].Processed)
	assert.True(t, dec("1000").Equal(runs[0].Total))
	require.Len(t, runs[0].Details, 1)
	assert.Equal(t, depreciation.CloseProcessed, runs[0].Details[0].Result)
	assert.True(t, dec("1000").Equal(*runs[0].Details[0].Charge))
}

// =============================================================================
// INTEGRITY
// =============================================================================

func TestStore_ForeignKeysEnforced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveAsset(ctx, depreciation.Asset{
		ID:           "orphan",
		Description:  "Sin categoría",
		Cost:         dec("100"),
		PurchaseDate: depreciation.MustParseDate("2024-01-01"),
		CategoryID:   "missing",
		Status:       depreciation.StatusActive,
		Method:       depreciation.MethodStraightLine,
		CreatedAt:    fixedNow,
	})
	assert.Error(t, err)
}

func TestStore_WithTx_RollsBackOnError(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	cat, _ := seedAsset(t, svc)

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx depreciation.Store) error {
		c, err := tx.GetCategory(ctx, cat.ID)
		require.NoError(t, err)
		c.Name = "Renombrada"
		require.NoError(t, tx.SaveCategory(ctx, *c))

		// Nested calls join the outer transaction.
		return tx.WithTx(ctx, func(inner depreciation.Store) error {
			got, err := inner.GetCategory(ctx, cat.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renombrada", got.Name)
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	got, err := store.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cómputo", got.Name)
}

func TestStore_Reset(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	_, a := seedAsset(t, svc)
	_, err := svc.Engine.ComputeDepreciation(ctx, a.ID, depreciation.MustParseDate("2024-01-01"), nil)
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assets, err := store.ListAssets(ctx)
	require.NoError(t, err)
	entries, err := store.ListEntries(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, categories)
	assert.Empty(t, assets)
	assert.Empty(t, entries)
	assert.NoError(t, store.Ping(ctx))
}

func TestStore_DeleteGuards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cat, a := seedAsset(t, svc)

	assert.ErrorIs(t, svc.Categories.DeleteCategory(ctx, cat.ID), depreciation.ErrConflict)
	require.NoError(t, svc.Assets.DeleteAsset(ctx, a.ID))
	require.NoError(t, svc.Categories.DeleteCategory(ctx, cat.ID))
}
