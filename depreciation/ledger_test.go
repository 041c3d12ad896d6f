package depreciation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/asset-depreciation/depreciation"
)

func seedEntries(t *testing.T, svc *depreciation.Service) (a, b *depreciation.Asset) {
	t.Helper()
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	a = mustAsset(t, svc, assetInput(cat.ID))
	b = mustAsset(t, svc, assetInput(cat.ID))

	for _, d := range []string{"2024-01-01", "2025-01-01", "2026-01-01"} {
		_, err := svc.Engine.ComputeDepreciation(ctx, a.ID, date(d), nil)
		require.NoError(t, err)
	}
	_, err := svc.Engine.ComputeDepreciation(ctx, b.ID, date("2024-06-01"), nil)
	require.NoError(t, err)
	return a, b
}

func TestLedger_List_NewestFirstByDefault(t *testing.T) {
	svc, _ := newTestService(t)
	a, _ := seedEntries(t, svc)

	entries, err := svc.Ledger.ListEntries(context.Background(), depreciation.EntryFilter{AssetID: a.ID})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, date("2026-01-01"), entries[0].Date)
	assert.Equal(t, date("2025-01-01"), entries[1].Date)
	assert.Equal(t, date("2024-01-01"), entries[2].Date)
}

func TestLedger_List_Ascending(t *testing.T) {
	svc, _ := newTestService(t)
	a, _ := seedEntries(t, svc)

	entries, err := svc.Ledger.ListEntries(context.Background(), depreciation.EntryFilter{
		AssetID: a.ID,
		Order:   depreciation.OrderAsc,
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, date("2024-01-01"), entries[0].Date)
	assert.Equal(t, date("2026-01-01"), entries[2].Date)

	// Accumulated periods grow with the date.
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Periods, entries[1].Periods, entries[2].Periods})
}

func TestLedger_List_AllAssets(t *testing.T) {
	svc, _ := newTestService(t)
	seedEntries(t, svc)

	entries, err := svc.Ledger.ListEntries(context.Background(), depreciation.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Date.After(entries[i-1].Date), "entries must be newest first")
	}
}

func TestLedger_List_BadOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Ledger.ListEntries(context.Background(), depreciation.EntryFilter{Order: "sideways"})
	assert.Equal(t, []string{"orden"}, fieldsOf(t, err))
}

func TestLedger_GetAndDelete(t *testing.T) {
	// GIVEN: Three entries for one asset
	// WHEN: Deleting the latest
	// THEN: It is gone, the others are untouched and the next computation
	//       continues from the previous entry

	svc, _ := newTestService(t)
	ctx := context.Background()
	a, _ := seedEntries(t, svc)

	entries, err := svc.Ledger.ListEntries(ctx, depreciation.EntryFilter{AssetID: a.ID})
	require.NoError(t, err)
	latest := entries[0]

	got, err := svc.Ledger.GetEntry(ctx, latest.ID)
	require.NoError(t, err)
	assert.Equal(t, latest, *got)

	require.NoError(t, svc.Ledger.DeleteEntry(ctx, latest.ID))
	_, err = svc.Ledger.GetEntry(ctx, latest.ID)
	assert.ErrorIs(t, err, depreciation.ErrNotFound)
	assert.ErrorIs(t, svc.Ledger.DeleteEntry(ctx, latest.ID), depreciation.ErrNotFound)

	remaining, err := svc.Ledger.ListEntries(ctx, depreciation.EntryFilter{AssetID: a.ID})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	next, err := svc.Engine.ComputeDepreciation(ctx, a.ID, date("2026-01-01"), nil)
	require.NoError(t, err)
	assertDec(t, "1000", next.Charge)
	assertDec(t, "2500.50", next.BookValue)
}
