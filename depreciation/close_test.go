package depreciation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/asset-depreciation/depreciation"
	"github.com/warp/asset-depreciation/depreciation/store"
)

func TestClosePeriod_ProcessesEligibleAssets(t *testing.T) {
	// GIVEN: Active, inactive, disposed, units-of-production and
	//        not-yet-purchased assets
	// WHEN: Closing as of 2024-01-01
	// THEN: Only the first two are charged; the rest are skipped with a reason

	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")

	active := mustAsset(t, svc, assetInput(cat.ID))

	inactiveIn := assetInput(cat.ID)
	inactiveIn.Status = depreciation.StatusInactive
	inactive := mustAsset(t, svc, inactiveIn)

	disposedIn := assetInput(cat.ID)
	disposedIn.Status = depreciation.StatusDisposed
	disposed := mustAsset(t, svc, disposedIn)

	unitsIn := assetInput(cat.ID)
	unitsIn.Method = depreciation.MethodUnitsOfProduction
	unitsIn.EstimatedUnits = decPtr("1000")
	units := mustAsset(t, svc, unitsIn)

	futureIn := assetInput(cat.ID)
	futureIn.PurchaseDate = "2024-06-01"
	future := mustAsset(t, svc, futureIn)

	run, err := svc.Engine.ClosePeriod(ctx, date("2024-01-01"))
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, date("2024-01-01"), run.Date)
	assert.Equal(t, 2, run.Processed)
	assert.Equal(t, 3, run.Skipped)
	assert.Equal(t, 0, run.Failed)
	assertDec(t, "2000", run.Total)
	require.Len(t, run.Details, 5)

	byAsset := make(map[string]depreciation.CloseDetail)
	for _, d := range run.Details {
		byAsset[d.AssetID] = d
	}
	assert.Equal(t, depreciation.CloseProcessed, byAsset[active.ID].Result)
	assert.NotEmpty(t, byAsset[active.ID].EntryID)
	assert.Equal(t, depreciation.CloseProcessed, byAsset[inactive.ID].Result)
	for _, id := range []string{disposed.ID, units.ID, future.ID} {
		assert.Equal(t, depreciation.CloseSkipped, byAsset[id].Result)
		assert.NotEmpty(t, byAsset[id].Reason)
	}

	runs, err := svc.Engine.ListCloseRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestClosePeriod_Twice_ChargesOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	mustAsset(t, svc, assetInput(cat.ID))
	mustAsset(t, svc, assetInput(cat.ID))

	first, err := svc.Engine.ClosePeriod(ctx, date("2024-01-01"))
	require.NoError(t, err)
	second, err := svc.Engine.ClosePeriod(ctx, date("2024-01-01"))
	require.NoError(t, err)

	assertDec(t, "2000", first.Total)
	assertDec(t, "0", second.Total)
	assert.Equal(t, 2, second.Processed)
}

func TestClosePeriod_RecordsFailuresWithoutStopping(t *testing.T) {
	// GIVEN: One healthy asset and one whose latest entry is after the close date
	// WHEN: Closing
	// THEN: The healthy asset is charged and the other is recorded as failed

	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	healthy := mustAsset(t, svc, assetInput(cat.ID))
	ahead := mustAsset(t, svc, assetInput(cat.ID))
	_, err := svc.Engine.ComputeDepreciation(ctx, ahead.ID, date("2025-01-01"), nil)
	require.NoError(t, err)

	run, err := svc.Engine.ClosePeriod(ctx, date("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, run.Processed)
	assert.Equal(t, 1, run.Failed)
	for _, d := range run.Details {
		switch d.AssetID {
		case healthy.ID:
			assert.Equal(t, depreciation.CloseProcessed, d.Result)
		case ahead.ID:
			assert.Equal(t, depreciation.CloseFailed, d.Result)
			assert.Contains(t, d.Error, "fecha")
		}
	}
}

func TestClosePeriod_ManyAssets_BoundedWorkers(t *testing.T) {
	mem := store.NewMemory()
	svc := depreciation.New(mem, depreciation.WithWorkers(2))
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	for i := 0; i < 25; i++ {
		mustAsset(t, svc, assetInput(cat.ID))
	}

	run, err := svc.Engine.ClosePeriod(ctx, date("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 25, run.Processed)
	assertDec(t, "25000", run.Total)
}

func TestClosePeriod_Cancelled(t *testing.T) {
	svc, _ := newTestService(t)
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	mustAsset(t, svc, assetInput(cat.ID))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Engine.ClosePeriod(ctx, date("2024-01-01"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListCloseRuns_NewestFirst(t *testing.T) {
	clock := fixedNow
	mem := store.NewMemory()
	svc := depreciation.New(mem, depreciation.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	older, err := svc.Engine.ClosePeriod(ctx, date("2024-01-01"))
	require.NoError(t, err)
	clock = clock.Add(time.Hour)
	newer, err := svc.Engine.ClosePeriod(ctx, date("2025-01-01"))
	require.NoError(t, err)

	runs, err := svc.Engine.ListCloseRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}
