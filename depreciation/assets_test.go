package depreciation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/asset-depreciation/depreciation"
)

// =============================================================================
// CREATE / VALIDATE
// =============================================================================

func TestAsset_Create_Defaults(t *testing.T) {
	svc, _ := newTestService(t)
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")

	a := mustAsset(t, svc, assetInput(cat.ID))

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, depreciation.StatusActive, a.Status)
	assert.Equal(t, depreciation.MethodStraightLine, a.Method)
	assert.Equal(t, date("2023-01-01"), a.PurchaseDate)
	assert.Nil(t, a.AnnualDepreciation)
	assert.Equal(t, fixedNow, a.CreatedAt)
	assertDec(t, "5000", a.DepreciableBase())
}

func TestAsset_ResidualBound(t *testing.T) {
	// GIVEN: An asset whose residual is not below its cost
	// WHEN: Creating it
	// THEN: valorResidual is rejected

	svc, _ := newTestService(t)
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")

	for _, residual := range []string{"5500.50", "6000"} {
		in := assetInput(cat.ID)
		in.ResidualValue = dec(residual)
		_, err := svc.Assets.CreateAsset(context.Background(), in)
		assert.Equal(t, []string{"valorResidual"}, fieldsOf(t, err), residual)
	}

	in := assetInput(cat.ID)
	in.ResidualValue = dec("0")
	_, err := svc.Assets.CreateAsset(context.Background(), in)
	assert.NoError(t, err, "zero residual is allowed")
}

func TestAsset_UsefulLifeCeiling(t *testing.T) {
	// GIVEN: An asset with a useful life of 5 billion years
	// WHEN: Creating it
	// THEN: vidaUtilAnios is rejected and nothing is stored

	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")

	in := assetInput(cat.ID)
	in.UsefulLifeYears = 5000000000
	_, err := svc.Assets.CreateAsset(ctx, in)
	assert.ErrorIs(t, err, depreciation.ErrValidation)
	assert.Equal(t, []string{"vidaUtilAnios"}, fieldsOf(t, err))

	assets, err := svc.Assets.ListAssets(ctx, depreciation.AssetFilter{})
	require.NoError(t, err)
	assert.Empty(t, assets)

	in.UsefulLifeYears = 100
	a, err := svc.Assets.CreateAsset(ctx, in)
	require.NoError(t, err)
	p, err := svc.Engine.Projection(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, p.Rows, 100)
}

func TestAsset_DecimalBoundsAreExact(t *testing.T) {
	// GIVEN: Amounts that only differ from their bound far past float precision
	// WHEN: Creating the asset
	// THEN: The comparison is made on the exact decimal value

	svc, _ := newTestService(t)
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")

	in := assetInput(cat.ID)
	in.ResidualValue = dec("-0.000000000000000000001")
	_, err := svc.Assets.CreateAsset(context.Background(), in)
	assert.Equal(t, []string{"valorResidual"}, fieldsOf(t, err))

	in = assetInput(cat.ID)
	in.Method = depreciation.MethodUnitsOfProduction
	in.EstimatedUnits = decPtr("0.000000000000000000001")
	_, err = svc.Assets.CreateAsset(context.Background(), in)
	assert.NoError(t, err)
}

func TestAsset_Validation_ReportsEveryField(t *testing.T) {
	// GIVEN: An empty asset with a bad method and status
	// WHEN: Creating it
	// THEN: Every violated field is reported in one error

	svc, _ := newTestService(t)

	_, err := svc.Assets.CreateAsset(context.Background(), depreciation.AssetInput{
		Status:         "ROTO",
		Method:         "MAGIA",
		ResidualValue:  dec("-1"),
		EstimatedUnits: decPtr("0"),
	})
	assert.ElementsMatch(t, []string{
		"descripcion",
		"costoAdquisicion",
		"fechaCompra",
		"categoriaId",
		"vidaUtilAnios",
		"estado",
		"valorResidual",
		"metodoDepreciacion",
		"unidadesEstimadas",
	}, fieldsOf(t, err))
}

func TestAsset_UnknownCategory_Rejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Assets.CreateAsset(context.Background(), assetInput("missing"))
	assert.Equal(t, []string{"categoriaId"}, fieldsOf(t, err))
}

func TestAsset_BadPurchaseDate_Rejected(t *testing.T) {
	svc, _ := newTestService(t)
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")

	in := assetInput(cat.ID)
	in.PurchaseDate = "01/02/2023"
	_, err := svc.Assets.CreateAsset(context.Background(), in)
	assert.Equal(t, []string{"fechaCompra"}, fieldsOf(t, err))
}

func TestAsset_InactiveCategory_Allowed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	_, err := svc.Categories.UpdateCategory(ctx, cat.ID, depreciation.CategoryInput{
		Name: cat.Name, Status: depreciation.StatusInactive, DefaultUsefulLife: 5, AnnualRate: dec("0.20"),
	})
	require.NoError(t, err)

	_, err = svc.Assets.CreateAsset(ctx, assetInput(cat.ID))
	assert.NoError(t, err)
}

// =============================================================================
// UPDATE / READ
// =============================================================================

func TestAsset_Update_KeepsIdentityAndCache(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	a := mustAsset(t, svc, assetInput(cat.ID))
	_, err := svc.Engine.ComputeDepreciation(ctx, a.ID, date("2024-01-01"), nil)
	require.NoError(t, err)

	in := assetInput(cat.ID)
	in.Description = "Laptop gerencia"
	in.Status = depreciation.StatusMaintenance
	updated, err := svc.Assets.UpdateAsset(ctx, a.ID, in)
	require.NoError(t, err)

	assert.Equal(t, a.ID, updated.ID)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Laptop gerencia", updated.Description)
	assert.Equal(t, depreciation.StatusMaintenance, updated.Status)
	require.NotNil(t, updated.AnnualDepreciation)
	assertDec(t, "1000", *updated.AnnualDepreciation)
	require.NotNil(t, updated.UpdatedAt)

	_, err = svc.Assets.UpdateAsset(ctx, "missing", in)
	assert.ErrorIs(t, err, depreciation.ErrNotFound)
}

func TestAsset_Reads_AreIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	a := mustAsset(t, svc, assetInput(cat.ID))

	first, err := svc.Assets.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	second, err := svc.Assets.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	list1, err := svc.Assets.ListAssets(ctx, depreciation.AssetFilter{})
	require.NoError(t, err)
	list2, err := svc.Assets.ListAssets(ctx, depreciation.AssetFilter{})
	require.NoError(t, err)
	assert.Equal(t, list1, list2)

	_, err = svc.Assets.GetAsset(ctx, "missing")
	assert.ErrorIs(t, err, depreciation.ErrNotFound)
}

func TestAsset_List_Filters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	computo := mustCategory(t, svc, "Cómputo", 5, "0.20")
	muebles := mustCategory(t, svc, "Mobiliario", 10, "0.10")

	statuses := []depreciation.Status{
		depreciation.StatusActive,
		depreciation.StatusMaintenance,
		depreciation.StatusInactive,
		depreciation.StatusDisposed,
	}
	for _, s := range statuses {
		in := assetInput(computo.ID)
		in.Status = s
		mustAsset(t, svc, in)
	}
	mustAsset(t, svc, assetInput(muebles.ID))

	count := func(f depreciation.AssetFilter) int {
		list, err := svc.Assets.ListAssets(ctx, f)
		require.NoError(t, err)
		return len(list)
	}
	assert.Equal(t, 5, count(depreciation.AssetFilter{}))
	assert.Equal(t, 3, count(depreciation.AssetFilter{View: depreciation.ViewActive}))
	assert.Equal(t, 2, count(depreciation.AssetFilter{View: depreciation.ViewInactive}))
	assert.Equal(t, 1, count(depreciation.AssetFilter{CategoryID: muebles.ID}))
	assert.Equal(t, 2, count(depreciation.AssetFilter{View: depreciation.ViewActive, CategoryID: computo.ID}))
}

// =============================================================================
// STATUS TRANSITIONS
// =============================================================================

func TestAsset_SetStatus_ToggleRoundTrip(t *testing.T) {
	// GIVEN: An ACTIVO asset
	// WHEN: Deactivating and reactivating it
	// THEN: Both transitions succeed

	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	a := mustAsset(t, svc, assetInput(cat.ID))

	inactive, err := svc.Assets.SetStatus(ctx, a.ID, depreciation.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, depreciation.StatusInactive, inactive.Status)

	active, err := svc.Assets.SetStatus(ctx, a.ID, depreciation.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, depreciation.StatusActive, active.Status)

	again, err := svc.Assets.SetStatus(ctx, a.ID, depreciation.StatusActive)
	require.NoError(t, err, "setting the current status is a no-op")
	assert.Equal(t, depreciation.StatusActive, again.Status)
}

func TestAsset_SetStatus_FromMaintenance_Fails(t *testing.T) {
	// GIVEN: Assets in EN_MANTENIMIENTO and DADO_DE_BAJA
	// WHEN: Toggling them
	// THEN: InvalidTransitionError; the stored status is unchanged

	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")

	for _, from := range []depreciation.Status{depreciation.StatusMaintenance, depreciation.StatusDisposed} {
		in := assetInput(cat.ID)
		in.Status = from
		a := mustAsset(t, svc, in)

		_, err := svc.Assets.SetStatus(ctx, a.ID, depreciation.StatusActive)
		require.ErrorIs(t, err, depreciation.ErrInvalidTransition, from)
		var trErr *depreciation.InvalidTransitionError
		require.ErrorAs(t, err, &trErr)
		assert.Equal(t, from, trErr.From)

		got, err := svc.Assets.GetAsset(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, from, got.Status)
	}
}

func TestAsset_SetStatus_TargetMustBeToggleable(t *testing.T) {
	svc, _ := newTestService(t)
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	a := mustAsset(t, svc, assetInput(cat.ID))

	_, err := svc.Assets.SetStatus(context.Background(), a.ID, depreciation.StatusDisposed)
	assert.Equal(t, []string{"estado"}, fieldsOf(t, err))
}

// =============================================================================
// DELETE
// =============================================================================

func TestAsset_Delete_BlockedByEntries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, "Cómputo", 5, "0.20")
	a := mustAsset(t, svc, assetInput(cat.ID))
	entry, err := svc.Engine.ComputeDepreciation(ctx, a.ID, date("2024-01-01"), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Assets.DeleteAsset(ctx, a.ID), depreciation.ErrConflict)

	require.NoError(t, svc.Ledger.DeleteEntry(ctx, entry.ID))
	require.NoError(t, svc.Assets.DeleteAsset(ctx, a.ID))
	assert.ErrorIs(t, svc.Assets.DeleteAsset(ctx, a.ID), depreciation.ErrNotFound)
}
