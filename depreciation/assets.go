/*
assets.go - Fixed assets and their lifecycle

PURPOSE:
  Registers assets, edits them with full-replace semantics and moves them
  between lifecycle states. The depreciacionAnual cache is owned by the
  engine; edits never touch it.

LIFECYCLE:
  ACTIVO <──activate/deactivate──> INACTIVO

  EN_MANTENIMIENTO and DADO_DE_BAJA are entered and left only through a
  full edit. Toggling from either is an InvalidTransitionError.
  DADO_DE_BAJA assets cannot be depreciated (engine.go).

VIEWS:
  activos   = ACTIVO + EN_MANTENIMIENTO
  inactivos = INACTIVO + DADO_DE_BAJA

SEE ALSO:
  - registry.go: the category an asset must reference
  - engine.go:   computes entries for an asset
*/
package depreciation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetInput is the writable part of an Asset. Omitted optional fields
// revert to their defaults on update.
type AssetInput struct {
	Description     string           `json:"descripcion" validate:"required"`
	Type            string           `json:"tipo"`
	Brand           string           `json:"marca"`
	Model           string           `json:"modelo"`
	Zone            string           `json:"zona"`
	Cost            decimal.Decimal  `json:"costoAdquisicion" validate:"dgt=0"`
	PurchaseDate    string           `json:"fechaCompra" validate:"required,datetime=2006-01-02"`
	CategoryID      string           `json:"categoriaId" validate:"required"`
	UsefulLifeYears int              `json:"vidaUtilAnios" validate:"gt=0,lte=100"`
	Status          Status           `json:"estado" validate:"oneof=ACTIVO INACTIVO EN_MANTENIMIENTO DADO_DE_BAJA"`
	ResidualValue   decimal.Decimal  `json:"valorResidual" validate:"dgte=0"`
	Method          Method           `json:"metodoDepreciacion" validate:"oneof=LINEA_RECTA SUMA_DIGITOS REDUCCION_SALDOS UNIDADES_PRODUCIDAS"`
	EstimatedUnits  *decimal.Decimal `json:"unidadesEstimadas" validate:"omitempty,dgt=0"`
}

func (in *AssetInput) normalize() {
	in.Description = strings.TrimSpace(in.Description)
	in.Type = strings.TrimSpace(in.Type)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	in.Zone = strings.TrimSpace(in.Zone)
	in.PurchaseDate = strings.TrimSpace(in.PurchaseDate)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if in.Status == "" {
		in.Status = StatusActive
	}
	if in.Method == "" {
		in.Method = MethodStraightLine
	}
}

// validate checks tags, the residual bound and that the category exists.
func (in AssetInput) validate(ctx context.Context, categories CategoryStore) error {
	verr := validateStruct(in)

	if !verr.Has("costoAdquisicion") && !verr.Has("valorResidual") &&
		in.ResidualValue.GreaterThanOrEqual(in.Cost) {
		verr.Add("valorResidual", "must be less than costoAdquisicion")
	}

	if in.CategoryID != "" {
		c, err := categories.GetCategory(ctx, in.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			verr.Add("categoriaId", "category "+in.CategoryID+" does not exist")
		}
	}
	return verr.OrNil()
}

func (in AssetInput) apply(a *Asset) {
	a.Description = in.Description
	a.Type = in.Type
	a.Brand = in.Brand
	a.Model = in.Model
	a.Zone = in.Zone
	a.Cost = roundMoney(in.Cost)
	a.PurchaseDate = MustParseDate(in.PurchaseDate)
	a.CategoryID = in.CategoryID
	a.UsefulLifeYears = in.UsefulLifeYears
	a.Status = in.Status
	a.ResidualValue = roundMoney(in.ResidualValue)
	a.Method = in.Method
	a.EstimatedUnits = in.EstimatedUnits
}

// =============================================================================
// ASSET LEDGER
// =============================================================================

type AssetLedger struct {
	Store  Store
	Locker Locker
	Clock  func() time.Time
}

func (l *AssetLedger) CreateAsset(ctx context.Context, in AssetInput) (*Asset, error) {
	in.normalize()

	var created Asset
	err := l.Store.WithTx(ctx, func(tx Store) error {
		if err := in.validate(ctx, tx); err != nil {
			return err
		}
		a := Asset{
			ID:        uuid.NewString(),
			CreatedAt: now(l.Clock),
		}
		in.apply(&a)
		if err := tx.SaveAsset(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAsset replaces every writable field. id, fechaCreacion and the
// depreciacionAnual cache survive.
func (l *AssetLedger) UpdateAsset(ctx context.Context, id string, in AssetInput) (*Asset, error) {
	in.normalize()

	var updated Asset
	err := withLock(ctx, l.Locker, AssetKey(id), func() error {
		return l.Store.WithTx(ctx, func(tx Store) error {
			a, err := tx.GetAsset(ctx, id)
			if err != nil {
				return err
			}
			if a == nil {
				return &NotFoundError{Kind: "asset", ID: id}
			}
			if err := in.validate(ctx, tx); err != nil {
				return err
			}
			in.apply(a)
			ts := now(l.Clock)
			a.UpdatedAt = &ts
			if err := tx.SaveAsset(ctx, *a); err != nil {
				return err
			}
			updated = *a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (l *AssetLedger) GetAsset(ctx context.Context, id string) (*Asset, error) {
	a, err := l.Store.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &NotFoundError{Kind: "asset", ID: id}
	}
	return a, nil
}

func (l *AssetLedger) ListAssets(ctx context.Context, f AssetFilter) ([]Asset, error) {
	all, err := l.Store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Asset, 0, len(all))
	for _, a := range all {
		if !f.View.Includes(a.Status) {
			continue
		}
		if f.CategoryID != "" && a.CategoryID != f.CategoryID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

// SetStatus toggles between ACTIVO and INACTIVO. Setting the current
// status again succeeds without writing.
func (l *AssetLedger) SetStatus(ctx context.Context, id string, target Status) (*Asset, error) {
	if !target.Toggleable() {
		return nil, fieldError("estado", "must be one of ACTIVO, INACTIVO")
	}

	var result Asset
	err := withLock(ctx, l.Locker, AssetKey(id), func() error {
		a, err := l.Store.GetAsset(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return &NotFoundError{Kind: "asset", ID: id}
		}
		if !a.Status.Toggleable() {
			return &InvalidTransitionError{AssetID: id, From: a.Status, To: target}
		}
		if a.Status != target {
			a.Status = target
			ts := now(l.Clock)
			a.UpdatedAt = &ts
			if err := l.Store.SaveAsset(ctx, *a); err != nil {
				return err
			}
		}
		result = *a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteAsset refuses while depreciation entries reference the asset.
func (l *AssetLedger) DeleteAsset(ctx context.Context, id string) error {
	return withLock(ctx, l.Locker, AssetKey(id), func() error {
		return l.Store.WithTx(ctx, func(tx Store) error {
			a, err := tx.GetAsset(ctx, id)
			if err != nil {
				return err
			}
			if a == nil {
				return &NotFoundError{Kind: "asset", ID: id}
			}
			n, err := tx.CountEntriesByAsset(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return &ConflictError{Kind: "asset", ID: id, Dependents: "depreciation entries", Count: n}
			}
			return tx.DeleteAsset(ctx, id)
		})
	})
}
