/*
registry.go - Asset categories

PURPOSE:
  A category gives a class of assets its default useful life and annual
  depreciation rate. The declining-balance method reads the rate from
  here at computation time.

RULES:
  - nombreCategoria non-empty
  - vidaUtilPredeterminada > 0 (years)
  - tasaDepreciacionAnual in (0, 1]
  - a category referenced by any asset cannot be deleted

SEE ALSO:
  - assets.go: assets reference a category by id
*/
package depreciation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryInput is the writable part of a Category.
type CategoryInput struct {
	Name              string          `json:"nombreCategoria" validate:"required"`
	Description       string          `json:"descripcion"`
	Status            Status          `json:"estado" validate:"omitempty,oneof=ACTIVO INACTIVO"`
	DefaultUsefulLife int             `json:"vidaUtilPredeterminada" validate:"gt=0,lte=100"`
	AnnualRate        decimal.Decimal `json:"tasaDepreciacionAnual" validate:"dgt=0,dlte=1"`
	AccountingCode    string          `json:"codigoContable"`
}

func (in *CategoryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.AccountingCode = strings.TrimSpace(in.AccountingCode)
	if in.Status == "" {
		in.Status = StatusActive
	}
}

// Validate reports every violated field at once.
func (in CategoryInput) Validate() error {
	in.normalize()
	return validateStruct(in).OrNil()
}

// =============================================================================
// CATEGORY REGISTRY
// =============================================================================

type CategoryRegistry struct {
	Store  Store
	Locker Locker
	Clock  func() time.Time
}

func (r *CategoryRegistry) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	in.normalize()
	if err := validateStruct(in).OrNil(); err != nil {
		return nil, err
	}

	c := Category{
		ID:        uuid.NewString(),
		CreatedAt: now(r.Clock),
	}
	in.apply(&c)
	if err := r.Store.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategory replaces every writable field; fechaCreacion is kept.
func (r *CategoryRegistry) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error) {
	in.normalize()
	if err := validateStruct(in).OrNil(); err != nil {
		return nil, err
	}

	var updated Category
	err := withLock(ctx, r.Locker, CategoryKey(id), func() error {
		c, err := r.Store.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return &NotFoundError{Kind: "category", ID: id}
		}
		in.apply(c)
		ts := now(r.Clock)
		c.UpdatedAt = &ts
		if err := r.Store.SaveCategory(ctx, *c); err != nil {
			return err
		}
		updated = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *CategoryRegistry) GetCategory(ctx context.Context, id string) (*Category, error) {
	c, err := r.Store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &NotFoundError{Kind: "category", ID: id}
	}
	return c, nil
}

func (r *CategoryRegistry) ListCategories(ctx context.Context) ([]Category, error) {
	return r.Store.ListCategories(ctx)
}

// DeleteCategory refuses while any asset references the category.
func (r *CategoryRegistry) DeleteCategory(ctx context.Context, id string) error {
	return withLock(ctx, r.Locker, CategoryKey(id), func() error {
		return r.Store.WithTx(ctx, func(tx Store) error {
			c, err := tx.GetCategory(ctx, id)
			if err != nil {
				return err
			}
			if c == nil {
				return &NotFoundError{Kind: "category", ID: id}
			}
			n, err := tx.CountAssetsByCategory(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return &ConflictError{Kind: "category", ID: id, Dependents: "assets", Count: n}
			}
			return tx.DeleteCategory(ctx, id)
		})
	})
}

func (in CategoryInput) apply(c *Category) {
	c.Name = in.Name
	c.Description = in.Description
	c.Status = in.Status
	c.DefaultUsefulLife = in.DefaultUsefulLife
	c.AnnualRate = in.AnnualRate
	c.AccountingCode = in.AccountingCode
}

// =============================================================================
// HELPERS
// =============================================================================

func now(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}

// withLock runs fn while holding key. A nil locker runs fn unguarded.
func withLock(ctx context.Context, l Locker, key string, fn func() error) error {
	if l == nil {
		return fn()
	}
	unlock, err := l.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}
