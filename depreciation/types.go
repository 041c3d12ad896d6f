/*
Package depreciation provides the fixed-asset depreciation engine.

PURPOSE:
  Keeps asset categories, the fixed assets that reference them, and an
  append-only history of depreciation entries. Book value is never stored
  as a running balance: it is derived from the latest entry of an asset,
  or from its acquisition cost when no entry exists yet.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: default useful life and annual rate for a class of assets
  - Asset: acquisition data, lifecycle state and depreciation method
  - Entry: an immutable depreciation charge with the resulting book value
  - Status/Method: closed enums whose values are part of the wire contract

DESIGN PRINCIPLES:
  1. Immutability: entries are never modified, only deleted as a reversal
  2. Precision: money uses decimal.Decimal rounded to cents
  3. One formula per method, dispatched on the Method tag (methods.go)
  4. All-or-nothing writes through Store.WithTx

SEE ALSO:
  - registry.go: CategoryRegistry
  - assets.go:   AssetLedger
  - engine.go:   DepreciationEngine
  - ledger.go:   DepreciationLedger
*/
package depreciation

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENUMS
// =============================================================================

type Status string

const (
	StatusActive      Status = "ACTIVO"
	StatusInactive    Status = "INACTIVO"
	StatusMaintenance Status = "EN_MANTENIMIENTO"
	StatusDisposed    Status = "DADO_DE_BAJA"
)

// Toggleable reports whether the status can be flipped by activate/deactivate.
// EN_MANTENIMIENTO and DADO_DE_BAJA only change through a full edit.
func (s Status) Toggleable() bool {
	return s == StatusActive || s == StatusInactive
}

// View partitions asset states the way listing screens group them.
type View string

const (
	ViewAll      View = ""
	ViewActive   View = "activos"
	ViewInactive View = "inactivos"
)

// Includes reports whether an asset in status s belongs to the view.
func (v View) Includes(s Status) bool {
	switch v {
	case ViewActive:
		return s == StatusActive || s == StatusMaintenance
	case ViewInactive:
		return s == StatusInactive || s == StatusDisposed
	default:
		return true
	}
}

type Method string

const (
	MethodStraightLine      Method = "LINEA_RECTA"
	MethodSumOfDigits       Method = "SUMA_DIGITOS"
	MethodDecliningBalance  Method = "REDUCCION_SALDOS"
	MethodUnitsOfProduction Method = "UNIDADES_PRODUCIDAS"
)

// Methods lists every supported method in display order.
var Methods = []Method{
	MethodStraightLine,
	MethodSumOfDigits,
	MethodDecliningBalance,
	MethodUnitsOfProduction,
}

// =============================================================================
// CATEGORY
// =============================================================================

type Category struct {
	ID                string          `json:"id"`
	Name              string          `json:"nombreCategoria"`
	Description       string          `json:"descripcion,omitempty"`
	Status            Status          `json:"estado"`
	DefaultUsefulLife int             `json:"vidaUtilPredeterminada"`
	AnnualRate        decimal.Decimal `json:"tasaDepreciacionAnual"`
	AccountingCode    string          `json:"codigoContable,omitempty"`
	CreatedAt         time.Time       `json:"fechaCreacion"`
	UpdatedAt         *time.Time      `json:"fechaModificacion"`
}

// =============================================================================
// ASSET
// =============================================================================

type Asset struct {
	ID              string           `json:"id"`
	Description     string           `json:"descripcion"`
	Type            string           `json:"tipo"`
	Brand           string           `json:"marca"`
	Model           string           `json:"modelo"`
	Zone            string           `json:"zona"`
	Cost            decimal.Decimal  `json:"costoAdquisicion"`
	PurchaseDate    Date             `json:"fechaCompra"`
	CategoryID      string           `json:"categoriaId"`
	UsefulLifeYears int              `json:"vidaUtilAnios"`
	Status          Status           `json:"estado"`
	ResidualValue   decimal.Decimal  `json:"valorResidual"`
	Method          Method           `json:"metodoDepreciacion"`
	EstimatedUnits  *decimal.Decimal `json:"unidadesEstimadas,omitempty"`

	// AnnualDepreciation caches the annual charge of the latest computation.
	AnnualDepreciation *decimal.Decimal `json:"depreciacionAnual"`

	CreatedAt time.Time  `json:"fechaCreacion"`
	UpdatedAt *time.Time `json:"fechaModificacion"`
}

// DepreciableBase is cost minus residual value.
func (a Asset) DepreciableBase() decimal.Decimal {
	return a.Cost.Sub(a.ResidualValue)
}

// =============================================================================
// ENTRY - Immutable depreciation charge
// =============================================================================

type Entry struct {
	ID            string           `json:"id"`
	AssetID       string           `json:"activoId"`
	Date          Date             `json:"fecha"`
	Charge        decimal.Decimal  `json:"valorDepreciado"`
	BookValue     decimal.Decimal  `json:"valorLibros"`
	Year          int              `json:"anioDepreciacion"`
	Month         int              `json:"mesDepreciacion"`
	AppliedRate   *decimal.Decimal `json:"tasaDepreciacionAplicada,omitempty"`
	Notes         string           `json:"observaciones,omitempty"`
	Method        Method           `json:"metodoDepreciacion"`
	Periods       int              `json:"periodosAcumulados"`
	UnitsProduced *decimal.Decimal `json:"unidadesProducidas,omitempty"`
	CreatedAt     time.Time        `json:"fechaRegistro"`
}

// Order selects how entries are sorted by date.
type Order string

const (
	OrderDesc Order = "desc"
	OrderAsc  Order = "asc"
)

// EntryFilter narrows ListEntries. Zero value lists everything, newest first.
type EntryFilter struct {
	AssetID string
	Order   Order
}

// AssetFilter narrows ListAssets. Zero value lists everything.
type AssetFilter struct {
	View       View
	CategoryID string
}

// =============================================================================
// MONEY
// =============================================================================

// roundMoney rounds to cents, half away from zero.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
