/*
Package factory provides YAML/JSON catalog loading.

PURPOSE:
  Converts catalog files (categories, assets and optional computations)
  into calls on the depreciation service. Catalogs seed demo data through
  the API and the `seed` command without code changes.

WHY YAML?
  - Accountants can edit a catalog by hand
  - JSON is valid YAML, so exported JSON loads too
  - Catalogs live in version control next to the code

SCHEMA:
  id: oficina
  name: Oficina central
  categorias:
    - clave: computo
      nombreCategoria: Equipos de cómputo
      vidaUtilPredeterminada: 4
      tasaDepreciacionAnual: 0.25
  activos:
    - clave: laptop-01
      categoria: computo          # clave of a category above
      descripcion: Laptop
      costoAdquisicion: 5500.50
      fechaCompra: 2023-01-01
      valorResidual: 500.50       # vidaUtilAnios defaults to the category's
  calculos:
    - activo: laptop-01
      fecha: 2024-01-01

  Keys (clave) only live inside the catalog; stored records get new ids.

SEE ALSO:
  - catalogs/: embedded demo catalogs
  - api/scenarios.go: loads them over HTTP
*/
package factory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/asset-depreciation/depreciation"
)

// =============================================================================
// CATALOG SCHEMA TYPES
// =============================================================================

type Catalog struct {
	ID           string            `yaml:"id" json:"id"`
	Name         string            `yaml:"name" json:"name"`
	Description  string            `yaml:"description" json:"description"`
	Categories   []CategorySpec    `yaml:"categorias" json:"-"`
	Assets       []AssetSpec       `yaml:"activos" json:"-"`
	Computations []ComputationSpec `yaml:"calculos" json:"-"`
}

type CategorySpec struct {
	Key               string          `yaml:"clave"`
	Name              string          `yaml:"nombreCategoria"`
	Description       string          `yaml:"descripcion"`
	Status            string          `yaml:"estado"`
	DefaultUsefulLife int             `yaml:"vidaUtilPredeterminada"`
	AnnualRate        decimal.Decimal `yaml:"tasaDepreciacionAnual"`
	AccountingCode    string          `yaml:"codigoContable"`
}

type AssetSpec struct {
	Key             string           `yaml:"clave"`
	Category        string           `yaml:"categoria"`
	Description     string           `yaml:"descripcion"`
	Type            string           `yaml:"tipo"`
	Brand           string           `yaml:"marca"`
	Model           string           `yaml:"modelo"`
	Zone            string           `yaml:"zona"`
	Cost            decimal.Decimal  `yaml:"costoAdquisicion"`
	PurchaseDate    string           `yaml:"fechaCompra"`
	UsefulLifeYears int              `yaml:"vidaUtilAnios"`
	Status          string           `yaml:"estado"`
	ResidualValue   decimal.Decimal  `yaml:"valorResidual"`
	Method          string           `yaml:"metodoDepreciacion"`
	EstimatedUnits  *decimal.Decimal `yaml:"unidadesEstimadas"`
}

type ComputationSpec struct {
	Asset string           `yaml:"activo"`
	Date  string           `yaml:"fecha"`
	Units *decimal.Decimal `yaml:"unidades"`
}

// Summary reports what a load created.
type Summary struct {
	CatalogID  string `json:"catalogo"`
	Categories int    `json:"categorias"`
	Assets     int    `json:"activos"`
	Entries    int    `json:"depreciaciones"`
}

// =============================================================================
// PARSING
// =============================================================================

// Parse decodes a YAML (or JSON) catalog and checks its internal references.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// check validates keys; field values are validated by the service on load.
func (c *Catalog) check() error {
	categories := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Key == "" {
			return fmt.Errorf("categorias[%d]: clave is required", i)
		}
		if categories[cat.Key] {
			return fmt.Errorf("categorias[%d]: duplicate clave %q", i, cat.Key)
		}
		categories[cat.Key] = true
	}

	assets := make(map[string]bool, len(c.Assets))
	for i, a := range c.Assets {
		if a.Key == "" {
			return fmt.Errorf("activos[%d]: clave is required", i)
		}
		if assets[a.Key] {
			return fmt.Errorf("activos[%d]: duplicate clave %q", i, a.Key)
		}
		if !categories[a.Category] {
			return fmt.Errorf("activos[%d]: unknown categoria %q", i, a.Category)
		}
		assets[a.Key] = true
	}

	for i, comp := range c.Computations {
		if !assets[comp.Asset] {
			return fmt.Errorf("calculos[%d]: unknown activo %q", i, comp.Asset)
		}
	}
	return nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load creates every category and asset, then runs the computations in
// file order. It stops at the first failure; callers reset the store first
// when they need all-or-nothing.
func Load(ctx context.Context, svc *depreciation.Service, c *Catalog) (*Summary, error) {
	sum := &Summary{CatalogID: c.ID}

	categoryIDs := make(map[string]*depreciation.Category, len(c.Categories))
	for _, item := range c.Categories {
		created, err := svc.Categories.CreateCategory(ctx, item.input())
		if err != nil {
			return sum, fmt.Errorf("categoria %q: %w", item.Key, err)
		}
		categoryIDs[item.Key] = created
		sum.Categories++
	}

	assetIDs := make(map[string]string, len(c.Assets))
	for _, item := range c.Assets {
		created, err := svc.Assets.CreateAsset(ctx, item.input(categoryIDs[item.Category]))
		if err != nil {
			return sum, fmt.Errorf("activo %q: %w", item.Key, err)
		}
		assetIDs[item.Key] = created.ID
		sum.Assets++
	}

	for _, comp := range c.Computations {
		date, err := depreciation.ParseDate(comp.Date)
		if err != nil {
			return sum, fmt.Errorf("calculo %q: %w", comp.Asset, err)
		}
		if _, err := svc.Engine.ComputeDepreciation(ctx, assetIDs[comp.Asset], date, comp.Units); err != nil {
			return sum, fmt.Errorf("calculo %q %s: %w", comp.Asset, comp.Date, err)
		}
		sum.Entries++
	}
	return sum, nil
}

func (s CategorySpec) input() depreciation.CategoryInput {
	return depreciation.CategoryInput{
		Name:              s.Name,
		Description:       s.Description,
		Status:            depreciation.Status(s.Status),
		DefaultUsefulLife: s.DefaultUsefulLife,
		AnnualRate:        s.AnnualRate,
		AccountingCode:    s.AccountingCode,
	}
}

// input fills vidaUtilAnios from the category default when omitted.
func (s AssetSpec) input(cat *depreciation.Category) depreciation.AssetInput {
	life := s.UsefulLifeYears
	if life == 0 && cat != nil {
		life = cat.DefaultUsefulLife
	}
	in := depreciation.AssetInput{
		Description:     s.Description,
		Type:            s.Type,
		Brand:           s.Brand,
		Model:           s.Model,
		Zone:            s.Zone,
		Cost:            s.Cost,
		PurchaseDate:    s.PurchaseDate,
		UsefulLifeYears: life,
		Status:          depreciation.Status(s.Status),
		ResidualValue:   s.ResidualValue,
		Method:          depreciation.Method(s.Method),
		EstimatedUnits:  s.EstimatedUnits,
	}
	if cat != nil {
		in.CategoryID = cat.ID
	}
	return in
}
