/*
projection.go - Useful-life schedule

PURPOSE:
  Shows what the asset's method will charge over its whole useful life,
  starting from cost. Nothing is written; the schedule is computed with
  the same yearly formulas the engine applies, so a compute at each
  anniversary reproduces the schedule row for row.

  UNIDADES_PRODUCIDAS has no calendar schedule (NotImplementedError).

EXAMPLE:
  cost 1000, residual 100, life 3, SUMA_DIGITOS
  year 1  450.00  accumulated 450.00  book 550.00
  year 2  300.00  accumulated 750.00  book 250.00
  year 3  150.00  accumulated 900.00  book 100.00
*/
package depreciation

import (
	"context"

	"github.com/shopspring/decimal"
)

type Projection struct {
	AssetID       string          `json:"activoId"`
	Description   string          `json:"descripcion"`
	Method        Method          `json:"metodoDepreciacion"`
	Cost          decimal.Decimal `json:"costoAdquisicion"`
	ResidualValue decimal.Decimal `json:"valorResidual"`
	Life          int             `json:"vidaUtilAnios"`
	Rows          []ProjectionRow `json:"filas"`
}

type ProjectionRow struct {
	Year        int             `json:"anio"`
	Period      Period          `json:"periodo"`
	Rate        decimal.Decimal `json:"tasa"`
	Charge      decimal.Decimal `json:"valorDepreciado"`
	Accumulated decimal.Decimal `json:"depreciacionAcumulada"`
	BookValue   decimal.Decimal `json:"valorLibros"`
}

// Projection builds the full schedule for one asset.
func (e *Engine) Projection(ctx context.Context, assetID string) (*Projection, error) {
	a, err := e.Store.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &NotFoundError{Kind: "asset", ID: assetID}
	}
	f, ok := yearlyFormulas[a.Method]
	if !ok {
		return nil, &NotImplementedError{
			Feature: "projection for " + string(a.Method),
			Reason:  "charges depend on units reported at each computation",
		}
	}
	rate, err := e.categoryRate(ctx, e.Store, *a)
	if err != nil {
		return nil, err
	}
	return schedule(*a, f, rate), nil
}

func schedule(a Asset, f yearlyFormula, rate decimal.Decimal) *Projection {
	p := &Projection{
		AssetID:       a.ID,
		Description:   a.Description,
		Method:        a.Method,
		Cost:          a.Cost,
		ResidualValue: a.ResidualValue,
		Life:          a.UsefulLifeYears,
		Rows:          make([]ProjectionRow, 0, a.UsefulLifeYears),
	}
	in := yearInput{
		Base:     a.DepreciableBase(),
		Residual: a.ResidualValue,
		Life:     a.UsefulLifeYears,
		Rate:     rate,
	}
	book := a.Cost
	accumulated := decimal.Zero
	for k := 1; k <= a.UsefulLifeYears; k++ {
		in.Year, in.BookValue = k, book
		charge, r := yearCharge(f, in)
		book = book.Sub(charge)
		accumulated = accumulated.Add(charge)
		p.Rows = append(p.Rows, ProjectionRow{
			Year:        k,
			Period:      UsefulLifeYear(a.PurchaseDate, k),
			Rate:        r,
			Charge:      charge,
			Accumulated: accumulated,
			BookValue:   book,
		})
	}
	return p
}
