/*
engine.go - Depreciation computation

PURPOSE:
  Computes the depreciation of one asset up to an as-of date and records
  the result as a new entry. The asset's depreciacionAnual cache is
  refreshed in the same transaction.

PERIODS:
  Depreciation accrues in full anniversary years counted from fechaCompra.
  Every entry stores periodosAcumulados, the number of full years it
  covers. A new computation charges only the years after the latest
  entry's periodosAcumulados, so calling it twice for the same date
  records a zero charge the second time.

    fechaCompra 2023-01-01, cost 5500.50, residual 500.50, life 5
    compute(2023-06-30) -> 0 years,  charge 0.00,    book 5500.50
    compute(2024-01-01) -> 1 year,   charge 1000.00, book 4500.50
    compute(2026-01-01) -> 3 years,  charge 2000.00, book 2500.50

  UNIDADES_PRODUCIDAS ignores the calendar: each computation charges the
  units reported with the request.

REJECTIONS:
  - DADO_DE_BAJA assets (InvalidStateError)
  - as-of before fechaCompra or before the latest entry (ValidationError on "fecha")
  - UNIDADES_PRODUCIDAS without units on the request (ValidationError on "unidades")
  - UNIDADES_PRODUCIDAS without unidadesEstimadas on the asset (NotImplementedError)

CONCURRENCY:
  The whole computation holds the asset's lock, so two concurrent calls
  for one asset cannot both charge the same year.

SEE ALSO:
  - methods.go: the per-method formulas
  - close.go:   runs this for every asset
*/
package depreciation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Engine struct {
	Store  Store
	Locker Locker
	Clock  func() time.Time

	// Workers bounds ClosePeriod concurrency (DefaultWorkers when zero).
	Workers int
}

// computation is the outcome of charging an asset up to a date.
type computation struct {
	Charge    decimal.Decimal
	BookValue decimal.Decimal
	Annual    decimal.Decimal
	Rate      *decimal.Decimal
	Periods   int
	FromYear  int
	ToYear    int
}

// ComputeDepreciation charges the asset up to asOf and appends the entry.
// units is the production reading for UNIDADES_PRODUCIDAS and ignored otherwise.
func (e *Engine) ComputeDepreciation(ctx context.Context, assetID string, asOf Date, units *decimal.Decimal) (*Entry, error) {
	if asOf.IsZero() {
		return nil, fieldError("fecha", "is required")
	}

	var entry Entry
	err := withLock(ctx, e.Locker, AssetKey(assetID), func() error {
		return e.Store.WithTx(ctx, func(tx Store) error {
			a, err := tx.GetAsset(ctx, assetID)
			if err != nil {
				return err
			}
			if a == nil {
				return &NotFoundError{Kind: "asset", ID: assetID}
			}
			if a.Status == StatusDisposed {
				return &InvalidStateError{AssetID: a.ID, Status: a.Status, Operation: "depreciate"}
			}
			if asOf.Before(a.PurchaseDate) {
				return fieldError("fecha", "must not be before fechaCompra "+a.PurchaseDate.String())
			}

			latest, err := tx.LatestEntry(ctx, a.ID)
			if err != nil {
				return err
			}
			if latest != nil && asOf.Before(latest.Date) {
				return fieldError("fecha", "must not be before the latest depreciation on "+latest.Date.String())
			}

			c, err := e.charge(ctx, tx, *a, latest, asOf, units)
			if err != nil {
				return err
			}

			entry = Entry{
				AssetID:     a.ID,
				Date:        asOf,
				Charge:      c.Charge,
				BookValue:   c.BookValue,
				Year:        asOf.Year(),
				Month:       int(asOf.Month()),
				AppliedRate: c.Rate,
				Method:      a.Method,
				Periods:     c.Periods,
			}
			if a.Method == MethodUnitsOfProduction {
				entry.UnitsProduced = units
				entry.Notes = fmt.Sprintf("%s units", units.String())
			} else if c.ToYear >= c.FromYear && c.ToYear > 0 {
				entry.Notes = fmt.Sprintf("useful-life years %d-%d", c.FromYear, c.ToYear)
			}

			ledger := &Ledger{Store: tx, Clock: e.Clock}
			if err := ledger.AppendEntry(ctx, &entry); err != nil {
				return err
			}

			a.AnnualDepreciation = decimalPtr(c.Annual)
			return tx.SaveAsset(ctx, *a)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// charge works out the new charge and book value without writing anything.
func (e *Engine) charge(ctx context.Context, tx Store, a Asset, latest *Entry, asOf Date, units *decimal.Decimal) (computation, error) {
	book := a.Cost
	charged := 0
	if latest != nil {
		book = latest.BookValue
		charged = latest.Periods
	}
	elapsed := FullYearsBetween(a.PurchaseDate, asOf)
	if elapsed < charged {
		elapsed = charged
	}

	if a.Method == MethodUnitsOfProduction {
		if a.EstimatedUnits == nil || !a.EstimatedUnits.IsPositive() {
			return computation{}, &NotImplementedError{
				Feature: string(MethodUnitsOfProduction),
				Reason:  "asset " + a.ID + " has no unidadesEstimadas",
			}
		}
		if units == nil {
			return computation{}, fieldError("unidades", "is required for "+string(MethodUnitsOfProduction))
		}
		if units.IsNegative() {
			return computation{}, fieldError("unidades", "must be greater than or equal to 0")
		}
		amount, rate := unitsCharge(a.DepreciableBase(), *units, *a.EstimatedUnits, book, a.ResidualValue)
		return computation{
			Charge:    amount,
			BookValue: book.Sub(amount),
			Annual:    amount,
			Rate:      decimalPtr(rate),
			Periods:   elapsed,
		}, nil
	}

	f, ok := yearlyFormulas[a.Method]
	if !ok {
		return computation{}, fieldError("metodoDepreciacion", "unknown method "+string(a.Method))
	}
	rate, err := e.categoryRate(ctx, tx, a)
	if err != nil {
		return computation{}, err
	}

	in := yearInput{
		Base:     a.DepreciableBase(),
		Residual: a.ResidualValue,
		Life:     a.UsefulLifeYears,
		Rate:     rate,
	}
	c := computation{Charge: decimal.Zero, FromYear: charged + 1, ToYear: elapsed, Periods: elapsed}
	for k := charged + 1; k <= elapsed; k++ {
		in.Year, in.BookValue = k, book
		amount, r := yearCharge(f, in)
		c.Charge = c.Charge.Add(amount)
		book = book.Sub(amount)
		c.Annual = amount
		c.Rate = decimalPtr(r)
	}
	c.BookValue = book

	// Nothing new was charged: report what the next year would take.
	if elapsed == charged {
		if next := elapsed + 1; next <= a.UsefulLifeYears {
			in.Year, in.BookValue = next, book
			c.Annual, _ = yearCharge(f, in)
		} else {
			c.Annual = decimal.Zero
		}
	}
	return c, nil
}

// categoryRate loads the rate only for the method that needs it.
func (e *Engine) categoryRate(ctx context.Context, tx Store, a Asset) (decimal.Decimal, error) {
	if a.Method != MethodDecliningBalance {
		return decimal.Zero, nil
	}
	cat, err := tx.GetCategory(ctx, a.CategoryID)
	if err != nil {
		return decimal.Zero, err
	}
	if cat == nil {
		return decimal.Zero, &NotFoundError{Kind: "category", ID: a.CategoryID}
	}
	return cat.AnnualRate, nil
}
