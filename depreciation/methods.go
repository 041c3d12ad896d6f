/*
methods.go - Depreciation formulas

PURPOSE:
  One pure function per method, selected by the asset's Method tag. The
  functions know nothing about storage or dates: the engine tells them
  which useful-life year is being charged and what the book value is at
  the start of that year.

FORMULAS (base = cost - residual, n = useful life, k = year 1..n):
  LINEA_RECTA          base / n
  SUMA_DIGITOS         base * (n - k + 1) / (n(n+1)/2)
  REDUCCION_SALDOS     book * category rate
  UNIDADES_PRODUCIDAS  base * units / estimated total units

COMMON RULES (yearCharge):
  - each yearly charge is rounded to cents
  - year n charges whatever is left down to the residual value, which
    absorbs rounding drift for every method
  - a charge never takes the book value below the residual value
*/
package depreciation

import (
	"github.com/shopspring/decimal"
)

// yearInput describes one useful-life year being charged.
type yearInput struct {
	Base      decimal.Decimal // cost - residual
	Residual  decimal.Decimal
	Life      int
	Year      int             // 1-based
	BookValue decimal.Decimal // at the start of Year
	Rate      decimal.Decimal // category annual rate
}

// yearlyFormula returns the unrounded charge for one year and the rate it applied.
type yearlyFormula func(in yearInput) (charge, rate decimal.Decimal)

var yearlyFormulas = map[Method]yearlyFormula{
	MethodStraightLine:     straightLine,
	MethodSumOfDigits:      sumOfDigits,
	MethodDecliningBalance: decliningBalance,
}

func straightLine(in yearInput) (decimal.Decimal, decimal.Decimal) {
	life := decimal.NewFromInt(int64(in.Life))
	return in.Base.Div(life), decimal.NewFromInt(1).Div(life)
}

func sumOfDigits(in yearInput) (decimal.Decimal, decimal.Decimal) {
	if in.Year > in.Life {
		return decimal.Zero, decimal.Zero
	}
	n := int64(in.Life)
	digits := decimal.NewFromInt(n * (n + 1) / 2)
	rate := decimal.NewFromInt(n - int64(in.Year) + 1).Div(digits)
	return in.Base.Mul(rate), rate
}

func decliningBalance(in yearInput) (decimal.Decimal, decimal.Decimal) {
	return in.BookValue.Mul(in.Rate), in.Rate
}

// yearCharge applies f to one year with rounding, the final-year remainder
// and the residual floor.
func yearCharge(f yearlyFormula, in yearInput) (decimal.Decimal, decimal.Decimal) {
	charge, rate := f(in)
	if in.Year >= in.Life {
		charge = in.BookValue.Sub(in.Residual)
	}
	return floorCharge(roundMoney(charge), in.BookValue, in.Residual), rate.Round(4)
}

// unitsCharge is the units-of-production charge for one reading.
func unitsCharge(base, units, totalUnits, book, residual decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	rate := units.Div(totalUnits)
	return floorCharge(roundMoney(base.Mul(rate)), book, residual), rate.Round(4)
}

// floorCharge clamps charge to [0, book - residual].
func floorCharge(charge, book, residual decimal.Decimal) decimal.Decimal {
	room := book.Sub(residual)
	if room.IsNegative() {
		room = decimal.Zero
	}
	if charge.IsNegative() {
		return decimal.Zero
	}
	if charge.GreaterThan(room) {
		return room
	}
	return charge
}
