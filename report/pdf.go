// Package report renders depreciation reports.
package report

// pdf.go - Asset depreciation sheet using go-pdf/fpdf.
// One A4 page (more if the history is long) with:
//   - Asset identification and acquisition data
//   - Category, method and useful life
//   - Depreciation history (entries, oldest first)
//   - Useful-life projection when the method has one
//   - Current book value

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/warp/asset-depreciation/depreciation"
)

// AssetReport is everything the asset sheet shows.
type AssetReport struct {
	Asset       depreciation.Asset
	Category    *depreciation.Category
	Entries     []depreciation.Entry
	Projection  *depreciation.Projection
	GeneratedAt time.Time
}

// BookValue is the latest entry's book value, or cost.
func (r AssetReport) BookValue() string {
	if n := len(r.Entries); n > 0 {
		return r.Entries[n-1].BookValue.StringFixed(2)
	}
	return r.Asset.Cost.StringFixed(2)
}

// Build gathers the report data. A method without projection is not an error.
func Build(ctx context.Context, svc *depreciation.Service, assetID string) (*AssetReport, error) {
	a, err := svc.Assets.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	r := &AssetReport{Asset: *a, GeneratedAt: time.Now()}

	if r.Category, err = svc.Categories.GetCategory(ctx, a.CategoryID); err != nil && !errors.Is(err, depreciation.ErrNotFound) {
		return nil, err
	}
	r.Entries, err = svc.Ledger.ListEntries(ctx, depreciation.EntryFilter{AssetID: a.ID, Order: depreciation.OrderAsc})
	if err != nil {
		return nil, err
	}
	r.Projection, err = svc.Engine.Projection(ctx, a.ID)
	if err != nil && !errors.Is(err, depreciation.ErrNotImplemented) {
		return nil, err
	}
	return r, nil
}

// WritePDF renders the asset sheet to w.
func WritePDF(w io.Writer, r *AssetReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr("Ficha de depreciación"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generado "+r.GeneratedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Asset data ───────────────────────────────────────────────────────────
	a := r.Asset
	category := a.CategoryID
	if r.Category != nil {
		category = r.Category.Name
	}
	rows := [][2]string{
		{"Activo", a.Description},
		{"Tipo / Marca / Modelo", fmt.Sprintf("%s / %s / %s", a.Type, a.Brand, a.Model)},
		{"Zona", a.Zone},
		{tr("Categoría"), category},
		{"Estado", string(a.Status)},
		{tr("Método"), string(a.Method)},
		{"Fecha de compra", a.PurchaseDate.String()},
		{tr("Costo de adquisición"), a.Cost.StringFixed(2)},
		{"Valor residual", a.ResidualValue.StringFixed(2)},
		{tr("Vida útil (años)"), fmt.Sprintf("%d", a.UsefulLifeYears)},
	}
	if a.EstimatedUnits != nil {
		rows = append(rows, [2]string{"Unidades estimadas", a.EstimatedUnits.String()})
	}
	labelW := contentW * 0.35
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-labelW, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── History ──────────────────────────────────────────────────────────────
	section(pdf, contentW, "Historial de depreciaciones")
	cols := []float64{contentW * 0.18, contentW * 0.16, contentW * 0.22, contentW * 0.22, contentW * 0.22}
	header(pdf, cols, []string{"Fecha", "Periodos", "Depreciado", "Valor libros", "Tasa"})
	pdf.SetFont("Helvetica", "", 8)
	if len(r.Entries) == 0 {
		pdf.CellFormat(contentW, 6, "Sin depreciaciones registradas", "", 1, "L", false, 0, "")
	}
	for _, e := range r.Entries {
		rate := "-"
		if e.AppliedRate != nil {
			rate = e.AppliedRate.StringFixed(4)
		}
		pdf.CellFormat(cols[0], 5, e.Date.String(), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, fmt.Sprintf("%d", e.Periods), "", 0, "C", false, 0, "")
		pdf.CellFormat(cols[2], 5, e.Charge.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 5, e.BookValue.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 5, rate, "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Projection ───────────────────────────────────────────────────────────
	if r.Projection != nil {
		section(pdf, contentW, tr("Proyección de vida útil"))
		header(pdf, cols, []string{tr("Año"), "Hasta", "Depreciado", "Acumulado", "Valor libros"})
		pdf.SetFont("Helvetica", "", 8)
		for _, row := range r.Projection.Rows {
			pdf.CellFormat(cols[0], 5, fmt.Sprintf("%d", row.Year), "", 0, "L", false, 0, "")
			pdf.CellFormat(cols[1], 5, row.Period.End.String(), "", 0, "C", false, 0, "")
			pdf.CellFormat(cols[2], 5, row.Charge.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(cols[3], 5, row.Accumulated.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(cols[4], 5, row.BookValue.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW*0.6, 7, "VALOR EN LIBROS ACTUAL:", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 7, r.BookValue(), "T", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, width float64, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(width, 7, title, "", 1, "L", false, 0, "")
}

func header(pdf *fpdf.Fpdf, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", 8)
	for i, label := range labels {
		ln := 0
		if i == len(labels)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 6, label, "B", ln, "C", false, 0, "")
	}
}
