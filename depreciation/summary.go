package depreciation

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SUMMARY - Portfolio totals per category
// =============================================================================

// Summary is a read-only rollup of the whole portfolio.
type Summary struct {
	Categories  []CategorySummary `json:"categorias"`
	ByStatus    map[Status]int    `json:"activosPorEstado"`
	TotalAssets int               `json:"totalActivos"`
	Cost        decimal.Decimal   `json:"costoTotal"`
	Accumulated decimal.Decimal   `json:"depreciacionAcumulada"`
	BookValue   decimal.Decimal   `json:"valorLibros"`
}

type CategorySummary struct {
	CategoryID   string          `json:"categoriaId"`
	CategoryName string          `json:"nombreCategoria"`
	Assets       int             `json:"activos"`
	Cost         decimal.Decimal `json:"costoTotal"`
	Accumulated  decimal.Decimal `json:"depreciacionAcumulada"`
	BookValue    decimal.Decimal `json:"valorLibros"`
}

// Summary totals cost, accumulated depreciation (sum of entries) and
// current book value (latest entry, or cost) per category.
func (l *AssetLedger) Summary(ctx context.Context) (*Summary, error) {
	categories, err := l.Store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	assets, err := l.Store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := l.Store.ListEntries(ctx, "")
	if err != nil {
		return nil, err
	}

	accumulated := make(map[string]decimal.Decimal)
	latest := make(map[string]Entry)
	for _, e := range entries {
		accumulated[e.AssetID] = accumulated[e.AssetID].Add(e.Charge)
		if prev, ok := latest[e.AssetID]; !ok || !entryAfter(prev, e) {
			latest[e.AssetID] = e
		}
	}

	byCategory := make(map[string]*CategorySummary, len(categories))
	for _, c := range categories {
		byCategory[c.ID] = &CategorySummary{CategoryID: c.ID, CategoryName: c.Name}
	}

	s := &Summary{ByStatus: make(map[Status]int)}
	for _, a := range assets {
		cs, ok := byCategory[a.CategoryID]
		if !ok {
			cs = &CategorySummary{CategoryID: a.CategoryID}
			byCategory[a.CategoryID] = cs
		}
		book := a.Cost
		if e, ok := latest[a.ID]; ok {
			book = e.BookValue
		}
		cs.Assets++
		cs.Cost = cs.Cost.Add(a.Cost)
		cs.Accumulated = cs.Accumulated.Add(accumulated[a.ID])
		cs.BookValue = cs.BookValue.Add(book)

		s.ByStatus[a.Status]++
		s.TotalAssets++
		s.Cost = s.Cost.Add(a.Cost)
		s.Accumulated = s.Accumulated.Add(accumulated[a.ID])
		s.BookValue = s.BookValue.Add(book)
	}

	s.Categories = make([]CategorySummary, 0, len(byCategory))
	for _, cs := range byCategory {
		s.Categories = append(s.Categories, *cs)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		if s.Categories[i].CategoryName != s.Categories[j].CategoryName {
			return s.Categories[i].CategoryName < s.Categories[j].CategoryName
		}
		return s.Categories[i].CategoryID < s.Categories[j].CategoryID
	})
	return s, nil
}
