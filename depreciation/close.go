/*
close.go - Batch period close

PURPOSE:
  Brings every asset up to an as-of date in one call, typically at year
  end, and keeps a record of the run for audit.

DESIGN:
  - Runs synchronously in the caller's goroutine, either an HTTP
    request or the api.CloseScheduler tick
  - Assets are processed concurrently by at most Workers goroutines
  - Each asset goes through ComputeDepreciation, so the per-asset lock
    and the one-transaction write apply unchanged
  - A failing asset does not stop the run; it is reported in the detail

SKIPPED ASSETS:
  - DADO_DE_BAJA
  - UNIDADES_PRODUCIDAS (needs a units reading per computation)
  - purchased after the as-of date

SEE ALSO:
  - engine.go: ComputeDepreciation
*/
package depreciation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds ClosePeriod concurrency when Engine.Workers is unset.
const DefaultWorkers = 4

type CloseResult string

const (
	CloseProcessed CloseResult = "PROCESADO"
	CloseSkipped   CloseResult = "OMITIDO"
	CloseFailed    CloseResult = "FALLIDO"
)

// CloseDetail is the outcome for one asset.
type CloseDetail struct {
	AssetID string           `json:"activoId"`
	Result  CloseResult      `json:"resultado"`
	EntryID string           `json:"entradaId,omitempty"`
	Charge  *decimal.Decimal `json:"valorDepreciado,omitempty"`
	Reason  string           `json:"motivo,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// CloseRun records one batch close.
type CloseRun struct {
	ID        string          `json:"id"`
	Date      Date            `json:"fecha"`
	Processed int             `json:"procesados"`
	Skipped   int             `json:"omitidos"`
	Failed    int             `json:"fallidos"`
	Total     decimal.Decimal `json:"totalDepreciado"`
	CreatedAt time.Time       `json:"fechaRegistro"`
	Details   []CloseDetail   `json:"detalle"`
}

// ClosePeriod computes depreciation up to asOf for every eligible asset
// and saves the run.
func (e *Engine) ClosePeriod(ctx context.Context, asOf Date) (*CloseRun, error) {
	if asOf.IsZero() {
		return nil, fieldError("fecha", "is required")
	}
	assets, err := e.Store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]CloseDetail, len(assets))
	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, a := range assets {
		if reason := skipReason(a, asOf); reason != "" {
			details[i] = CloseDetail{AssetID: a.ID, Result: CloseSkipped, Reason: reason}
			continue
		}
		i, a := i, a
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := e.ComputeDepreciation(gctx, a.ID, asOf, nil)
			switch {
			case err == nil:
				details[i] = CloseDetail{
					AssetID: a.ID,
					Result:  CloseProcessed,
					EntryID: entry.ID,
					Charge:  decimalPtr(entry.Charge),
				}
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				details[i] = CloseDetail{AssetID: a.ID, Result: CloseFailed, Error: err.Error()}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := CloseRun{
		ID:        uuid.NewString(),
		Date:      asOf,
		Total:     decimal.Zero,
		CreatedAt: now(e.Clock),
		Details:   details,
	}
	for _, d := range details {
		switch d.Result {
		case CloseProcessed:
			run.Processed++
			run.Total = run.Total.Add(*d.Charge)
		case CloseSkipped:
			run.Skipped++
		case CloseFailed:
			run.Failed++
		}
	}
	if err := e.Store.SaveRun(ctx, run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListCloseRuns returns run history, newest first.
func (e *Engine) ListCloseRuns(ctx context.Context) ([]CloseRun, error) {
	runs, err := e.Store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

func skipReason(a Asset, asOf Date) string {
	switch {
	case a.Status == StatusDisposed:
		return "asset is " + string(StatusDisposed)
	case a.Method == MethodUnitsOfProduction:
		return string(MethodUnitsOfProduction) + " needs a units reading"
	case asOf.Before(a.PurchaseDate):
		return "purchased after " + asOf.String()
	}
	return ""
}
