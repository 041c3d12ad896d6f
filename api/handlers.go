/*
handlers.go - HTTP request handlers

PURPOSE:
  Implements HTTP handlers for all API endpoints. Handlers translate
  HTTP requests into service calls and format responses as JSON.

ARCHITECTURE:
  HTTP Request → Handler → depreciation.Service → Store
                    ↓
              JSON Response

HANDLER GROUPS:
  Categories:    List, Get, Create, Update, Delete
  Assets:        List, Get, Create, Update, Delete, Activate, Deactivate
  Depreciation:  Compute, ClosePeriod, ListCloseRuns, ListEntries,
                 GetEntry, DeleteEntry
  Reports:       Projection, AssetPDF, Summary
  Scenarios:     ListScenarios, LoadScenario (scenarios.go)

ERROR HANDLING:
  Domain errors go through writeDomainError (errors.go). Malformed
  requests (bad JSON, bad query values) are answered with 400 before
  reaching the service.

SEE ALSO:
  - server.go: Route definitions
  - dto.go: Response types
  - depreciation/service.go: Business logic
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/warp/asset-depreciation/depreciation"
	"github.com/warp/asset-depreciation/report"
)

func init() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Resetter clears every table; used by scenario loading.
type Resetter interface {
	Reset(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Service *depreciation.Service
	Store   Resetter
	Clock   func() time.Time
}

// NewHandler creates a new handler.
func NewHandler(svc *depreciation.Service, store Resetter) *Handler {
	return &Handler{Service: svc, Store: store}
}

// today is the default as-of date for computations and closes.
func (h *Handler) today() depreciation.Date {
	if h.Clock != nil {
		return depreciation.DateOf(h.Clock())
	}
	return depreciation.Today()
}

// =============================================================================
// CATEGORY HANDLERS
// =============================================================================

// ListCategories returns all categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.Categories.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetCategory returns a single category.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Categories.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCategory creates a new category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in depreciation.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := h.Service.Categories.CreateCategory(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCategory replaces a category's writable fields.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in depreciation.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := h.Service.Categories.UpdateCategory(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory removes a category nothing references.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Categories.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ASSET HANDLERS
// =============================================================================

// ListAssets returns assets, optionally narrowed by ?vista= and ?categoriaId=.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := depreciation.View(q.Get("vista"))
	switch view {
	case depreciation.ViewAll, depreciation.ViewActive, depreciation.ViewInactive:
	default:
		writeBadRequest(w, "vista", "must be one of activos, inactivos")
		return
	}
	assets, err := h.Service.Assets.ListAssets(r.Context(), depreciation.AssetFilter{
		View:       view,
		CategoryID: q.Get("categoriaId"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// GetAsset returns a single asset.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.Assets.GetAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateAsset registers a new asset.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var in depreciation.AssetInput
	if !decodeBody(w, r, &in) {
		return
	}
	a, err := h.Service.Assets.CreateAsset(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAsset replaces an asset's writable fields.
func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var in depreciation.AssetInput
	if !decodeBody(w, r, &in) {
		return
	}
	a, err := h.Service.Assets.UpdateAsset(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAsset removes an asset with no ledger history.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Assets.DeleteAsset(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateAsset moves INACTIVO to ACTIVO.
func (h *Handler) ActivateAsset(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, depreciation.StatusActive)
}

// DeactivateAsset moves ACTIVO to INACTIVO.
func (h *Handler) DeactivateAsset(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, depreciation.StatusInactive)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, target depreciation.Status) {
	a, err := h.Service.Assets.SetStatus(r.Context(), chi.URLParam(r, "id"), target)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// =============================================================================
// DEPRECIATION HANDLERS
// =============================================================================

// ComputeDepreciation charges an asset up to ?fecha= (default today).
// UNIDADES_PRODUCIDAS assets also take ?unidades=.
func (h *Handler) ComputeDepreciation(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	var units *decimal.Decimal
	if raw := r.URL.Query().Get("unidades"); raw != "" {
		u, err := decimal.NewFromString(raw)
		if err != nil {
			writeBadRequest(w, "unidades", "must be a number")
			return
		}
		units = &u
	}

	entry, err := h.Service.Engine.ComputeDepreciation(r.Context(), chi.URLParam(r, "assetId"), asOf, units)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ClosePeriod computes every eligible asset as of ?fecha= (default today).
func (h *Handler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	run, err := h.Service.Engine.ClosePeriod(r.Context(), asOf)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// ListCloseRuns returns past batch closes, newest first.
func (h *Handler) ListCloseRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Service.Engine.ListCloseRuns(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// ListEntries returns ledger entries, optionally for one asset (?activoId=)
// and in a given order (?orden=asc|desc).
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.Service.Ledger.ListEntries(r.Context(), depreciation.EntryFilter{
		AssetID: q.Get("activoId"),
		Order:   depreciation.Order(q.Get("orden")),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetEntry returns a single entry.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.Ledger.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEntry removes an entry. Later entries are not recomputed.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Ledger.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetProjection returns the useful-life schedule of an asset.
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Engine.Projection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetAssetPDF renders the asset sheet.
func (h *Handler) GetAssetPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := report.Build(r.Context(), h.Service, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if h.Clock != nil {
		rep.GeneratedAt = h.Clock()
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, rep); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="activo-%s.pdf"`, rep.Asset.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("pdf write failed")
	}
}

// GetSummary returns portfolio totals.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.Assets.Summary(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness and, when the store supports it, store reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthDTO{Status: "ok", Store: "ok"}
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			resp.Status, resp.Store = "degraded", err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (depreciation.Date, bool) {
	raw := r.URL.Query().Get("fecha")
	if raw == "" {
		return h.today(), true
	}
	d, err := depreciation.ParseDate(raw)
	if err != nil {
		writeBadRequest(w, "fecha", "must be a date (YYYY-MM-DD)")
		return depreciation.Date{}, false
	}
	return d, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: "Invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := ErrorResponse{Error: code}
	if err != nil {
		resp.Message = err.Error()
	}
	writeJSON(w, status, resp)
}
