/*
scenarios.go - Demo catalog endpoints

PURPOSE:
  Lists the catalogs embedded in the factory package and loads one into
  an empty store, so the frontend can be demoed without typing data.

HOW LOADING WORKS:
 1. Reset the store (clear all data)
 2. Create the catalog's categories
 3. Create its assets, pointing at the new category ids
 4. Run its computations in file order

USAGE VIA API:

	GET  /api/escenarios
	POST /api/escenarios/cargar   {"scenario_id": "oficina"}
	POST /api/escenarios/reset

NOTE:

	Loading resets the store. Only use in development/demo environments.

SEE ALSO:
  - factory/catalog.go: Catalog schema and Load
  - factory/catalogs/: The embedded catalogs
*/
package api

import (
	"net/http"

	"github.com/warp/asset-depreciation/factory"
)

// ListScenarios returns the embedded catalogs.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	presets, err := factory.Presets()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	dtos := make([]ScenarioDTO, len(presets))
	for i, c := range presets {
		dtos[i] = ScenarioDTO{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Categories:  len(c.Categories),
			Assets:      len(c.Assets),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario resets the store and loads one catalog.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}

	catalog, err := factory.Preset(req.ScenarioID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if catalog == nil {
		writeBadRequest(w, "scenario_id", "unknown scenario")
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeDomainError(w, r, err)
		return
	}
	summary, err := factory.Load(ctx, h.Service, catalog)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoadScenarioResponse{Status: "ok", Summary: summary})
}

// ResetStore clears every table.
func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
