/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  The few JSON shapes that are not domain types. Categories, assets,
  entries, projections and close runs are serialized as-is: their JSON
  tags already carry the field names the frontend uses.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Envelopes

SEE ALSO:
  - handlers.go: Uses these types
  - depreciation/types.go: Domain JSON contract
*/
package api

import (
	"github.com/warp/asset-depreciation/depreciation"
	"github.com/warp/asset-depreciation/factory"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []depreciation.FieldError `json:"fields,omitempty"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes an embedded demo catalog.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Categories  int    `json:"categorias"`
	Assets      int    `json:"activos"`
}

// LoadScenarioRequest selects the catalog to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// LoadScenarioResponse reports what was created.
type LoadScenarioResponse struct {
	Status  string           `json:"status"`
	Summary *factory.Summary `json:"resumen"`
}

// =============================================================================
// HEALTH
// =============================================================================

type HealthDTO struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
