/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. AccessLog:  zerolog line per request (method, path, status, latency)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the frontend
  5. RateLimit:  Per-IP limit (ulule/limiter, in-memory); off when empty

ROUTE GROUPS:
  /api/categorias/*       Category registry
  /api/activos/*          Asset ledger and status toggles
  /api/depreciaciones/*   Compute, batch close, ledger entries
  /api/reportes/*         Projection, PDF sheet, portfolio summary
  /api/escenarios/*       Demo catalogs
  /api/health             Liveness

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RouterOptions carries the configurable parts of the middleware stack.
type RouterOptions struct {
	CORSOrigins []string
	RateLimit   string // ulule format, e.g. "300-M"; empty disables
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	if opts.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(opts.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", opts.RateLimit, err)
		}
		r.Use(stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate)).Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Category routes
		r.Route("/categorias", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Get("/{id}", h.GetCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})

		// Asset routes
		r.Route("/activos", func(r chi.Router) {
			r.Get("/", h.ListAssets)
			r.Post("/", h.CreateAsset)
			r.Get("/{id}", h.GetAsset)
			r.Put("/{id}", h.UpdateAsset)
			r.Delete("/{id}", h.DeleteAsset)
			r.Put("/{id}/activar", h.ActivateAsset)
			r.Put("/{id}/desactivar", h.DeactivateAsset)
		})

		// Depreciation routes
		r.Route("/depreciaciones", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/calcular/{assetId}", h.ComputeDepreciation)
			r.Post("/cierre", h.ClosePeriod)
			r.Get("/cierres", h.ListCloseRuns)
			r.Get("/{id}", h.GetEntry)
			r.Delete("/{id}", h.DeleteEntry)
		})

		// Report routes
		r.Route("/reportes", func(r chi.Router) {
			r.Get("/resumen", h.GetSummary)
			r.Get("/activos/{id}/proyeccion", h.GetProjection)
			r.Get("/activos/{id}/pdf", h.GetAssetPDF)
		})

		// Scenario routes
		r.Route("/escenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/cargar", h.LoadScenario)
			r.Post("/reset", h.ResetStore)
		})
	})

	return r, nil
}

// AccessLog writes one structured line per request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}
