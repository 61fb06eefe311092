// Package api exposes the gateway's tool surface over HTTP: query
// execution, schema discovery, concept lookup, canned reports, and the
// security status endpoints.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"omopgate/internal/catalog"
	"omopgate/internal/dictionary"
	"omopgate/internal/gateway"
	"omopgate/internal/middleware"
	"omopgate/internal/service/query"
	"omopgate/internal/service/report"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	query      *query.Service
	gateway    *gateway.Gateway
	catalog    *catalog.Service
	dictionary *dictionary.Dictionary // nil when no dictionary source configured
	reports    *report.Service
	logger     *slog.Logger
}

// NewHandler creates the API handler. dict may be nil.
func NewHandler(q *query.Service, gw *gateway.Gateway, cat *catalog.Service, dict *dictionary.Dictionary, rep *report.Service, logger *slog.Logger) *Handler {
	return &Handler{
		query:      q,
		gateway:    gw,
		catalog:    cat,
		dictionary: dict,
		reports:    rep,
		logger:     logger.With("component", "api"),
	}
}

// RouterConfig carries transport-level settings for the router.
type RouterConfig struct {
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

// NewRouter builds the chi router with the standard middleware stack.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		}))
	}

	r.Get("/healthz", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/query", h.ExecuteQuery)
		r.Get("/status", h.SecurityStatus)
		r.Get("/audit/summary", h.AuditSummary)

		r.Get("/schema", h.ListTables)
		r.Get("/schema/{table}", h.TableInfo)

		r.Get("/concepts", h.SearchConcepts)
		r.Get("/concepts/{id}", h.LookupConcept)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/demographics", h.Demographics)
			r.Get("/conditions", h.ConditionPrevalence)
			r.Get("/mortality", h.Mortality)
		})
	})

	return r
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
