package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries the cross-cutting HTTP settings.
type RouterConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires the dataset API, health check and metrics endpoint.
func NewRouter(h *DatasetHandler, m *Metrics, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "If-None-Match", "X-Requested-With"},
		ExposedHeaders:   []string{"ETag", "Location", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(m.Middleware)

	r.Get("/healthz", HandleHealth)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	r.Route("/api/datasets", func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Post("/", h.HandleUpload)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetDataset)
			r.Get("/records", h.HandleGetRecords)
			r.Get("/summary", h.HandleGetSummary)
			r.Get("/bet-types", h.HandleGetBetTypes)
			r.Get("/sports", h.HandleGetSports)
			r.Get("/equity", h.HandleGetEquity)
			r.Get("/markets", h.HandleGetMarkets)
			r.Get("/audit", h.HandleGetAudit)
			r.Get("/export.xlsx", h.HandleExport)
		})
	})

	return r
}
