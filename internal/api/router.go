package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/credencelab/credence/internal/api/handlers"
	mw "github.com/credencelab/credence/internal/api/middleware"
	"github.com/credencelab/credence/internal/config"
	"github.com/credencelab/credence/internal/domain"
	"github.com/credencelab/credence/internal/service"
	"github.com/credencelab/credence/internal/store"
)

// App holds the router and the collector backing the metrics endpoint.
type App struct {
	Router    *chi.Mux
	startTime time.Time
	metrics   *mw.MetricsCollector
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	documentStore := store.NewDocumentStore(db)

	documentSvc := service.NewDocumentService(documentStore, logger)
	graphSvc := service.NewGraphService(documentSvc, logger)
	cptSvc := service.NewCPTService(documentSvc, config.CPTMaxTableParents(), config.CPTWorkers(), logger)

	documentHandler := handlers.NewDocumentHandler(documentSvc)
	graphHandler := handlers.NewGraphHandler(graphSvc)
	cptHandler := handlers.NewCPTHandler(cptSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
		metrics:   mw.NewMetricsCollector(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Post("/validate", documentHandler.Validate)

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", documentHandler.Create)
			r.Get("/", documentHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", documentHandler.GetByID)
				r.Delete("/", documentHandler.Delete)

				r.Get("/stats", graphHandler.Stats)
				r.Get("/leaves", graphHandler.Leaves)
				r.Get("/roots", graphHandler.Roots)
				r.Get("/critique", graphHandler.Critique)
				r.Post("/grounding", graphHandler.Grounding)
				r.Get("/export", graphHandler.Export)
				r.Get("/cpt", cptHandler.GenerateAll)

				r.Route("/nodes/{nodeID}", func(r chi.Router) {
					r.Get("/", graphHandler.Node)
					r.Get("/ancestors", graphHandler.Ancestors)
					r.Get("/descendants", graphHandler.Descendants)
					r.Get("/subgraph", graphHandler.Subgraph)
					r.Get("/paths", graphHandler.Paths)
					r.Get("/cpt", cptHandler.Table)
					r.Post("/prob", cptHandler.Prob)
				})
			})
		})
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		snap := app.metrics.Snapshot()

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  snap.Requests,
			"error_count":    snap.Errors,
			"in_flight":      snap.InFlight,
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

var _ domain.DocumentStore = (*store.DocumentStore)(nil)
