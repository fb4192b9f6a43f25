package app

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gevapp/gevapp/internal/auth"
	"github.com/gevapp/gevapp/internal/backup"
	"github.com/gevapp/gevapp/internal/catalog"
	"github.com/gevapp/gevapp/internal/customers"
	"github.com/gevapp/gevapp/internal/observability"
	"github.com/gevapp/gevapp/internal/platform/httpx"
	"github.com/gevapp/gevapp/internal/reports"
	"github.com/gevapp/gevapp/internal/sales"
)

// Version is stamped at build time.
var Version = "1.0.0"

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Metrics          *observability.Metrics
	TokenManager     *auth.TokenManager
	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	CustomersHandler *customers.Handler
	SalesHandler     *sales.Handler
	ReportsHandler   *reports.Handler
	BackupHandler    *backup.Handler
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler)

		params.AuthHandler.MountRoutes(r)

		r.Route("/dashboard", params.ReportsHandler.MountDashboard)
		r.Route("/relatorios", params.ReportsHandler.MountReports)
		r.Route("/produtos", params.CatalogHandler.MountRoutes)
		r.Route("/clientes", params.CustomersHandler.MountRoutes)
		r.Route("/vendas", params.SalesHandler.MountRoutes)

		r.Route("/backup", func(r chi.Router) {
			r.Use(auth.RequireAuth(params.TokenManager))
			params.BackupHandler.MountRoutes(r)
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.Config != nil && params.Config.UploadDir != "" {
		// Image URLs are /uploads/produtos/<file>, so serve the parent of
		// the produtos directory.
		root := filepath.Dir(params.Config.UploadDir)
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(root)))
		r.Handle("/uploads/*", uploadCacheHandler(fileServer))
	}

	return r
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, map[string]any{
		"app":       "GEV App Backend",
		"version":   Version,
		"status":    "running",
		"database":  "postgres",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// uploadCacheHandler lets clients cache product images for an hour.
func uploadCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
