package httpadapter

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/observability"
)

// Paths the browser loads boundary files from.
const (
	KoreaGeoPath  = "/geo/korea.json"
	OceansGeoPath = "/geo/oceans.json"
)

//go:embed assets
var assets embed.FS

var (
	dashboardTmpl = template.Must(template.ParseFS(assets, "assets/dashboard.html"))
	staticFS      = mustSub(assets, "assets")
)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// SnapshotProvider exposes the loaded dashboard data and its readiness.
type SnapshotProvider interface {
	CheckReadiness(ctx context.Context) error
	// Snapshot returns nil until the data is loaded.
	Snapshot() *domain.Snapshot
}

// Server serves the dashboard page, its figure API and the health, readiness
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	data       SnapshotProvider
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the dashboard HTTP server.
func NewServer(addr string, data SnapshotProvider, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		data:    data,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /api/dataset", s.handleDataset)
	mux.HandleFunc("GET /api/korea/map", s.handleKoreaMap)
	mux.HandleFunc("GET /api/korea/sea-level", s.handleSeaLevel)
	mux.HandleFunc("GET /api/world/map", s.handleWorldMap)
	mux.HandleFunc("GET /api/export.xlsx", s.handleExport)

	mux.HandleFunc("GET "+KoreaGeoPath, s.handleBoundaries(func(snap *domain.Snapshot) domain.BoundarySet { return snap.Korea }))
	mux.HandleFunc("GET "+OceansGeoPath, s.handleBoundaries(func(snap *domain.Snapshot) domain.BoundarySet { return snap.Oceans }))

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(data))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
