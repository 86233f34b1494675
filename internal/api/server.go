package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yangwenmai/herogen/internal/store"
)

// defaultRunsLimit caps /api/runs when the caller does not pass a limit.
const defaultRunsLimit = 20

// Server serves the current hero asset and run history read-only.
type Server struct {
	publicDir  string
	runs       store.RunReader
	corsOrigin string
	runsLimit  int
	metrics    *metrics
	mux        *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithRuns exposes run history at /api/runs. Without it the endpoint returns
// an empty list.
func WithRuns(r store.RunReader) Option {
	return func(s *Server) { s.runs = r }
}

// WithCORSOrigin sets the Access-Control-Allow-Origin value. Empty means "*".
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

// WithRunsLimit sets the default number of runs returned by /api/runs.
func WithRunsLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.runsLimit = n
		}
	}
}

// New creates a new preview server rooted at publicDir.
func New(publicDir string, opts ...Option) *Server {
	srv := &Server{
		publicDir: publicDir,
		runsLimit: defaultRunsLimit,
		metrics:   newMetrics(),
		mux:       http.NewServeMux(),
	}
	for _, o := range opts {
		o(srv)
	}
	srv.routes()
	return srv
}

// Handler returns the root http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.corsOrigin, s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /hero", s.handleHero)
	s.mux.HandleFunc("GET /api/hero", s.handleHeroInfo)
	s.mux.HandleFunc("GET /api/runs", s.handleListRuns)
	s.mux.Handle("GET /public/", http.StripPrefix("/public/", http.FileServer(http.Dir(s.publicDir))))
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func corsMiddleware(origin string, next http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
