// Package httpapi exposes the pipeline, the stored items, and the
// scheduler over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/skimmerhq/skimmer/internal/auth"
	"github.com/skimmerhq/skimmer/internal/cache"
	"github.com/skimmerhq/skimmer/internal/logging"
	"github.com/skimmerhq/skimmer/internal/metrics"
	"github.com/skimmerhq/skimmer/internal/models"
	"github.com/skimmerhq/skimmer/internal/pipeline"
	"github.com/skimmerhq/skimmer/internal/scheduler"
	"github.com/skimmerhq/skimmer/internal/store"
)

type Server struct {
	pipe           *pipeline.Pipeline
	store          store.Store
	sched          *scheduler.Scheduler
	cache          cache.Cache
	authMiddleware *auth.Middleware
	logger         *logging.Logger
	server         *http.Server

	mu       sync.Mutex
	settings models.ScraperSettings
}

func New(pipe *pipeline.Pipeline, st store.Store, sched *scheduler.Scheduler, responseCache cache.Cache, settings models.ScraperSettings, authMiddleware *auth.Middleware, logger *logging.Logger) *Server {
	return &Server{
		pipe:           pipe,
		store:          st,
		sched:          sched,
		cache:          responseCache,
		settings:       settings,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	s.logger.Info("HTTP API server starting", logging.WithField("addr", addr))
	return s.server.ListenAndServe()
}

// Handler builds the route table. Split out from Start so tests can drive
// the full mux without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	guard := func(h http.HandlerFunc) http.HandlerFunc {
		return s.corsMiddleware(s.authMiddleware.RequireAuth(h))
	}

	// Scraper routes
	mux.HandleFunc("/api/scraper/run", guard(s.handleRunScraper))
	mux.HandleFunc("/api/scraper/sessions", guard(s.handleGetSessions))
	mux.HandleFunc("/api/scraper/session/", guard(s.handleGetSession))

	// Post routes
	mux.HandleFunc("/api/posts", guard(s.handleGetPosts))
	mux.HandleFunc("/api/posts/search", guard(s.handleSearchPosts))
	mux.HandleFunc("/api/posts/", guard(s.handleGetPost))
	mux.HandleFunc("/api/analytics", guard(s.handleGetAnalytics))

	// Config and scheduler routes
	mux.HandleFunc("/api/config", guard(s.handleConfig))
	mux.HandleFunc("/api/scheduler/start", guard(s.handleSchedulerStart))
	mux.HandleFunc("/api/scheduler/stop", guard(s.handleSchedulerStop))
	mux.HandleFunc("/api/scheduler/status", guard(s.handleSchedulerStatus))

	// API root banner stays open, like /health.
	mux.HandleFunc("/api/", s.corsMiddleware(s.handleRoot))

	// Operational endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())

	return s.metricsMiddleware(mux)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HTTPRequests.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Skimmer API is running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
