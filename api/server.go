// Package api provides the HTTP REST API for fundwatch.
//
// It exposes the holdings cache to the rendering layer: per-fund results,
// a cross-fund symbol scan, a manual refresh trigger, and cache status.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fundwatch/fundwatch/internal/cache"
	"github.com/fundwatch/fundwatch/internal/config"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	cache  *cache.Service
	log    *zap.Logger
}

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Warming bool        `json:"warming,omitempty"`
}

// StatusResponse is the body of GET /api/v1/status.
type StatusResponse struct {
	Fresh       bool      `json:"fresh"`
	Warming     bool      `json:"warming"`
	LastUpdated time.Time `json:"last_updated"`
	Funds       int       `json:"funds"`
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, svc *cache.Service, log *zap.Logger) *Server {
	srv := &Server{cfg: cfg, cache: svc, log: log}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/funds", s.handleAllFunds)
		r.Get("/funds/{name}", s.handleFund)
		r.Get("/holdings/{symbol}", s.handleSymbol)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/status", s.handleStatus)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]string{"status": "ok"},
	})
}

// handleAllFunds returns every cached FundResult. While the cache is still
// cold the response is 503 with the warming flag so the caller can render
// a loading state instead of an empty dataset.
func (s *Server) handleAllFunds(w http.ResponseWriter, r *http.Request) {
	data, err := s.cache.All()
	if err != nil {
		writeWarming(w, s.cache.Warming())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	result, err := s.cache.Fund(name)
	if err != nil {
		if err == cache.ErrNotCached {
			writeWarming(w, s.cache.Warming())
			return
		}
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	matches, err := s.cache.BySymbol(symbol)
	if err != nil {
		writeWarming(w, s.cache.Warming())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: matches})
}

// handleRefresh triggers an out-of-schedule refresh cycle. The cycle runs
// in the background; when one is already in progress the trigger is a
// no-op, which the response body indicates.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.cache.Warming() {
		writeJSON(w, http.StatusAccepted, APIResponse{Success: true, Warming: true})
		return
	}
	go s.cache.Refresh(context.Background())
	writeJSON(w, http.StatusAccepted, APIResponse{Success: true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	funds := 0
	if data, err := s.cache.All(); err == nil {
		funds = len(data)
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: StatusResponse{
			Fresh:       s.cache.Fresh(),
			Warming:     s.cache.Warming(),
			LastUpdated: s.cache.LastUpdated(),
			Funds:       funds,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}

func writeWarming(w http.ResponseWriter, warming bool) {
	writeJSON(w, http.StatusServiceUnavailable, APIResponse{
		Success: false,
		Error:   "holdings not cached yet",
		Warming: warming,
	})
}
