// Package server exposes a read-only HTTP view of a running trainer:
// Prometheus metrics, health checks and the latest engine snapshot.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/opd-ai/go-cannon/pkg/config"
	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/health"
	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/validation"
)

// Per-client request budget for the status endpoints
const (
	RequestBurst  = 50
	RequestWindow = time.Second
)

// StatusServer serves /metrics, /healthz, /readyz and /state.
type StatusServer struct {
	cfg     config.ServerConfig
	store   *engine.SnapshotStore
	checker *health.HealthChecker
	metrics http.Handler
	limiter *validation.RateLimiter
	logger  *logging.Logger
	router  *mux.Router

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
}

// NewStatusServer wires the routes. metrics may be nil, in which case
// /metrics is not registered.
func NewStatusServer(cfg config.ServerConfig, store *engine.SnapshotStore, checker *health.HealthChecker,
	metrics http.Handler, logger *logging.Logger) *StatusServer {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &StatusServer{
		cfg:     cfg,
		store:   store,
		checker: checker,
		metrics: metrics,
		limiter: validation.NewRateLimiter(RequestBurst, RequestWindow),
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *StatusServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.correlate, s.rateLimit)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}
	r.HandleFunc("/healthz", s.checker.LivenessHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.checker.ReadinessHandler).Methods(http.MethodGet)
	r.HandleFunc("/state", s.stateHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/state/{part}", s.statePartHandler).Methods(http.MethodGet, http.MethodOptions)
	return r
}

// Handler returns the router, for tests and embedding.
func (s *StatusServer) Handler() http.Handler {
	return s.router
}

// Start binds address and serves in the background.
func (s *StatusServer) Start(address string) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return logging.WrapError(err, "failed to start status server on %s", address)
	}

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  seconds(s.cfg.ReadTimeout),
		WriteTimeout: seconds(s.cfg.WriteTimeout),
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = srv
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "status server started", "address", ln.Addr().String())

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(ctx, "status server stopped unexpectedly", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" when not listening.
func (s *StatusServer) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *StatusServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.listener = nil
	s.mu.Unlock()

	defer s.limiter.Close()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return logging.WrapError(err, "status server shutdown")
	}
	s.logger.Info(ctx, "status server stopped")
	return nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// correlate tags every request with a correlation ID for the logs.
func (s *StatusServer) correlate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Correlation-ID")
		if id == "" {
			id = logging.GenerateCorrelationID()
		}
		w.Header().Set("X-Correlation-ID", id)
		ctx := logging.WithCorrelationID(r.Context(), id)
		s.logger.Debug(ctx, "status request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *StatusServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !s.limiter.Allow(host) {
			s.logger.Warn(r.Context(), "status request rate limited", "client", host)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func allowCORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func (s *StatusServer) stateHandler(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}
	snap := s.store.Latest()
	if snap == nil {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, r, snap)
}

func (s *StatusServer) statePartHandler(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}
	snap := s.store.Latest()
	if snap == nil {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}

	var part any
	switch mux.Vars(r)["part"] {
	case "target":
		part = struct {
			engine.Target
			Relative physics.Vector2D `json:"relative"`
			Distance float64          `json:"distance"`
		}{snap.Target, snap.TargetRelative, snap.TargetDistance}
	case "shot":
		if snap.Shot == nil {
			http.Error(w, "no shot fired this round", http.StatusNotFound)
			return
		}
		part = snap.Shot
	case "trajectory":
		part = snap.Trajectory
	case "velocity":
		part = snap.VelocitySamples
	default:
		http.Error(w, "unknown state section", http.StatusNotFound)
		return
	}
	s.writeJSON(w, r, part)
}

func (s *StatusServer) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), "failed to encode status response", err)
	}
}
