package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vmctl/pkg/log"
	"vmctl/pkg/metrics"
	"vmctl/pkg/ports"
)

// Config holds the http server settings.
type Config struct {
	// Endpoint is the address the server listens on.
	Endpoint string
	// ReadHeaderTimeout bounds how long reading request headers may take.
	ReadHeaderTimeout time.Duration
	// Gatherer exposes /metrics when set.
	Gatherer prometheus.Gatherer
}

// Server serves the vm api over http.
type Server struct {
	cfg     *Config
	vms     ports.VMService
	metrics *metrics.Metrics
	router  *mux.Router
	httpSrv *http.Server
}

// NewServer creates the server and registers its routes. m may be nil.
func NewServer(cfg *Config, vms ports.VMService, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		vms:     vms,
		metrics: m,
		router:  mux.NewRouter(),
	}

	s.RegisterRoutes(s.router)

	s.httpSrv = &http.Server{
		Addr:              cfg.Endpoint,
		Handler:           s.router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return s
}

// RegisterRoutes registers all api routes.
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.Use(s.loggingMiddleware, s.metricsMiddleware)

	router.HandleFunc("/vm/start", s.StartVM).Methods(http.MethodPost)
	// Other methods on /vm/start would otherwise match /vm/{id}.
	router.HandleFunc("/vm/start", methodNotAllowed)
	router.HandleFunc("/vm/{id}/stop", s.StopVM).Methods(http.MethodPost)
	router.HandleFunc("/vm/{id}", s.GetVM).Methods(http.MethodGet)
	router.HandleFunc("/vms", s.ListVMs).Methods(http.MethodGet)

	router.HandleFunc("/time_delta", TimeDelta).Methods(http.MethodGet)

	router.HandleFunc("/healthz", HealthCheck).Methods(http.MethodGet)

	if s.cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// Handler returns the root http handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	log.GetLogger(context.Background()).WithField("endpoint", l.Addr().String()).Info("starting http api server")

	if err := s.httpSrv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http api: %w", err)
	}

	return nil
}

// ListenAndServe listens on the configured endpoint and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Endpoint, err)
	}

	return s.Serve(l)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.GetLogger(ctx).Info("shutting down http api server")

	return s.httpSrv.Shutdown(ctx)
}

// HealthCheck provides health status
func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type detailResponse struct {
	Detail any `json:"detail"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, code int, detail any) {
	writeJSON(w, code, detailResponse{Detail: detail})
}
