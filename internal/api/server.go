package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultRequestTimeout bounds the docker queries behind one API request
const DefaultRequestTimeout = 30 * time.Second

// Endpoints is the set of connected endpoints. *cluster.Manager implements it.
type Endpoints interface {
	GetAllClients() []*cluster.Client
	GetClient(name string) (*cluster.Client, error)
}

// Server is the HTTP surface over a set of swarm endpoints
type Server struct {
	router    chi.Router
	endpoints Endpoints
	registry  *prometheus.Registry
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithRegistry serves /metrics from reg and records HTTP metrics into it
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithRequestTimeout overrides DefaultRequestTimeout
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewServer builds the router
func NewServer(endpoints Endpoints, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:    chi.NewRouter(),
		endpoints: endpoints,
		timeout:   DefaultRequestTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(newHTTPMetrics(s.registry).middleware)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))

		r.Get("/endpoints", s.handleListEndpoints)

		r.Route("/endpoints/{name}", func(r chi.Router) {
			r.Use(s.endpointCtx)

			r.Get("/info", s.handleInfo)
			r.Get("/local", s.handleLocalNode)
			r.Get("/nodes", s.handleNodes)
			r.Get("/services", s.handleServices)
			r.Get("/resources", s.handleResources)
			r.Get("/alerts", s.handleAlerts)
			r.Get("/summary", s.handleSummary)
			r.Get("/snapshot", s.handleSnapshot)
		})
	})
}

// NewHTTPServer wraps a handler in an http.Server listening on addr
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
