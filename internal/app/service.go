// Package service assembles the development server: the catch-all router,
// metrics and docs routes, the middleware chain and the HTTP server that
// runs them.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/ifrs15/internal/adapters/http/api"
	"github.com/okian/ifrs15/internal/adapters/http/middleware"
	"github.com/okian/ifrs15/internal/adapters/http/router"
	"github.com/okian/ifrs15/internal/adapters/http/site"
	"github.com/okian/ifrs15/internal/adapters/http/swagger"
	"github.com/okian/ifrs15/internal/config"
	"github.com/okian/ifrs15/pkg/logger"
	"github.com/okian/ifrs15/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Error constants.
var (
	ErrBuild = errors.New("failed to build server")
	ErrStart = errors.New("failed to start server")
)

// Service owns the HTTP server of the development API.
type Service struct {
	mu sync.Mutex

	cfg      *config.Config
	logger   logger.Logger
	metrics  *metrics.Manager
	gatherer prometheus.Gatherer

	router  *router.Router
	handler http.Handler
	server  *http.Server

	listener net.Listener
	started  bool
	done     chan struct{}
	serveErr error
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the configuration. Defaults apply otherwise.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager and the registry exposed at the
// metrics path.
func WithMetrics(m *metrics.Manager, g prometheus.Gatherer) Option {
	return func(s *Service) {
		if m != nil && g != nil {
			s.metrics = m
			s.gatherer = g
		}
	}
}

// New builds the handler tree and the HTTP server. Nothing listens until
// Start is called.
func New(opts ...Option) (*Service, error) {
	s := &Service{cfg: config.New()}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics, s.gatherer = defaultMetrics(s.cfg)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	if err := s.build(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

// defaultMetrics records on the process-wide registry when metrics are
// exposed, and on a detached, disabled manager otherwise.
func defaultMetrics(cfg *config.Config) (*metrics.Manager, prometheus.Gatherer) {
	if cfg.MetricsPath != "" {
		return metrics.Default(), metrics.GetRegistry()
	}
	reg := prometheus.NewRegistry()
	return metrics.NewManager(metrics.WithPrometheusRegistry(reg), metrics.WithMetricsEnabled(false)), reg
}

func (s *Service) build() error {
	ctx := context.Background()

	responder, err := api.New(
		api.WithPrefix(s.cfg.APIPrefix),
		api.WithStrictNotFound(s.cfg.StrictNotFound),
		api.WithMetrics(s.metrics),
		api.WithLogger(s.logger.Named("api")),
	)
	if err != nil {
		return err
	}

	static, err := site.New(s.cfg.StaticDir,
		site.WithDemoPage(s.cfg.DemoPage),
		site.WithMetrics(s.metrics),
	)
	if err != nil {
		return err
	}

	s.router = router.New(router.NewClassifier(responder.Prefix(), s.cfg.DemoRoutes), responder, static)

	mux := http.NewServeMux()
	s.router.Register(ctx, mux)
	if s.cfg.MetricsPath != "" {
		mux.Handle("GET "+s.cfg.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.cfg.DocsEnabled {
		swagger.Register(ctx, mux)
	}

	s.handler = middleware.Chain(s.router.Mount(mux),
		middleware.RequestID(),
		middleware.AccessLog(s.logger.Named("http"), s.label),
		middleware.Metrics(s.metrics, s.label),
	)
	return nil
}

// label names the route of r; metrics and docs routes get their own labels.
func (s *Service) label(r *http.Request) string {
	switch {
	case s.cfg.MetricsPath != "" && r.URL.Path == s.cfg.MetricsPath:
		return "metrics"
	case s.cfg.DocsEnabled && (r.URL.Path == swagger.DocsPath || r.URL.Path == swagger.OpenAPIPath):
		return "docs"
	default:
		return s.router.Label(r)
	}
}

// Handler returns the full middleware-wrapped handler tree.
func (s *Service) Handler() http.Handler { return s.handler }

// Start binds the listening socket and serves in the background. Bind
// failures are returned synchronously.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: listen %s: %w", ErrStart, s.cfg.Addr, err)
	}
	s.listener = ln
	s.done = make(chan struct{})
	s.started = true

	s.logger.Info(ctx, "starting HTTP server",
		logger.String("addr", ln.Addr().String()),
		logger.String("static_dir", s.cfg.StaticDir),
		logger.String("api_prefix", s.cfg.APIPrefix),
	)

	go func() {
		defer close(s.done)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(context.Background(), "HTTP server failed", logger.Error(err))
			s.mu.Lock()
			s.serveErr = err
			s.mu.Unlock()
		}
	}()
	return nil
}

// Done is closed once the server stops serving.
func (s *Service) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err returns the error that ended serving, if any.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// until ctx expires.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	done := s.done
	s.mu.Unlock()

	s.logger.Info(ctx, "shutting down server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-done
	s.logger.Info(ctx, "server stopped")
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// BaseURL is the externally advertised URL of the server.
func (s *Service) BaseURL() string {
	port := s.cfg.Port()
	if _, p, err := net.SplitHostPort(s.Addr()); err == nil && p != "" {
		port = p
	}
	return "http://" + net.JoinHostPort(s.cfg.BannerHost, port)
}

// Banner returns the startup lines announcing the server and its pages.
func (s *Service) Banner() []string {
	base := s.BaseURL()
	return []string{
		"🚀 IFRS 15 Development Server running at " + base,
		"📊 Dashboard: " + base + "/dashboard",
		"📋 Contracts: " + base + "/contracts",
		"💰 Revenue: " + base + "/revenue",
		"🔍 API Health: " + base + s.cfg.APIPrefix + api.EndpointHealth,
	}
}
