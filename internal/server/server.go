// Package server exposes a form view (and optionally a dashboard view) over
// HTTP with CSRF protection, Prometheus metrics and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-jsonform/internal/metrics"
	"github.com/goliatone/go-jsonform/pkg/dashboard"
	"github.com/goliatone/go-jsonform/pkg/formview"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla"
	"github.com/goliatone/go-jsonform/pkg/suggest"
)

// AssetsPrefix is where the embedded stylesheet is served.
const AssetsPrefix = "/assets/"

// StylesheetPath is the href pages should link to pick up the embedded
// stylesheet, e.g. vanilla.WithDocument(server.StylesheetPath).
const StylesheetPath = AssetsPrefix + vanilla.StylesheetName

// DefaultShutdownGrace bounds how long in-flight requests may finish.
const DefaultShutdownGrace = 5 * time.Second

// Server wires views and renderers into an http.Handler.
type Server struct {
	form         *formview.View
	renderer     *vanilla.Renderer
	dashboard    *dashboard.View
	dashRenderer *dashboard.Renderer
	metrics      *metrics.Metrics
	logger       *zap.Logger
	grace        time.Duration
	csrf         csrfGuard
}

// Option configures a Server.
type Option func(*Server)

// WithDashboard mounts GET /dashboard.
func WithDashboard(view *dashboard.View, renderer *dashboard.Renderer) Option {
	return func(s *Server) {
		s.dashboard = view
		s.dashRenderer = renderer
	}
}

// WithMetrics mounts GET /metrics and counts submissions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the request logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownGrace overrides DefaultShutdownGrace.
func WithShutdownGrace(grace time.Duration) Option {
	return func(s *Server) {
		if grace > 0 {
			s.grace = grace
		}
	}
}

// WithSecureCookies marks the CSRF cookie Secure, for TLS deployments.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.csrf.secure = secure
	}
}

// New builds a Server for form rendered by renderer.
func New(form *formview.View, renderer *vanilla.Renderer, options ...Option) (*Server, error) {
	if form == nil {
		return nil, errors.New("server: form view is required")
	}
	if renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	s := &Server{
		form:     form,
		renderer: renderer,
		logger:   zap.NewNop(),
		grace:    DefaultShutdownGrace,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.dashboard != nil && s.dashRenderer == nil {
		dashRenderer, err := dashboard.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("server: dashboard renderer: %w", err)
		}
		s.dashRenderer = dashRenderer
	}
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /form", s.handleForm)
	mux.HandleFunc("POST /form", s.handleSubmit)
	mux.HandleFunc("GET /form.json", s.handleSchema)
	mux.Handle("GET /form/options/{field}", suggest.NewHandler(s.fieldOptions))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET "+AssetsPrefix, http.StripPrefix(AssetsPrefix, http.FileServerFS(vanilla.AssetsFS())))
	if s.dashboard != nil {
		mux.HandleFunc("GET /dashboard", s.handleDashboard)
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/form", http.StatusFound)
	})
	return s.logRequests(mux)
}

// Start kicks off the background loads without blocking.
func (s *Server) Start(ctx context.Context) {
	s.form.LoadAsync(ctx)
	if s.dashboard != nil {
		s.dashboard.LoadAsync(ctx)
	}
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve starts the loads, serves on ln and shuts down gracefully once ctx is
// done. The returned error is nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	s.Start(groupCtx)

	group.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		s.logger.Info("stopped")
		return nil
	})

	err := group.Wait()
	s.form.Close()
	if s.dashboard != nil {
		s.dashboard.Close()
	}
	return err
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
