package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	logging "survival-dashboard/internal/infra/log"
	"survival-dashboard/internal/infra/metrics"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	shutdownTimeout = 10 * time.Second
	dashboardTitle  = "Titanic Survival Dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

// Figures renders dashboard figures by id. A false result means the
// figure is unknown or could not be produced.
type Figures interface {
	RenderID(id string) (string, bool)
}

type Config struct {
	Addr      string
	RateLimit float64 // requests per second
	RateBurst int
}

// Server serves the dashboard pages, health and metrics endpoints.
type Server struct {
	cfg       Config
	figures   Figures
	metrics   *metrics.Collector
	limiter   *rate.Limiter
	templates *template.Template

	httpServer *http.Server
	listener   net.Listener
	done       chan struct{}
	serveErr   error
	mu         sync.Mutex
}

// New creates a Server. It does not listen until Start is called.
func New(cfg Config, figures Figures, collector *metrics.Collector) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if collector == nil {
		collector = metrics.NewCollector("survival")
	}
	return &Server{
		cfg:       cfg,
		figures:   figures,
		metrics:   collector,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		templates: tmpl,
		done:      make(chan struct{}),
	}, nil
}

// Handler builds the router with all middleware attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.instrument)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/", s.handleIndex)
		r.Get("/figure/{figureType}", s.handleFigure)
	})

	r.NotFound(s.handleNotFound)
	return r
}

// Start binds the listener and serves in the background. Cancelling ctx
// starts a graceful shutdown; Wait blocks until it completes.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.mu.Unlock()

	logging.LogSuccess("Dashboard server listening", zap.String("addr", ln.Addr().String()))

	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError("HTTP server error", zap.Error(err))
			s.setErr(err)
		}
	}()

	go func() {
		defer close(s.done)
		select {
		case <-ctx.Done():
		case <-serveDone:
			return
		}

		logging.LogInfo("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			logging.LogError("HTTP server shutdown error", zap.Error(err))
			s.setErr(err)
		}
		<-serveDone
		logging.LogInfo("Server stopped")
	}()

	return nil
}

// Wait blocks until the server has stopped and returns the first serve or
// shutdown error.
func (s *Server) Wait() error {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

func (s *Server) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serveErr == nil {
		s.serveErr = err
	}
}
