// Package web provides the browser UI and JSON API for an audit session.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/stockaudit/internal/core"
	mw "github.com/JonMunkholm/stockaudit/internal/web/middleware"
)

// Options configures a Server.
type Options struct {
	// ExportDir is the default export directory for finishing the audit.
	ExportDir string

	// ReadTimeout bounds request reads. Zero means no limit.
	ReadTimeout time.Duration

	// RequestTimeout bounds handler execution (default: 30s).
	RequestTimeout time.Duration

	// APIKey, when set, is required on every mutating request.
	APIKey string
}

// Server serves one audit session over HTTP.
//
// Handlers run concurrently while core.Session is single-threaded, so every
// session call goes through mu.
type Server struct {
	mu        sync.Mutex
	session   *core.Session
	exportDir string

	router *chi.Mux
	server *http.Server
	opts   Options

	doneOnce sync.Once
	done     chan core.Outcome
}

// NewServer creates a Server for a loaded session.
func NewServer(session *core.Session, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		session:   session,
		exportDir: opts.ExportDir,
		router:    chi.NewRouter(),
		opts:      opts,
		done:      make(chan core.Outcome, 1),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.opts.RequestTimeout))
	s.router.Use(securityHeaders)
	s.router.Use(mw.APIKeyAuth(s.opts.APIKey))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleDashboard)
	s.router.Post("/count", s.handleCountForm)
	s.router.Post("/remove", s.handleRemoveForm)
	s.router.Post("/finish", s.handleFinishForm)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/session", s.handleSession)

		r.Get("/products", s.handleListProducts)
		r.Get("/products/{sku}", s.handleGetProduct)
		r.Delete("/products/{sku}", s.handleRemoveProduct)
		r.Post("/products/{sku}/count", s.handleSetCount)
		r.Post("/products/{sku}/increase", s.handleIncreaseCount)
		r.Post("/products/{sku}/decrease", s.handleDecreaseCount)

		r.Post("/reconcile", s.handleReconcile)
		r.Get("/report", s.handleReport)
		r.Post("/shutdown", s.handleShutdown)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: s.opts.ReadTimeout,
		IdleTimeout: 60 * time.Second,
	}

	slog.Info("starting server", "addr", addr, "session_id", s.session.ID())
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Done delivers the session Outcome once the audit has been finished and
// exported. The caller owns process termination.
func (s *Server) Done() <-chan core.Outcome {
	return s.done
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// withSession runs fn while holding the session lock.
func (s *Server) withSession(fn func(sess *core.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.session)
}

// finish records a terminal outcome. Only the first one is delivered.
func (s *Server) finish(outcome core.Outcome) {
	if !outcome.Terminate {
		return
	}
	s.doneOnce.Do(func() {
		s.done <- outcome
		close(s.done)
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
