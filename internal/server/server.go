// Package server exposes the job tracking operations over HTTP for
// tooling that prefers an API to the CLI. It is a thin adapter: all
// decision logic stays in pkg/manager.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/3leaps/slurmtrack/pkg/jobstore"
	"github.com/3leaps/slurmtrack/pkg/manager"
)

// JobService is the slice of pkg/manager this server consumes.
// *manager.Manager satisfies it.
type JobService interface {
	Submit(ctx context.Context, path, displayName string, resubmit bool) (manager.SubmitResult, error)
	List(ctx context.Context, statusFilter string) ([]jobstore.JobRecord, error)
	Cancel(ctx context.Context, jobID string) error
}

// Server serves the HTTP surface for one owner directory.
type Server struct {
	host    string
	port    int
	version string
	jobs    JobService
	log     *zap.Logger
	router  chi.Router
}

// New builds a server. The logger is for request diagnostics only; job
// events still go through the notifier's two sinks.
func New(host string, port int, version string, jobs JobService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{host: host, port: port, version: version, jobs: jobs, log: log}
	s.router = s.buildRouter()
	return s
}

func (s *Server) Port() int {
	return s.port
}

// Handler returns the root handler, exported for httptest use.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Info("http server listening", zap.String("addr", srv.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", s.handleListJobs)
		r.Post("/", s.handleSubmitJob)
		r.Delete("/{jobID}", s.handleCancelJob)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
