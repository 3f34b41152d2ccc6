// Package api provides the admin-facing HTTP surface of the dashboard
// service.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gitarena/gitarena/internal/api/handler"
	mw "github.com/gitarena/gitarena/internal/api/middleware"
	"github.com/gitarena/gitarena/internal/api/response"
)

// DB covers the database operations the server needs for readiness checks.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Ping(ctx context.Context) error
}

type Server struct {
	router chi.Router
	logger zerolog.Logger
	db     DB
}

func NewServer(logger zerolog.Logger, db DB, builder handler.ViewModelBuilder) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
		db:     db,
	}

	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(mw.RequestLogger(logger))
	s.router.Use(chimw.Recoverer)

	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// Session auth for the admin surface is mounted here by the outer
	// application; the dashboard itself performs no authorization checks.
	s.router.Route("/admin", func(r chi.Router) {
		dash := handler.NewDashboard(builder)
		r.Get("/dashboard", dash.Get)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		response.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
