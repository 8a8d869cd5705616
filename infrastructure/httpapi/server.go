// Package httpapi is the thin HTTP shell over the review engine. It
// renders nothing: handlers exchange plain structured data with the
// presentation layer and delegate all logic to the application
// services.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abeaupre/go-classement/internal/application"
	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

// Server exposes the submission and ranking endpoints.
type Server struct {
	submissions *application.SubmissionService
	rankings    *application.RankingService
	catalog     ports.Catalog
	scale       domain.Scale
	logger      *slog.Logger
	router      chi.Router
}

// Options configures optional server behavior.
type Options struct {
	// SubmissionsPerMinute caps POST /api/reviews per client IP.
	// Zero disables the limiter.
	SubmissionsPerMinute int
}

// NewServer builds the router. logger must not be nil.
func NewServer(
	submissions *application.SubmissionService,
	rankings *application.RankingService,
	catalog ports.Catalog,
	scale domain.Scale,
	logger *slog.Logger,
	opts Options,
) *Server {
	s := &Server{
		submissions: submissions,
		rankings:    rankings,
		catalog:     catalog,
		scale:       scale,
		logger:      logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		submit := http.Handler(http.HandlerFunc(s.handleSubmit))
		if opts.SubmissionsPerMinute > 0 {
			submit = newIPRateLimiter(opts.SubmissionsPerMinute)(submit)
		}
		r.Method(http.MethodPost, "/reviews", submit)
		r.Get("/rankings", s.handleRankings)
		r.Get("/programs", s.handlePrograms)
		r.Get("/profiles", s.handleProfiles)
		r.Get("/session", s.handleSession)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// requestLogger logs one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}
