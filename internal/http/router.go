package http

import (
	"net/http"

	"jobboard/internal/config"
	"jobboard/internal/http/handler"
	mw "jobboard/internal/http/middleware"
	"jobboard/internal/posting"
	"jobboard/internal/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the job postings API, the admin page and health check.
// A nil limiter disables write rate limiting.
func NewRouter(cfg config.Config, svc *posting.Service, limiter mw.Limiter, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	jobH := &handler.JobHandler{Svc: svc, Logger: logger}

	r.Route("/jobs", func(r chi.Router) {
		if limiter != nil && cfg.RateLimitWrites > 0 {
			r.Use(mw.WritesOnly(mw.RateLimit(limiter, mw.ClientIP, cfg.RateLimitWrites, cfg.RateLimitWindow)))
		}

		r.Get("/", jobH.List)
		r.Post("/", jobH.Create)

		r.Get("/{id}", jobH.Get)
		r.Put("/{id}", jobH.Update)
		r.Delete("/{id}", jobH.Delete)
	})

	r.Get("/", web.Index())
	r.Handle("/static/*", web.Static())

	return r
}
