package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/metrics"
	appMiddleware "github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/middleware"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/services"
)

type RouterConfig struct {
	Logger  *zap.Logger
	Backend *services.Backend
	Matcher Matcher
	// RateStore throttles /api/matches when set.
	RateStore      appMiddleware.RateStore
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	healthHandler := NewHealthHandler(cfg.Backend.Health, cfg.RequestTimeout)
	schemaHandler := NewSchemaHandler()
	profileHandler := NewProfileHandler(cfg.Backend.Profiles, cfg.RequestTimeout)
	projectHandler := NewProjectHandler(cfg.Backend.Projects, cfg.RequestTimeout)
	endorsementHandler := NewEndorsementHandler(cfg.Backend.Endorsements, cfg.RequestTimeout)
	matchHandler := NewMatchHandler(cfg.Matcher, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(appMiddleware.RequestLogger(log))
	r.Use(metrics.Middleware())
	// Recovered panics still reach the request log and metrics as 500s.
	r.Use(appMiddleware.Recoverer(log))
	r.Use(cors.Handler(corsOptions(origins)))

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Liveness)
	r.Get("/schema", schemaHandler.GetSchema)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Readiness)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", profileHandler.ListProfiles)
			r.Post("/", profileHandler.CreateProfile)

			r.Route("/{profileId}", func(r chi.Router) {
				r.Get("/", profileHandler.GetProfile)
				r.Put("/", profileHandler.UpdateProfile)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Post("/", projectHandler.CreateProject)

			r.Route("/{projectId}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Put("/", projectHandler.UpdateProject)
			})
		})

		r.Route("/endorsements", func(r chi.Router) {
			r.Get("/", endorsementHandler.ListEndorsements)
			r.Post("/", endorsementHandler.CreateEndorsement)
			r.Get("/{endorsementId}", endorsementHandler.GetEndorsement)
		})

		r.Group(func(r chi.Router) {
			if cfg.RateStore != nil {
				r.Use(appMiddleware.RateLimiter(cfg.RateStore, "matches"))
			}
			r.Post("/matches", matchHandler.FindMatches)
		})
	})

	return r
}

// corsOptions allows credentials only for an explicit origin list; browsers
// reject credentialed responses carrying a wildcard origin.
func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	}
}
