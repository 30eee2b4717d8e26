package rest

import (
	"context"
	"net/http"
	"time"

	"clinect-backend/interfaces/http/rest/handlers"
	"clinect-backend/interfaces/http/rest/middleware"
	"clinect-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ReadyCheck reports whether the backing stores are reachable.
type ReadyCheck func(ctx context.Context) error

// Router creates and configures the HTTP router
type Router struct {
	authHandler    *handlers.AuthHandler
	trialHandler   *handlers.TrialHandler
	savedHandler   *handlers.SavedTrialHandler
	medicalHandler *handlers.MedicalHistoryHandler
	adminHandler   *handlers.AdminHandler
	validator      *auth.Validator
	registry       *prometheus.Registry
	readyCheck     ReadyCheck
	enableCORS     bool
	logger         *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	authHandler *handlers.AuthHandler,
	trialHandler *handlers.TrialHandler,
	savedHandler *handlers.SavedTrialHandler,
	medicalHandler *handlers.MedicalHistoryHandler,
	adminHandler *handlers.AdminHandler,
	validator *auth.Validator,
	registry *prometheus.Registry,
	readyCheck ReadyCheck,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		trialHandler:   trialHandler,
		savedHandler:   savedHandler,
		medicalHandler: medicalHandler,
		adminHandler:   adminHandler,
		validator:      validator,
		registry:       registry,
		readyCheck:     readyCheck,
		enableCORS:     enableCORS,
		logger:         logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health and observability
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
		rt.registry,
		promhttp.HandlerOpts{},
	))

	router.Route("/api", func(r chi.Router) {
		// Session endpoints
		r.Post("/login", rt.authHandler.Login)
		r.Post("/logout", rt.authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaybeAuthenticate(rt.validator))
			r.Get("/current-user", rt.authHandler.CurrentUser)
		})

		// Trial endpoints
		r.Route("/trials", func(r chi.Router) {
			r.Get("/search", rt.trialHandler.Search)
			r.Post("/smart-match", rt.trialHandler.SmartMatch)
			r.Get("/{nctID}", rt.trialHandler.GetTrial)
			r.Get("/{nctID}/related", rt.trialHandler.Related)
		})

		// Saved trials require a session
		r.Route("/saved-trials", func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))
			r.Get("/", rt.savedHandler.List)
			r.Post("/", rt.savedHandler.Save)
			r.Delete("/{nctID}", rt.savedHandler.Delete)
		})

		// Medical history requires a session
		r.Route("/medical-history", func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))
			r.Get("/", rt.medicalHandler.Get)
			r.Post("/", rt.medicalHandler.Save)
		})

		// Operational endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Post("/cache/clear", rt.adminHandler.ClearCache)
			r.Post("/cache/clear-expired", rt.adminHandler.ClearExpired)
			r.Post("/graph/clear", rt.adminHandler.ClearGraph)
			r.Get("/stats", rt.adminHandler.Stats)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready only when the backing stores answer.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if rt.readyCheck != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()
		if err := rt.readyCheck(ctx); err != nil {
			rt.logger.Warn("readiness check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not ready"}`))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
