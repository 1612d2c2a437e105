package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/moralreport/moralreport/internal/handler"
	"github.com/moralreport/moralreport/internal/middleware"
)

// RouterDeps are the handlers and middleware settings the router is built from.
type RouterDeps struct {
	Logger *slog.Logger
	// TrustProxyHeaders applies X-Forwarded-For and X-Real-IP to the client
	// address. Enable only behind a proxy that overwrites those headers, or
	// any client can pick its own rate limit bucket.
	TrustProxyHeaders bool

	Info      *handler.Handler
	Health    *handler.HealthHandler
	Metrics   *handler.MetricsHandler
	Auth      *handler.AuthHandler
	Verifier  middleware.AccessTokenVerifier
	RateLimit middleware.RateLimitConfig
	Security  middleware.SecurityConfig
	CORS      middleware.CORSConfig
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(d RouterDeps) *chi.Mux {
	maxBody := d.Security.MaxRequestBodySize
	if maxBody <= 0 {
		maxBody = middleware.DefaultSecurityConfig().MaxRequestBodySize
	}

	r := chi.NewRouter()

	// Global middleware
	if d.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.Security(d.Security))
	r.Use(middleware.CORS(d.CORS))

	// Operational endpoints
	r.Get("/", d.Info.Info)
	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics.Metrics)
	}

	// Credential endpoints, each with its own per-IP allowance
	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBodySize(maxBody))

		r.With(middleware.RateLimitIP(d.RateLimit, "register")).Post("/register", d.Auth.Register)
		r.With(middleware.RateLimitIP(d.RateLimit, "login")).Post("/login", d.Auth.Login)
		r.With(middleware.RateLimitIP(d.RateLimit, "refresh")).Post("/refresh", d.Auth.Refresh)
	})

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{
			Logger:   d.Logger,
			Verifier: d.Verifier,
		}))

		r.Get("/me", d.Auth.Me)
	})

	// 404 and 405 handlers
	r.NotFound(d.Info.NotFound)
	r.MethodNotAllowed(d.Info.MethodNotAllowed)

	return r
}
