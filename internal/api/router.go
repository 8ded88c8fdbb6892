package api

import (
	"context"
	"credit-application-system/internal/api/handler"
	mw "credit-application-system/internal/api/middleware"
	"credit-application-system/internal/config"
	"credit-application-system/internal/domain/credit"
	"credit-application-system/internal/domain/customer"
	"log/slog"
	"net/http"
	"time"

	_ "credit-application-system/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const requestTimeout = 60 * time.Second

// SetupRouter builds the HTTP API. Background work started for the router
// (rate limiter cleanup) ends when ctx is cancelled.
func SetupRouter(ctx context.Context, creditService credit.CreditService, customerService customer.CustomerService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, customerService, cfg, logger)
	router.Route("/api", func(r chi.Router) {
		requireToken := mw.AuthMiddleware(cfg.Server.Auth, logger)
		setupCreditRoutes(r, creditService, requireToken, logger)
		setupCustomerRoutes(r, customerService, requireToken, logger)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	rateLimiter := mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger)
	go func() {
		<-ctx.Done()
		rateLimiter.Stop()
	}()

	router.Use(middleware.RequestID)
	if cfg.Server.TrustProxyHeaders {
		router.Use(middleware.RealIP)
	}
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(newCORS(cfg.Server.CORS).Handler)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(rateLimiter.Middleware)
	router.Use(mw.MetricsMiddleware())
}

func newCORS(cfg config.CORSConfig) *cors.Cors {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, customers handler.Authenticator, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(customers, cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupCreditRoutes(r chi.Router, svc credit.CreditService, requireToken func(http.Handler) http.Handler, logger *slog.Logger) {
	h := handler.NewCreditHandler(svc, logger)

	r.Route("/credits", func(r chi.Router) {
		r.Use(requireToken)
		r.Post("/", h.CreateCredit)
		r.Get("/", h.ListCredits)
		r.Get("/{creditCode}", h.GetCredit)
	})
}

// Registration stays public so a new customer can obtain a token.
func setupCustomerRoutes(r chi.Router, svc customer.CustomerService, requireToken func(http.Handler) http.Handler, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	r.Post("/customers", h.CreateCustomer)
	r.Group(func(r chi.Router) {
		r.Use(requireToken)
		r.Patch("/customers", h.UpdateCustomer)
		r.Get("/customers/{customerID}", h.GetCustomer)
		r.Delete("/customers/{customerID}", h.DeleteCustomer)
	})
}
