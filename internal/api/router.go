package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"loan-portal/internal/api/handler"
	mw "loan-portal/internal/api/middleware"
	"loan-portal/internal/config"
	"loan-portal/internal/domain/application"
	"loan-portal/internal/domain/customer"
	"loan-portal/internal/domain/onboarding"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the domain services behind the HTTP API. Accounts is nil
// when no database is configured, which leaves /api/save-user unmounted.
type Services struct {
	Applications application.ApplicationService
	Onboarding   onboarding.OnboardingService
	Accounts     customer.AccountService
}

// SetupRouter builds the HTTP API. ctx bounds background work started by
// the middleware.
func SetupRouter(ctx context.Context, svcs Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	setupAuthRoutes(router, svcs.Onboarding, cfg, logger)
	setupAccountRoutes(router, svcs.Accounts, cfg, logger)
	setupQuoteRoutes(router, svcs.Applications, cfg, logger)
	setupApplicationRoutes(router, svcs.Applications, cfg, logger)
	setupOnboardingRoutes(router, svcs.Onboarding, cfg, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupAuthRoutes(router *chi.Mux, svc onboarding.OnboardingService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewAuthHandler(svc, cfg.Server.Auth, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/signin", h.SignIn)
		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
			r.Post("/signout", h.SignOut)
		})
	})
}

func setupAccountRoutes(router *chi.Mux, svc customer.AccountService, cfg *config.Config, logger *slog.Logger) {
	if svc == nil {
		logger.Warn("No database configured, account registry routes disabled")
		return
	}
	h := handler.NewAccountHandler(svc, logger)

	router.Route("/api", func(r chi.Router) {
		r.Post("/save-user", h.SaveUser)
		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
			r.Get("/users/{phone}", h.GetUser)
		})
	})
}

func setupQuoteRoutes(router *chi.Mux, svc application.ApplicationService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewQuoteHandler(svc, logger)

	router.Route("/quotes", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.Quote)
		r.Get("/catalog", h.Catalog)
	})
}

func setupApplicationRoutes(router *chi.Mux, svc application.ApplicationService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewApplicationHandler(svc, cfg.Application.TillNumber, logger)

	router.Route("/applications", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.Start)
		r.Get("/", h.Current)
		r.Put("/guarantor", h.SetGuarantor)
		r.Put("/loan", h.SelectLoan)
		r.Post("/verification", h.VerifyPayment)
		r.Post("/next", h.Next)
		r.Post("/back", h.Back)
		r.Get("/record", h.Record)
	})
}

func setupOnboardingRoutes(router *chi.Mux, svc onboarding.OnboardingService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewOnboardingHandler(svc, logger)

	router.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Put("/kyc", h.SaveKYC)
		r.Get("/kyc", h.GetKYC)
		r.Get("/dashboard", h.Dashboard)
	})
}
