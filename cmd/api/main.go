// Package main is the entrypoint for the insurance query service.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/policyscope/policyscope/internal/config"
	"github.com/policyscope/policyscope/internal/handler"
	"github.com/policyscope/policyscope/internal/logging"
	"github.com/policyscope/policyscope/internal/metrics"
	"github.com/policyscope/policyscope/internal/middleware"
	"github.com/policyscope/policyscope/internal/repository"
	"github.com/policyscope/policyscope/internal/server"
	"github.com/policyscope/policyscope/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	metricsRecorder := metrics.NewInMemory()

	// A store that is down at startup is not fatal; requests reconnect lazily.
	store, err := repository.New(ctx, repository.ConfigFrom(cfg), logger, metricsRecorder)
	if err != nil {
		logger.Error("failed to configure database",
			slog.String("error", logging.SanitizeError(err, cfg.Database.Password)),
		)
		os.Exit(1)
	}

	querySvc := service.NewQueryService(store, logger, metricsRecorder)

	h := handler.New(store, logger)
	healthHandler := handler.NewHealthHandler(store)
	queryHandler := handler.NewQueryHandler(querySvc, logger)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	r := setupRouter(h, healthHandler, queryHandler, metricsHandler, cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("store", func(context.Context) error {
		return store.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"driver", cfg.Database.Driver,
		"name_search_mode", cfg.NameSearchMode,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	queryHandler *handler.QueryHandler,
	metricsHandler *handler.MetricsHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:         cfg.IsDevelopment(),
		ContentSecurityPolicy: middleware.APIContentSecurityPolicy,
	}))

	// Root info endpoint, also the client's liveness probe
	r.Get("/", h.Info)

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Route("/users", func(r chi.Router) {
		r.Get("/{user_id}", queryHandler.GetUserByID)
		r.Get("/email/{email}", queryHandler.GetUserByEmail)
		r.Get("/search/{name}", queryHandler.SearchUsersByName)
	})

	r.Route("/policies", func(r chi.Router) {
		r.Get("/{policy_number}", queryHandler.GetPolicyByNumber)
		r.Get("/user/{user_id}", queryHandler.GetPoliciesByUser)
		r.Get("/status/{status}", queryHandler.GetPoliciesByStatus)
		r.Get("/type/{policy_type}", queryHandler.GetPoliciesByType)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
