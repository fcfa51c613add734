// Package main is the entrypoint for the browser presentation client.
package main

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/policyscope/policyscope/internal/client"
	"github.com/policyscope/policyscope/internal/config"
	"github.com/policyscope/policyscope/internal/logging"
	"github.com/policyscope/policyscope/internal/middleware"
	"github.com/policyscope/policyscope/internal/server"
	"github.com/policyscope/policyscope/internal/ui"
)

func main() {
	cfg, err := config.LoadUI()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	api := client.New(cfg.APIBaseURL, cfg.APITimeout, logger)

	app, err := ui.New(api, logger, ui.Options{})
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:         cfg.IsDevelopment(),
		ContentSecurityPolicy: middleware.PageContentSecurityPolicy,
	}))
	app.Routes(r)

	srv := server.New(r, server.Options{
		Port:            cfg.UIPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	logger.Info("starting ui",
		"port", cfg.UIPort,
		"env", cfg.AppEnv,
		"api_base_url", logging.RedactURL(cfg.APIBaseURL),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
