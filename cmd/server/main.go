// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/scubaduck/internal/api"
	"github.com/tomtom215/scubaduck/internal/catalog"
	"github.com/tomtom215/scubaduck/internal/config"
	"github.com/tomtom215/scubaduck/internal/engine"
	"github.com/tomtom215/scubaduck/internal/logging"
	"github.com/tomtom215/scubaduck/internal/samplecache"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting query service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(ctx, cfg.Dataset.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("dataset", cfg.Dataset.Path).Msg("Failed to load dataset")
	}
	defer func() {
		if err := cat.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()
	logging.Info().
		Str("dataset", cfg.Dataset.Path).
		Int("tables", len(cat.Tables())).
		Msg("Catalog loaded")

	exec := engine.NewExecutor(cat.DB(), cfg.Server.MaxConcurrent)
	cache := samplecache.New(cfg.Cache.Capacity, cfg.Cache.TTL)

	handler := api.NewHandler(cat, exec, cache, nil)

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins

	// The query endpoint is the only one whose budget is config-driven;
	// metadata endpoints keep the generous built-in default.
	api.RateLimitQuery = api.RateLimitConfig{
		Requests: cfg.Security.RateLimitPerMin,
		Window:   time.Minute,
	}

	router := api.NewRouter(handler, mwConfig)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
			return
		}
		serveErrCh <- nil
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	case err := <-serveErrCh:
		if err != nil {
			logging.Error().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Error during HTTP server shutdown")
	}

	logging.Info().Msg("Application stopped gracefully")
}
