// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package api provides HTTP routing using Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tomtom215/scubaduck/internal/middleware"
)

// Router wires a Handler and the middleware stack into a servable
// http.Handler. Build one with NewRouter and call SetupChi.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter builds a Router from a Handler and a middleware config.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures every route and returns the resulting http.Handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())
	r.Use(E2EDebugLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(APISecurityHeaders())
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Metadata Endpoints
	// ========================
	// Backs the UI's table/column/value pickers. Generously rate limited
	// since a page load can issue several of these in quick succession.
	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitMetadata))

		r.Get("/tables", router.handler.Tables)
		r.Get("/columns", router.handler.Columns)
		r.Get("/samples", router.handler.Samples)

		// Query compilation and execution is the expensive path, so it
		// gets its own, stricter limit.
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitQuery)).
			Post("/query", router.handler.Query)
	})

	// Prometheus scrape endpoint, unauthenticated and, being outside the
	// /api group, not rate limited.
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// chiMiddleware adapts an http.HandlerFunc-style middleware to Chi's
// func(http.Handler) http.Handler signature.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}
