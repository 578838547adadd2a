// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package api provides the HTTP REST API layer for the query service.

This package implements the 4-route surface between the browser UI and the
embedded engine: a single query endpoint and three read-only metadata
endpoints backing the UI's table/column/value pickers.

Key Components:

  - Router (chi_router.go): route table and middleware stack
  - Handlers (handlers.go): Query/Tables/Columns/Samples
  - Response formatting (response.go): flat JSON success/error envelopes
  - Health checks (handlers_health.go)

Routes:

	POST /api/query                       compile and run a query
	GET  /api/tables                      list loaded table names
	GET  /api/columns?table=T             list a table's {name,type} columns
	GET  /api/samples?table=T&column=C&q= sample distinct values for a column
	GET  /health, /health/live, /health/ready

Usage Example:

	cat, _ := catalog.Load(ctx, cfg.Dataset.Path)
	exec := engine.NewExecutor(cat.DB(), cfg.Server.MaxConcurrent)
	cache := samplecache.New(cfg.Cache.Capacity, cfg.Cache.TTL)
	handler := api.NewHandler(cat, exec, cache, nil)
	router := api.NewRouter(handler, api.DefaultChiMiddlewareConfig())
	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())

Security:

  - CORS configured per SecurityConfig.CORSOrigins
  - Per-IP rate limiting, stricter on /api/query than the metadata routes
  - Baseline security response headers on every route
*/
package api
