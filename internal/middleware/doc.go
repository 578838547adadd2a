// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package middleware provides HTTP instrumentation middleware shared by the
chi router in internal/api.

Key Components:

  - PrometheusMetrics (prometheus.go): wraps a handler to track in-flight
    request count, total requests by route/status, and request latency

Usage Example:

	r.Use(chiMiddleware(middleware.PrometheusMetrics))

Request ID generation and CORS/rate-limiting live in internal/api's own
chi-native middleware (chi_middleware.go), since they depend on chi's
request-ID package and the route groups defined in chi_router.go.

See Also:

  - internal/api: HTTP handlers and router wiring this middleware in
  - internal/metrics: Prometheus metric definitions this package records to
*/
package middleware
