// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package metrics provides Prometheus metrics collection and export for the
query service.

# Overview

The package instruments:
  - compiled-query duration and error-kind counts against the embedded engine
  - API request latency, throughput, and in-flight count
  - the /api/samples value cache's hit/miss rate and size

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Usage

	start := time.Now()
	result, err := executor.Run(ctx, sql, args)
	metrics.RecordEngineQuery(string(params.GraphType), time.Since(start), errKind(err))
*/
package metrics
