// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package main is the entry point for the ad-hoc SQL query server.

The server loads a tabular dataset into an embedded analytical engine and
exposes it through a small HTTP API: clients POST a typed query description
and get back compiled SQL plus its result rows, without ever writing SQL
themselves.

# Application Architecture

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and an optional
    config file
 2. Logging: zerolog with JSON/console output modes
 3. Catalog: load the dataset (CSV, DuckDB, SQLite, or the bundled "TEST"
    fixture) and discover its table/column schema
 4. Executor: open the embedded engine with a bounded concurrency limiter
 5. Sample cache: in-memory LRU+TTL cache backing the column-value
    autocomplete endpoint
 6. HTTP Server: Chi router serving the query API, metadata endpoints,
    health checks, and /metrics

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest
priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables (all prefixed SCUBADUCK_, see
internal/config/doc.go for the complete reference):

	SCUBADUCK_DATASET_PATH=data.csv    # dataset source; "TEST" for the bundled fixture
	SCUBADUCK_HOST=0.0.0.0
	SCUBADUCK_PORT=8080
	SCUBADUCK_LOG_LEVEL=info           # trace, debug, info, warn, error
	SCUBADUCK_LOG_FORMAT=json          # json or console
	SCUBADUCK_CORS_ORIGINS=*
	SCUBADUCK_RATE_LIMIT_PER_MINUTE=120
	SCUBADUCK_MAX_CONCURRENT_QUERIES=8
	SCUBADUCK_CACHE_CAPACITY=200
	SCUBADUCK_CACHE_TTL=60s

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests to complete (ServerConfig.ShutdownTimeout)
 3. Closes the catalog's engine handle

# Usage Examples

Local development against the bundled fixture:

	export SCUBADUCK_DATASET_PATH=TEST
	go run ./cmd/server

Serving a CSV file:

	export SCUBADUCK_DATASET_PATH=/data/events.csv
	export SCUBADUCK_PORT=8080
	./scubaduck-server

# See Also

  - internal/config: Configuration management
  - internal/catalog: Dataset loading and schema discovery
  - internal/querybuilder: Query compilation
  - internal/api: HTTP handlers and routing
*/
package main
