// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package config provides centralized configuration management for the query
service.

This package handles loading, validation, and parsing of environment
variables and an optional YAML file. It ensures consistent configuration
across startup and provides sensible defaults for every setting.

# Configuration Sources

The package reads configuration from, in increasing priority:

  - Built-in defaults (defaultConfig)
  - An optional config.yaml/config.yml (CONFIG_PATH env var, or the default
    search paths)
  - Environment variables prefixed SCUBADUCK_

# Configuration Structure

  - DatasetConfig: the table source loaded at startup
  - ServerConfig: HTTP listener address, timeouts, and query concurrency
  - CacheConfig: the /api/samples value cache size and TTL
  - SecurityConfig: CORS origins and the query-endpoint rate limit
  - LoggingConfig: zerolog level/format/caller settings

# Environment Variables

	SCUBADUCK_DB                     dataset path (alias for dataset.path)
	SCUBADUCK_PORT                   HTTP listen port
	SCUBADUCK_HOST                   HTTP bind address
	SCUBADUCK_MAX_CONCURRENT_QUERIES engine query concurrency cap
	SCUBADUCK_CACHE_CAPACITY         sample cache entry count
	SCUBADUCK_CACHE_TTL              sample cache entry TTL
	SCUBADUCK_CORS_ORIGINS           comma-separated allowed origins
	SCUBADUCK_RATE_LIMIT_PER_MINUTE  query rate limit
	SCUBADUCK_LOG_LEVEL              debug/info/warn/error
	SCUBADUCK_LOG_FORMAT             json/console

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}
	cat, err := catalog.Load(ctx, cfg.Dataset.Path)
*/
package config
