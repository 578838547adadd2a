// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package engine owns the embedded analytical SQL engine handle: opening
// it, running compiled SQL under a concurrency limit, and shaping the
// resulting rows for the HTTP response.
package engine

import (
	"database/sql"
	"fmt"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// driverName is the database/sql driver registered by duckdb-go/v2.
const driverName = "duckdb"

// Open opens the embedded engine. target is either a filesystem path to a
// native analytical file (loaded in place) or the empty string for an
// in-memory database that the catalog loader then populates with CREATE
// TABLE statements (CSV auto-infer, SQLite attach-and-copy, or the TEST
// fixture).
func Open(target string) (*sql.DB, error) {
	dsn := target
	if dsn == "" {
		dsn = ":memory:"
	}
	dsn = fmt.Sprintf(
		"%s?access_mode=read_write&threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false",
		dsn, runtime.NumCPU(),
	)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}

	configurePool(db)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping engine: %w", err)
	}
	return db, nil
}

// configurePool tunes the connection pool for an embedded, read-mostly,
// process-local engine: a handful of connections is enough since the engine
// itself serializes statement execution internally, and idle connections
// cost nothing for an in-process database.
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(runtime.NumCPU())
	db.SetMaxIdleConns(runtime.NumCPU())
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)
}

// EnableSQLiteAttach installs and loads the sqlite extension so ATTACH ...
// (TYPE SQLITE) is available. Called lazily, only when a .sqlite dataset is
// being loaded, so the default posture stays autoinstall/autoload disabled.
func EnableSQLiteAttach(db *sql.DB) error {
	if _, err := db.Exec("INSTALL sqlite"); err != nil {
		return fmt.Errorf("install sqlite extension: %w", err)
	}
	if _, err := db.Exec("LOAD sqlite"); err != nil {
		return fmt.Errorf("load sqlite extension: %w", err)
	}
	return nil
}
