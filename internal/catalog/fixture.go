// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package catalog

import (
	"context"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/engine"
)

// testFixtureStatements builds the literal "TEST" fixture: a small events
// table with a mix of numeric, temporal, and string columns, plus an extra
// table carrying a reserved-word column (desc) to exercise identifier
// quoting.
var testFixtureStatements = []string{
	`CREATE TABLE events (
		timestamp TIMESTAMP,
		event VARCHAR,
		value DOUBLE,
		user VARCHAR
	)`,
	`INSERT INTO events VALUES
		('2024-01-01 00:00:00', 'login', 10, 'alice'),
		('2024-01-01 03:00:00', 'logout', 20, 'bob'),
		('2024-01-01 12:00:00', 'login', 30, 'alice'),
		('2024-01-02 00:00:00', 'login', 40, 'charlie'),
		('2024-01-02 03:00:00', 'logout', 50, 'charlie')`,
	`CREATE TABLE extra (
		id INTEGER,
		"desc" VARCHAR
	)`,
	`INSERT INTO extra VALUES
		(1, 'first'),
		(2, 'second')`,
}

func loadTestFixture(ctx context.Context) (*Catalog, error) {
	db, err := engine.Open("")
	if err != nil {
		return nil, apierr.Wrap(apierr.InternalError, err, "open engine")
	}

	for _, stmt := range testFixtureStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, apierr.Wrap(apierr.InternalError, err, "build TEST fixture")
		}
	}

	return introspect(ctx, db)
}
