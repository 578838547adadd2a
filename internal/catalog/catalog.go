// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/engine"
)

//go:embed sample.csv
var bundledSampleCSV []byte

// Catalog is a process-wide handle to the embedded engine plus the
// name-to-type map for every table it loaded at startup.
type Catalog struct {
	db     *sql.DB
	tables map[string]Table
	// order lists table names sorted by name (the order introspect reads
	// them in), for GET /api/tables.
	order []string
}

// DB returns the underlying engine handle for the executor to run queries
// against.
func (c *Catalog) DB() *sql.DB { return c.db }

// Table looks up a loaded table by name.
func (c *Catalog) Table(name string) (Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Tables returns all table names, sorted by name.
func (c *Catalog) Tables() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Close releases the engine handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Load opens a dataset and registers its tables. path dispatches as:
//   - "" (empty): the bundled sample CSV.
//   - "TEST": a fixed in-memory fixture with events and extra tables.
//   - ".csv": auto-inferred CSV import.
//   - ".sqlite"/".sqlite3"/".db3": SQLite attach, retried once after
//     loading the extension; there is no row-copy fallback.
//   - anything else: opened directly as a native analytical file.
func Load(ctx context.Context, path string) (*Catalog, error) {
	switch {
	case path == "":
		return loadBundledSample(ctx)
	case path == "TEST":
		return loadTestFixture(ctx)
	case strings.EqualFold(filepath.Ext(path), ".csv"):
		return loadCSV(ctx, path)
	case isSQLiteExt(filepath.Ext(path)):
		return loadSQLite(ctx, path)
	default:
		return loadNative(ctx, path)
	}
}

func isSQLiteExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".sqlite", ".sqlite3", ".db3":
		return true
	default:
		return false
	}
}

func loadBundledSample(ctx context.Context) (*Catalog, error) {
	tmp, err := os.CreateTemp("", "scubaduck-sample-*.csv")
	if err != nil {
		return nil, apierr.Wrap(apierr.InternalError, err, "create temp sample file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(bundledSampleCSV); err != nil {
		_ = tmp.Close()
		return nil, apierr.Wrap(apierr.InternalError, err, "write temp sample file")
	}
	if err := tmp.Close(); err != nil {
		return nil, apierr.Wrap(apierr.InternalError, err, "close temp sample file")
	}

	return loadCSV(ctx, tmp.Name())
}

func loadCSV(ctx context.Context, path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apierr.Wrap(apierr.SchemaError, err, fmt.Sprintf("dataset file not found: %s", path))
	}

	db, err := engine.Open("")
	if err != nil {
		return nil, apierr.Wrap(apierr.InternalError, err, "open engine")
	}

	name := tableNameFromPath(path)
	stmt := fmt.Sprintf(`CREATE TABLE "%s" AS SELECT * FROM read_csv_auto(?)`, name)
	if _, err := db.ExecContext(ctx, stmt, path); err != nil {
		_ = db.Close()
		return nil, apierr.Wrap(apierr.InternalError, err, "load CSV dataset")
	}

	return introspect(ctx, db)
}

func loadNative(ctx context.Context, path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apierr.Wrap(apierr.SchemaError, err, fmt.Sprintf("dataset file not found: %s", path))
	}

	db, err := engine.Open(path)
	if err != nil {
		return nil, apierr.Wrap(apierr.InternalError, err, "open native dataset")
	}
	return introspect(ctx, db)
}

// loadSQLite attempts a native ATTACH of the SQLite file, retrying once
// after explicitly installing the extension if the first attempt fails
// (the common case: the extension just hasn't been loaded yet in this
// process). Known limitation: there is no PRAGMA table_info-driven
// row-by-row copy fallback for the case where the extension genuinely
// cannot load at all; that path would need a second, pure-Go SQLite driver
// to read rows independently of the attach extension, and none is wired
// into this dataset. If both attach attempts fail, the caller gets an
// ExecutionError. See DESIGN.md.
func loadSQLite(ctx context.Context, path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apierr.Wrap(apierr.SchemaError, err, fmt.Sprintf("dataset file not found: %s", path))
	}

	db, err := engine.Open("")
	if err != nil {
		return nil, apierr.Wrap(apierr.InternalError, err, "open engine")
	}

	if err := attachSQLite(ctx, db, path); err != nil {
		if err := engine.EnableSQLiteAttach(db); err != nil {
			_ = db.Close()
			return nil, apierr.Wrap(apierr.ExecutionError, err, "enable sqlite attach")
		}
		if err := attachSQLite(ctx, db, path); err != nil {
			_ = db.Close()
			return nil, apierr.Wrap(apierr.ExecutionError, err, "attach sqlite dataset")
		}
	}

	return introspect(ctx, db)
}

func attachSQLite(ctx context.Context, db *sql.DB, path string) error {
	if _, err := db.ExecContext(ctx, `ATTACH ? AS sqlite_src (TYPE SQLITE)`, path); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_src.sqlite_master WHERE type = 'table'`)
	if err != nil {
		return err
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	for _, name := range names {
		stmt := fmt.Sprintf(`CREATE TABLE "%s" AS SELECT * FROM sqlite_src."%s"`, name, name)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// introspect queries information_schema to build the per-table column map
// for every table already registered in db.
func introspect(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'main'
		ORDER BY table_name, ordinal_position`)
	if err != nil {
		_ = db.Close()
		return nil, apierr.Wrap(apierr.InternalError, err, "introspect catalog")
	}
	defer rows.Close()

	cat := &Catalog{db: db, tables: make(map[string]Table)}
	for rows.Next() {
		var tableName, columnName, dataType string
		if err := rows.Scan(&tableName, &columnName, &dataType); err != nil {
			_ = db.Close()
			return nil, apierr.Wrap(apierr.InternalError, err, "scan catalog row")
		}
		t, ok := cat.tables[tableName]
		if !ok {
			cat.order = append(cat.order, tableName)
		}
		t.Name = tableName
		t.Columns = append(t.Columns, Column{
			Name:  columnName,
			Type:  dataType,
			Class: ClassifyType(dataType),
		})
		cat.tables[tableName] = t
	}
	if err := rows.Err(); err != nil {
		_ = db.Close()
		return nil, apierr.Wrap(apierr.InternalError, err, "iterate catalog rows")
	}

	return cat, nil
}

func tableNameFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = "dataset"
	}
	return name
}
