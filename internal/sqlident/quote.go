// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package sqlident quotes table and column identifiers for the embedded
// analytical engine's SQL dialect, doubling internal quotes and always
// quoting identifiers that clash with reserved words or dialect keywords.
package sqlident

import "strings"

// reserved holds keywords and column names known to clash with the engine's
// grammar. Columns named "desc" or "value" are always quoted even though
// "value" is not reserved in every dialect — a table carrying either name
// should never round-trip as a bare identifier.
var reserved = map[string]struct{}{
	"select": {}, "from": {}, "where": {}, "group": {}, "order": {}, "by": {},
	"limit": {}, "having": {}, "as": {}, "and": {}, "or": {}, "not": {},
	"in": {}, "is": {}, "null": {}, "like": {}, "between": {}, "case": {},
	"when": {}, "then": {}, "else": {}, "end": {}, "asc": {}, "desc": {},
	"distinct": {}, "all": {}, "union": {}, "join": {}, "on": {}, "using": {},
	"table": {}, "column": {}, "value": {}, "values": {}, "default": {},
	"primary": {}, "key": {}, "references": {}, "check": {}, "unique": {},
	"insert": {}, "update": {}, "delete": {}, "create": {}, "drop": {}, "alter": {},
}

// IsReserved reports whether name clashes with a reserved word or dialect
// keyword, case-insensitively.
func IsReserved(name string) bool {
	_, ok := reserved[strings.ToLower(name)]
	return ok
}

// Quote wraps name in the engine's double-quote identifier delimiter,
// doubling any internal double quotes. Quoting is unconditional — quoting a
// non-reserved identifier is always safe, so callers never need to check
// IsReserved before calling Quote.
func Quote(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// QuoteQualified quotes a "table.column"-style reference as two
// independently quoted identifiers joined by a bare dot.
func QuoteQualified(table, column string) string {
	return Quote(table) + "." + Quote(column)
}
