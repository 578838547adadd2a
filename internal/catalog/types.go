// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package catalog loads a dataset file into the embedded analytical engine
// and exposes the per-table column name-to-type map every downstream
// component (filter compiler, query compiler, bucket planner) consults.
package catalog

import "strings"

// Class is the semantic bucket a column's declared SQL type falls into.
type Class string

const (
	Numeric  Class = "numeric"
	Temporal Class = "temporal"
	String   Class = "string"
)

// Column describes one table column as reported by the engine.
type Column struct {
	Name  string
	Type  string
	Class Class
}

// Table is an ordered list of columns for one loaded table.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnByName looks up a column by case-sensitive name.
func (t Table) ColumnByName(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// numericMarkers are substrings whose presence in a declared SQL type
// classifies the column as numeric.
var numericMarkers = []string{"INT", "DOUBLE", "REAL", "DECIMAL", "NUMERIC", "FLOAT", "BIGINT"}

// temporalMarkers classify a column as temporal outright (no time_column
// override needed).
var temporalMarkers = []string{"TIMESTAMP", "DATE", "DATETIME"}

// ClassifyType buckets a declared SQL type into Numeric, Temporal, or String.
// A numeric column additionally chosen as a table's time_column is still
// reported as Numeric here — callers that need "is this the configured time
// column" combine ClassifyType with their own time_column comparison.
func ClassifyType(sqlType string) Class {
	upper := strings.ToUpper(sqlType)
	for _, marker := range temporalMarkers {
		if strings.Contains(upper, marker) {
			return Temporal
		}
	}
	for _, marker := range numericMarkers {
		if strings.Contains(upper, marker) {
			return Numeric
		}
	}
	return String
}
