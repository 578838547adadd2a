// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package querybuilder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/catalog"
	"github.com/tomtom215/scubaduck/internal/sqlident"
)

// CompileFilters turns an ordered list of filter descriptors into a single
// WHERE-clause fragment (already AND-joined, with no leading "WHERE"/"AND")
// plus the positional args it references, in order. An empty filters list,
// or a list containing only no-op filters, returns ("", nil, nil).
func CompileFilters(table catalog.Table, filters []Filter) (string, []interface{}, error) {
	var clauses []string
	var args []interface{}

	for _, f := range filters {
		col, ok := table.ColumnByName(f.Column)
		if !ok {
			return "", nil, apierr.Newf(apierr.SchemaError, "unknown column %q", f.Column)
		}

		clause, clauseArgs, err := compileOneFilter(col, f)
		if err != nil {
			return "", nil, err
		}
		if clause == "" {
			continue // no-op filter
		}
		clauses = append(clauses, clause)
		args = append(args, clauseArgs...)
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	return strings.Join(clauses, " AND "), args, nil
}

// compileOneFilter compiles a single filter descriptor, returning ("", nil,
// nil) for a no-op filter (nil value or empty list).
func compileOneFilter(col catalog.Column, f Filter) (string, []interface{}, error) {
	quoted := sqlident.Quote(col.Name)

	switch f.Op {
	case "empty", "!empty":
		return compileEmptyOp(quoted, col, f.Op), nil, nil
	}

	if f.Value == nil {
		return "", nil, nil
	}
	if list, ok := f.Value.([]interface{}); ok {
		if len(list) == 0 {
			return "", nil, nil
		}
		if f.Op != "=" {
			return "", nil, apierr.Newf(apierr.FilterShapeError, "operator %q does not accept a list value", f.Op)
		}
		return compileInClause(quoted, list)
	}

	switch f.Op {
	case "contains", "!contains":
		return compileContains(quoted, f), nil
	case "~":
		return fmt.Sprintf("regexp_matches(%s, ?)", quoted), []interface{}{f.Value}, nil
	case "=", "!=", "<", ">", "<=", ">=":
		return fmt.Sprintf("%s %s ?", quoted, f.Op), []interface{}{f.Value}, nil
	default:
		return "", nil, apierr.Newf(apierr.FilterShapeError, "unsupported operator %q", f.Op)
	}
}

func compileEmptyOp(quoted string, col catalog.Column, op string) string {
	isEmpty := op == "empty"
	if col.Class == catalog.String {
		if isEmpty {
			return quoted + " = ''"
		}
		return quoted + " != ''"
	}
	if isEmpty {
		return quoted + " IS NULL"
	}
	return quoted + " IS NOT NULL"
}

func compileContains(quoted string, f Filter) (string, []interface{}) {
	if f.Op == "!contains" {
		return fmt.Sprintf("%s NOT ILIKE '%%'||?||'%%'", quoted), []interface{}{f.Value}
	}
	return fmt.Sprintf("%s ILIKE '%%'||?||'%%'", quoted), []interface{}{f.Value}
}

func compileInClause(quoted string, values []interface{}) (string, []interface{}, error) {
	literals := make([]string, 0, len(values))
	for _, v := range values {
		lit, err := formatListLiteral(v)
		if err != nil {
			return "", nil, err
		}
		literals = append(literals, lit)
	}
	return fmt.Sprintf("%s IN (%s)", quoted, strings.Join(literals, ", ")), nil, nil
}

// formatListLiteral renders a single IN-list value as a SQL literal: strings
// single-quoted with internal quotes doubled, numbers emitted bare, booleans
// as TRUE/FALSE.
func formatListLiteral(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'", nil
	case bool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	default:
		return "", apierr.Newf(apierr.FilterShapeError, "unsupported list value type %T", v)
	}
}
