// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package querybuilder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/catalog"
	"github.com/tomtom215/scubaduck/internal/sqlident"
	"github.com/tomtom215/scubaduck/internal/timeutil"
)

// Compiled is the result of compiling a QueryParameters object: the SQL
// text, its positional args, the resolved time window, and — for
// timeseries — the selected bucket width in seconds.
type Compiled struct {
	SQL        string
	Args       []interface{}
	Start      time.Time
	End        time.Time
	BucketSize *int64
}

// defaultWindowStart is the lower bound used when a time_column is present
// but the request omits start: the engine epoch, an effectively unbounded
// lower bound.
var defaultWindowStart = time.Unix(0, 0).UTC()

// Compile validates params against table and the three graph-mode
// invariants, then builds the SELECT statement for it.
func Compile(cat *catalog.Catalog, params QueryParameters, clock timeutil.Clock) (*Compiled, error) {
	table, ok := cat.Table(params.Table)
	if !ok {
		return nil, apierr.Newf(apierr.SchemaError, "unknown table %q", params.Table)
	}

	if params.GraphType == GraphSamples && (len(params.GroupBy) > 0 || params.Aggregate != "") {
		return nil, apierr.New(apierr.SchemaError, "samples graph_type forbids group_by and aggregate")
	}

	timeClause, timeArgs, start, end, err := buildTimeClause(table, params, clock)
	if err != nil {
		return nil, err
	}

	filterClause, filterArgs, err := CompileFilters(table, params.Filters)
	if err != nil {
		return nil, err
	}

	where, whereArgs := combineWhere(timeClause, timeArgs, filterClause, filterArgs)

	var compiled *Compiled
	switch params.GraphType {
	case GraphSamples, "":
		compiled, err = compileSamples(table, params, where, whereArgs)
	case GraphTable:
		compiled, err = compileTable(table, params, where, whereArgs)
	case GraphTimeseries:
		compiled, err = compileTimeseries(table, params, where, whereArgs, start, end)
	default:
		return nil, apierr.Newf(apierr.SchemaError, "unknown graph_type %q", params.GraphType)
	}
	if err != nil {
		return nil, err
	}

	compiled.Start = start
	compiled.End = end
	return compiled, nil
}

func combineWhere(timeClause string, timeArgs []interface{}, filterClause string, filterArgs []interface{}) (string, []interface{}) {
	var parts []string
	var args []interface{}
	if timeClause != "" {
		parts = append(parts, timeClause)
		args = append(args, timeArgs...)
	}
	if filterClause != "" {
		parts = append(parts, filterClause)
		args = append(args, filterArgs...)
	}
	if len(parts) == 0 {
		return "1=1", nil
	}
	return strings.Join(parts, " AND "), args
}

// buildTimeClause resolves start/end and, when time_column is non-empty,
// returns the BETWEEN predicate filtering on it.
func buildTimeClause(table catalog.Table, params QueryParameters, clock timeutil.Clock) (string, []interface{}, time.Time, time.Time, error) {
	start, err := resolveBound(params.Start, clock, defaultWindowStart)
	if err != nil {
		return "", nil, time.Time{}, time.Time{}, err
	}
	end, err := resolveBound(params.End, clock, clock.Now())
	if err != nil {
		return "", nil, time.Time{}, time.Time{}, err
	}

	if params.TimeColumn == "" {
		return "", nil, start, end, nil
	}

	col, ok := table.ColumnByName(params.TimeColumn)
	if !ok {
		return "", nil, time.Time{}, time.Time{}, apierr.Newf(apierr.SchemaError, "unknown time_column %q", params.TimeColumn)
	}

	quoted := sqlident.Quote(col.Name)
	if col.Class == catalog.Temporal {
		clause := quoted + " BETWEEN ? AND ?"
		return clause, []interface{}{timeutil.FormatAbsolute(start), timeutil.FormatAbsolute(end)}, start, end, nil
	}

	startLit := timeutil.EpochLiteral(start, params.TimeUnit)
	endLit := timeutil.EpochLiteral(end, params.TimeUnit)
	clause := quoted + " BETWEEN ? AND ?"
	return clause, []interface{}{startLit, endLit}, start, end, nil
}

func resolveBound(raw *string, clock timeutil.Clock, fallback time.Time) (time.Time, error) {
	if raw == nil || *raw == "" {
		return fallback, nil
	}
	return timeutil.Resolve(*raw, clock)
}

// isTemporal reports whether col should be treated as a time axis: either
// its declared type is temporal, or it is the query's configured numeric
// time_column (interpreted via time_unit).
func isTemporal(col catalog.Column, params QueryParameters) bool {
	if col.Class == catalog.Temporal {
		return true
	}
	return col.Name == params.TimeColumn && params.TimeColumn != ""
}

func compileSamples(table catalog.Table, params QueryParameters, where string, whereArgs []interface{}) (*Compiled, error) {
	selectList, err := buildRawSelectList(table, params)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", selectList, sqlident.Quote(table.Name))
	if where != "" {
		fmt.Fprintf(&b, " WHERE %s", where)
	}
	appendOrderLimit(&b, params)

	return &Compiled{SQL: b.String(), Args: whereArgs}, nil
}

// buildRawSelectList builds the samples-mode SELECT list: bare columns plus
// derived expressions, or "*" when both are empty.
func buildRawSelectList(table catalog.Table, params QueryParameters) (string, error) {
	if len(params.Columns) == 0 && len(params.DerivedColumns) == 0 {
		return "*", nil
	}

	var items []string
	for _, name := range params.Columns {
		if _, ok := table.ColumnByName(name); !ok {
			return "", apierr.Newf(apierr.SchemaError, "unknown column %q", name)
		}
		items = append(items, sqlident.Quote(name))
	}
	for _, dc := range params.DerivedColumns {
		items = append(items, fmt.Sprintf("%s AS %s", dc.Expr, sqlident.Quote(dc.Name)))
	}
	return strings.Join(items, ", "), nil
}

func compileTable(table catalog.Table, params QueryParameters, where string, whereArgs []interface{}) (*Compiled, error) {
	selectList, err := buildGroupedSelectList(table, params)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", selectList, sqlident.Quote(table.Name))
	if where != "" {
		fmt.Fprintf(&b, " WHERE %s", where)
	}
	if len(params.GroupBy) > 0 {
		fmt.Fprintf(&b, " GROUP BY %s", quoteList(params.GroupBy))
	}
	appendOrderLimit(&b, params)

	return &Compiled{SQL: b.String(), Args: whereArgs}, nil
}

// buildGroupedSelectList assembles the SELECT list shared by table and the
// per-bucket part of timeseries: group columns, an optional synthetic Hits
// column, aggregated columns, and derived expressions, in that order.
func buildGroupedSelectList(table catalog.Table, params QueryParameters) (string, error) {
	groupSet := make(map[string]struct{}, len(params.GroupBy))
	var items []string
	for _, g := range params.GroupBy {
		if _, ok := table.ColumnByName(g); !ok {
			return "", apierr.Newf(apierr.SchemaError, "unknown column %q", g)
		}
		groupSet[g] = struct{}{}
		items = append(items, sqlident.Quote(g))
	}

	var aggCols []string
	for _, name := range params.Columns {
		if _, grouped := groupSet[name]; grouped {
			continue
		}
		aggCols = append(aggCols, name)
	}

	synthesizeHits := params.ShowHits || (len(params.Columns) == 0 && strings.EqualFold(params.Aggregate, "Count"))
	if synthesizeHits {
		items = append(items, `count(*) AS "Hits"`)
	}

	if len(aggCols) > 0 {
		if params.Aggregate == "" {
			return "", apierr.New(apierr.SchemaError, "aggregate is required when columns are selected in table/timeseries mode")
		}
		for _, name := range aggCols {
			col, ok := table.ColumnByName(name)
			if !ok {
				return "", apierr.Newf(apierr.SchemaError, "unknown column %q", name)
			}
			expr, err := aggregateExpr(params.Aggregate, col, isTemporal(col, params))
			if err != nil {
				return "", err
			}
			items = append(items, fmt.Sprintf("%s AS %s", expr, sqlident.Quote(name)))
		}
	}

	for _, dc := range params.DerivedColumns {
		items = append(items, fmt.Sprintf("%s AS %s", dc.Expr, sqlident.Quote(dc.Name)))
	}

	if len(items) == 0 {
		return "", apierr.New(apierr.SchemaError, "query produces no output columns")
	}
	return strings.Join(items, ", "), nil
}

var quantileRe = regexp.MustCompile(`(?i)^p(\d{1,3})$`)

// aggregateExpr maps an aggregate label to its SQL expression over col.
func aggregateExpr(label string, col catalog.Column, temporal bool) (string, error) {
	quoted := sqlident.Quote(col.Name)

	switch strings.ToLower(label) {
	case "avg":
		if temporal {
			return fmt.Sprintf("epoch_to_timestamp(CAST(avg(epoch(%s)) AS BIGINT))", quoted), nil
		}
		return fmt.Sprintf("avg(%s)", quoted), nil
	case "sum":
		return fmt.Sprintf("sum(%s)", quoted), nil
	case "min":
		return fmt.Sprintf("min(%s)", quoted), nil
	case "max":
		return fmt.Sprintf("max(%s)", quoted), nil
	case "count":
		return fmt.Sprintf("count(%s)", quoted), nil
	case "count distinct":
		return fmt.Sprintf("count(DISTINCT %s)", quoted), nil
	}

	if m := quantileRe.FindStringSubmatch(label); m != nil {
		pct, _ := strconv.Atoi(m[1])
		frac := float64(pct) / 100.0
		return fmt.Sprintf("quantile(%s, %s)", quoted, strconv.FormatFloat(frac, 'g', -1, 64)), nil
	}

	return "", apierr.Newf(apierr.SchemaError, "unsupported aggregate %q", label)
}

func appendOrderLimit(b *strings.Builder, params QueryParameters) {
	if params.OrderBy != nil && *params.OrderBy != "" {
		dir := strings.ToUpper(params.OrderDir)
		if dir != "DESC" {
			dir = "ASC"
		}
		fmt.Fprintf(b, " ORDER BY %s %s", sqlident.Quote(*params.OrderBy), dir)
	}
	if params.Limit != nil {
		fmt.Fprintf(b, " LIMIT %d", *params.Limit)
	}
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = sqlident.Quote(n)
	}
	return strings.Join(quoted, ", ")
}
