// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package querybuilder

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/catalog"
	"github.com/tomtom215/scubaduck/internal/sqlident"
)

// compileTimeseries builds the bucketed query: a base CTE carrying the
// time- and filter-restricted rows, an optional keys CTE restricting which
// group_by combinations survive when limit caps the series count, and an
// outer query that buckets and aggregates.
func compileTimeseries(table catalog.Table, params QueryParameters, where string, whereArgs []interface{}, start, end time.Time) (*Compiled, error) {
	xAxisName := params.TimeColumn
	if params.XAxis != nil && *params.XAxis != "" {
		xAxisName = *params.XAxis
	}
	if xAxisName == "" {
		return nil, apierr.New(apierr.SchemaError, "timeseries graph_type requires x_axis or time_column")
	}
	xAxisCol, ok := table.ColumnByName(xAxisName)
	if !ok {
		return nil, apierr.Newf(apierr.SchemaError, "unknown x_axis column %q", xAxisName)
	}
	if !isTemporal(xAxisCol, params) {
		return nil, apierr.Newf(apierr.SchemaError, "x_axis column %q is not temporal", xAxisName)
	}

	width, err := PlanBucketWidth(params.Granularity, start, end)
	if err != nil {
		return nil, err
	}

	quotedXAxis := sqlident.Quote(xAxisCol.Name)
	var epochExpr string
	if xAxisCol.Class == catalog.Temporal {
		epochExpr = fmt.Sprintf("epoch(%s)", quotedXAxis)
	} else {
		epochExpr = quotedXAxis
	}
	bucketExpr := BucketExpr(quotedXAxis, width, start.Unix())
	if xAxisCol.Class != catalog.Temporal {
		// Numeric time columns already carry epoch-like values; bucket
		// directly on the raw column instead of calling epoch() on it.
		bucketExpr = fmt.Sprintf(
			"to_timestamp(%d + floor((%s - %d) / %d) * %d)",
			start.Unix(), epochExpr, start.Unix(), width, width,
		)
	}

	groupList, err := buildGroupedSelectList(table, params)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "WITH base AS (SELECT * FROM %s", sqlident.Quote(table.Name))
	if where != "" {
		fmt.Fprintf(&b, " WHERE %s", where)
	}
	b.WriteString(")")

	args := append([]interface{}{}, whereArgs...)

	if len(params.GroupBy) > 0 && params.Limit != nil {
		keyCols := quoteList(params.GroupBy)
		orderCol := keyCols
		if params.OrderBy != nil && *params.OrderBy != "" {
			orderCol = sqlident.Quote(*params.OrderBy)
		}
		fmt.Fprintf(&b, ", keys AS (SELECT %s FROM base GROUP BY %s ORDER BY %s LIMIT %d)",
			keyCols, keyCols, orderCol, *params.Limit)

		fmt.Fprintf(&b, " SELECT %s AS bucket, %s FROM base JOIN keys USING (%s) GROUP BY bucket, %s ORDER BY bucket ASC",
			bucketExpr, groupList, keyCols, keyCols)
	} else {
		groupByCols := "bucket"
		if len(params.GroupBy) > 0 {
			groupByCols = "bucket, " + quoteList(params.GroupBy)
		}
		// limit restricts series count via the keys CTE above; with no
		// group_by there are no series to restrict, so limit is ignored
		// here rather than truncating the bucket grid.
		fmt.Fprintf(&b, " SELECT %s AS bucket, %s FROM base GROUP BY %s ORDER BY bucket ASC",
			bucketExpr, groupList, groupByCols)
	}

	return &Compiled{SQL: b.String(), Args: args, BucketSize: &width}, nil
}
