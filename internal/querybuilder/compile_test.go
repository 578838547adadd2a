// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package querybuilder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/catalog"
	"github.com/tomtom215/scubaduck/internal/timeutil"
)

func openFixtureCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("Load(TEST): %v", err)
	}
	t.Cleanup(func() { cat.Close() })
	return cat
}

func ptr(s string) *string { return &s }

var fixtureClock = timeutil.FixedClock{At: time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC)}

func TestCompileSamplesWindow(t *testing.T) {
	cat := openFixtureCatalog(t)
	params := QueryParameters{
		Table:      "events",
		TimeColumn: "timestamp",
		Start:      ptr("2024-01-01 00:00:00"),
		End:        ptr("2024-01-02 00:00:00"),
		OrderBy:    ptr("timestamp"),
		Limit:      intPtr(10),
		Columns:    []string{"timestamp", "event", "value", "user"},
		GraphType:  GraphSamples,
	}

	compiled, err := Compile(cat, params, fixtureClock)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(compiled.SQL, `"timestamp" BETWEEN ? AND ?`) {
		t.Errorf("expected time predicate in SQL, got %s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, "ORDER BY \"timestamp\" ASC") {
		t.Errorf("expected ORDER BY clause, got %s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, "LIMIT 10") {
		t.Errorf("expected LIMIT clause, got %s", compiled.SQL)
	}
}

func TestCompileSamplesWithFilterList(t *testing.T) {
	cat := openFixtureCatalog(t)
	params := QueryParameters{
		Table:      "events",
		TimeColumn: "timestamp",
		Start:      ptr("2024-01-01 00:00:00"),
		End:        ptr("2024-01-02 03:00:00"),
		Filters: []Filter{
			{Column: "user", Op: "=", Value: []interface{}{"alice", "charlie"}},
		},
		GraphType: GraphSamples,
	}

	compiled, err := Compile(cat, params, fixtureClock)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(compiled.SQL, `"user" IN ('alice', 'charlie')`) {
		t.Errorf("expected IN clause, got %s", compiled.SQL)
	}
}

func TestCompileTableGroupBySumWithHits(t *testing.T) {
	cat := openFixtureCatalog(t)
	params := QueryParameters{
		Table:      "events",
		TimeColumn: "timestamp",
		GraphType:  GraphTable,
		GroupBy:    []string{"user"},
		Aggregate:  "Sum",
		Columns:    []string{"value"},
		ShowHits:   true,
	}

	compiled, err := Compile(cat, params, fixtureClock)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(compiled.SQL, `count(*) AS "Hits"`) {
		t.Errorf("expected synthetic Hits column, got %s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, `sum("value") AS "value"`) {
		t.Errorf("expected sum aggregate, got %s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, `GROUP BY "user"`) {
		t.Errorf("expected GROUP BY, got %s", compiled.SQL)
	}
}

func TestCompileTimeseriesGroupByCount(t *testing.T) {
	cat := openFixtureCatalog(t)
	params := QueryParameters{
		Table:       "events",
		TimeColumn:  "timestamp",
		GraphType:   GraphTimeseries,
		Granularity: "1 day",
		GroupBy:     []string{"user"},
		Aggregate:   "Count",
		Columns:     []string{"value"},
	}

	compiled, err := Compile(cat, params, fixtureClock)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if compiled.BucketSize == nil || *compiled.BucketSize != 86400 {
		t.Errorf("expected bucket size 86400, got %v", compiled.BucketSize)
	}
	if !strings.Contains(compiled.SQL, "WITH base AS") {
		t.Errorf("expected base CTE, got %s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, `count("value") AS "value"`) {
		t.Errorf("expected count aggregate, got %s", compiled.SQL)
	}
}

func TestCompileTimeseriesLimitRestrictsSeriesNotBuckets(t *testing.T) {
	cat := openFixtureCatalog(t)
	limit := 1
	params := QueryParameters{
		Table:       "events",
		TimeColumn:  "timestamp",
		GraphType:   GraphTimeseries,
		Granularity: "1 day",
		GroupBy:     []string{"user"},
		Aggregate:   "Count",
		Columns:     []string{"value"},
		Limit:       &limit,
		OrderBy:     ptr("user"),
	}

	compiled, err := Compile(cat, params, fixtureClock)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(compiled.SQL, "keys AS (SELECT") {
		t.Errorf("expected keys CTE restricting series count, got %s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, "LIMIT 1)") {
		t.Errorf("expected series LIMIT inside keys CTE, got %s", compiled.SQL)
	}
}

func TestCompileTimeseriesUngroupedIgnoresLimit(t *testing.T) {
	cat := openFixtureCatalog(t)
	limit := 1
	params := QueryParameters{
		Table:       "events",
		TimeColumn:  "timestamp",
		GraphType:   GraphTimeseries,
		Granularity: "1 day",
		Aggregate:   "Count",
		Columns:     []string{"value"},
		Limit:       &limit,
	}

	compiled, err := Compile(cat, params, fixtureClock)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if strings.Contains(compiled.SQL, "keys AS") {
		t.Errorf("expected no series-restricting keys CTE without group_by, got %s", compiled.SQL)
	}
	if strings.Contains(compiled.SQL, "LIMIT") {
		t.Errorf("expected limit to be ignored for ungrouped timeseries, got %s", compiled.SQL)
	}
}

func TestCompileRelativeWindowUnderFixedClock(t *testing.T) {
	cat := openFixtureCatalog(t)
	params := QueryParameters{
		Table:      "events",
		TimeColumn: "timestamp",
		Start:      ptr("-1 hour"),
		End:        ptr("now"),
		GraphType:  GraphSamples,
	}

	compiled, err := Compile(cat, params, fixtureClock)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	wantStart := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC)
	if !compiled.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", compiled.Start, wantStart)
	}
	if !compiled.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", compiled.End, wantEnd)
	}
}

func TestCompileNonsenseStartIsTimeParseError(t *testing.T) {
	cat := openFixtureCatalog(t)
	params := QueryParameters{
		Table:      "events",
		TimeColumn: "timestamp",
		Start:      ptr("nonsense"),
		GraphType:  GraphSamples,
	}

	_, err := Compile(cat, params, fixtureClock)
	if err == nil {
		t.Fatal("expected error for nonsense start")
	}
	if apierr.As(err).Kind != apierr.TimeParseError {
		t.Errorf("expected TimeParseError, got %v", apierr.As(err).Kind)
	}
}

func TestCompileTableUnknownSelectedColumnIsSchemaError(t *testing.T) {
	cat := openFixtureCatalog(t)
	params := QueryParameters{
		Table:     "events",
		GraphType: GraphTable,
		Columns:   []string{"user", "Hits", "value"},
		GroupBy:   []string{"user"},
		Aggregate: "Count",
		ShowHits:  true,
	}

	_, err := Compile(cat, params, fixtureClock)
	if err == nil {
		t.Fatal("expected error for unknown column Hits")
	}
	apiErr := apierr.As(err)
	if apiErr.Kind != apierr.SchemaError {
		t.Errorf("expected SchemaError, got %v", apiErr.Kind)
	}
	if !strings.Contains(apiErr.Message, "unknown column") {
		t.Errorf("expected unknown-column message, got %s", apiErr.Message)
	}
}

func TestCompileDerivedColumnOrderingAfterColumns(t *testing.T) {
	cat := openFixtureCatalog(t)
	params := QueryParameters{
		Table:     "events",
		GraphType: GraphSamples,
		Columns:   []string{"timestamp"},
		DerivedColumns: []DerivedColumn{
			{Name: "val2", Expr: "value * 2"},
		},
	}

	compiled, err := Compile(cat, params, fixtureClock)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(compiled.SQL, `SELECT "timestamp", value * 2 AS "val2"`) {
		t.Errorf("expected derived column after selected columns, got %s", compiled.SQL)
	}
}

func intPtr(n int) *int { return &n }
