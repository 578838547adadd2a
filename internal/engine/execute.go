// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package engine

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/timeutil"
)

// maxJSSafeInteger is Number.MAX_SAFE_INTEGER: the largest integer a JSON
// number round-trips losslessly through an IEEE-754 float64 decoder.
const maxJSSafeInteger = 1<<53 - 1

// Result is the shaped output of running a compiled query: column names in
// SELECT order, and each row as a slice of JSON-ready values in the same
// order.
type Result struct {
	Columns []string
	Rows    [][]interface{}
}

// Executor runs compiled SQL against the catalog's database handle, capping
// concurrent in-flight queries so one ad-hoc request can't starve the
// others sharing the embedded engine.
type Executor struct {
	db      *sql.DB
	limiter *rate.Limiter
	slots   chan struct{}
}

// NewExecutor builds an Executor allowing at most maxConcurrent queries to
// run against db at once. Query starts are also paced to maxConcurrent per
// second.
func NewExecutor(db *sql.DB, maxConcurrent int) *Executor {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Executor{
		db:      db,
		limiter: rate.NewLimiter(rate.Limit(maxConcurrent), maxConcurrent),
		slots:   make(chan struct{}, maxConcurrent),
	}
}

// Run executes sql with args, waiting on the concurrency limiter first, and
// shapes the result set into JSON-ready rows. Any engine failure is wrapped
// as an apierr.ExecutionError carrying the SQL text for the error response.
func (e *Executor) Run(ctx context.Context, query string, args []interface{}) (*Result, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, apierr.Wrap(apierr.InternalError, err, "query queue wait failed")
	}
	select {
	case e.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, apierr.Wrap(apierr.InternalError, ctx.Err(), "query queue wait failed")
	}
	defer func() { <-e.slots }()

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierr.WrapExecution(err, query)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, apierr.WrapExecution(err, query)
	}

	result := &Result{Columns: cols, Rows: make([][]interface{}, 0, 64)}
	scanDest := make([]interface{}, len(cols))
	scanBuf := make([]interface{}, len(cols))
	for i := range scanDest {
		scanDest[i] = &scanBuf[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanDest...); err != nil {
			return nil, apierr.WrapExecution(err, query)
		}
		row := make([]interface{}, len(cols))
		for i, v := range scanBuf {
			row[i] = normalizeValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apierr.WrapExecution(err, query)
	}

	return result, nil
}

// normalizeValue converts driver-returned values into the shapes the JSON
// encoder should emit: timestamps as the canonical wire format, byte slices
// as strings, out-of-range 64-bit integers as decimal strings so clients
// parsing JSON numbers as float64 don't lose precision, everything else
// passed through.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return timeutil.FormatAbsolute(val)
	case []byte:
		return string(val)
	case int64:
		if val > maxJSSafeInteger || val < -maxJSSafeInteger {
			return strconv.FormatInt(val, 10)
		}
		return val
	default:
		return val
	}
}
