// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/catalog"
	"github.com/tomtom215/scubaduck/internal/engine"
	"github.com/tomtom215/scubaduck/internal/metrics"
	"github.com/tomtom215/scubaduck/internal/querybuilder"
	"github.com/tomtom215/scubaduck/internal/samplecache"
	"github.com/tomtom215/scubaduck/internal/sqlident"
	"github.com/tomtom215/scubaduck/internal/timeutil"
	"github.com/tomtom215/scubaduck/internal/validation"
)

// Handler holds the dependencies shared by every route: the loaded
// catalog, the query executor, the sample-value cache, and the clock used
// to resolve relative time expressions.
type Handler struct {
	catalog   *catalog.Catalog
	executor  *engine.Executor
	samples   *samplecache.Cache
	clock     timeutil.Clock
	startTime time.Time
}

// NewHandler builds a Handler. clock defaults to timeutil.SystemClock{}
// when nil, which is the production path; tests inject a FixedClock.
func NewHandler(cat *catalog.Catalog, exec *engine.Executor, samples *samplecache.Cache, clock timeutil.Clock) *Handler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &Handler{
		catalog:   cat,
		executor:  exec,
		samples:   samples,
		clock:     clock,
		startTime: time.Now(),
	}
}

// Query handles POST /api/query: decode, compile, execute, and shape the
// response into the flat success/error envelope.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var params querybuilder.QueryParameters
	if err := decodeJSONBody(r, &params); err != nil {
		rw.APIError(apierr.Wrap(apierr.SchemaError, err, "malformed request body"))
		return
	}
	if verr := validation.ValidateStruct(&params); verr != nil {
		rw.APIError(apierr.Wrap(apierr.SchemaError, verr, "invalid query parameters"))
		return
	}

	compiled, err := querybuilder.Compile(h.catalog, params, h.clock)
	if err != nil {
		rw.APIError(err)
		return
	}

	start := time.Now()
	result, err := h.executor.Run(r.Context(), compiled.SQL, compiled.Args)
	kind := ""
	if err != nil {
		kind = string(apierr.As(err).Kind)
	}
	metrics.RecordEngineQuery(string(params.GraphType), time.Since(start), kind)
	if err != nil {
		rw.APIError(err)
		return
	}

	rw.Query(QueryResponse{
		SQL:        compiled.SQL,
		Rows:       result.Rows,
		Start:      timeutil.FormatAbsolute(compiled.Start),
		End:        timeutil.FormatAbsolute(compiled.End),
		BucketSize: compiled.BucketSize,
	})
}

// Tables handles GET /api/tables: the loaded table names, sorted by name.
func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.JSON(h.catalog.Tables())
}

// columnInfo is one entry of GET /api/columns' response body.
type columnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Columns handles GET /api/columns?table=T.
func (h *Handler) Columns(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	tableName := r.URL.Query().Get("table")
	if tableName == "" {
		rw.BadRequest(ErrMissingTableParam.Error())
		return
	}
	table, ok := h.catalog.Table(tableName)
	if !ok {
		rw.NotFound("unknown table")
		return
	}

	cols := make([]columnInfo, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = columnInfo{Name: c.Name, Type: c.Type}
	}
	rw.JSON(cols)
}

// Samples handles GET /api/samples?table=T&column=C&q=SUB: up to 20
// distinct values of a string column matching a case-insensitive
// substring, served from the LRU+TTL cache where possible.
func (h *Handler) Samples(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := r.URL.Query()
	tableName := q.Get("table")
	columnName := q.Get("column")
	substring := q.Get("q")

	if tableName == "" {
		rw.BadRequest(ErrMissingTableParam.Error())
		return
	}
	if columnName == "" {
		rw.BadRequest(ErrMissingColumnParam.Error())
		return
	}

	table, ok := h.catalog.Table(tableName)
	if !ok {
		rw.NotFound("unknown table")
		return
	}
	col, ok := table.ColumnByName(columnName)
	if !ok {
		rw.NotFound("unknown column")
		return
	}
	if col.Class != catalog.String {
		rw.JSON([]string{})
		return
	}

	cacheKey := samplecache.Key(tableName, columnName, substring)
	if cached, hit := h.samples.Get(cacheKey); hit {
		metrics.RecordSampleCacheLookup(true)
		rw.JSON(cached)
		return
	}
	metrics.RecordSampleCacheLookup(false)

	query := "SELECT DISTINCT " + sqlident.Quote(col.Name) + " FROM " + sqlident.Quote(table.Name) +
		" WHERE CAST(" + sqlident.Quote(col.Name) + " AS VARCHAR) ILIKE '%'||?||'%' LIMIT " +
		strconv.Itoa(samplecache.MaxValues)

	result, err := h.executor.Run(r.Context(), query, []interface{}{substring})
	if err != nil {
		rw.APIError(err)
		return
	}

	values := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) == 0 || row[0] == nil {
			continue
		}
		values = append(values, toDisplayString(row[0]))
	}
	h.samples.Put(cacheKey, values)
	metrics.SampleCacheSize.Set(float64(h.samples.Len()))

	rw.JSON(values)
}

func toDisplayString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
