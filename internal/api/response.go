// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package api provides standardized HTTP handling for the query service:
// the query/metadata handlers, the Chi router wiring, and the flat response
// envelopes clients expect.
package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/logging"
)

// QueryResponse is the success envelope for POST /api/query: the generated
// SQL, the row-major result set (column order matches the emitted SELECT
// list), and the resolved time window. BucketSize is present only for
// timeseries queries.
type QueryResponse struct {
	SQL        string          `json:"sql"`
	Rows       [][]interface{} `json:"rows"`
	Start      string          `json:"start"`
	End        string          `json:"end"`
	BucketSize *int64          `json:"bucket_size,omitempty"`
}

// ErrorResponse is the failure envelope for every endpoint. SQL is present
// only for ExecutionError, so the UI can show the statement that failed.
type ErrorResponse struct {
	Error      string `json:"error"`
	SQL        string `json:"sql,omitempty"`
	Traceback  string `json:"traceback,omitempty"`
}

// ResponseWriter writes the query service's flat JSON envelopes and logs
// request outcomes through the shared logger.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a new response writer bound to one request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// Query writes a successful POST /api/query response.
func (rw *ResponseWriter) Query(resp QueryResponse) {
	rw.writeJSON(http.StatusOK, resp)
}

// JSON writes an arbitrary successful payload (used by the metadata
// endpoints, whose bodies are plain arrays rather than the query envelope).
func (rw *ResponseWriter) JSON(data interface{}) {
	rw.writeJSON(http.StatusOK, data)
}

// APIError writes the apierr-shaped failure envelope, logging 500-class
// failures since those indicate a service bug rather than bad input.
func (rw *ResponseWriter) APIError(err error) {
	apiErr := apierr.As(err)
	status := apiErr.Kind.Status()

	if status >= http.StatusInternalServerError {
		logging.Ctx(rw.r.Context()).Error().Err(apiErr).Str("kind", string(apiErr.Kind)).Msg("request failed")
	}

	rw.writeJSON(status, ErrorResponse{
		Error: apiErr.Message,
		SQL:   apiErr.SQL,
	})
}

// BadRequest writes a plain 400 with a message, for request-shape problems
// on the metadata endpoints (e.g. a missing ?table= or ?column= parameter).
func (rw *ResponseWriter) BadRequest(message string) {
	rw.writeJSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// NotFound writes a plain 404, used for unknown table names on the
// metadata endpoints.
func (rw *ResponseWriter) NotFound(message string) {
	rw.writeJSON(http.StatusNotFound, ErrorResponse{Error: message})
}

func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)
	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("failed to encode JSON response")
	}
}
