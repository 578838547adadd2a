// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package apierr maps query-compiler and executor failures to a small set
// of stable error kinds, each with a fixed HTTP status. Every stage of the
// query pipeline returns one of these instead of an ad-hoc error so the
// transport layer maps failures exactly once.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a stable error category surfaced to API clients.
type Kind string

const (
	// TimeParseError marks an unparseable start/end or relative-time expression.
	TimeParseError Kind = "TimeParseError"
	// SchemaError marks an unknown table/column, a non-temporal timeseries
	// x-axis, group_by/aggregate on samples, or a missing required aggregate.
	SchemaError Kind = "SchemaError"
	// FilterShapeError marks an illegal filter value/operator combination.
	FilterShapeError Kind = "FilterShapeError"
	// ExecutionError marks an engine-level failure while running generated SQL.
	ExecutionError Kind = "ExecutionError"
	// InternalError marks anything else.
	InternalError Kind = "InternalError"
)

// Status returns the HTTP status code associated with a Kind.
func (k Kind) Status() int {
	switch k {
	case TimeParseError, SchemaError, FilterShapeError, ExecutionError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed error carrying a stable Kind, a human-readable message,
// and — for ExecutionError — the generated SQL that failed.
type Error struct {
	Kind    Kind
	Message string
	SQL     string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind with no SQL attached.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WrapExecution builds an ExecutionError carrying the SQL statement that
// failed, so the response body can echo it back to the client for transparency.
func WrapExecution(cause error, sql string) *Error {
	return &Error{Kind: ExecutionError, Message: cause.Error(), SQL: sql, Cause: cause}
}

// As extracts an *Error from err, wrapping it as InternalError if err is not
// already a typed *Error. Intended for the single mapping point at the
// transport boundary.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Kind: InternalError, Message: err.Error(), Cause: err}
}
