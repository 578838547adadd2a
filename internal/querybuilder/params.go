// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package querybuilder compiles a validated QueryParameters object into SQL
// for the embedded analytical engine: filter predicates, the SELECT list for
// each of the three graph modes, and the time-bucket expression for
// timeseries queries.
package querybuilder

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/timeutil"
)

// GraphType selects one of the three output shapes.
type GraphType string

const (
	GraphSamples    GraphType = "samples"
	GraphTable      GraphType = "table"
	GraphTimeseries GraphType = "timeseries"
)

// Filter is one {column, op, value} predicate descriptor. Value may be nil,
// a scalar (string/float64/bool), or a []interface{} for the "=" list form.
type Filter struct {
	Column string      `json:"column"`
	Op     string      `json:"op"`
	Value  interface{} `json:"value"`
}

// DerivedColumn is one entry of the derived_columns mapping. Represented as
// an ordered slice rather than a Go map because insertion order must be
// preserved for output column ordering, and JSON object key order is not
// preserved by unmarshaling into a map.
type DerivedColumn struct {
	Name string
	Expr string
}

// QueryParameters is the typed input to the query compiler. Unknown JSON
// keys are ignored; omitted keys take the defaults UnmarshalJSON applies.
type QueryParameters struct {
	Table          string            `json:"table" validate:"required"`
	TimeColumn     string            `json:"time_column"`
	TimeUnit       timeutil.TimeUnit `json:"time_unit"`
	Start          *string           `json:"start"`
	End            *string           `json:"end"`
	OrderBy        *string           `json:"order_by"`
	OrderDir       string            `json:"order_dir" validate:"omitempty,oneof=ASC DESC"`
	Limit          *int              `json:"limit" validate:"omitempty,gt=0"`
	Columns        []string          `json:"columns"`
	DerivedColumns []DerivedColumn   `json:"-"`
	Filters        []Filter          `json:"filters"`
	GraphType      GraphType         `json:"graph_type" validate:"omitempty,oneof=samples table timeseries"`
	GroupBy        []string          `json:"group_by"`
	Aggregate      string            `json:"aggregate"`
	ShowHits       bool              `json:"show_hits"`
	XAxis          *string           `json:"x_axis"`
	Granularity    string            `json:"granularity"`
	Fill           string            `json:"fill"`
}

// queryParametersWire mirrors QueryParameters for JSON decoding, carrying
// derived_columns as a raw object so UnmarshalJSON can replay its keys in
// declaration order.
type queryParametersWire struct {
	Table          string            `json:"table"`
	TimeColumn     string            `json:"time_column"`
	TimeUnit       timeutil.TimeUnit `json:"time_unit"`
	Start          *string           `json:"start"`
	End            *string           `json:"end"`
	OrderBy        *string           `json:"order_by"`
	OrderDir       string            `json:"order_dir"`
	Limit          *int              `json:"limit"`
	Columns        []string          `json:"columns"`
	DerivedColumns json.RawMessage   `json:"derived_columns"`
	Filters        []Filter          `json:"filters"`
	GraphType      GraphType         `json:"graph_type"`
	GroupBy        []string          `json:"group_by"`
	Aggregate      string            `json:"aggregate"`
	ShowHits       bool              `json:"show_hits"`
	XAxis          *string           `json:"x_axis"`
	Granularity    string            `json:"granularity"`
	Fill           string            `json:"fill"`
}

// UnmarshalJSON decodes the wire object, defaulting graph_type to "samples"
// and order_dir to "ASC" when omitted, and preserving derived_columns
// insertion order.
func (p *QueryParameters) UnmarshalJSON(data []byte) error {
	var wire queryParametersWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return apierr.Wrap(apierr.SchemaError, err, "malformed query parameters")
	}

	derived, err := decodeDerivedColumns(wire.DerivedColumns)
	if err != nil {
		return err
	}

	*p = QueryParameters{
		Table:          wire.Table,
		TimeColumn:     wire.TimeColumn,
		TimeUnit:       wire.TimeUnit,
		Start:          wire.Start,
		End:            wire.End,
		OrderBy:        wire.OrderBy,
		OrderDir:       wire.OrderDir,
		Limit:          wire.Limit,
		Columns:        wire.Columns,
		DerivedColumns: derived,
		Filters:        wire.Filters,
		GraphType:      wire.GraphType,
		GroupBy:        wire.GroupBy,
		Aggregate:      wire.Aggregate,
		ShowHits:       wire.ShowHits,
		XAxis:          wire.XAxis,
		Granularity:    wire.Granularity,
		Fill:           wire.Fill,
	}

	if p.GraphType == "" {
		p.GraphType = GraphSamples
	}
	if p.OrderDir == "" {
		p.OrderDir = "ASC"
	}
	if p.Granularity == "" {
		p.Granularity = "Auto"
	}
	return nil
}

// decodeDerivedColumns replays a JSON object's keys in declaration order
// using a streaming token decoder, since unmarshaling into a map would
// scramble declaration order.
func decodeDerivedColumns(raw json.RawMessage) ([]DerivedColumn, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, apierr.Wrap(apierr.SchemaError, err, "malformed derived_columns")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, apierr.New(apierr.SchemaError, "derived_columns must be an object")
	}

	var out []DerivedColumn
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, apierr.Wrap(apierr.SchemaError, err, "malformed derived_columns")
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, apierr.New(apierr.SchemaError, "derived_columns keys must be strings")
		}

		var expr string
		if err := dec.Decode(&expr); err != nil {
			return nil, apierr.Wrap(apierr.SchemaError, err, fmt.Sprintf("derived_columns[%q] must be a string expression", key))
		}
		out = append(out, DerivedColumn{Name: key, Expr: expr})
	}
	if _, err := dec.Token(); err != nil {
		return nil, apierr.Wrap(apierr.SchemaError, err, "malformed derived_columns")
	}
	return out, nil
}
