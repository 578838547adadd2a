// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import "errors"

// ErrMissingTableParam indicates a metadata endpoint was called without the
// required ?table= query parameter.
var ErrMissingTableParam = errors.New("table parameter is required")

// ErrMissingColumnParam indicates /api/samples was called without the
// required ?column= query parameter.
var ErrMissingColumnParam = errors.New("column parameter is required")
