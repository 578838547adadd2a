// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

const maxQueryBodyBytes = 1 << 20 // 1MB: ad-hoc queries are small JSON objects

// decodeJSONBody decodes r's body into dst, capping the read so a
// malformed or hostile client can't exhaust memory decoding a giant body.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	limited := io.LimitReader(r.Body, maxQueryBodyBytes+1)

	dec := json.NewDecoder(limited)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
