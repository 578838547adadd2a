// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package sqlident

import "testing"

func TestQuoteDoublesInternalQuotes(t *testing.T) {
	got := Quote(`we"ird`)
	want := `"we""ird"`
	if got != want {
		t.Errorf("Quote = %s, want %s", got, want)
	}
}

func TestQuoteSimpleIdentifier(t *testing.T) {
	if got := Quote("timestamp"); got != `"timestamp"` {
		t.Errorf("Quote = %s", got)
	}
}

func TestIsReservedCaseInsensitive(t *testing.T) {
	for _, name := range []string{"desc", "DESC", "Desc", "value", "VALUE"} {
		if !IsReserved(name) {
			t.Errorf("IsReserved(%s) = false, want true", name)
		}
	}
	if IsReserved("user") {
		t.Errorf("IsReserved(user) = true, want false")
	}
}

func TestQuoteQualified(t *testing.T) {
	if got := QuoteQualified("events", "desc"); got != `"events"."desc"` {
		t.Errorf("QuoteQualified = %s", got)
	}
}
