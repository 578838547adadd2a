// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordEngineQuery(t *testing.T) {
	RecordEngineQuery("samples", 10*time.Millisecond, "")
	RecordEngineQuery("table", 5*time.Millisecond, "SchemaError")

	if got := testutil.ToFloat64(EngineQueryErrors.WithLabelValues("SchemaError")); got < 1 {
		t.Errorf("expected at least one SchemaError recorded, got %v", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("expected gauge to increment, got %v want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("expected gauge to return to baseline, got %v want %v", got, before)
	}
}

func TestRecordSampleCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(SampleCacheHits)
	RecordSampleCacheLookup(true)
	if got := testutil.ToFloat64(SampleCacheHits); got != before+1 {
		t.Errorf("expected hit counter to increment, got %v want %v", got, before+1)
	}
}
