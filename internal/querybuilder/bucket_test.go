// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package querybuilder

import (
	"testing"
	"time"
)

func TestPlanBucketWidthAuto(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	width, err := PlanBucketWidth("Auto", start, end)
	if err != nil {
		t.Fatalf("PlanBucketWidth error: %v", err)
	}
	count := 86400.0 / float64(width)
	if count > autoTargetBuckets {
		t.Errorf("Auto bucket count %.1f exceeds target %d", count, autoTargetBuckets)
	}
}

func TestPlanBucketWidthFineKeepsAtLeastTarget(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	width, err := PlanBucketWidth("Fine", start, end)
	if err != nil {
		t.Fatalf("PlanBucketWidth error: %v", err)
	}
	count := 86400.0 / float64(width)
	if count < fineTargetBuckets {
		t.Errorf("Fine bucket count %.1f below target %d", count, fineTargetBuckets)
	}
}

func TestPlanBucketWidthExplicit(t *testing.T) {
	start := time.Now()
	end := start.Add(time.Hour)

	width, err := PlanBucketWidth("1 day", start, end)
	if err != nil {
		t.Fatalf("PlanBucketWidth error: %v", err)
	}
	if width != 86400 {
		t.Errorf("width = %d, want 86400", width)
	}
}

func TestPlanBucketWidthRejectsMalformed(t *testing.T) {
	if _, err := PlanBucketWidth("bogus", time.Now(), time.Now()); err == nil {
		t.Error("expected error for malformed granularity")
	}
}

func TestBucketExprAnchorsToStart(t *testing.T) {
	expr := BucketExpr(`"timestamp"`, 3600, 1704067200)
	want := `to_timestamp(1704067200 + floor((epoch("timestamp") - 1704067200) / 3600) * 3600)`
	if expr != want {
		t.Errorf("BucketExpr = %s, want %s", expr, want)
	}
}
