// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/scubaduck/internal/apierr"
	"github.com/tomtom215/scubaduck/internal/catalog"
)

func TestExecutorRunSamplesQuery(t *testing.T) {
	cat, err := catalog.Load(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("Load(TEST): %v", err)
	}
	defer cat.Close()

	exec := NewExecutor(cat.DB(), 4)
	result, err := exec.Run(context.Background(), `SELECT "user", "value" FROM "events" ORDER BY "timestamp" ASC`, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(result.Columns))
	}
	if len(result.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(result.Rows))
	}
}

func TestExecutorWrapsEngineErrorAsExecutionError(t *testing.T) {
	cat, err := catalog.Load(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("Load(TEST): %v", err)
	}
	defer cat.Close()

	exec := NewExecutor(cat.DB(), 4)
	badSQL := `SELECT "does_not_exist" FROM "events"`
	_, err = exec.Run(context.Background(), badSQL, nil)
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
	apiErr := apierr.As(err)
	if apiErr.Kind != apierr.ExecutionError {
		t.Errorf("expected ExecutionError, got %v", apiErr.Kind)
	}
	if apiErr.SQL != badSQL {
		t.Errorf("expected SQL preserved on error, got %q", apiErr.SQL)
	}
}

func TestNormalizeValueFormatsTimestampAsWireFormat(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := normalizeValue(at)
	if got != "2024-01-01 00:00:00" {
		t.Errorf("normalizeValue(time) = %v, want 2024-01-01 00:00:00", got)
	}
}

func TestNormalizeValuePreservesJSSafeIntegers(t *testing.T) {
	if got := normalizeValue(int64(42)); got != int64(42) {
		t.Errorf("normalizeValue(42) = %v, want int64(42)", got)
	}
	if got := normalizeValue(int64(maxJSSafeInteger)); got != int64(maxJSSafeInteger) {
		t.Errorf("normalizeValue(maxJSSafeInteger) = %v, want int64 passthrough", got)
	}
}

func TestNormalizeValueStringifiesOutOfRangeIntegers(t *testing.T) {
	big := int64(maxJSSafeInteger) + 1
	got := normalizeValue(big)
	if got != "9007199254740992" {
		t.Errorf("normalizeValue(big) = %v, want string form", got)
	}

	negBig := -int64(maxJSSafeInteger) - 1
	got = normalizeValue(negBig)
	if got != "-9007199254740992" {
		t.Errorf("normalizeValue(negBig) = %v, want string form", got)
	}
}
