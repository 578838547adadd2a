// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package timeutil

import (
	"testing"
	"time"

	"github.com/tomtom215/scubaduck/internal/apierr"
)

func fixedNow(t *testing.T) FixedClock {
	t.Helper()
	at, err := time.Parse(AbsoluteLayout, "2024-01-02 04:00:00")
	if err != nil {
		t.Fatalf("parse fixture time: %v", err)
	}
	return FixedClock{At: at}
}

func TestResolveNow(t *testing.T) {
	clock := fixedNow(t)
	got, err := Resolve("now", clock)
	if err != nil {
		t.Fatalf("Resolve(now) error: %v", err)
	}
	if !got.Equal(clock.At) {
		t.Errorf("Resolve(now) = %v, want %v", got, clock.At)
	}
}

func TestResolveRelative(t *testing.T) {
	clock := fixedNow(t)
	got, err := Resolve("-1 hour", clock)
	if err != nil {
		t.Fatalf("Resolve(-1 hour) error: %v", err)
	}
	want := clock.At.Add(-time.Hour)
	if !got.Equal(want) {
		t.Errorf("Resolve(-1 hour) = %v, want %v", got, want)
	}
}

func TestResolveRelativePlural(t *testing.T) {
	clock := fixedNow(t)
	got, err := Resolve("-2 days", clock)
	if err != nil {
		t.Fatalf("Resolve(-2 days) error: %v", err)
	}
	want := clock.At.Add(-48 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("Resolve(-2 days) = %v, want %v", got, want)
	}
}

func TestResolveAbsolute(t *testing.T) {
	clock := fixedNow(t)
	got, err := Resolve("2024-01-01 00:00:00", clock)
	if err != nil {
		t.Fatalf("Resolve(absolute) error: %v", err)
	}
	if FormatAbsolute(got) != "2024-01-01 00:00:00" {
		t.Errorf("FormatAbsolute = %s", FormatAbsolute(got))
	}
}

func TestResolveNonsenseIsTimeParseError(t *testing.T) {
	clock := fixedNow(t)
	_, err := Resolve("nonsense", clock)
	if err == nil {
		t.Fatal("expected error for nonsense input")
	}
	if kind := apierr.As(err).Kind; kind != apierr.TimeParseError {
		t.Errorf("error kind = %s, want %s", kind, apierr.TimeParseError)
	}
}

func TestEpochLiteralRoundTrip(t *testing.T) {
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, unit := range []TimeUnit{UnitSeconds, UnitMilliseconds, UnitMicroseconds, UnitNanoseconds} {
		lit := EpochLiteral(ref, unit)
		back := FromEpoch(lit, unit)
		if !back.Equal(ref) {
			t.Errorf("unit %s: round trip = %v, want %v", unit, back, ref)
		}
	}
}
