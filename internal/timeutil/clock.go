// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package timeutil resolves absolute and relative time expressions against
// an injectable clock, and converts resolved timestamps into the integer
// epoch literal a numeric temporal column expects.
package timeutil

import "time"

// Clock supplies the current instant. Production code uses SystemClock;
// tests freeze time with a FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock is a Clock that always returns the same instant. Useful for
// freezing "now" in tests.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.At }
