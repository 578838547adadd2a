// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package timeutil

import (
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/scubaduck/internal/apierr"
)

// AbsoluteLayout is the canonical wire format for resolved timestamps.
const AbsoluteLayout = "2006-01-02 15:04:05"

// acceptedLayouts are tried in order when parsing an absolute timestamp.
// The canonical layout is tried first; the rest accept the common ISO-like
// variants a human typing into the UI is likely to produce.
var acceptedLayouts = []string{
	AbsoluteLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// unitSeconds maps every accepted relative-time unit (singular or plural) to
// its length in seconds. "month" is approximated as 30 days and "year" as
// 365 days.
var unitSeconds = map[string]int64{
	"second": 1, "seconds": 1,
	"minute": 60, "minutes": 60,
	"hour": 3600, "hours": 3600,
	"day": 86400, "days": 86400,
	"week": 7 * 86400, "weeks": 7 * 86400,
	"fortnight": 14 * 86400, "fortnights": 14 * 86400,
	"month": 30 * 86400, "months": 30 * 86400,
	"year": 365 * 86400, "years": 365 * 86400,
}

// Resolve converts an absolute or relative time expression into an absolute
// instant, evaluated against clock.Now() for relative expressions.
func Resolve(expr string, clock Clock) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, apierr.New(apierr.TimeParseError, "empty time expression")
	}

	if strings.EqualFold(expr, "now") {
		return clock.Now(), nil
	}

	if strings.HasPrefix(expr, "-") {
		return resolveRelative(expr, clock)
	}

	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, expr); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, apierr.Newf(apierr.TimeParseError, "could not parse time expression %q", expr)
}

// resolveRelative parses "-<N> <unit>" and subtracts it from clock.Now().
func resolveRelative(expr string, clock Clock) (time.Time, error) {
	fields := strings.Fields(expr)
	if len(fields) != 2 {
		return time.Time{}, apierr.Newf(apierr.TimeParseError, "malformed relative time expression %q", expr)
	}

	numPart := strings.TrimPrefix(fields[0], "-")
	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil || n < 0 {
		return time.Time{}, apierr.Newf(apierr.TimeParseError, "malformed relative time expression %q", expr)
	}

	unit := strings.ToLower(fields[1])
	secondsPerUnit, ok := unitSeconds[unit]
	if !ok {
		return time.Time{}, apierr.Newf(apierr.TimeParseError, "unknown relative time unit %q", fields[1])
	}

	delta := time.Duration(n*secondsPerUnit) * time.Second
	return clock.Now().Add(-delta), nil
}

// FormatAbsolute renders t in the canonical wire format.
func FormatAbsolute(t time.Time) string {
	return t.UTC().Format(AbsoluteLayout)
}

// TimeUnit is the granularity of a numeric temporal column's epoch value.
type TimeUnit string

const (
	UnitSeconds      TimeUnit = "s"
	UnitMilliseconds TimeUnit = "ms"
	UnitMicroseconds TimeUnit = "us"
	UnitNanoseconds  TimeUnit = "ns"
)

// EpochLiteral converts t into the integer literal a numeric temporal column
// configured with unit would store. Defaults to seconds for an unrecognized
// or empty unit.
func EpochLiteral(t time.Time, unit TimeUnit) int64 {
	sec := t.Unix()
	nsec := int64(t.Nanosecond())
	switch unit {
	case UnitMilliseconds:
		return sec*1_000 + nsec/1_000_000
	case UnitMicroseconds:
		return sec*1_000_000 + nsec/1_000
	case UnitNanoseconds:
		return sec*1_000_000_000 + nsec
	default:
		return sec
	}
}

// FromEpoch converts an integer literal in the given unit back into a time.Time.
func FromEpoch(value int64, unit TimeUnit) time.Time {
	switch unit {
	case UnitMilliseconds:
		return time.UnixMilli(value).UTC()
	case UnitMicroseconds:
		return time.UnixMicro(value).UTC()
	case UnitNanoseconds:
		return time.Unix(0, value).UTC()
	default:
		return time.Unix(value, 0).UTC()
	}
}
