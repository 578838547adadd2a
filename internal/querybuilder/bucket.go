// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/scubaduck/internal/apierr"
)

// standardSteps is the bucket-width ladder shared by Auto and Fine
// granularity selection, expressed in seconds and kept ascending.
var standardSteps = []int64{
	1, 5, 15, 30, // seconds
	60, 5 * 60, 15 * 60, 30 * 60, // minutes
	3600, 3 * 3600, 6 * 3600, 12 * 3600, // hours
	86400,      // day
	7 * 86400,  // week
	30 * 86400, // 30 days
}

const (
	fineTargetBuckets = 100
	autoTargetBuckets = 30
)

// PlanBucketWidth selects a bucket width in seconds for the given
// granularity over the [start, end] window.
//
//   - "Auto" targets ~30 buckets: the smallest standard step whose bucket
//     count is at most the target.
//   - "Fine" targets ~100 buckets: the largest standard step that still
//     keeps the bucket count at or above the target, so the series isn't
//     exploded far past 100 buckets.
//   - "<N> <unit>" is parsed literally.
func PlanBucketWidth(granularity string, start, end time.Time) (int64, error) {
	span := end.Sub(start).Seconds()
	if span < 0 {
		span = 0
	}

	switch granularity {
	case "", "Auto":
		return planAuto(span), nil
	case "Fine":
		return planFine(span), nil
	default:
		return parseExplicitWidth(granularity)
	}
}

func planAuto(spanSeconds float64) int64 {
	for _, step := range standardSteps {
		if bucketCount(spanSeconds, step) <= autoTargetBuckets {
			return step
		}
	}
	return standardSteps[len(standardSteps)-1]
}

func planFine(spanSeconds float64) int64 {
	best := standardSteps[0]
	for _, step := range standardSteps {
		if bucketCount(spanSeconds, step) >= fineTargetBuckets {
			best = step
			continue
		}
		break
	}
	return best
}

func bucketCount(spanSeconds float64, step int64) float64 {
	if step <= 0 {
		return 0
	}
	return spanSeconds / float64(step)
}

// explicitUnitSeconds maps a granularity unit word to its length in seconds.
var explicitUnitSeconds = map[string]int64{
	"second": 1, "seconds": 1, "s": 1,
	"minute": 60, "minutes": 60, "m": 60, "min": 60,
	"hour": 3600, "hours": 3600, "h": 3600,
	"day": 86400, "days": 86400, "d": 86400,
	"week": 7 * 86400, "weeks": 7 * 86400, "w": 7 * 86400,
}

func parseExplicitWidth(granularity string) (int64, error) {
	fields := strings.Fields(granularity)
	if len(fields) != 2 {
		return 0, apierr.Newf(apierr.SchemaError, "malformed granularity %q", granularity)
	}
	n, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || n <= 0 {
		return 0, apierr.Newf(apierr.SchemaError, "malformed granularity %q", granularity)
	}
	unitSeconds, ok := explicitUnitSeconds[strings.ToLower(fields[1])]
	if !ok {
		return 0, apierr.Newf(apierr.SchemaError, "unknown granularity unit %q", fields[1])
	}
	return n * unitSeconds, nil
}

// BucketExpr renders the bucket-boundary SQL expression for a quoted x-axis
// column, anchored so bucket 0 starts exactly at startEpoch (rather than at
// the engine's epoch zero, which a plain floor(epoch(x)/W)*W would do).
func BucketExpr(xAxisQuoted string, widthSeconds int64, startEpoch int64) string {
	return fmt.Sprintf(
		"to_timestamp(%d + floor((epoch(%s) - %d) / %d) * %d)",
		startEpoch, xAxisQuoted, startEpoch, widthSeconds, widthSeconds,
	)
}
