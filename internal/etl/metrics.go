package etl

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Arithmetic helpers for report aggregation. All of them absorb degenerate
// input (zero denominators, empty slices, malformed strings) by returning
// a neutral value instead of an error: missing report data should degrade
// output completeness, not abort a run.

// SafeDiv returns numerator/denominator, or 0 when the denominator is 0.
func SafeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Round rounds half away from zero at the given number of decimals.
func Round(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Std returns the population standard deviation (divide by N), or 0 for
// fewer than two values.
func Std(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// Quantile returns the linearly interpolated quantile (R type 7) for a
// fraction q in [0,1]. The input must already be sorted ascending.
// Returns 0 for an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := float64(n-1) * q
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// ParseDurationToMinutes converts an HH:MM:SS string to fractional
// minutes. Malformed or missing input yields 0.
func ParseDurationToMinutes(value string) float64 {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, ":") {
		return 0
	}
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	secs, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0
	}
	return float64(hours)*60 + float64(mins) + float64(secs)/60
}

var keySeparators = regexp.MustCompile(`[\s/\-]+`)

// NormalizeKey builds a canonical disposition key from a human-readable
// report column header: lower-cased, periods stripped, runs of
// whitespace/hyphens/slashes collapsed to single underscores. Stable
// across minor vendor label variations ("Dead Air", "dead-air",
// "Dead/Air" all map to "dead_air").
func NormalizeKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.ReplaceAll(key, ".", "")
	key = keySeparators.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// mergeDispositions upserts-with-sum src into dst, normalizing keys.
// dst must be non-nil.
func mergeDispositions(dst map[string]int, src map[string]int) {
	for label, count := range src {
		dst[NormalizeKey(label)] += count
	}
}

// dispositionCount reads one disposition by canonical key, folding raw
// report labels through the same normalization mergeDispositions applies.
// Rows that skipped the merge path ("Dead Air" straight off a report)
// count the same as canonical-keyed ones.
func dispositionCount(disps map[string]int, key string) int {
	total := 0
	for label, count := range disps {
		if NormalizeKey(label) == key {
			total += count
		}
	}
	return total
}
