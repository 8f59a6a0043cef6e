// Package format provides pure display formatters for telemetry and
// configuration values. All functions are total: invalid or missing input
// formats as the zero value rather than failing.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ClampCount renders v as a fixed-width, zero-padded three-digit counter.
// The value is coerced to a number, clamped to [0, 999], and defaults to 0
// when invalid or missing. Formatting an already-formatted value through
// ClampCount again yields the same string.
func ClampCount(v any) string {
	n := coerceNumber(v)
	if n < 0 {
		n = 0
	}
	if n > 999 {
		n = 999
	}
	return fmt.Sprintf("%03d", int(math.Round(n)))
}

// ClampPercent coerces v to a number clamped to [0, 100], defaulting to 0.
func ClampPercent(v any) int {
	n := coerceNumber(v)
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return int(math.Round(n))
}

// LevelBar renders pct (0-100) as a proportional bar of the given width.
func LevelBar(pct, width int) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// DB renders a nullable dB reading, using a dash when absent.
func DB(db *float64) string {
	if db == nil {
		return "--.- dB"
	}
	return fmt.Sprintf("%.1f dB", *db)
}

// coerceNumber converts common scalar shapes to a float64. Anything that is
// not number-like (nil, booleans, unparseable strings, maps) coerces to 0.
func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}
