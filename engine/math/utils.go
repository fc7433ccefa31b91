package math

import (
	m "math"

	"golang.org/x/exp/constraints"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Quantized values are clamped well inside the int64 range so a pathological
// coordinate divided by a tiny unit can never overflow the conversion.
const maxQuantized = float64(1 << 62)

// Quantize maps x onto the integer grid of the given unit. Points closer than
// unit on an axis land on the same or an adjacent grid cell, which is what
// tolerance-bucketing relies on.
func Quantize(x, unit float64) int64 {
	q := m.Floor(x / unit)
	if q >= maxQuantized {
		return int64(maxQuantized)
	}
	if q <= -maxQuantized {
		return -int64(maxQuantized)
	}
	return int64(q)
}
