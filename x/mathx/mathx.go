// Package mathx holds small generic integer helpers used by the tick
// arithmetic. Keep to positive values; this is firmware maths.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CeilDiv returns ceil(a/b). b == 0 yields 0.
func CeilDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// RoundDiv returns floor((a + b/2) / b), classic rounding. b == 0 yields 0.
func RoundDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}

// RoundUpMultiple rounds v up to the nearest multiple of step. A zero step
// returns v unchanged.
func RoundUpMultiple[T constraints.Unsigned](v, step T) T {
	if step == 0 {
		return v
	}
	return CeilDiv(v, step) * step
}
