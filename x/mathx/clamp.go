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

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// WrapInc returns v+1, or 0 once v+1 reaches n.
func WrapInc[T constraints.Integer](v, n T) T {
	v++
	if v >= n {
		return 0
	}
	return v
}

// SatInc returns v+1 capped at max. It never overflows T.
func SatInc[T constraints.Integer](v, max T) T {
	if v >= max {
		return max
	}
	return v + 1
}
