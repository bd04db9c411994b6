package vm

import "math"

// Tolerance is the epsilon used for truthiness and equality.
const Tolerance = 0.0001

const (
	True  = 1.0
	False = 0.0
)

// IsTrue reports whether |x| >= Tolerance. NaN is false.
func IsTrue(x float64) bool {
	return math.Abs(x) >= Tolerance
}

// ApproxEqual reports whether |a - b| < Tolerance.
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// Bool converts a Go boolean to True or False.
func Bool(b bool) float64 {
	if b {
		return True
	}
	return False
}
