package utils

import "math"

// Clamp constrains t to the interval [min, max]. The endpoints may be given
// in either order.
func Clamp(t, min, max float64) float64 {
	min, max = math.Min(min, max), math.Max(min, max)
	return math.Max(math.Min(t, max), min)
}

// ClampUnit constrains t to the unit interval [0, 1].
func ClampUnit(t float64) float64 {
	return Clamp(t, 0, 1)
}
