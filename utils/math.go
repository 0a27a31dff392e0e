package utils

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// DegToRad converts an angle in degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts an angle in radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return scalar.EqualWithinAbs(a, b, epsilon)
}

// Clamp returns value bounded to [lo, hi]. NaN is passed through untouched.
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// ContainsNaN returns true if any of the given values is NaN.
func ContainsNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// TrimAngle maps an angle in radians into (-pi, pi].
func TrimAngle(angle float64) float64 {
	trimmed := math.Remainder(angle, 2*math.Pi)
	if trimmed <= -math.Pi {
		trimmed += 2 * math.Pi
	}
	return trimmed
}

// AngleDiff returns the shortest signed difference a1 - a2, in radians, mapped into (-pi, pi].
func AngleDiff(a1, a2 float64) float64 {
	return TrimAngle(a1 - a2)
}
