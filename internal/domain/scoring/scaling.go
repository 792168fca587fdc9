// Package scoring implements the points engine: exponential level scaling,
// bonus calculation with clamp-then-boost, and rank progression.
package scoring

import "math"

// DefaultAlpha is the exponent steepness of the level scaling curve.
const DefaultAlpha = 5.5

// ExponentialScale maps a user level to a scaling multiplier:
//
//	f(L) = (e^(alpha*L) - 1) / (e^alpha - 1)
//
// By construction f(0) = 0 and f(1) = 1 for any alpha; for L > 1 the
// multiplier grows super-linearly, amplifying base points for
// higher-level users.
func ExponentialScale(level int, alpha float64) float64 {
	return (math.Exp(alpha*float64(level)) - 1) / (math.Exp(alpha) - 1)
}
