// Package money provides exact arithmetic on ledger amounts.
//
// The ledger represents every amount as a signed integer count of minor
// units (1/1000 of the display currency unit). All aggregation happens on
// those integers; floating point only appears at the display boundary and
// in ratios, and every degenerate case (zero denominators) is guarded here
// so NaN and Infinity can never leak into a JSON response.
package money

import "math"

// MinorUnitsPerUnit is the ledger's fixed-point scale.
const MinorUnitsPerUnit = 1000

// Sum adds minor-unit amounts exactly. Integer accumulation means the result
// carries no drift regardless of how long the list is.
func Sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// ToDisplayAmount converts minor units to the human decimal form
// (12500 -> 12.5).
func ToDisplayAmount(minor int64) float64 {
	return float64(minor) / MinorUnitsPerUnit
}

// FromDisplayAmount converts a human-entered decimal to minor units,
// rounding half up at the minor-unit boundary. Half-up (away from zero for
// negatives) matches what users expect on refunds and splits; banker's
// rounding would not.
func FromDisplayAmount(display float64) int64 {
	return RoundHalfUp(display * MinorUnitsPerUnit)
}

// RoundHalfUp rounds to the nearest integer with ties going away from zero.
func RoundHalfUp(v float64) int64 {
	if v >= 0 {
		return int64(math.Floor(v + 0.5))
	}
	return int64(math.Ceil(v - 0.5))
}

// MultiplyRound scales a minor-unit amount by a factor and rounds half up.
// Used for monthly-equivalent cost figures (e.g. weekly amount x 4.33).
func MultiplyRound(minor int64, factor float64) int64 {
	return RoundHalfUp(float64(minor) * factor)
}

// PercentOf returns part as a percentage of whole, or 0 when whole is 0.
func PercentOf(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Ratio divides num by den, returning 0 when den is 0. Every ratio in the
// analysis code (coefficient of variation, trend percent) goes through this
// guard instead of repeating it at each call site.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Abs returns the absolute value of a minor-unit amount.
func Abs(minor int64) int64 {
	if minor < 0 {
		return -minor
	}
	return minor
}
