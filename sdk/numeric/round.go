// Package numeric holds the rounding rule shared by the geo and money packages.
package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

var half = decimal.New(5, -1)

// RoundHalfAwayFromZero rounds d to the given number of decimal places.
// The absolute value is rounded half-up and the sign is reapplied, so
// 1.005 -> 1.01 and -1.005 -> -1.01.
func RoundHalfAwayFromZero(d decimal.Decimal, places int32) decimal.Decimal {
	scaled := d.Abs().Shift(places)
	whole := scaled.Floor()
	if scaled.Sub(whole).GreaterThanOrEqual(half) {
		whole = whole.Add(decimal.NewFromInt(1))
	}
	if d.IsNegative() {
		whole = whole.Neg()
	}
	return whole.Shift(-places)
}

// RoundFloat rounds v through its shortest decimal representation, so a
// float printed as 50.005 rounds to 50.01 rather than to the nearest binary
// neighbour. NaN and infinities are returned unchanged.
func RoundFloat(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return RoundHalfAwayFromZero(decimal.NewFromFloat(v), places).InexactFloat64()
}
