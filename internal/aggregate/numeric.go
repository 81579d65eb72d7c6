package aggregate

import (
	"github.com/shopspring/decimal"
)

// The warehouse returns nullable numerics for every aggregate; all
// null-vs-zero decisions go through the helpers below so the distinction
// is made exactly once per field, never ad hoc at call sites.

// CoalesceFloat resolves a nullable warehouse numeric to its zero default
func CoalesceFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// CoalesceInt resolves a nullable warehouse integer to its zero default
func CoalesceInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// SharePercent converts a share stored as a fraction in [0,1] to a
// percentage rounded to two decimals. This is the single conversion site;
// shares must never be scaled anywhere else.
func SharePercent(share float64) float64 {
	return decimal.NewFromFloat(share).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// SharePercentPtr converts a nullable stored share to a nullable
// percentage, preserving "no data" as nil
func SharePercentPtr(share *float64) *float64 {
	if share == nil {
		return nil
	}
	p := SharePercent(*share)
	return &p
}

// FormatPercent renders a stored share fraction as a percentage string
// with two decimals, e.g. 0.12345 -> "12.35%"
func FormatPercent(share float64) string {
	return decimal.NewFromFloat(share).
		Mul(decimal.NewFromInt(100)).
		StringFixed(2) + "%"
}

// RatePercent computes successful/total*100 rounded to one decimal.
// A zero total yields 0; callers apply their own zero-total policy first.
func RatePercent(successful, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(successful).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(1).
		InexactFloat64()
}

// MsatToSat converts millisatoshi to whole satoshi by truncating division
func MsatToSat(msat int64) int64 {
	return msat / 1000
}
