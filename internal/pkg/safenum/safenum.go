// Package safenum keeps report arithmetic finite. Any NaN or ±Inf produced
// along the way is replaced with zero and logged as a recoverable anomaly.
package safenum

import (
	"log/slog"
	"math"

	"github.com/shopspring/decimal"
)

// Float returns v, or 0 when v is NaN or ±Inf.
func Float(field string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		slog.Warn("computation anomaly coerced to zero", "field", field, "value", v)
		return 0
	}
	return v
}

// NonNegative is Float clamped at zero.
func NonNegative(field string, v float64) float64 {
	v = Float(field, v)
	if v < 0 {
		return 0
	}
	return v
}

// Div returns num/den, or 0 when den is zero. An empty group is not an anomaly
// so a zero denominator is not logged.
func Div(field string, num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return Float(field, num/den)
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(field string, part, whole float64) float64 {
	return Div(field, part*100, whole)
}

// Decimal converts a float into a decimal, mapping NaN/Inf to zero first.
func Decimal(field string, v float64) decimal.Decimal {
	return decimal.NewFromFloat(Float(field, v))
}

// DivDecimal divides two decimals and returns a float; 0 when den is zero.
func DivDecimal(field string, num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return Float(field, num.Div(den).InexactFloat64())
}

// PercentDecimal returns part/whole*100 as a float, clamped to [0, 100].
func PercentDecimal(field string, part, whole decimal.Decimal) float64 {
	if whole.Sign() <= 0 {
		return 0
	}
	p := DivDecimal(field, part.Mul(decimal.NewFromInt(100)), whole)
	return math.Min(math.Max(p, 0), 100)
}

// NonNegativeDecimal clamps d at zero.
func NonNegativeDecimal(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
