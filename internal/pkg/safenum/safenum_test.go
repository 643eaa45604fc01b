package safenum

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFloat_CoercesNonFinite(t *testing.T) {
	assert.Equal(t, 0.0, Float("x", math.NaN()))
	assert.Equal(t, 0.0, Float("x", math.Inf(1)))
	assert.Equal(t, 0.0, Float("x", math.Inf(-1)))
	assert.Equal(t, 7.5, Float("x", 7.5))
	assert.Equal(t, -2.0, Float("x", -2))
}

func TestNonNegative(t *testing.T) {
	assert.Equal(t, 0.0, NonNegative("x", -3))
	assert.Equal(t, 0.0, NonNegative("x", math.NaN()))
	assert.Equal(t, 3.0, NonNegative("x", 3))
}

func TestDiv_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, Div("x", 10, 0))
	assert.Equal(t, 0.0, Div("x", 0, 0))
	assert.Equal(t, 2.5, Div("x", 5, 2))
	assert.Equal(t, 0.0, Div("x", math.Inf(1), 2))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 50.0, Percent("x", 1, 2))
	assert.Equal(t, 0.0, Percent("x", 1, 0))
}

func TestDecimalHelpers(t *testing.T) {
	assert.True(t, Decimal("x", math.NaN()).IsZero())
	assert.True(t, Decimal("x", 8).Equal(decimal.NewFromInt(8)))

	assert.Equal(t, 0.0, DivDecimal("x", decimal.NewFromInt(5), decimal.Zero))
	assert.Equal(t, 2.5, DivDecimal("x", decimal.NewFromInt(5), decimal.NewFromInt(2)))

	assert.Equal(t, 0.0, PercentDecimal("x", decimal.NewFromInt(5), decimal.Zero))
	assert.Equal(t, 25.0, PercentDecimal("x", decimal.NewFromInt(1), decimal.NewFromInt(4)))
	assert.Equal(t, 100.0, PercentDecimal("x", decimal.NewFromInt(9), decimal.NewFromInt(4)))

	assert.True(t, NonNegativeDecimal(decimal.NewFromInt(-1)).IsZero())
	assert.True(t, NonNegativeDecimal(decimal.NewFromInt(3)).Equal(decimal.NewFromInt(3)))
}
