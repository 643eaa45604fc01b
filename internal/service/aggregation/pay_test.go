package aggregation

import (
	"math"
	"testing"

	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/domain/worker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputePay_Withholding(t *testing.T) {
	p := ComputePay(PayTerms{HourlyWage: decimal.NewFromInt(10000), Withholding: true}, 8).Rounded()

	assertWon(t, "80000", p.Gross)
	assertWon(t, "2640", p.Withheld)
	assertWon(t, "77360", p.Net)
	assertWon(t, "77360", p.Total)
}

func TestComputePay_NoWithholding(t *testing.T) {
	p := ComputePay(PayTerms{HourlyWage: decimal.NewFromInt(10000)}, 8).Rounded()

	assertWon(t, "80000", p.Gross)
	assertWon(t, "0", p.Withheld)
	assertWon(t, "80000", p.Net)
}

func TestComputePay_TwoPeriodsWithFuelAllowance(t *testing.T) {
	a := schedule.Assignment{
		HourlyWage:    dec("15000"),
		Withholding:   ptr(false),
		FuelAllowance: dec("10000"),
		Periods: []schedule.WorkPeriod{
			clock("2025-03-03", "09:00", "13:00", 0),
			clock("2025-03-03", "14:00", "18:00", 0),
		},
	}

	hours := WorkHours(a.Periods)
	p := ComputePay(ResolveTerms(a, nil), hours).Rounded()

	assert.Equal(t, 8.0, p.Hours)
	assertWon(t, "120000", p.Gross)
	assertWon(t, "120000", p.Net)
	assertWon(t, "130000", p.Total)
}

func TestComputePay_WorkerDefaultFuelAllowance(t *testing.T) {
	w := &worker.Worker{
		DefaultHourlyWage:    decimal.NewFromInt(15000),
		DefaultFuelAllowance: decimal.NewFromInt(10000),
	}
	a := schedule.Assignment{
		Periods: []schedule.WorkPeriod{
			clock("2025-03-03", "09:00", "13:00", 0),
			clock("2025-03-03", "14:00", "18:00", 0),
		},
	}

	p := ComputePay(ResolveTerms(a, w), WorkHours(a.Periods)).Rounded()

	assert.Equal(t, 8.0, p.Hours)
	assertWon(t, "120000", p.Gross)
	assertWon(t, "130000", p.Total)
}

func TestComputePay_RoundsOnlyAtOutput(t *testing.T) {
	p := ComputePay(PayTerms{HourlyWage: decimal.NewFromInt(10001), Withholding: true}, 1)

	assert.Equal(t, "330.033", p.Withheld.String())
	assert.Equal(t, "9670.967", p.Net.String())

	r := p.Rounded()
	assertWon(t, "330", r.Withheld)
	assertWon(t, "9671", r.Net)
}

func TestComputePay_MalformedInputs(t *testing.T) {
	tests := []struct {
		name  string
		terms PayTerms
		hours float64
	}{
		{"NaN hours", PayTerms{HourlyWage: decimal.NewFromInt(10000)}, math.NaN()},
		{"infinite hours", PayTerms{HourlyWage: decimal.NewFromInt(10000)}, math.Inf(1)},
		{"negative hours", PayTerms{HourlyWage: decimal.NewFromInt(10000)}, -4},
		{"negative allowances", PayTerms{FuelAllowance: decimal.NewFromInt(-1), OtherAllowance: decimal.NewFromInt(-1)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComputePay(tt.terms, tt.hours).Rounded()
			assert.Equal(t, 0.0, p.Hours)
			assertWon(t, "0", p.Gross)
			assertWon(t, "0", p.Total)
		})
	}
}

func TestComputePay_NegativeWageKeepsHours(t *testing.T) {
	p := ComputePay(PayTerms{HourlyWage: decimal.NewFromInt(-10000)}, 4).Rounded()

	assert.Equal(t, 4.0, p.Hours)
	assertWon(t, "0", p.Gross)
	assertWon(t, "0", p.Total)
}

func TestResolveTerms(t *testing.T) {
	w := &worker.Worker{
		DefaultHourlyWage:     decimal.NewFromInt(12000),
		Withholding:           true,
		DefaultFuelAllowance:  decimal.NewFromInt(5000),
		DefaultOtherAllowance: decimal.NewFromInt(3000),
	}

	t.Run("falls back to worker defaults", func(t *testing.T) {
		terms := ResolveTerms(schedule.Assignment{}, w)
		assertWon(t, "12000", terms.HourlyWage)
		assert.True(t, terms.Withholding)
		assertWon(t, "5000", terms.FuelAllowance)
		assertWon(t, "3000", terms.OtherAllowance)
	})

	t.Run("assignment overrides win", func(t *testing.T) {
		terms := ResolveTerms(schedule.Assignment{
			HourlyWage:     dec("20000"),
			Withholding:    ptr(false),
			OtherAllowance: dec("7000"),
		}, w)
		assertWon(t, "20000", terms.HourlyWage)
		assert.False(t, terms.Withholding)
		assertWon(t, "5000", terms.FuelAllowance)
		assertWon(t, "7000", terms.OtherAllowance)
	})

	t.Run("explicit zero allowance overrides the default", func(t *testing.T) {
		terms := ResolveTerms(schedule.Assignment{FuelAllowance: dec("0")}, w)
		assertWon(t, "0", terms.FuelAllowance)
		assertWon(t, "3000", terms.OtherAllowance)
	})

	t.Run("unknown worker", func(t *testing.T) {
		terms := ResolveTerms(schedule.Assignment{}, nil)
		assertWon(t, "0", terms.HourlyWage)
		assert.False(t, terms.Withholding)
	})
}
