package aggregation

import (
	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/domain/worker"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/safenum"
	"github.com/shopspring/decimal"
)

var withholdingRate = decimal.RequireFromString(schedule.WithholdingRate)

// PayTerms are the effective terms of one assignment.
type PayTerms struct {
	HourlyWage     decimal.Decimal
	Withholding    bool
	FuelAllowance  decimal.Decimal
	OtherAllowance decimal.Decimal
}

// ResolveTerms applies assignment overrides on top of the worker defaults.
// A nil term on the assignment inherits the worker's value.
func ResolveTerms(a schedule.Assignment, w *worker.Worker) PayTerms {
	var t PayTerms
	if w != nil {
		t.HourlyWage = w.DefaultHourlyWage
		t.Withholding = w.Withholding
		t.FuelAllowance = w.DefaultFuelAllowance
		t.OtherAllowance = w.DefaultOtherAllowance
	}
	if a.HourlyWage != nil {
		t.HourlyWage = *a.HourlyWage
	}
	if a.Withholding != nil {
		t.Withholding = *a.Withholding
	}
	if a.FuelAllowance != nil {
		t.FuelAllowance = *a.FuelAllowance
	}
	if a.OtherAllowance != nil {
		t.OtherAllowance = *a.OtherAllowance
	}
	return t
}

// Pay is unrounded until Rounded is called.
type Pay struct {
	Hours      float64
	Gross      decimal.Decimal
	Withheld   decimal.Decimal
	Net        decimal.Decimal
	Allowances decimal.Decimal
	Total      decimal.Decimal
}

func ComputePay(terms PayTerms, hours float64) Pay {
	hours = safenum.NonNegative("pay.hours", hours)
	wage := safenum.NonNegativeDecimal(terms.HourlyWage)

	gross := wage.Mul(decimal.NewFromFloat(hours))
	withheld := decimal.Zero
	if terms.Withholding {
		withheld = gross.Mul(withholdingRate)
	}
	net := gross.Sub(withheld)
	allowances := safenum.NonNegativeDecimal(terms.FuelAllowance).
		Add(safenum.NonNegativeDecimal(terms.OtherAllowance))

	return Pay{
		Hours:      hours,
		Gross:      gross,
		Withheld:   withheld,
		Net:        net,
		Allowances: allowances,
		Total:      net.Add(allowances),
	}
}

func (p Pay) Add(o Pay) Pay {
	return Pay{
		Hours:      p.Hours + o.Hours,
		Gross:      p.Gross.Add(o.Gross),
		Withheld:   p.Withheld.Add(o.Withheld),
		Net:        p.Net.Add(o.Net),
		Allowances: p.Allowances.Add(o.Allowances),
		Total:      p.Total.Add(o.Total),
	}
}

// Rounded rounds every amount to whole won.
func (p Pay) Rounded() Pay {
	return Pay{
		Hours:      roundHours(p.Hours),
		Gross:      won(p.Gross),
		Withheld:   won(p.Withheld),
		Net:        won(p.Net),
		Allowances: won(p.Allowances),
		Total:      won(p.Total),
	}
}

func won(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// roundHours keeps two decimals for display.
func roundHours(h float64) float64 {
	return decimal.NewFromFloat(safenum.Float("hours", h)).Round(2).InexactFloat64()
}

func roundRate(r float64) float64 {
	return decimal.NewFromFloat(safenum.Float("rate", r)).Round(1).InexactFloat64()
}
