package aggregation

import (
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

const monthKey = "2006-01"

// MonthlyTrend buckets revenue (inflow) and total pay (outflow) by the start
// month of each schedule over the trailing months ending at now's month.
// Cumulative balance is the running sum of the rounded net flows.
func (e *Engine) MonthlyTrend(now time.Time, months int) []report.MonthlyTrendPoint {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	index := make(map[string]int, months)
	inflow := make([]decimal.Decimal, months)
	outflow := make([]decimal.Decimal, months)
	keys := make([]string, months)
	for i := 0; i < months; i++ {
		keys[i] = first.AddDate(0, i, 0).Format(monthKey)
		index[keys[i]] = i
	}

	for i := range e.facts {
		f := &e.facts[i]
		if f.schedule.StartDate.IsZero() {
			continue
		}
		idx, ok := index[f.schedule.StartDate.Format(monthKey)]
		if !ok {
			continue
		}
		inflow[idx] = inflow[idx].Add(f.revenue)
		outflow[idx] = outflow[idx].Add(f.pay.Total)
	}

	points := make([]report.MonthlyTrendPoint, months)
	cumulative := decimal.Zero
	for i := range points {
		in, out := won(inflow[i]), won(outflow[i])
		net := in.Sub(out)
		cumulative = cumulative.Add(net)
		points[i] = report.MonthlyTrendPoint{
			Month:             keys[i],
			Inflow:            in,
			Outflow:           out,
			NetFlow:           net,
			CumulativeBalance: cumulative,
		}
	}
	return points
}
