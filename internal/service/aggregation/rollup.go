package aggregation

import (
	"math"
	"sort"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/safenum"
	"github.com/shopspring/decimal"
)

type clientAcc struct {
	id        string
	schedules int
	revenue   decimal.Decimal
	collected decimal.Decimal
	workers   map[string]struct{}
	last      time.Time
}

// ClientRollups groups the schedules in w by client id, ranked by revenue.
// Schedules without a client are left out.
func (e *Engine) ClientRollups(w report.Window) []report.ClientRollup {
	var order []*clientAcc
	byID := make(map[string]*clientAcc)

	for _, f := range e.inWindow(w) {
		s := f.schedule
		if !s.HasClient() {
			continue
		}
		acc, ok := byID[*s.ClientID]
		if !ok {
			acc = &clientAcc{id: *s.ClientID, workers: make(map[string]struct{})}
			byID[acc.id] = acc
			order = append(order, acc)
		}

		acc.schedules++
		acc.revenue = acc.revenue.Add(f.revenue)
		if CollectionStatusOf(*s, e.now) == schedule.CollectionReceived {
			acc.collected = acc.collected.Add(f.revenue)
		}
		for _, a := range s.Assignments {
			if a.WorkerID != "" {
				acc.workers[a.WorkerID] = struct{}{}
			}
		}
		if s.StartDate.After(acc.last) {
			acc.last = s.StartDate
		}
	}

	out := make([]report.ClientRollup, 0, len(order))
	for _, acc := range order {
		var repeat float64
		if acc.schedules > 1 {
			repeat = 100
		}
		out = append(out, report.ClientRollup{
			ClientID:          acc.id,
			ClientName:        e.clientName(acc.id),
			ScheduleCount:     acc.schedules,
			Revenue:           won(acc.revenue),
			AverageRevenue:    won(average(acc.revenue, acc.schedules)),
			WorkerCount:       len(acc.workers),
			RepeatRate:        repeat,
			CollectedAmount:   won(acc.collected),
			OutstandingAmount: won(acc.revenue.Sub(acc.collected)),
			CollectionRate:    roundRate(collectionRate(acc.collected, acc.revenue)),
			LastScheduleDate:  acc.last.Format(time.DateOnly),
		})
	}

	sortStableBy(out, func(a, b report.ClientRollup) bool {
		return a.Revenue.GreaterThan(b.Revenue)
	})
	return out
}

type workerAcc struct {
	id        string
	schedules map[string]struct{}
	pay       Pay
	paid      decimal.Decimal
	unpaid    decimal.Decimal
	revenue   decimal.Decimal
}

// WorkerRollups groups the assignments of the schedules in w by worker id,
// ranked by efficiency score. A schedule's revenue is attributed in full to
// each worker on it, once per schedule.
func (e *Engine) WorkerRollups(w report.Window) []report.WorkerRollup {
	var order []*workerAcc
	byID := make(map[string]*workerAcc)

	inWindow := e.inWindow(w)
	for _, f := range inWindow {
		for _, l := range f.lines {
			id := l.assignment.WorkerID
			if id == "" {
				continue
			}
			acc, ok := byID[id]
			if !ok {
				acc = &workerAcc{id: id, schedules: make(map[string]struct{})}
				byID[id] = acc
				order = append(order, acc)
			}

			if _, seen := acc.schedules[f.schedule.ID]; !seen {
				acc.schedules[f.schedule.ID] = struct{}{}
				acc.revenue = acc.revenue.Add(f.revenue)
			}
			acc.pay = acc.pay.Add(l.pay)
			if l.assignment.Paid {
				acc.paid = acc.paid.Add(l.pay.Total)
			} else {
				acc.unpaid = acc.unpaid.Add(l.pay.Total)
			}
		}
	}

	total := float64(len(inWindow))
	out := make([]report.WorkerRollup, 0, len(order))
	for _, acc := range order {
		count := len(acc.schedules)
		p := acc.pay.Rounded()
		efficiency := safenum.Div("worker.efficiency_score", acc.revenue.InexactFloat64(), acc.pay.Hours)

		out = append(out, report.WorkerRollup{
			WorkerID:          acc.id,
			WorkerName:        e.workerName(acc.id),
			ScheduleCount:     count,
			TotalHours:        p.Hours,
			AverageHours:      roundHours(safenum.Div("worker.average_hours", acc.pay.Hours, float64(count))),
			GrossPay:          p.Gross,
			NetPay:            p.Net,
			TotalPay:          p.Total,
			PaidAmount:        won(acc.paid),
			UnpaidAmount:      won(acc.unpaid),
			AttributedRevenue: won(acc.revenue),
			EfficiencyScore:   math.Round(efficiency),
			ParticipationRate: roundRate(safenum.Percent("worker.participation_rate", float64(count), total)),
		})
	}

	sortStableBy(out, func(a, b report.WorkerRollup) bool {
		return a.EfficiencyScore > b.EfficiencyScore
	})
	return out
}

func collectionRate(collected, revenue decimal.Decimal) float64 {
	return safenum.PercentDecimal("collection_rate", collected, revenue)
}

func average(sum decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// sortStableBy orders items by less and keeps ties in their original order.
func sortStableBy[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}
