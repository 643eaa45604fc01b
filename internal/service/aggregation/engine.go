// Package aggregation folds a company snapshot of schedules, workers and
// clients into the figures shown on every report screen: pay per assignment,
// revenue and collection state per schedule, window totals, per-client and
// per-worker rollups and the trailing monthly cash-flow trend.
//
// An Engine never mutates its snapshot and holds no I/O, so it can be shared
// by concurrent readers once built.
package aggregation

import (
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/client"
	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/domain/worker"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/safenum"
	"github.com/shopspring/decimal"
)

// DefaultTrendMonths is the length of the cash-flow trend.
const DefaultTrendMonths = 12

// Snapshot is a full, already loaded copy of one company's data.
type Snapshot struct {
	Schedules []schedule.Schedule
	Workers   []worker.Worker
	Clients   []client.Client
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Schedules) == 0 && len(s.Workers) == 0 && len(s.Clients) == 0
}

type Engine struct {
	now     time.Time
	workers map[string]*worker.Worker
	clients map[string]*client.Client
	snap    Snapshot
	facts   []scheduleFacts
}

type scheduleFacts struct {
	schedule *schedule.Schedule
	billable bool
	revenue  decimal.Decimal
	pay      Pay
	lines    []lineFacts
}

type lineFacts struct {
	assignment *schedule.Assignment
	terms      PayTerms
	pay        Pay
}

// NewEngine derives hours, pay and revenue for every schedule once. now is
// "today" for collection status and the end of the trend series.
func NewEngine(snap Snapshot, now time.Time) *Engine {
	e := &Engine{
		now:     now,
		snap:    snap,
		workers: make(map[string]*worker.Worker, len(snap.Workers)),
		clients: make(map[string]*client.Client, len(snap.Clients)),
		facts:   make([]scheduleFacts, len(snap.Schedules)),
	}
	for i := range snap.Workers {
		e.workers[snap.Workers[i].ID] = &snap.Workers[i]
	}
	for i := range snap.Clients {
		e.clients[snap.Clients[i].ID] = &snap.Clients[i]
	}

	for i := range snap.Schedules {
		s := &snap.Schedules[i]
		f := scheduleFacts{
			schedule: s,
			billable: Billable(*s),
			revenue:  RecognizedRevenue(*s),
			lines:    make([]lineFacts, len(s.Assignments)),
		}
		for j := range s.Assignments {
			a := &s.Assignments[j]
			terms := ResolveTerms(*a, e.workers[a.WorkerID])
			pay := ComputePay(terms, WorkHours(a.Periods))
			f.lines[j] = lineFacts{assignment: a, terms: terms, pay: pay}
			f.pay = f.pay.Add(pay)
		}
		e.facts[i] = f
	}
	return e
}

func (e *Engine) Now() time.Time {
	return e.now
}

// inWindow keeps snapshot order.
func (e *Engine) inWindow(w report.Window) []*scheduleFacts {
	out := make([]*scheduleFacts, 0, len(e.facts))
	for i := range e.facts {
		if w.Contains(e.facts[i].schedule.StartDate) {
			out = append(out, &e.facts[i])
		}
	}
	return out
}

func (e *Engine) workerName(id string) string {
	if w, ok := e.workers[id]; ok && w.Name != "" {
		return w.Name
	}
	return id
}

func (e *Engine) clientName(id string) string {
	if c, ok := e.clients[id]; ok && c.Name != "" {
		return c.Name
	}
	return id
}

// Totals summarises every schedule whose start date falls in w.
func (e *Engine) Totals(w report.Window) report.WindowTotals {
	var (
		t                                         report.WindowTotals
		revenue, collected, overdue, paid, unpaid decimal.Decimal
		pay                                       Pay
	)
	workers := make(map[string]struct{})

	for _, f := range e.inWindow(w) {
		t.ScheduleCount++

		if f.billable {
			t.BillableCount++
			revenue = revenue.Add(f.revenue)
			switch CollectionStatusOf(*f.schedule, e.now) {
			case schedule.CollectionReceived:
				t.ReceivedCount++
				collected = collected.Add(f.revenue)
			case schedule.CollectionOverdue:
				t.OverdueCount++
				overdue = overdue.Add(f.revenue)
			default:
				t.PendingCount++
			}
		}

		for _, l := range f.lines {
			t.AssignmentCount++
			if l.assignment.WorkerID != "" {
				workers[l.assignment.WorkerID] = struct{}{}
			}
			if l.assignment.Paid {
				paid = paid.Add(l.pay.Total)
			} else {
				unpaid = unpaid.Add(l.pay.Total)
			}
		}
		pay = pay.Add(f.pay)
	}

	t.WorkerCount = len(workers)
	t.Revenue = won(revenue)
	t.CollectedAmount = won(collected)
	t.OutstandingAmount = won(revenue.Sub(collected))
	t.OverdueAmount = won(overdue)
	t.CollectionRate = roundRate(collectionRate(collected, revenue))

	rounded := pay.Rounded()
	t.TotalHours = rounded.Hours
	t.GrossPay = rounded.Gross
	t.Withheld = rounded.Withheld
	t.NetPay = rounded.Net
	t.Allowances = rounded.Allowances
	t.TotalPay = rounded.Total
	t.PaidAmount = won(paid)
	t.UnpaidAmount = won(unpaid)
	t.NetProfit = won(revenue.Sub(pay.Total))
	return t
}

// PayLines lists every assignment of the schedules in w, in snapshot order.
func (e *Engine) PayLines(w report.Window) []report.PayLine {
	lines := make([]report.PayLine, 0)
	for _, f := range e.inWindow(w) {
		s := f.schedule
		for _, l := range f.lines {
			a := l.assignment
			p := l.pay.Rounded()
			lines = append(lines, report.PayLine{
				AssignmentID:   a.ID,
				ScheduleID:     s.ID,
				ScheduleTitle:  s.Title,
				ScheduleDate:   s.StartDate.Format(time.DateOnly),
				WorkerID:       a.WorkerID,
				WorkerName:     e.workerName(a.WorkerID),
				HourlyWage:     l.terms.HourlyWage,
				Hours:          p.Hours,
				Withholding:    l.terms.Withholding,
				GrossPay:       p.Gross,
				Withheld:       p.Withheld,
				NetPay:         p.Net,
				FuelAllowance:  won(safenum.NonNegativeDecimal(l.terms.FuelAllowance)),
				OtherAllowance: won(safenum.NonNegativeDecimal(l.terms.OtherAllowance)),
				TotalPay:       p.Total,
				Paid:           a.Paid,
				Version:        a.Version,
			})
		}
	}
	return lines
}

// Receivables lists billable schedules with their collection state. A nil
// window covers the whole snapshot. The result is ordered by due date.
func (e *Engine) Receivables(w *report.Window, today time.Time) []report.Receivable {
	out := make([]report.Receivable, 0)
	for i := range e.facts {
		f := &e.facts[i]
		s := f.schedule
		if !f.billable {
			continue
		}
		if w != nil && !w.Contains(s.StartDate) {
			continue
		}
		out = append(out, report.Receivable{
			ScheduleID:    s.ID,
			ScheduleTitle: s.Title,
			ClientID:      *s.ClientID,
			ClientName:    e.clientName(*s.ClientID),
			StartDate:     s.StartDate.Format(time.DateOnly),
			EndDate:       s.EndDate.Format(time.DateOnly),
			DueDate:       DueDate(*s).Format(time.DateOnly),
			Amount:        won(f.revenue),
			Status:        string(CollectionStatusOf(*s, today)),
			DaysElapsed:   DaysElapsed(*s, today),
			Version:       s.Version,
		})
	}
	sortStableBy(out, func(a, b report.Receivable) bool { return a.DueDate < b.DueDate })
	return out
}

// ClientCaches recomputes the display totals of every client in the snapshot
// from all of its schedules.
func (e *Engine) ClientCaches() []client.DisplayCache {
	type sums struct{ total, unpaid decimal.Decimal }
	byClient := make(map[string]*sums, len(e.snap.Clients))
	for _, c := range e.snap.Clients {
		byClient[c.ID] = &sums{}
	}

	for i := range e.facts {
		f := &e.facts[i]
		if !f.billable {
			continue
		}
		acc, ok := byClient[*f.schedule.ClientID]
		if !ok {
			continue
		}
		acc.total = acc.total.Add(f.revenue)
		if !f.schedule.Collected {
			acc.unpaid = acc.unpaid.Add(f.revenue)
		}
	}

	caches := make([]client.DisplayCache, 0, len(e.snap.Clients))
	for _, c := range e.snap.Clients {
		acc := byClient[c.ID]
		caches = append(caches, client.DisplayCache{
			ClientID:     c.ID,
			TotalRevenue: won(acc.total),
			UnpaidAmount: won(acc.unpaid),
		})
	}
	return caches
}
