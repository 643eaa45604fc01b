package report

import (
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ReportRequest is the query string shared by every windowed report.
type ReportRequest struct {
	Period string `json:"period"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Period == "" {
		r.Period = string(PeriodMonth)
	}
	if !validator.IsInSlice(r.Period, []string{
		string(PeriodWeek), string(PeriodMonth), string(PeriodYear), string(PeriodCustom),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: ErrInvalidPeriod.Error(),
		})
	}

	if r.Period == string(PeriodCustom) {
		if validator.IsEmpty(r.Start) {
			errs = append(errs, validator.ValidationError{Field: "start", Message: "is required for a custom period"})
		} else if _, ok := validator.IsValidDate(r.Start); !ok {
			errs = append(errs, validator.ValidationError{Field: "start", Message: "must be in YYYY-MM-DD format"})
		}
		if validator.IsEmpty(r.End) {
			errs = append(errs, validator.ValidationError{Field: "end", Message: "is required for a custom period"})
		} else if _, ok := validator.IsValidDate(r.End); !ok {
			errs = append(errs, validator.ValidationError{Field: "end", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r ReportRequest) Selector() PeriodSelector {
	return PeriodSelector{Period: Period(r.Period), Start: r.Start, End: r.End}
}

// ReportMeta is embedded in every report. FetchError is set when the data
// could not be loaded and the report is empty.
type ReportMeta struct {
	GeneratedAt string  `json:"generated_at"`
	FetchError  *string `json:"fetch_error,omitempty"`
}

func NewReportMeta(now time.Time) ReportMeta {
	return ReportMeta{GeneratedAt: now.Format(time.RFC3339)}
}

type DashboardResponse struct {
	ReportMeta
	Window       WindowResponse     `json:"window"`
	Totals       WindowTotals       `json:"totals"`
	TopClients   []ClientRollup     `json:"top_clients"`
	TopWorkers   []WorkerRollup     `json:"top_workers"`
	CurrentMonth *MonthlyTrendPoint `json:"current_month"`
}

type CashFlowResponse struct {
	ReportMeta
	Trend            []MonthlyTrendPoint `json:"trend"`
	Receivables      []Receivable        `json:"receivables"`
	OutstandingTotal decimal.Decimal     `json:"outstanding_total"`
	OverdueTotal     decimal.Decimal     `json:"overdue_total"`
}

type ClientReportResponse struct {
	ReportMeta
	Window  WindowResponse `json:"window"`
	Totals  WindowTotals   `json:"totals"`
	Clients []ClientRollup `json:"clients"`
}

type WorkerReportResponse struct {
	ReportMeta
	Window  WindowResponse `json:"window"`
	Totals  WindowTotals   `json:"totals"`
	Workers []WorkerRollup `json:"workers"`
}

type PayrollResponse struct {
	ReportMeta
	Window      WindowResponse `json:"window"`
	Totals      WindowTotals   `json:"totals"`
	Lines       []PayLine      `json:"lines"`
	PaidLines   int            `json:"paid_lines"`
	UnpaidLines int            `json:"unpaid_lines"`
}
