package report

import "github.com/shopspring/decimal"

// Monetary amounts below are rounded to whole won. Rates are percentages.

type WindowTotals struct {
	ScheduleCount     int             `json:"schedule_count"`
	BillableCount     int             `json:"billable_count"`
	Revenue           decimal.Decimal `json:"revenue"`
	CollectedAmount   decimal.Decimal `json:"collected_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	OverdueAmount     decimal.Decimal `json:"overdue_amount"`
	CollectionRate    float64         `json:"collection_rate"`
	ReceivedCount     int             `json:"received_count"`
	PendingCount      int             `json:"pending_count"`
	OverdueCount      int             `json:"overdue_count"`

	AssignmentCount int             `json:"assignment_count"`
	WorkerCount     int             `json:"worker_count"`
	TotalHours      float64         `json:"total_hours"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	Withheld        decimal.Decimal `json:"withheld"`
	NetPay          decimal.Decimal `json:"net_pay"`
	Allowances      decimal.Decimal `json:"allowances"`
	TotalPay        decimal.Decimal `json:"total_pay"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	UnpaidAmount    decimal.Decimal `json:"unpaid_amount"`

	NetProfit decimal.Decimal `json:"net_profit"`
}

type ClientRollup struct {
	ClientID          string          `json:"client_id"`
	ClientName        string          `json:"client_name"`
	ScheduleCount     int             `json:"schedule_count"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageRevenue    decimal.Decimal `json:"average_revenue"`
	WorkerCount       int             `json:"worker_count"`
	RepeatRate        float64         `json:"repeat_rate"`
	CollectedAmount   decimal.Decimal `json:"collected_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	CollectionRate    float64         `json:"collection_rate"`
	LastScheduleDate  string          `json:"last_schedule_date"`
}

type WorkerRollup struct {
	WorkerID          string          `json:"worker_id"`
	WorkerName        string          `json:"worker_name"`
	ScheduleCount     int             `json:"schedule_count"`
	TotalHours        float64         `json:"total_hours"`
	AverageHours      float64         `json:"average_hours"`
	GrossPay          decimal.Decimal `json:"gross_pay"`
	NetPay            decimal.Decimal `json:"net_pay"`
	TotalPay          decimal.Decimal `json:"total_pay"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	UnpaidAmount      decimal.Decimal `json:"unpaid_amount"`
	AttributedRevenue decimal.Decimal `json:"attributed_revenue"`
	EfficiencyScore   float64         `json:"efficiency_score"`
	ParticipationRate float64         `json:"participation_rate"`
}

type MonthlyTrendPoint struct {
	Month             string          `json:"month"` // YYYY-MM
	Inflow            decimal.Decimal `json:"inflow"`
	Outflow           decimal.Decimal `json:"outflow"`
	NetFlow           decimal.Decimal `json:"net_flow"`
	CumulativeBalance decimal.Decimal `json:"cumulative_balance"`
}

// PayLine is the pay breakdown of one assignment.
type PayLine struct {
	AssignmentID   string          `json:"assignment_id"`
	ScheduleID     string          `json:"schedule_id"`
	ScheduleTitle  string          `json:"schedule_title"`
	ScheduleDate   string          `json:"schedule_date"`
	WorkerID       string          `json:"worker_id"`
	WorkerName     string          `json:"worker_name"`
	HourlyWage     decimal.Decimal `json:"hourly_wage"`
	Hours          float64         `json:"hours"`
	Withholding    bool            `json:"withholding"`
	GrossPay       decimal.Decimal `json:"gross_pay"`
	Withheld       decimal.Decimal `json:"withheld"`
	NetPay         decimal.Decimal `json:"net_pay"`
	FuelAllowance  decimal.Decimal `json:"fuel_allowance"`
	OtherAllowance decimal.Decimal `json:"other_allowance"`
	TotalPay       decimal.Decimal `json:"total_pay"`
	Paid           bool            `json:"paid"`
	Version        int64           `json:"version"`
}

// Receivable is the collection state of one billable schedule.
type Receivable struct {
	ScheduleID    string          `json:"schedule_id"`
	ScheduleTitle string          `json:"schedule_title"`
	ClientID      string          `json:"client_id"`
	ClientName    string          `json:"client_name"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	DueDate       string          `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	DaysElapsed   int             `json:"days_elapsed"`
	Version       int64           `json:"version"`
}
