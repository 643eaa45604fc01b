package report

import (
	"context"
	"time"
)

// ReportService exposes one read model per report screen. All of them run the
// same aggregation over a freshly loaded snapshot of the caller's company.
type ReportService interface {
	GetDashboard(ctx context.Context, req ReportRequest) (DashboardResponse, error)
	GetCashFlow(ctx context.Context) (CashFlowResponse, error)
	GetClientReport(ctx context.Context, req ReportRequest) (ClientReportResponse, error)
	GetWorkerReport(ctx context.Context, req ReportRequest) (WorkerReportResponse, error)
	GetPayroll(ctx context.Context, req ReportRequest) (PayrollResponse, error)

	// ExportSummaryPDF renders dashboard totals and rollups as a PDF document
	// and returns it with a suggested file name.
	ExportSummaryPDF(ctx context.Context, req ReportRequest) ([]byte, string, error)
}

// MaintenanceService is run by background jobs for one company at a time,
// outside any request.
type MaintenanceService interface {
	RefreshClientCaches(ctx context.Context, companyID string) (int64, error)

	// NewlyOverdue lists receivables whose due date passed in (since, until].
	NewlyOverdue(ctx context.Context, companyID string, since, until time.Time) ([]Receivable, error)
}
