package http

import (
	"net/http"

	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/crewbook/crewbook-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Dashboard(w http.ResponseWriter, r *http.Request)
	CashFlow(w http.ResponseWriter, r *http.Request)
	Clients(w http.ResponseWriter, r *http.Request)
	Workers(w http.ResponseWriter, r *http.Request)
	Payroll(w http.ResponseWriter, r *http.Request)
	SummaryPDF(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// reportRequest reads ?period=&start=&end=. Validation happens in the service.
func reportRequest(r *http.Request) report.ReportRequest {
	q := r.URL.Query()
	return report.ReportRequest{
		Period: q.Get("period"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	}
}

// Dashboard handles GET /reports/dashboard
func (h *reportHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetDashboard(r.Context(), reportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CashFlow handles GET /reports/cash-flow
func (h *reportHandlerImpl) CashFlow(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetCashFlow(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Clients handles GET /reports/clients
func (h *reportHandlerImpl) Clients(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetClientReport(r.Context(), reportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Workers handles GET /reports/workers
func (h *reportHandlerImpl) Workers(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetWorkerReport(r.Context(), reportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Payroll handles GET /reports/payroll
func (h *reportHandlerImpl) Payroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetPayroll(r.Context(), reportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// SummaryPDF handles GET /reports/summary.pdf
func (h *reportHandlerImpl) SummaryPDF(w http.ResponseWriter, r *http.Request) {
	body, fileName, err := h.reportService.ExportSummaryPDF(r.Context(), reportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, "application/pdf", fileName, body)
}
