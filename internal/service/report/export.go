package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// ExportSummaryPDF renders the same figures as the dashboard plus the full
// client and worker rankings.
func (s *ReportServiceImpl) ExportSummaryPDF(ctx context.Context, req report.ReportRequest) ([]byte, string, error) {
	engine, window, meta, err := s.prepare(ctx, req)
	if err != nil {
		return nil, "", err
	}

	totals := engine.Totals(window)
	clients := engine.ClientRollups(window)
	workers := engine.WorkerRollups(window)

	pdf := gofpdf.New("P", "mm", "A4", "")
	font := s.summaryFont(pdf)
	if err := pdf.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to load pdf font: %w", err)
	}
	doc := summaryDoc{pdf: pdf, font: font}

	pdf.SetTitle("Summary report "+window.Label, true)
	pdf.AddPage()

	pdf.SetFont(font.family, "B", 16)
	doc.cell(0, 10, "Summary report")
	pdf.Ln(10)
	pdf.SetFont(font.family, "", 10)
	doc.cell(0, 6, fmt.Sprintf("Period: %s (%s to %s)", window.Label,
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02")))
	pdf.Ln(5)
	doc.cell(0, 6, "Generated: "+meta.GeneratedAt)
	pdf.Ln(8)
	if meta.FetchError != nil {
		pdf.SetTextColor(200, 0, 0)
		doc.cell(0, 6, "Data could not be loaded: "+*meta.FetchError)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(8)
	}

	doc.section("Totals")
	rows := [][2]string{
		{"Schedules", fmt.Sprintf("%d (%d billable)", totals.ScheduleCount, totals.BillableCount)},
		{"Revenue", amount(totals.Revenue)},
		{"Collected", amount(totals.CollectedAmount)},
		{"Outstanding", amount(totals.OutstandingAmount)},
		{"Overdue", fmt.Sprintf("%s (%d schedules)", amount(totals.OverdueAmount), totals.OverdueCount)},
		{"Collection rate", fmt.Sprintf("%.1f%%", totals.CollectionRate)},
		{"Work hours", fmt.Sprintf("%.2f", totals.TotalHours)},
		{"Gross pay", amount(totals.GrossPay)},
		{"Withheld", amount(totals.Withheld)},
		{"Total pay", amount(totals.TotalPay)},
		{"Net profit", amount(totals.NetProfit)},
	}
	for _, r := range rows {
		pdf.CellFormat(60, 6, font.text(r[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, font.text(r[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	doc.section("Clients")
	doc.table([]float64{60, 20, 40, 40, 30},
		[]string{"Client", "Schedules", "Revenue", "Outstanding", "Collected %"})
	for _, c := range clients {
		doc.table([]float64{60, 20, 40, 40, 30}, []string{
			c.ClientName,
			fmt.Sprintf("%d", c.ScheduleCount),
			amount(c.Revenue),
			amount(c.OutstandingAmount),
			fmt.Sprintf("%.1f", c.CollectionRate),
		})
	}
	pdf.Ln(4)

	doc.section("Workers")
	doc.table([]float64{50, 20, 25, 40, 35},
		[]string{"Worker", "Schedules", "Hours", "Total pay", "Revenue/hour"})
	for _, w := range workers {
		doc.table([]float64{50, 20, 25, 40, 35}, []string{
			w.WorkerName,
			fmt.Sprintf("%d", w.ScheduleCount),
			fmt.Sprintf("%.2f", w.TotalHours),
			amount(w.TotalPay),
			fmt.Sprintf("%.0f", w.EfficiencyScore),
		})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render summary pdf: %w", err)
	}
	return buf.Bytes(), summaryFileName(window), nil
}

const utf8Family = "body"

// pdfFont is the family text is set in and how strings are encoded for it.
// Core fonts only cover cp1252, so without a TTF Hangul and other runes
// outside it are replaced with '.' instead of being written as raw UTF-8.
type pdfFont struct {
	family string
	text   func(string) string
}

func (s *ReportServiceImpl) summaryFont(pdf *gofpdf.Fpdf) pdfFont {
	if len(s.pdfFont) == 0 {
		return pdfFont{family: "Helvetica", text: pdf.UnicodeTranslatorFromDescriptor("")}
	}
	pdf.AddUTF8FontFromBytes(utf8Family, "", s.pdfFont)
	pdf.AddUTF8FontFromBytes(utf8Family, "B", s.pdfFont)
	return pdfFont{family: utf8Family, text: func(str string) string { return str }}
}

type summaryDoc struct {
	pdf  *gofpdf.Fpdf
	font pdfFont
}

func (d summaryDoc) cell(w, h float64, str string) {
	d.pdf.Cell(w, h, d.font.text(str))
}

func (d summaryDoc) section(title string) {
	d.pdf.SetFont(d.font.family, "B", 12)
	d.cell(0, 8, title)
	d.pdf.Ln(8)
	d.pdf.SetFont(d.font.family, "", 10)
}

func (d summaryDoc) table(widths []float64, cells []string) {
	for i, c := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		d.pdf.CellFormat(widths[i], 6, d.font.text(c), "1", 0, align, false, 0, "")
	}
	d.pdf.Ln(-1)
}

// amount formats whole won with thousands separators.
func amount(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String() + " KRW"
	}
	return b.String() + " KRW"
}

func summaryFileName(w report.Window) string {
	label := strings.NewReplacer(" ~ ", "_", " ", "_").Replace(w.Label)
	return "summary-" + label + ".pdf"
}
