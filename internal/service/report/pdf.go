package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/pkg/format"
	"mr3x-notificacoes/internal/pkg/i18n"
)

const (
	pdfMargin    = 15.0
	pdfRowHeight = 7.0
)

var (
	pdfHeaders   = []string{"Token", "Credor", "Devedor", "Valor", "Status", "Data Emissão", "Data Aceite"}
	pdfColWidths = []float64{35, 45, 45, 25, 25, 45, 45}
)

// WritePDF renders a landscape A4 table of the filtered notices. Dates are
// printed in loc.
func WritePDF(w io.Writer, records []domain.Notice, filter ExportFilter, summary Summary, generatedAt time.Time, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, pageHeight := pdf.GetPageSize()

	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.SetXY(pdfMargin, pageHeight-12)
		footer := fmt.Sprintf("%s: %s | %s", i18n.T("report.generated_at"), format.DateTime(generatedAt.In(loc)), i18n.T("report.footer"))
		pdf.CellFormat(pageWidth-2*pdfMargin, 4, tr(footer), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	y := pdfMargin

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(30, 58, 95)
	centered(pdf, pageWidth, y, tr(i18n.T("report.title")))
	y += 10

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	centered(pdf, pageWidth, y, tr(filterLine(filter, summary)))
	y += 10

	pdf.SetTextColor(0, 0, 0)
	summaryLine := fmt.Sprintf("%s: %s | %s: %d | %s: %d",
		i18n.T("report.total_value"), format.Currency(summary.TotalValue),
		i18n.T("status_filter.accepted"), summary.Accepted,
		i18n.T("status_filter.pending"), summary.Pending,
	)
	centered(pdf, pageWidth, y, tr(summaryLine))
	y += 15

	tableWidth := pageWidth - 2*pdfMargin

	pdf.SetFillColor(30, 58, 95)
	pdf.Rect(pdfMargin, y-5, tableWidth, 8, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	x := pdfMargin + 2
	for i, h := range pdfHeaders {
		pdf.Text(x, y, tr(h))
		x += pdfColWidths[i]
	}
	y += 8

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 8)

	for i := range records {
		if y > pageHeight-20 {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(0, 0, 0)
			y = pdfMargin
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 247, 250)
			pdf.Rect(pdfMargin, y-4, tableWidth, pdfRowHeight, "F")
		}

		x = pdfMargin + 2
		for j, cell := range pdfRow(&records[i], loc) {
			pdf.Text(x, y, tr(cell))
			x += pdfColWidths[j]
		}
		y += pdfRowHeight
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return pdf.Output(w)
}

func pdfRow(n *domain.Notice, loc *time.Location) []string {
	acceptedAt := "-"
	if n.AcceptedAt != nil {
		acceptedAt = format.Date(n.AcceptedAt.In(loc))
	}
	return []string{
		format.Truncate(n.Token, 20),
		format.Truncate(n.CreditorName, 25),
		format.Truncate(n.DebtorName, 25),
		format.Amount(n.DebtAmount),
		StatusLabel(n),
		format.Date(n.CreatedAt.In(loc)),
		acceptedAt,
	}
}

func filterLine(filter ExportFilter, summary Summary) string {
	start := i18n.T("report.period_start")
	if filter.StartDate != nil {
		start = filter.StartDate.Format(domain.DateLayout)
	}
	end := i18n.T("report.period_end")
	if filter.EndDate != nil {
		end = filter.EndDate.Format(domain.DateLayout)
	}
	status := filter.Status
	if status == "" {
		status = domain.StatusFilterAll
	}
	return fmt.Sprintf("%s: %s a %s | Status: %s | %s: %d %s",
		i18n.T("report.period"), start, end,
		i18n.T("status_filter."+string(status)),
		i18n.T("report.total"), summary.Count, i18n.T("report.notices"),
	)
}

func centered(pdf *fpdf.Fpdf, pageWidth, y float64, text string) {
	pdf.Text((pageWidth-pdf.GetStringWidth(text))/2, y, text)
}
