package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/pkg/format"
	"mr3x-notificacoes/internal/pkg/i18n"
	"mr3x-notificacoes/internal/pkg/noticeutil"
)

const (
	leftMargin  = 28.0
	rightMargin = 15.0
	topMargin   = 15.0
	qrSizeMM    = 30.0

	sideBarcodeImage   = "side-barcode"
	footerBarcodeImage = "footer-barcode"
	qrImage            = "qr"
)

var pngOptions = fpdf.ImageOptions{ImageType: "PNG"}

// Renderer lays out a notice as a printable A4 document.
type Renderer struct {
	BaseURL  string
	Location *time.Location
}

func (r *Renderer) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Render draws the header with the verification QR code, a vertical token
// barcode along the left margin on every page, the party and debt
// sections, the terms, the acceptance record when present and a footer
// barcode.
func (r *Renderer) Render(n *domain.Notice) ([]byte, error) {
	side, err := Code128PNG(n.Token, 900, 80)
	if err != nil {
		return nil, err
	}
	footer, err := Code128PNG(n.Token, 600, 100)
	if err != nil {
		return nil, err
	}
	qrCode, err := QRPNG(noticeutil.VerifyURL(r.BaseURL, n.Token), 264)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, pageHeight := pdf.GetPageSize()
	contentWidth := pageWidth - leftMargin - rightMargin

	pdf.RegisterImageOptionsReader(sideBarcodeImage, pngOptions, bytes.NewReader(side))
	pdf.RegisterImageOptionsReader(footerBarcodeImage, pngOptions, bytes.NewReader(footer))
	pdf.RegisterImageOptionsReader(qrImage, pngOptions, bytes.NewReader(qrCode))

	pdf.SetMargins(leftMargin, topMargin, rightMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetHeaderFunc(func() {
		const w, h = 150.0, 12.0
		cx, cy := leftMargin/2, pageHeight/2
		pdf.TransformBegin()
		pdf.TransformRotate(90, cx, cy)
		pdf.ImageOptions(sideBarcodeImage, cx-w/2, cy-h/2, w, h, false, pngOptions, 0, "")
		pdf.TransformEnd()
		pdf.SetY(topMargin)
	})
	pdf.AddPage()

	loc := r.location()

	// Header: title block on the left, QR code on the right.
	pdf.ImageOptions(qrImage, pageWidth-rightMargin-qrSizeMM, topMargin, qrSizeMM, qrSizeMM, false, pngOptions, 0, "")
	pdf.SetXY(leftMargin, topMargin+8)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(30, 58, 95)
	pdf.CellFormat(contentWidth-qrSizeMM, 8, tr(i18n.T("document.title")), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(contentWidth-qrSizeMM, 6, tr(i18n.T("document.subtitle")), "", 1, "C", false, 0, "")

	y := topMargin + qrSizeMM + 3
	pdf.SetDrawColor(30, 58, 95)
	pdf.SetLineWidth(0.6)
	pdf.Line(leftMargin, y, pageWidth-rightMargin, y)
	pdf.SetLineWidth(0.2)
	pdf.SetY(y + 4)

	// Token band.
	pdf.SetFillColor(230, 238, 247)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(30, 58, 95)
	pdf.CellFormat(contentWidth, 7, tr(i18n.T("document.token")), "", 1, "C", true, 0, "")
	pdf.SetFont("Courier", "B", 14)
	pdf.CellFormat(contentWidth, 9, n.Token, "", 1, "C", true, 0, "")
	pdf.Ln(4)

	w := &writer{pdf: pdf, tr: tr, width: contentWidth}

	w.heading(i18n.T("document.creditor"), 30, 58, 95)
	w.party(n.CreditorName, n.CreditorDocument, n.CreditorAddress, n.CreditorCity, n.CreditorState, n.CreditorZip,
		n.CreditorComplement, n.CreditorEmail, n.CreditorPhone)

	w.heading(i18n.T("document.debtor"), 198, 40, 40)
	w.party(n.DebtorName, n.DebtorDocument, n.DebtorAddress, n.DebtorCity, n.DebtorState, n.DebtorZip,
		n.DebtorComplement, n.DebtorEmail, n.DebtorPhone)

	w.heading(i18n.T("document.debt"), 180, 120, 0)
	w.pair(i18n.T("document.amount"), format.Currency(n.DebtAmount), i18n.T("document.due_date"), format.Date(n.DueDate))
	w.field(i18n.T("document.description"), n.DebtDescription)
	w.field(i18n.T("document.property"), n.PropertyAddress)
	w.field(i18n.T("document.deadline"), fmt.Sprintf("%d %s", n.PaymentDeadlineDays, i18n.T("document.days")))

	w.heading(i18n.T("document.terms"), 30, 58, 95)
	pdf.SetFont("Times", "", 10)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(contentWidth, 5, tr(n.TermsAndClauses), "", "J", false)
	pdf.Ln(3)

	if n.IsAccepted() {
		w.heading(i18n.T("document.acceptance"), 20, 120, 60)
		if n.AcceptedAt != nil {
			w.field(i18n.T("document.accepted_at"), format.DateTime(n.AcceptedAt.In(loc)))
		}
		w.field(i18n.T("document.acceptance_ip"), deref(n.AcceptanceIP))
		w.field(i18n.T("document.acceptance_hash"), deref(n.AcceptanceHash))
	}

	// Footer barcode, moved to a new page when it would not fit.
	if pdf.GetY()+40 > pageHeight-20 {
		pdf.AddPage()
	}
	y = pdf.GetY() + 4
	pdf.SetDrawColor(30, 58, 95)
	pdf.SetLineWidth(0.6)
	pdf.Line(leftMargin, y, pageWidth-rightMargin, y)
	pdf.SetLineWidth(0.2)

	const barcodeWidth, barcodeHeight = 80.0, 14.0
	pdf.ImageOptions(footerBarcodeImage, leftMargin+(contentWidth-barcodeWidth)/2, y+4, barcodeWidth, barcodeHeight, false, pngOptions, 0, "")
	pdf.SetXY(leftMargin, y+4+barcodeHeight+1)
	pdf.SetFont("Courier", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(contentWidth, 4, n.Token, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(contentWidth, 4, tr(fmt.Sprintf("%s: %s", i18n.T("document.issued_at"), format.DateTime(n.CreatedAt.In(loc)))), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentWidth, 4, tr(fmt.Sprintf("%s %s", i18n.T("document.verify"), noticeutil.VerifyURL(r.BaseURL, n.Token))), "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

func (w *writer) heading(title string, r, g, b int) {
	w.pdf.Ln(2)
	w.pdf.SetFont("Helvetica", "B", 12)
	w.pdf.SetTextColor(r, g, b)
	w.pdf.CellFormat(w.width, 7, w.tr(title), "B", 1, "L", false, 0, "")
	w.pdf.Ln(2)
}

func (w *writer) field(label, value string) {
	w.pdf.SetFont("Helvetica", "B", 9)
	w.pdf.SetTextColor(40, 40, 40)
	w.pdf.CellFormat(w.width, 5, w.tr(label+":"), "", 1, "L", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.MultiCell(w.width, 5, w.tr(value), "", "L", false)
	w.pdf.Ln(1)
}

// pair prints two short fields side by side.
func (w *writer) pair(label1, value1, label2, value2 string) {
	half := w.width / 2
	w.pdf.SetFont("Helvetica", "B", 9)
	w.pdf.SetTextColor(40, 40, 40)
	w.pdf.CellFormat(half, 5, w.tr(label1+":"), "", 0, "L", false, 0, "")
	w.pdf.CellFormat(half, 5, w.tr(label2+":"), "", 1, "L", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.CellFormat(half, 5, w.tr(value1), "", 0, "L", false, 0, "")
	w.pdf.CellFormat(half, 5, w.tr(value2), "", 1, "L", false, 0, "")
	w.pdf.Ln(1)
}

func (w *writer) party(name, document, address, city, state, zip string, complement, email, phone *string) {
	w.pair(i18n.T("document.name"), name, i18n.T("document.tax_id"), format.Document(document))

	line := address
	if complement != nil && strings.TrimSpace(*complement) != "" {
		line += ", " + strings.TrimSpace(*complement)
	}
	line += fmt.Sprintf(", %s/%s - %s: %s", city, state, i18n.T("document.zip"), format.ZipCode(zip))
	w.field(i18n.T("document.address"), line)

	switch {
	case email != nil && phone != nil:
		w.pair(i18n.T("document.email"), *email, i18n.T("document.phone"), *phone)
	case email != nil:
		w.field(i18n.T("document.email"), *email)
	case phone != nil:
		w.field(i18n.T("document.phone"), *phone)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
