// Package pdf renders a one-page computation sheet of a filing: the identity
// block, the line items as entered, the slab-wise or GST breakdown and the
// final payable or refundable amount.
package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// Generator implements ports.SheetGenerator.
type Generator struct {
	// Now stamps the "generated" line; defaults to time.Now.
	Now func() time.Time
}

// NewGenerator creates a sheet generator.
func NewGenerator() *Generator {
	return &Generator{Now: time.Now}
}

// Generate writes the computation sheet of rec to w.
func (g *Generator) Generate(ctx context.Context, rec *domain.FilingRecord, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetTitle(fmt.Sprintf("%s computation %s", rec.Kind, rec.PeriodKey), false)
	pdf.AddPage()

	s := sheet{pdf: pdf}
	s.header(rec, g.Now())
	s.identity(rec)
	s.lineItems(rec)
	switch {
	case rec.Derived.IncomeTax != nil:
		s.slabs(rec.Derived.IncomeTax)
	case rec.Derived.GST != nil:
		s.gst(rec.Derived.GST)
	}
	s.summary(rec)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering sheet for %s: %w", rec.ID, err)
	}
	return pdf.Output(w)
}

type sheet struct {
	pdf *fpdf.Fpdf
}

func (s sheet) contentWidth() float64 {
	pageW, _ := s.pdf.GetPageSize()
	left, _, right, _ := s.pdf.GetMargins()
	return pageW - left - right
}

func (s sheet) header(rec *domain.FilingRecord, now time.Time) {
	w := s.contentWidth()
	s.pdf.SetFillColor(30, 30, 30)
	s.pdf.SetTextColor(255, 255, 255)
	s.pdf.SetFont("Helvetica", "B", 12)
	title := "INCOME TAX COMPUTATION"
	if rec.Kind == domain.KindGST {
		title = "GST RETURN COMPUTATION"
	}
	s.pdf.CellFormat(w*0.65, 10, "  "+title, "", 0, "L", true, 0, "")
	s.pdf.SetFont("Helvetica", "", 9)
	s.pdf.CellFormat(w*0.35, 10, rec.Status.String()+"  ", "", 1, "R", true, 0, "")
	s.pdf.SetTextColor(0, 0, 0)
	s.pdf.SetFont("Helvetica", "I", 8)
	s.pdf.CellFormat(w, 6, "Generated "+now.Format("02 Jan 2006 15:04")+"   Filing "+rec.ID, "", 1, "R", false, 0, "")
	s.pdf.Ln(2)
}

func (s sheet) section(title string) {
	s.pdf.SetFillColor(240, 240, 240)
	s.pdf.SetFont("Helvetica", "B", 8)
	s.pdf.CellFormat(s.contentWidth(), 5.5, title, "1", 1, "L", true, 0, "")
	s.pdf.SetFont("Helvetica", "", 9)
}

func (s sheet) pair(label, value string) {
	w := s.contentWidth()
	s.pdf.CellFormat(w*0.4, 6, label, "L", 0, "L", false, 0, "")
	s.pdf.CellFormat(w*0.6, 6, value, "R", 1, "L", false, 0, "")
}

func (s sheet) closeBox() {
	s.pdf.CellFormat(s.contentWidth(), 0, "", "T", 1, "L", false, 0, "")
	s.pdf.Ln(4)
}

func (s sheet) identity(rec *domain.FilingRecord) {
	s.section("FILER")
	switch rec.Kind {
	case domain.KindITR:
		if rec.ITR != nil {
			s.pair("Name", rec.ITR.FullName)
			s.pair("PAN", rec.ITR.PAN)
			s.pair("Regime", strings.ToUpper(string(rec.ITR.Regime)))
		}
		s.pair("Assessment year", rec.PeriodKey)
	case domain.KindGST:
		if rec.GST != nil {
			s.pair("Trade name", rec.GST.TradeName)
			s.pair("GSTIN", rec.GST.GSTIN)
			s.pair("Return", string(rec.GST.ReturnType))
			s.pair("Rate", rec.GST.RatePercent.String()+"%")
		}
		s.pair("Return period", rec.PeriodKey)
	}
	if rec.AcknowledgmentNo != "" {
		s.pair("Acknowledgment", rec.AcknowledgmentNo)
	}
	s.closeBox()
}

func (s sheet) lineItems(rec *domain.FilingRecord) {
	s.section("LINE ITEMS")
	if len(rec.LineItems) == 0 {
		s.pair("(none)", "")
	}
	w := s.contentWidth()
	for _, key := range rec.LineItems.Keys() {
		s.pdf.CellFormat(w*0.6, 6, key, "L", 0, "L", false, 0, "")
		s.pdf.CellFormat(w*0.4, 6, rupees(rec.LineItems[key]), "R", 1, "R", false, 0, "")
	}
	s.closeBox()
}

func (s sheet) tableHeader(cols []string, widths []float64) {
	s.pdf.SetFillColor(30, 30, 30)
	s.pdf.SetTextColor(255, 255, 255)
	s.pdf.SetFont("Helvetica", "B", 8.5)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		s.pdf.CellFormat(widths[i], 7, c, "1", ln, "C", true, 0, "")
	}
	s.pdf.SetTextColor(0, 0, 0)
	s.pdf.SetFont("Helvetica", "", 8.5)
}

func (s sheet) slabs(bd *domain.TaxBreakdown) {
	w := s.contentWidth()
	widths := []float64{w * 0.4, w * 0.15, w * 0.225, w * 0.225}
	s.tableHeader([]string{"Slab", "Rate", "Taxable", "Tax"}, widths)
	for i, b := range bd.Brackets {
		fill := i%2 == 0
		s.pdf.SetFillColor(250, 250, 250)
		s.pdf.CellFormat(widths[0], 6.5, b.Range, "1", 0, "L", fill, 0, "")
		s.pdf.CellFormat(widths[1], 6.5, b.RatePercent.String()+"%", "1", 0, "C", fill, 0, "")
		s.pdf.CellFormat(widths[2], 6.5, rupees(b.Taxable), "1", 0, "R", fill, 0, "")
		s.pdf.CellFormat(widths[3], 6.5, rupees(b.Amount), "1", 1, "R", fill, 0, "")
	}
	s.pdf.Ln(3)
	s.section("INCOME TAX (" + bd.TableVersion + ")")
	s.pair("Gross income", rupees(bd.GrossIncome))
	s.pair("Deductions allowed", rupees(bd.Deductions))
	s.pair("Taxable income", rupees(bd.TaxableIncome))
	s.pair("Tax on slabs", rupees(bd.BracketTax))
	s.pair("Cess @ "+bd.CessPercent.String()+"%", rupees(bd.Cess))
	s.pair("Total tax", rupees(bd.TotalTax))
	s.pair("Effective rate", bd.EffectiveRate.Shift(2).StringFixed(2)+"%")
	s.closeBox()
}

func (s sheet) gst(bd *domain.GSTBreakdown) {
	s.section("GST ON TAXABLE SUPPLIES (" + strings.ToUpper(string(bd.Mode)) + ")")
	s.pair("Taxable value", rupees(bd.BaseAmount))
	s.pair("CGST", rupees(bd.CGST))
	s.pair("SGST", rupees(bd.SGST))
	s.pair("GST", rupees(bd.GSTAmount))
	s.pair("Invoice value", rupees(bd.TotalAmount))
	s.closeBox()
}

func (s sheet) summary(rec *domain.FilingRecord) {
	d := rec.Derived
	credits, tax := "Taxes paid", "Total tax"
	if rec.Kind == domain.KindGST {
		credits, tax = "Input tax credit", "Output tax"
	}
	s.section("SUMMARY")
	s.pair("Gross total", rupees(d.GrossTotal))
	s.pair(tax, rupees(d.TotalTax))
	s.pair(credits, rupees(d.Credits))

	s.pdf.SetFont("Helvetica", "B", 10)
	if d.RefundOrCreditDue.IsPositive() {
		s.pair("Refund / credit due", rupees(d.RefundOrCreditDue))
	} else {
		s.pair("Payable", rupees(d.TaxOrGSTPayable))
	}
	s.closeBox()
}

// rupees uses "Rs." since the core PDF fonts have no rupee glyph.
func rupees(m money.Money) string {
	return "Rs. " + m.Grouped()
}
