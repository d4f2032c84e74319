package output

import (
	"bytes"
	"fmt"

	"github.com/taxportal/filing-engine/internal/domain"
)

// ConsoleFormatter renders a human-readable summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	switch {
	case r.Filing != nil:
		writeFiling(&buf, r.Filing)
	case r.IncomeTax != nil:
		writeIncomeTax(&buf, r.IncomeTax)
	case r.GST != nil:
		writeGST(&buf, r.GST)
	default:
		return nil, fmt.Errorf("report is empty")
	}
	return buf.Bytes(), nil
}

func writeIncomeTax(buf *bytes.Buffer, bd *domain.TaxBreakdown) {
	fmt.Fprintln(buf, "INCOME TAX COMPUTATION")
	fmt.Fprintln(buf, "================================")
	fmt.Fprintf(buf, "Regime:          %s (%s)\n", bd.Regime, bd.TableVersion)
	fmt.Fprintf(buf, "Gross Income:    %s\n", FormatCurrency(bd.GrossIncome))
	fmt.Fprintf(buf, "Deductions:      %s\n", FormatCurrency(bd.Deductions))
	fmt.Fprintf(buf, "Taxable Income:  %s\n", FormatCurrency(bd.TaxableIncome))
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "%-22s %8s %18s\n", "Slab", "Rate", "Tax")
	for _, b := range bd.Brackets {
		fmt.Fprintf(buf, "%-22s %8s %18s\n", b.Range, FormatPercentage(b.RatePercent), FormatCurrency(b.Amount))
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Slab Tax:        %s\n", FormatCurrency(bd.BracketTax))
	fmt.Fprintf(buf, "Cess (%s):   %s\n", FormatPercentage(bd.CessPercent), FormatCurrency(bd.Cess))
	fmt.Fprintf(buf, "Total Tax:       %s\n", FormatCurrency(bd.TotalTax))
	fmt.Fprintf(buf, "Effective Rate:  %s\n", FormatRate(bd.EffectiveRate))
	fmt.Fprintf(buf, "Net Income:      %s\n", FormatCurrency(bd.NetIncome))
}

func writeGST(buf *bytes.Buffer, bd *domain.GSTBreakdown) {
	fmt.Fprintln(buf, "GST COMPUTATION")
	fmt.Fprintln(buf, "================================")
	fmt.Fprintf(buf, "Mode:            %s @ %s\n", bd.Mode, FormatPercentage(bd.RatePercent))
	fmt.Fprintf(buf, "Base Amount:     %s\n", FormatCurrency(bd.BaseAmount))
	fmt.Fprintf(buf, "CGST:            %s\n", FormatCurrency(bd.CGST))
	fmt.Fprintf(buf, "SGST:            %s\n", FormatCurrency(bd.SGST))
	fmt.Fprintf(buf, "Total GST:       %s\n", FormatCurrency(bd.GSTAmount))
	fmt.Fprintf(buf, "Total Amount:    %s\n", FormatCurrency(bd.TotalAmount))
}

func writeFiling(buf *bytes.Buffer, rec *domain.FilingRecord) {
	fmt.Fprintf(buf, "%s FILING %s\n", rec.Kind, rec.ID)
	fmt.Fprintln(buf, "================================")
	fmt.Fprintf(buf, "Period:          %s\n", rec.PeriodKey)
	if due, err := rec.DueDate(); err == nil {
		fmt.Fprintf(buf, "Due Date:        %s\n", due.Format("02 Jan 2006"))
	}
	fmt.Fprintf(buf, "Status:          %s (step %d of %d)\n", rec.Status, rec.Status.Progress()+1, len(domain.LinearOrder))
	fmt.Fprintf(buf, "Version:         %d\n", rec.Version)
	if rec.AcknowledgmentNo != "" {
		fmt.Fprintf(buf, "Acknowledgment:  %s\n", rec.AcknowledgmentNo)
	}
	if rec.AssignedTo != "" {
		fmt.Fprintf(buf, "Assigned To:     %s\n", rec.AssignedTo)
	}
	if rec.RejectionReason != "" {
		fmt.Fprintf(buf, "Rejected:        %s\n", rec.RejectionReason)
	}
	if next := rec.Status.NextStatuses(rec.Kind); len(next) > 0 {
		fmt.Fprintf(buf, "Next:            %v\n", next)
	}

	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "Line Items:")
	for _, key := range rec.LineItems.Keys() {
		fmt.Fprintf(buf, "  %-22s %18s\n", key, FormatCurrency(rec.LineItems[key]))
	}
	fmt.Fprintln(buf)

	d := rec.Derived
	fmt.Fprintf(buf, "Gross Total:     %s\n", FormatCurrency(d.GrossTotal))
	if rec.Kind == domain.KindITR {
		fmt.Fprintf(buf, "Deductions:      %s\n", FormatCurrency(d.Deductions))
	}
	fmt.Fprintf(buf, "Taxable:         %s\n", FormatCurrency(d.TaxableAmount))
	fmt.Fprintf(buf, "Total Tax:       %s\n", FormatCurrency(d.TotalTax))
	fmt.Fprintf(buf, "Credits:         %s\n", FormatCurrency(d.Credits))
	fmt.Fprintf(buf, "Payable:         %s\n", FormatCurrency(d.TaxOrGSTPayable))
	fmt.Fprintf(buf, "Refund/Credit:   %s\n", FormatCurrency(d.RefundOrCreditDue))
	fmt.Fprintf(buf, "Effective Rate:  %s\n", FormatRate(d.EffectiveRate))
}
