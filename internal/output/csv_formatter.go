package output

import (
	"bytes"
	"encoding/csv"

	"github.com/shopspring/decimal"

	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// CSVFormatter writes one row per figure: section, item, rate, amount.
// Amounts are plain decimals with two places so spreadsheets can sum them.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	rows := [][]string{{"section", "item", "rate_percent", "amount"}}

	switch {
	case r.Filing != nil:
		rows = append(rows, filingRows(r.Filing)...)
	case r.IncomeTax != nil:
		rows = append(rows, incomeTaxRows(r.IncomeTax)...)
	case r.GST != nil:
		rows = append(rows, gstRows(r.GST)...)
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func amountRow(section, item string, m money.Money) []string {
	return []string{section, item, "", m.String()}
}

func incomeTaxRows(bd *domain.TaxBreakdown) [][]string {
	rows := [][]string{
		amountRow("income", "gross", bd.GrossIncome),
		amountRow("income", "deductions", bd.Deductions),
		amountRow("income", "taxable", bd.TaxableIncome),
	}
	for _, b := range bd.Brackets {
		rows = append(rows, []string{"slab", b.Range, b.RatePercent.String(), b.Amount.String()})
	}
	return append(rows,
		amountRow("tax", "slabs", bd.BracketTax),
		[]string{"tax", "cess", bd.CessPercent.String(), bd.Cess.String()},
		amountRow("tax", "total", bd.TotalTax),
		amountRow("income", "net", bd.NetIncome),
	)
}

func gstRows(bd *domain.GSTBreakdown) [][]string {
	rate := bd.RatePercent.String()
	half := bd.RatePercent.Div(decimal.NewFromInt(2)).String()
	return [][]string{
		amountRow("gst", "base", bd.BaseAmount),
		{"gst", "cgst", half, bd.CGST.String()},
		{"gst", "sgst", half, bd.SGST.String()},
		{"gst", "total_gst", rate, bd.GSTAmount.String()},
		amountRow("gst", "total", bd.TotalAmount),
	}
}

func filingRows(rec *domain.FilingRecord) [][]string {
	var rows [][]string
	for _, key := range rec.LineItems.Keys() {
		rows = append(rows, amountRow("line_item", key, rec.LineItems[key]))
	}
	switch {
	case rec.Derived.IncomeTax != nil:
		rows = append(rows, incomeTaxRows(rec.Derived.IncomeTax)...)
	case rec.Derived.GST != nil:
		rows = append(rows, gstRows(rec.Derived.GST)...)
	}
	d := rec.Derived
	return append(rows,
		amountRow("summary", "gross_total", d.GrossTotal),
		amountRow("summary", "total_tax", d.TotalTax),
		amountRow("summary", "credits", d.Credits),
		amountRow("summary", "payable", d.TaxOrGSTPayable),
		amountRow("summary", "refund_or_credit_due", d.RefundOrCreditDue),
	)
}
