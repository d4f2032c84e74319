package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeGST splits amount into base and GST at ratePercent. In exclusive
// mode amount is the base; in inclusive mode it is the total. GST is split
// into equal CGST and SGST halves; SGST takes any indivisible remainder so
// the halves always add up to the GST amount.
func ComputeGST(amount money.Money, ratePercent decimal.Decimal, mode domain.GSTMode) (*domain.GSTBreakdown, error) {
	if amount.IsNegative() {
		return nil, domain.Newf(domain.CodeInvalidInput, "amount cannot be negative (got %s)", amount)
	}
	if ratePercent.IsNegative() || ratePercent.GreaterThan(hundred) {
		return nil, domain.Newf(domain.CodeInvalidInput, "GST rate must be between 0 and 100 (got %s)", ratePercent)
	}

	var base, gst, total money.Money
	switch mode {
	case domain.GSTExclusive:
		base = amount
		gst = amount.Percent(ratePercent)
		total = base.Add(gst)
	case domain.GSTInclusive:
		total = amount
		base = amount.Div(decimal.NewFromInt(1).Add(ratePercent.Div(hundred)))
		gst = total.Sub(base)
	default:
		return nil, domain.Newf(domain.CodeInvalidInput, "unknown GST mode %q", mode)
	}

	cgst := gst.Div(decimal.NewFromInt(2))
	return &domain.GSTBreakdown{
		Mode:        mode,
		RatePercent: ratePercent,
		BaseAmount:  base,
		GSTAmount:   gst,
		CGST:        cgst,
		SGST:        gst.Sub(cgst),
		TotalAmount: total,
	}, nil
}
