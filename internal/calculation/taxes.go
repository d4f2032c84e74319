package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// INCOME TAX CALCULATION RULES:
//
// 1. Deductions only apply under the old regime. Under the new regime they
//    are forced to zero here, whatever the caller passes.
// 2. Brackets are walked in order. A bracket's upper bound is inclusive and
//    the next bracket starts where it ends.
// 3. Every bracket up to and including the one holding the taxable income is
//    listed, even when its contribution is zero, so the 0% slab always shows.
// 4. Cess is a flat percentage of the bracket tax, taken from the table.
// 5. Nothing is rounded until presentation.

// ComputeIncomeTax computes the tax owed on grossIncome under table.
// Negative inputs are rejected with INVALID_INPUT.
func ComputeIncomeTax(table domain.RegimeTable, grossIncome, deductions money.Money) (*domain.TaxBreakdown, error) {
	if grossIncome.IsNegative() {
		return nil, domain.Newf(domain.CodeInvalidInput, "gross income cannot be negative (got %s)", grossIncome)
	}
	if deductions.IsNegative() {
		return nil, domain.Newf(domain.CodeInvalidInput, "deductions cannot be negative (got %s)", deductions)
	}
	if len(table.Brackets) == 0 {
		return nil, domain.Newf(domain.CodeInvalidInput, "regime table %s has no brackets", table.Version)
	}

	effectiveDeductions := deductions
	if table.Regime == domain.RegimeNew {
		effectiveDeductions = money.Zero()
	}
	taxable := money.Max(grossIncome.Sub(effectiveDeductions), money.Zero())

	entries, bracketTax := walkBrackets(table.Brackets, taxable)
	cess := bracketTax.Percent(table.CessPercent)
	total := bracketTax.Add(cess)

	effectiveRate := decimal.Zero
	if grossIncome.IsPositive() {
		effectiveRate = total.Ratio(grossIncome)
	}

	return &domain.TaxBreakdown{
		Regime:        table.Regime,
		TableVersion:  table.Version,
		GrossIncome:   grossIncome,
		Deductions:    effectiveDeductions,
		TaxableIncome: taxable,
		Brackets:      entries,
		BracketTax:    bracketTax,
		CessPercent:   table.CessPercent,
		Cess:          cess,
		TotalTax:      total,
		EffectiveRate: effectiveRate,
		NetIncome:     grossIncome.Sub(total),
	}, nil
}

func walkBrackets(brackets []domain.Bracket, taxable money.Money) ([]domain.BracketEntry, money.Money) {
	var entries []domain.BracketEntry
	total := money.Zero()
	lower := money.Zero()

	for i, b := range brackets {
		// Past the first bracket, stop once the bracket starts at or above
		// the taxable income.
		if i > 0 && taxable.LessThanOrEqual(lower) {
			break
		}

		slice := money.Zero()
		if lower.LessThan(taxable) {
			top := taxable
			if b.UpTo != nil {
				top = money.Min(taxable, *b.UpTo)
			}
			slice = top.Sub(lower)
		}
		amount := slice.Percent(b.RatePercent)

		var upper *money.Money
		if b.UpTo != nil {
			u := *b.UpTo
			upper = &u
		}
		entries = append(entries, domain.BracketEntry{
			Range:       bracketRange(lower, upper),
			Lower:       lower,
			Upper:       upper,
			RatePercent: b.RatePercent,
			Taxable:     slice,
			Amount:      amount,
		})
		total = total.Add(amount)

		if b.UpTo == nil {
			break
		}
		lower = *b.UpTo
	}
	return entries, total
}

func bracketRange(lower money.Money, upper *money.Money) string {
	if upper == nil {
		return fmt.Sprintf("above %s", lower.StringFixed(0))
	}
	return fmt.Sprintf("%s-%s", lower.StringFixed(0), upper.StringFixed(0))
}

// CappedDeductions sums the deduction line items, capping each at the
// table's limit when one is configured. The new regime allows none.
func CappedDeductions(table domain.RegimeTable, items domain.LineItems) money.Money {
	if table.Regime == domain.RegimeNew {
		return money.Zero()
	}
	total := money.Zero()
	for _, key := range domain.ITRDeductionKeys {
		amount := items.Get(key)
		if limit, ok := table.DeductionLimits[key]; ok {
			amount = money.Min(amount, limit)
		}
		total = total.Add(amount)
	}
	return total
}
