package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// Engine computes income tax, GST and the derived totals of a filing.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	Tables domain.RegimeTables
	Logger Logger
}

// NewEngine creates an engine over tables. Empty tables fall back to
// DefaultTables; a nil logger is replaced with NopLogger.
func NewEngine(tables domain.RegimeTables, logger Logger) *Engine {
	if len(tables) == 0 {
		tables = DefaultTables()
	}
	e := &Engine{Tables: tables}
	e.SetLogger(logger)
	return e
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// IncomeTax computes income tax with the table for regime effective in
// assessmentYear. An empty assessment year uses the latest table.
func (e *Engine) IncomeTax(grossIncome money.Money, regime domain.Regime, deductions money.Money, assessmentYear string) (*domain.TaxBreakdown, error) {
	table, err := e.Tables.Select(regime, assessmentYear)
	if err != nil {
		return nil, err
	}
	bd, err := ComputeIncomeTax(table, grossIncome, deductions)
	if err != nil {
		return nil, err
	}
	e.Logger.Debugf("income tax: regime=%s table=%s taxable=%s total=%s", regime, table.Version, bd.TaxableIncome, bd.TotalTax)
	return bd, nil
}

// GST computes GST on amount.
func (e *Engine) GST(amount money.Money, ratePercent decimal.Decimal, mode domain.GSTMode) (*domain.GSTBreakdown, error) {
	bd, err := ComputeGST(amount, ratePercent, mode)
	if err != nil {
		return nil, err
	}
	e.Logger.Debugf("gst: mode=%s rate=%s base=%s gst=%s", mode, ratePercent, bd.BaseAmount, bd.GSTAmount)
	return bd, nil
}

// Derive recomputes every derived field of rec from its line items and
// selectors. It does not modify rec.
func (e *Engine) Derive(rec *domain.FilingRecord) (domain.Derived, error) {
	for _, key := range rec.LineItems.Keys() {
		if err := domain.ValidateLineItem(rec.Kind, key, rec.LineItems[key]); err != nil {
			return domain.Derived{}, err
		}
	}
	switch rec.Kind {
	case domain.KindITR:
		return e.deriveITR(rec)
	case domain.KindGST:
		return e.deriveGST(rec)
	}
	return domain.Derived{}, domain.Newf(domain.CodeInvalidInput, "unknown filing kind %q", rec.Kind)
}

func (e *Engine) deriveITR(rec *domain.FilingRecord) (domain.Derived, error) {
	regime := rec.Regime()
	table, err := e.Tables.Select(regime, rec.PeriodKey)
	if err != nil {
		return domain.Derived{}, err
	}

	gross := rec.LineItems.Sum(domain.ITRIncomeKeys...)
	bd, err := ComputeIncomeTax(table, gross, CappedDeductions(table, rec.LineItems))
	if err != nil {
		return domain.Derived{}, err
	}
	paid := rec.LineItems.Sum(domain.ITRTaxPaidKeys...)

	return domain.Derived{
		GrossTotal:        gross,
		Deductions:        bd.Deductions,
		TaxableAmount:     bd.TaxableIncome,
		TotalTax:          bd.TotalTax,
		Credits:           paid,
		TaxOrGSTPayable:   money.Max(bd.TotalTax.Sub(paid), money.Zero()),
		RefundOrCreditDue: money.Max(paid.Sub(bd.TotalTax), money.Zero()),
		EffectiveRate:     bd.EffectiveRate,
		IncomeTax:         bd,
	}, nil
}

func (e *Engine) deriveGST(rec *domain.FilingRecord) (domain.Derived, error) {
	rate := decimal.Zero
	if rec.GST != nil {
		rate = rec.GST.RatePercent
	}

	gross := rec.LineItems.Sum(domain.GSTOutwardKeys...)
	taxable := rec.LineItems.Sum(domain.GSTTaxableKeys...)
	bd, err := ComputeGST(taxable, rate, domain.GSTExclusive)
	if err != nil {
		return domain.Derived{}, err
	}
	output := bd.GSTAmount.Add(rec.LineItems.Get(domain.ItemIGST))
	itc := rec.LineItems.Sum(domain.GSTITCKeys...)

	effectiveRate := decimal.Zero
	if gross.IsPositive() {
		effectiveRate = output.Ratio(gross)
	}

	return domain.Derived{
		GrossTotal:        gross,
		Deductions:        money.Zero(),
		TaxableAmount:     taxable,
		TotalTax:          output,
		Credits:           itc,
		TaxOrGSTPayable:   money.Max(output.Sub(itc), money.Zero()),
		RefundOrCreditDue: money.Max(itc.Sub(output), money.Zero()),
		EffectiveRate:     effectiveRate,
		GST:               bd,
	}, nil
}
