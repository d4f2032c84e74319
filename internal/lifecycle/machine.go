package lifecycle

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxportal/filing-engine/internal/calculation"
	"github.com/taxportal/filing-engine/internal/domain"
	"github.com/taxportal/filing-engine/pkg/dateutil"
)

// DefaultGSTRate is used for GST drafts created without a rate.
var DefaultGSTRate = decimal.NewFromInt(18)

// Machine applies lifecycle rules to filing records. It performs no I/O:
// every operation works on a copy and returns it, leaving the input
// untouched when an error is returned.
type Machine struct {
	Engine *calculation.Engine
	Acks   AckIssuer
	Logger calculation.Logger
	Now    func() time.Time
	NewID  func() string
}

// NewMachine creates a machine. A nil logger is replaced with NopLogger.
func NewMachine(engine *calculation.Engine, acks AckIssuer, logger calculation.Logger) *Machine {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Machine{
		Engine: engine,
		Acks:   acks,
		Logger: logger,
		Now:    func() time.Time { return time.Now().UTC() },
		NewID:  func() string { return uuid.New().String() },
	}
}

// DraftOptions carries the optional selectors of a new draft.
type DraftOptions struct {
	Regime      domain.Regime
	ReturnType  domain.ReturnType
	RatePercent *decimal.Decimal
	LineItems   domain.LineItems
}

// CreateDraft builds a new DRAFT record. The record is not persisted and has
// version 0.
func (m *Machine) CreateDraft(kind domain.Kind, periodKey string, identity domain.Identity, opts DraftOptions) (*domain.FilingRecord, error) {
	periodKey = strings.TrimSpace(periodKey)
	rec := &domain.FilingRecord{
		Kind:      kind,
		Status:    domain.StatusDraft,
		PeriodKey: periodKey,
		LineItems: domain.LineItems{},
	}

	switch kind {
	case domain.KindITR:
		if _, err := dateutil.ParseAssessmentYear(periodKey); err != nil {
			return nil, domain.Newf(domain.CodeInvalidInput, "invalid assessment year: %v", err)
		}
		regime := opts.Regime
		if regime == "" {
			regime = domain.RegimeNew
		}
		if _, err := domain.ParseRegime(string(regime)); err != nil {
			return nil, err
		}
		rec.ITR = &domain.ITRDetails{
			PAN:      strings.TrimSpace(identity.PAN),
			Aadhaar:  strings.TrimSpace(identity.Aadhaar),
			FullName: strings.TrimSpace(identity.FullName),
			Regime:   regime,
		}
	case domain.KindGST:
		returnType := opts.ReturnType
		if returnType == "" {
			returnType = domain.ReturnGSTR3B
		}
		if err := validateReturnPeriod(returnType, periodKey); err != nil {
			return nil, err
		}
		rate := DefaultGSTRate
		if opts.RatePercent != nil {
			rate = *opts.RatePercent
		}
		if err := validateRate(rate); err != nil {
			return nil, err
		}
		rec.GST = &domain.GSTDetails{
			GSTIN:       strings.ToUpper(strings.TrimSpace(identity.GSTIN)),
			TradeName:   strings.TrimSpace(identity.TradeName),
			ReturnType:  returnType,
			RatePercent: rate,
		}
	default:
		return nil, domain.Newf(domain.CodeInvalidInput, "unknown filing kind %q", kind)
	}

	for key, amount := range opts.LineItems {
		if err := domain.ValidateLineItem(kind, key, amount); err != nil {
			return nil, err
		}
		rec.LineItems[key] = amount
	}

	derived, err := m.Engine.Derive(rec)
	if err != nil {
		return nil, err
	}
	now := m.Now()
	rec.ID = m.NewID()
	rec.Derived = derived
	rec.CreatedAt = now
	rec.UpdatedAt = now

	m.Logger.Infof("created %s draft %s for %s", kind, rec.ID, periodKey)
	return rec, nil
}

// validateReturnPeriod checks the period parses and suits the return type:
// annual returns need a financial-year period, the others a month or quarter.
func validateReturnPeriod(rt domain.ReturnType, periodKey string) error {
	if _, err := domain.ParseReturnType(string(rt)); err != nil {
		return err
	}
	p, err := dateutil.ParseReturnPeriod(periodKey)
	if err != nil {
		return domain.Newf(domain.CodeInvalidInput, "invalid return period: %v", err)
	}
	if rt.IsAnnual() != (p.Granularity == dateutil.Annual) {
		return domain.Newf(domain.CodeInvalidInput, "%s cannot be filed for a %s period", rt, p.Granularity)
	}
	return nil
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return domain.Newf(domain.CodeInvalidInput, "GST rate must be between 0 and 100 (got %s)", rate)
	}
	return nil
}

// CheckDelete reports whether role may delete rec. Only drafts can be deleted.
func (m *Machine) CheckDelete(rec *domain.FilingRecord, role domain.Role) error {
	if role != domain.RoleFiler && role != domain.RoleAdmin {
		return domain.Newf(domain.CodeActorNotPermitted, "%s cannot delete filings", role)
	}
	if rec.Status != domain.StatusDraft {
		return domain.Newf(domain.CodeDeleteNotAllowed, "filing %s is %s; only drafts can be deleted", rec.ID, rec.Status)
	}
	return nil
}
