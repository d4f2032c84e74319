package lifecycle

import (
	"github.com/shopspring/decimal"
	"github.com/taxportal/filing-engine/internal/domain"
)

// LineItemPatch describes an edit of a record's inputs. Set entries replace
// existing amounts, Remove deletes keys. Regime applies to ITR filings and
// RatePercent to GST filings only.
type LineItemPatch struct {
	Set           domain.LineItems `json:"set,omitempty"`
	Remove        []string         `json:"remove,omitempty"`
	Regime        *domain.Regime   `json:"regime,omitempty"`
	RatePercent   *decimal.Decimal `json:"ratePercent,omitempty"`
	AdminOverride bool             `json:"adminOverride,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p LineItemPatch) IsEmpty() bool {
	return len(p.Set) == 0 && len(p.Remove) == 0 && p.Regime == nil && p.RatePercent == nil
}

// statuses in which an admin override may still edit inputs
var overrideStatuses = map[domain.Status]bool{
	domain.StatusUnderReview: true,
	domain.StatusCAAssigned:  true,
	domain.StatusProcessing:  true,
}

// UpdateLineItems applies patch and recomputes the derived totals.
func (m *Machine) UpdateLineItems(rec *domain.FilingRecord, role domain.Role, patch LineItemPatch) (*domain.FilingRecord, error) {
	if err := m.checkEditable(rec, role, patch.AdminOverride); err != nil {
		return rec, err
	}
	if patch.IsEmpty() {
		return rec, domain.Newf(domain.CodeInvalidInput, "patch changes nothing")
	}

	next := rec.Clone()
	if next.LineItems == nil {
		next.LineItems = domain.LineItems{}
	}
	for _, key := range patch.Remove {
		if !domain.IsAllowedKey(rec.Kind, key) {
			return rec, domain.Newf(domain.CodeInvalidInput, "unknown %s line item %q", rec.Kind, key)
		}
		delete(next.LineItems, key)
	}
	for key, amount := range patch.Set {
		if err := domain.ValidateLineItem(rec.Kind, key, amount); err != nil {
			return rec, err
		}
		next.LineItems[key] = amount
	}

	if patch.Regime != nil {
		if rec.Kind != domain.KindITR {
			return rec, domain.Newf(domain.CodeInvalidInput, "regime applies to ITR filings only")
		}
		regime, err := domain.ParseRegime(string(*patch.Regime))
		if err != nil {
			return rec, err
		}
		if next.ITR == nil {
			next.ITR = &domain.ITRDetails{}
		}
		next.ITR.Regime = regime
	}
	if patch.RatePercent != nil {
		if rec.Kind != domain.KindGST {
			return rec, domain.Newf(domain.CodeInvalidInput, "GST rate applies to GST filings only")
		}
		if err := validateRate(*patch.RatePercent); err != nil {
			return rec, err
		}
		if next.GST == nil {
			next.GST = &domain.GSTDetails{}
		}
		next.GST.RatePercent = *patch.RatePercent
	}

	derived, err := m.Engine.Derive(next)
	if err != nil {
		return rec, err
	}
	next.Derived = derived
	next.UpdatedAt = m.Now()

	if patch.AdminOverride {
		m.Logger.Warnf("admin override on filing %s in %s", rec.ID, rec.Status)
	}
	m.Logger.Debugf("filing %s inputs updated, payable=%s", rec.ID, derived.TaxOrGSTPayable)
	return next, nil
}

func (m *Machine) checkEditable(rec *domain.FilingRecord, role domain.Role, override bool) error {
	if override {
		if role != domain.RoleAdmin {
			return domain.Newf(domain.CodeActorNotPermitted, "only an admin may override a %s filing", rec.Status)
		}
		if !rec.Status.IsEditable() && !overrideStatuses[rec.Status] {
			return domain.Newf(domain.CodeRecordLocked, "filing %s is %s and can no longer be edited", rec.ID, rec.Status)
		}
		return nil
	}
	if !rec.Status.IsEditable() {
		return domain.Newf(domain.CodeRecordLocked, "filing %s is %s and can no longer be edited", rec.ID, rec.Status)
	}
	if role != domain.RoleFiler && role != domain.RoleAdmin {
		return domain.Newf(domain.CodeActorNotPermitted, "%s cannot edit line items", role)
	}
	return nil
}

