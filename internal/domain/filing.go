package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/taxportal/filing-engine/pkg/dateutil"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// Kind tags a filing as an income-tax return or a GST return.
type Kind string

const (
	KindITR Kind = "ITR"
	KindGST Kind = "GST"
)

// ParseKind accepts any casing.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if k != KindITR && k != KindGST {
		return "", Newf(CodeInvalidInput, "unknown filing kind %q", s)
	}
	return k, nil
}

// Regime selects the income-tax bracket and deduction rules.
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// ParseRegime accepts any casing.
func ParseRegime(s string) (Regime, error) {
	r := Regime(strings.ToLower(strings.TrimSpace(s)))
	if r != RegimeOld && r != RegimeNew {
		return "", Newf(CodeInvalidInput, "unknown regime %q (expected old or new)", s)
	}
	return r, nil
}

// GSTMode says whether an amount excludes or already includes GST.
type GSTMode string

const (
	GSTExclusive GSTMode = "exclusive"
	GSTInclusive GSTMode = "inclusive"
)

// ParseGSTMode accepts any casing.
func ParseGSTMode(s string) (GSTMode, error) {
	m := GSTMode(strings.ToLower(strings.TrimSpace(s)))
	if m != GSTExclusive && m != GSTInclusive {
		return "", Newf(CodeInvalidInput, "unknown GST mode %q (expected exclusive or inclusive)", s)
	}
	return m, nil
}

// ReturnType is the GST return form.
type ReturnType string

const (
	ReturnGSTR1  ReturnType = "GSTR1"
	ReturnGSTR3B ReturnType = "GSTR3B"
	ReturnGSTR4  ReturnType = "GSTR4"
	ReturnGSTR9  ReturnType = "GSTR9"
	ReturnGSTR9C ReturnType = "GSTR9C"
)

// ParseReturnType accepts "gstr-3b", "GSTR3B" and similar spellings.
func ParseReturnType(s string) (ReturnType, error) {
	rt := ReturnType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "")))
	switch rt {
	case ReturnGSTR1, ReturnGSTR3B, ReturnGSTR4, ReturnGSTR9, ReturnGSTR9C:
		return rt, nil
	}
	return "", Newf(CodeInvalidInput, "unknown GST return type %q", s)
}

// IsAnnual reports whether the return is filed once per financial year.
func (rt ReturnType) IsAnnual() bool {
	return rt == ReturnGSTR4 || rt == ReturnGSTR9 || rt == ReturnGSTR9C
}

// Role is the capability the caller acts with. Authentication happens elsewhere.
type Role string

const (
	RoleFiler    Role = "FILER"
	RoleReviewer Role = "REVIEWER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole accepts any casing; "CA" is an alias for REVIEWER.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if r == "CA" {
		r = RoleReviewer
	}
	switch r {
	case RoleFiler, RoleReviewer, RoleAdmin:
		return r, nil
	}
	return "", Newf(CodeInvalidInput, "unknown actor role %q", s)
}

// ITRDetails is the income-tax variant payload.
type ITRDetails struct {
	PAN      string `json:"pan"`
	Aadhaar  string `json:"aadhaar,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Regime   Regime `json:"regime"`
}

// GSTDetails is the GST variant payload.
type GSTDetails struct {
	GSTIN       string          `json:"gstin"`
	TradeName   string          `json:"tradeName,omitempty"`
	ReturnType  ReturnType      `json:"returnType"`
	RatePercent decimal.Decimal `json:"ratePercent"`
}

// Identity is the caller-supplied identity used when creating a draft.
// Only the fields matching the filing kind are used.
type Identity struct {
	PAN       string `json:"pan,omitempty"`
	Aadhaar   string `json:"aadhaar,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
	TradeName string `json:"tradeName,omitempty"`
}

// BracketEntry is one row of the slab-wise breakdown.
type BracketEntry struct {
	Range       string          `json:"range"`
	Lower       money.Money     `json:"lower"`
	Upper       *money.Money    `json:"upper,omitempty"` // nil for the open top bracket
	RatePercent decimal.Decimal `json:"ratePercent"`
	Taxable     money.Money     `json:"taxable"`
	Amount      money.Money     `json:"amount"`
}

// TaxBreakdown is the result of an income-tax computation.
type TaxBreakdown struct {
	Regime        Regime          `json:"regime"`
	TableVersion  string          `json:"tableVersion"`
	GrossIncome   money.Money     `json:"grossIncome"`
	Deductions    money.Money     `json:"deductions"` // effective deductions, zero under the new regime
	TaxableIncome money.Money     `json:"taxableIncome"`
	Brackets      []BracketEntry  `json:"brackets"`
	BracketTax    money.Money     `json:"bracketTax"`
	CessPercent   decimal.Decimal `json:"cessPercent"`
	Cess          money.Money     `json:"cess"`
	TotalTax      money.Money     `json:"totalTax"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"` // fraction, 0.0624 means 6.24%
	NetIncome     money.Money     `json:"netIncome"`
}

// GSTBreakdown is the result of a GST computation.
type GSTBreakdown struct {
	Mode        GSTMode         `json:"mode"`
	RatePercent decimal.Decimal `json:"ratePercent"`
	BaseAmount  money.Money     `json:"baseAmount"`
	GSTAmount   money.Money     `json:"gstAmount"`
	CGST        money.Money     `json:"cgst"`
	SGST        money.Money     `json:"sgst"`
	TotalAmount money.Money     `json:"totalAmount"`
}

// Derived holds values computed from the line items. Callers never set it.
type Derived struct {
	GrossTotal        money.Money     `json:"grossTotal"`
	Deductions        money.Money     `json:"deductions"`
	TaxableAmount     money.Money     `json:"taxableAmount"`
	TotalTax          money.Money     `json:"totalTax"` // income tax incl. cess, or GST output tax
	Credits           money.Money     `json:"credits"`  // taxes already paid, or input tax credit
	TaxOrGSTPayable   money.Money     `json:"taxOrGstPayable"`
	RefundOrCreditDue money.Money     `json:"refundOrCreditDue"`
	EffectiveRate     decimal.Decimal `json:"effectiveRate"`
	IncomeTax         *TaxBreakdown   `json:"incomeTax,omitempty"`
	GST               *GSTBreakdown   `json:"gst,omitempty"`
}

// FilingRecord is one ITR or GST filing tracked through its lifecycle.
type FilingRecord struct {
	ID               string      `json:"id"`
	Kind             Kind        `json:"kind"`
	Status           Status      `json:"status"`
	PeriodKey        string      `json:"periodKey"` // assessment year (ITR) or return period (GST)
	ITR              *ITRDetails `json:"itr,omitempty"`
	GST              *GSTDetails `json:"gst,omitempty"`
	LineItems        LineItems   `json:"lineItems"`
	Derived          Derived     `json:"derived"`
	Remarks          string      `json:"remarks,omitempty"`
	AssignedTo       string      `json:"assignedTo,omitempty"`
	RejectionReason  string      `json:"rejectionReason,omitempty"`
	AcknowledgmentNo string      `json:"acknowledgmentNo,omitempty"`
	FiledAt          *time.Time  `json:"filedAt,omitempty"`
	VerifiedAt       *time.Time  `json:"verifiedAt,omitempty"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	Version          int64       `json:"version"`
}

// Clone returns a deep copy so callers can mutate it without touching r.
func (r *FilingRecord) Clone() *FilingRecord {
	c := *r
	if r.ITR != nil {
		itr := *r.ITR
		c.ITR = &itr
	}
	if r.GST != nil {
		gst := *r.GST
		c.GST = &gst
	}
	c.LineItems = r.LineItems.Clone()
	c.Derived = r.Derived.clone()
	c.FiledAt = cloneTime(r.FiledAt)
	c.VerifiedAt = cloneTime(r.VerifiedAt)
	c.CompletedAt = cloneTime(r.CompletedAt)
	return &c
}

// Regime returns the income-tax regime, defaulting to new.
func (r *FilingRecord) Regime() Regime {
	if r.ITR == nil || r.ITR.Regime == "" {
		return RegimeNew
	}
	return r.ITR.Regime
}

// IdentityComplete reports whether the mandatory identity for the kind is present.
func (r *FilingRecord) IdentityComplete() bool {
	switch r.Kind {
	case KindITR:
		return r.ITR != nil && strings.TrimSpace(r.ITR.PAN) != ""
	case KindGST:
		return r.GST != nil && strings.TrimSpace(r.GST.GSTIN) != ""
	}
	return false
}

// DueDate returns the statutory due date for the record's period.
func (r *FilingRecord) DueDate() (time.Time, error) {
	if r.Kind == KindITR {
		return dateutil.ITRDueDate(r.PeriodKey)
	}
	p, err := dateutil.ParseReturnPeriod(r.PeriodKey)
	if err != nil {
		return time.Time{}, err
	}
	rt := ReturnGSTR3B
	if r.GST != nil && r.GST.ReturnType != "" {
		rt = r.GST.ReturnType
	}
	return dateutil.GSTDueDate(string(rt), p)
}

func (d Derived) clone() Derived {
	c := d
	if d.IncomeTax != nil {
		it := *d.IncomeTax
		it.Brackets = append([]BracketEntry(nil), d.IncomeTax.Brackets...)
		c.IncomeTax = &it
	}
	if d.GST != nil {
		g := *d.GST
		c.GST = &g
	}
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
