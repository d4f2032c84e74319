package domain

import (
	"sort"

	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// LineItems maps a named income, sales, purchase or tax component to its amount.
type LineItems map[string]money.Money

// ITR line-item keys.
const (
	ItemSalaryIncome        = "salaryIncome"
	ItemHousePropertyIncome = "housePropertyIncome"
	ItemBusinessIncome      = "businessIncome"
	ItemCapitalGains        = "capitalGains"
	ItemOtherIncome         = "otherIncome"

	ItemSection80C     = "section80C"
	ItemSection80CCD1B = "section80CCD1B"
	ItemSection80D     = "section80D"
	ItemSection24b     = "section24b"
	ItemSection80G     = "section80G"
	ItemSection80TTA   = "section80TTA"

	ItemTDSDeducted       = "tdsDeducted"
	ItemAdvanceTax        = "advanceTax"
	ItemSelfAssessmentTax = "selfAssessmentTax"
)

// GST line-item keys.
const (
	ItemB2BSales    = "b2bSales"
	ItemB2CSales    = "b2cSales"
	ItemExportSales = "exportSales"
	ItemExemptSales = "exemptSales"
	ItemPurchases   = "purchases"
	ItemIGST        = "igst"
	ItemITCIGST     = "itcIgst"
	ItemITCCGST     = "itcCgst"
	ItemITCSGST     = "itcSgst"
)

var (
	ITRIncomeKeys    = []string{ItemSalaryIncome, ItemHousePropertyIncome, ItemBusinessIncome, ItemCapitalGains, ItemOtherIncome}
	ITRDeductionKeys = []string{ItemSection80C, ItemSection80CCD1B, ItemSection80D, ItemSection24b, ItemSection80G, ItemSection80TTA}
	ITRTaxPaidKeys   = []string{ItemTDSDeducted, ItemAdvanceTax, ItemSelfAssessmentTax}

	GSTOutwardKeys = []string{ItemB2BSales, ItemB2CSales, ItemExportSales, ItemExemptSales}
	GSTTaxableKeys = []string{ItemB2BSales, ItemB2CSales}
	GSTITCKeys     = []string{ItemITCIGST, ItemITCCGST, ItemITCSGST}
	gstOtherKeys   = []string{ItemPurchases, ItemIGST}
)

// AllowedKeys returns the sorted catalogue of line-item keys for kind.
func AllowedKeys(kind Kind) []string {
	var keys []string
	switch kind {
	case KindITR:
		keys = append(keys, ITRIncomeKeys...)
		keys = append(keys, ITRDeductionKeys...)
		keys = append(keys, ITRTaxPaidKeys...)
	case KindGST:
		keys = append(keys, GSTOutwardKeys...)
		keys = append(keys, GSTITCKeys...)
		keys = append(keys, gstOtherKeys...)
	}
	sort.Strings(keys)
	return keys
}

// IsAllowedKey reports whether key belongs to the catalogue of kind.
func IsAllowedKey(kind Kind, key string) bool {
	for _, k := range AllowedKeys(kind) {
		if k == key {
			return true
		}
	}
	return false
}

// ValidateLineItem checks one key/amount pair against the catalogue.
func ValidateLineItem(kind Kind, key string, amount money.Money) error {
	if !IsAllowedKey(kind, key) {
		return Newf(CodeInvalidInput, "unknown %s line item %q", kind, key)
	}
	if amount.IsNegative() {
		return Newf(CodeInvalidInput, "line item %q cannot be negative (got %s)", key, amount)
	}
	return nil
}

// Clone copies the map.
func (li LineItems) Clone() LineItems {
	c := make(LineItems, len(li))
	for k, v := range li {
		c[k] = v
	}
	return c
}

// Get returns the amount for key, zero when absent.
func (li LineItems) Get(key string) money.Money {
	if v, ok := li[key]; ok {
		return v
	}
	return money.Zero()
}

// Sum adds the amounts of the given keys.
func (li LineItems) Sum(keys ...string) money.Money {
	total := money.Zero()
	for _, k := range keys {
		total = total.Add(li.Get(k))
	}
	return total
}

// HasNonZero reports whether any amount is non-zero.
func (li LineItems) HasNonZero() bool {
	for _, v := range li {
		if !v.IsZero() {
			return true
		}
	}
	return false
}

// Keys returns the keys in sorted order.
func (li LineItems) Keys() []string {
	keys := make([]string, 0, len(li))
	for k := range li {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
