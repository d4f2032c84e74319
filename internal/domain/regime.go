package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taxportal/filing-engine/pkg/dateutil"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// Bracket is one slab of a regime table. Its lower bound is the previous
// bracket's UpTo (zero for the first); a nil UpTo marks the open top slab.
type Bracket struct {
	UpTo        *money.Money    `yaml:"up_to,omitempty" json:"upTo,omitempty"`
	RatePercent decimal.Decimal `yaml:"rate_percent" json:"ratePercent"`
}

// RegimeTable is a versioned set of slabs for one regime, effective over an
// inclusive range of assessment years. An empty EffectiveTo is open-ended.
type RegimeTable struct {
	Regime          Regime                 `yaml:"regime" json:"regime"`
	Version         string                 `yaml:"version" json:"version"`
	EffectiveFrom   string                 `yaml:"effective_from" json:"effectiveFrom"`
	EffectiveTo     string                 `yaml:"effective_to,omitempty" json:"effectiveTo,omitempty"`
	CessPercent     decimal.Decimal        `yaml:"cess_percent" json:"cessPercent"`
	Brackets        []Bracket              `yaml:"brackets" json:"brackets"`
	DeductionLimits map[string]money.Money `yaml:"deduction_limits,omitempty" json:"deductionLimits,omitempty"`
}

// Validate checks the table is well formed.
func (t RegimeTable) Validate() error {
	if t.Regime != RegimeOld && t.Regime != RegimeNew {
		return fmt.Errorf("regime must be 'old' or 'new', got %q", t.Regime)
	}
	if t.Version == "" {
		return fmt.Errorf("version is required")
	}
	from, err := dateutil.ParseAssessmentYear(t.EffectiveFrom)
	if err != nil {
		return fmt.Errorf("effective_from: %w", err)
	}
	if t.EffectiveTo != "" {
		to, err := dateutil.ParseAssessmentYear(t.EffectiveTo)
		if err != nil {
			return fmt.Errorf("effective_to: %w", err)
		}
		if to < from {
			return fmt.Errorf("effective_to %s is before effective_from %s", t.EffectiveTo, t.EffectiveFrom)
		}
	}
	if !percentInRange(t.CessPercent) {
		return fmt.Errorf("cess_percent must be between 0 and 100")
	}
	if len(t.Brackets) == 0 {
		return fmt.Errorf("at least one bracket is required")
	}
	prev := money.Zero()
	for i, b := range t.Brackets {
		if !percentInRange(b.RatePercent) {
			return fmt.Errorf("bracket %d: rate_percent must be between 0 and 100", i)
		}
		last := i == len(t.Brackets)-1
		if b.UpTo == nil {
			if !last {
				return fmt.Errorf("bracket %d: only the last bracket may be open-ended", i)
			}
			continue
		}
		if last {
			return fmt.Errorf("bracket %d: the last bracket must be open-ended", i)
		}
		if b.UpTo.LessThanOrEqual(prev) {
			return fmt.Errorf("bracket %d: up_to must be greater than %s", i, prev)
		}
		prev = *b.UpTo
	}
	for key, limit := range t.DeductionLimits {
		if limit.IsNegative() {
			return fmt.Errorf("deduction limit %s cannot be negative", key)
		}
	}
	return nil
}

// Covers reports whether the table applies to the assessment year starting in ayStart.
func (t RegimeTable) Covers(ayStart int) bool {
	from, err := dateutil.ParseAssessmentYear(t.EffectiveFrom)
	if err != nil || ayStart < from {
		return false
	}
	if t.EffectiveTo == "" {
		return true
	}
	to, err := dateutil.ParseAssessmentYear(t.EffectiveTo)
	return err == nil && ayStart <= to
}

// RegimeTables is the set of tables known to the engine.
type RegimeTables []RegimeTable

// Select returns the table for regime effective in assessmentYear. An empty
// assessment year selects the table with the latest effective_from. When
// several tables cover the year the one with the latest effective_from wins.
func (ts RegimeTables) Select(regime Regime, assessmentYear string) (RegimeTable, error) {
	ayStart := -1
	if assessmentYear != "" {
		start, err := dateutil.ParseAssessmentYear(assessmentYear)
		if err != nil {
			return RegimeTable{}, Newf(CodeInvalidInput, "invalid assessment year: %v", err)
		}
		ayStart = start
	}

	var best *RegimeTable
	bestFrom := -1
	for i := range ts {
		t := &ts[i]
		if t.Regime != regime {
			continue
		}
		if ayStart >= 0 && !t.Covers(ayStart) {
			continue
		}
		from, err := dateutil.ParseAssessmentYear(t.EffectiveFrom)
		if err != nil {
			continue
		}
		if from > bestFrom {
			best, bestFrom = t, from
		}
	}
	if best == nil {
		if assessmentYear == "" {
			return RegimeTable{}, Newf(CodeInvalidInput, "no %s regime table configured", regime)
		}
		return RegimeTable{}, Newf(CodeInvalidInput, "no %s regime table covers assessment year %s", regime, assessmentYear)
	}
	return *best, nil
}

func percentInRange(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(decimal.NewFromInt(100))
}
