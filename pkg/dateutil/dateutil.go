package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PeriodGranularity describes how long a GST return period is.
type PeriodGranularity string

const (
	Monthly   PeriodGranularity = "monthly"
	Quarterly PeriodGranularity = "quarterly"
	Annual    PeriodGranularity = "annual"
)

// ReturnPeriod is a parsed GST return period.
type ReturnPeriod struct {
	Granularity PeriodGranularity
	Start       time.Time // first day of the period, UTC
	End         time.Time // last instant of the period, UTC
	raw         string
}

// String returns the period in the form it was parsed from.
func (p ReturnPeriod) String() string { return p.raw }

// FinancialYearStart returns 1 April of the financial year containing date.
func FinancialYearStart(date time.Time) time.Time {
	year := date.Year()
	if date.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfFinancialYear returns the last instant of 31 March closing the financial
// year that starts in startYear.
func EndOfFinancialYear(startYear int) time.Time {
	return time.Date(startYear+1, time.March, 31, 23, 59, 59, 999999999, time.UTC)
}

// FormatYearPair renders a start year as "2024-25".
func FormatYearPair(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// FinancialYearOf returns the "YYYY-YY" label of the financial year containing date.
func FinancialYearOf(date time.Time) string {
	return FormatYearPair(FinancialYearStart(date).Year())
}

// AssessmentYearFor returns the assessment year in which income earned on date is assessed.
func AssessmentYearFor(date time.Time) string {
	return FormatYearPair(FinancialYearStart(date).Year() + 1)
}

// ParseYearPair parses "2025-26" and returns 2025. The suffix must be the
// following year's last two digits.
func ParseYearPair(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid year %q (expected YYYY-YY)", s)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid start year in %q", s)
	}
	suffix, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid end year in %q", s)
	}
	if (start+1)%100 != suffix {
		return 0, fmt.Errorf("year %q does not span consecutive years", s)
	}
	return start, nil
}

// ParseAssessmentYear parses an assessment year and returns its starting calendar year.
func ParseAssessmentYear(ay string) (int, error) {
	return ParseYearPair(ay)
}

// ParseReturnPeriod parses a GST return period:
//
//	2025-04     monthly (April 2025)
//	2025-26-Q1  quarterly (Apr-Jun 2025)
//	2024-25     annual financial year
func ParseReturnPeriod(s string) (ReturnPeriod, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "-Q"):
		idx := strings.Index(s, "-Q")
		startYear, err := ParseYearPair(s[:idx])
		if err != nil {
			return ReturnPeriod{}, err
		}
		q, err := strconv.Atoi(s[idx+2:])
		if err != nil || q < 1 || q > 4 {
			return ReturnPeriod{}, fmt.Errorf("invalid quarter in %q", s)
		}
		start := time.Date(startYear, time.April, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 3*(q-1), 0)
		return ReturnPeriod{Granularity: Quarterly, Start: start, End: start.AddDate(0, 3, 0).Add(-time.Nanosecond), raw: s}, nil
	case len(s) == 7 && s[4] == '-':
		t, err := time.Parse("2006-01", s)
		if err == nil {
			return ReturnPeriod{Granularity: Monthly, Start: t, End: t.AddDate(0, 1, 0).Add(-time.Nanosecond), raw: s}, nil
		}
		startYear, perr := ParseYearPair(s)
		if perr != nil {
			return ReturnPeriod{}, fmt.Errorf("invalid return period %q", s)
		}
		start := time.Date(startYear, time.April, 1, 0, 0, 0, 0, time.UTC)
		return ReturnPeriod{Granularity: Annual, Start: start, End: EndOfFinancialYear(startYear), raw: s}, nil
	}
	return ReturnPeriod{}, fmt.Errorf("invalid return period %q", s)
}

// GSTDueDate returns the statutory due date of a GST return for a period.
// GSTR1 is due on the 11th and GSTR3B on the 20th of the month after the
// period; GSTR4 on 30 April after the financial year; GSTR9 and GSTR9C on
// 31 December after the financial year.
func GSTDueDate(returnType string, p ReturnPeriod) (time.Time, error) {
	next := p.End.Add(time.Nanosecond)
	fyEnd := EndOfFinancialYear(FinancialYearStart(p.Start).Year())
	switch strings.ToUpper(returnType) {
	case "GSTR1":
		return time.Date(next.Year(), next.Month(), 11, 0, 0, 0, 0, time.UTC), nil
	case "GSTR3B":
		return time.Date(next.Year(), next.Month(), 20, 0, 0, 0, 0, time.UTC), nil
	case "GSTR4":
		return time.Date(fyEnd.Year(), time.April, 30, 0, 0, 0, 0, time.UTC), nil
	case "GSTR9", "GSTR9C":
		return time.Date(fyEnd.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unknown return type %q", returnType)
}

// ITRDueDate returns 31 July of the assessment year, the default due date for
// non-audit individual returns.
func ITRDueDate(assessmentYear string) (time.Time, error) {
	start, err := ParseAssessmentYear(assessmentYear)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(start, time.July, 31, 0, 0, 0, 0, time.UTC), nil
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInFinancialYear returns 366 when the February inside the financial year
// starting in startYear is a leap February.
func DaysInFinancialYear(startYear int) int {
	if IsLeapYear(startYear + 1) {
		return 366
	}
	return 365
}
