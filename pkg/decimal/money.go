package decimal

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var hundred = decimal.NewFromInt(100)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromInt creates a new Money instance from a whole rupee amount
func NewMoneyFromInt(value int64) Money {
	return Money{decimal.NewFromInt(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// MustMoney parses a string amount and panics on malformed input.
// Intended for literals in tables and tests.
func MustMoney(value string) Money {
	m, err := NewMoneyFromString(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Round rounds to paise, half away from zero.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Percent returns ratePercent percent of the amount, e.g. Percent(18) on 100 gives 18.
func (m Money) Percent(ratePercent decimal.Decimal) Money {
	return Money{m.Decimal.Mul(ratePercent).Div(hundred)}
}

// Add adds another Money amount
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Mul multiplies by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// Div divides by a decimal factor
func (m Money) Div(factor decimal.Decimal) Money {
	return Money{m.Decimal.Div(factor)}
}

// Ratio returns m / other as a plain decimal. A zero divisor yields zero.
func (m Money) Ratio(other Money) decimal.Decimal {
	if other.IsZero() {
		return decimal.Zero
	}
	return m.Decimal.Div(other.Decimal)
}

// Abs returns the absolute amount
func (m Money) Abs() Money {
	return Money{m.Decimal.Abs()}
}

// GreaterThan checks if this amount is greater than another
func (m Money) GreaterThan(other Money) bool {
	return m.Decimal.GreaterThan(other.Decimal)
}

// GreaterThanOrEqual checks if this amount is greater than or equal to another
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.Decimal.GreaterThanOrEqual(other.Decimal)
}

// LessThan checks if this amount is less than another
func (m Money) LessThan(other Money) bool {
	return m.Decimal.LessThan(other.Decimal)
}

// LessThanOrEqual checks if this amount is less than or equal to another
func (m Money) LessThanOrEqual(other Money) bool {
	return m.Decimal.LessThanOrEqual(other.Decimal)
}

// Equal checks if this amount equals another
func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

// IsZero checks if the amount is zero
func (m Money) IsZero() bool {
	return m.Decimal.IsZero()
}

// IsPositive checks if the amount is positive
func (m Money) IsPositive() bool {
	return m.Decimal.IsPositive()
}

// IsNegative checks if the amount is negative
func (m Money) IsNegative() bool {
	return m.Decimal.IsNegative()
}

// Min returns the minimum of two Money amounts
func Min(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the maximum of two Money amounts
func Max(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Sum adds all amounts
func Sum(amounts ...Money) Money {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the string representation rounded to two places
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format formats the money amount with the rupee sign
func (m Money) Format() string {
	return "₹" + m.String()
}

// Grouped renders the amount with Indian digit grouping, e.g. 12,34,567.89:
// the last three integer digits form one group, the rest go in pairs.
func (m Money) Grouped() string {
	r := m.Decimal.Round(2)
	s := r.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var groups []string
	if len(intPart) > 3 {
		groups = append(groups, intPart[len(intPart)-3:])
		intPart = intPart[:len(intPart)-3]
		for len(intPart) > 2 {
			groups = append([]string{intPart[len(intPart)-2:]}, groups...)
			intPart = intPart[:len(intPart)-2]
		}
	}
	groups = append([]string{intPart}, groups...)

	sign := ""
	if r.IsNegative() {
		sign = "-"
	}
	return sign + strings.Join(groups, ",") + frac
}

// MarshalJSON encodes the amount as a quoted decimal string so no binary
// float ever appears on the wire.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Decimal.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted strings and bare JSON numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

// MarshalYAML encodes the amount as a decimal string.
func (m Money) MarshalYAML() (any, error) {
	return m.Decimal.String(), nil
}

// UnmarshalYAML accepts scalar numbers or strings.
func (m *Money) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", node.Value, err)
	}
	m.Decimal = d
	return nil
}

// Value stores the amount as TEXT.
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.String(), nil
}

// Scan reads an amount stored as TEXT, REAL or INTEGER.
func (m *Money) Scan(value any) error {
	return m.Decimal.Scan(value)
}
