package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxportal/filing-engine/internal/calculation"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

func incomeTaxReport(t *testing.T) *Report {
	t.Helper()
	bd, err := calculation.NewEngine(nil, nil).IncomeTax(money.NewMoneyFromInt(1000000), domain.RegimeNew, money.Zero(), "")
	require.NoError(t, err)
	return &Report{IncomeTax: bd}
}

func gstReport(t *testing.T) *Report {
	t.Helper()
	bd, err := calculation.NewEngine(nil, nil).GST(money.NewMoneyFromInt(10000), decimal.NewFromInt(18), domain.GSTExclusive)
	require.NoError(t, err)
	return &Report{GST: bd}
}

func filingReport(t *testing.T) *Report {
	t.Helper()
	rec := &domain.FilingRecord{
		ID:        "f-1",
		Kind:      domain.KindITR,
		Status:    domain.StatusDocumentsPending,
		PeriodKey: "2024-25",
		ITR:       &domain.ITRDetails{PAN: "ABCDE1234F", Regime: domain.RegimeNew},
		LineItems: domain.LineItems{
			domain.ItemSalaryIncome: money.NewMoneyFromInt(1000000),
			domain.ItemTDSDeducted:  money.NewMoneyFromInt(70000),
		},
		CreatedAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Version:   2,
	}
	d, err := calculation.NewEngine(nil, nil).Derive(rec)
	require.NoError(t, err)
	rec.Derived = d
	return &Report{Filing: rec}
}

func TestNormalizeFormatName(t *testing.T) {
	tests := map[string]string{
		"console":     "console",
		" JSON ":      "json",
		"text":        "console",
		"table":       "console",
		"json-pretty": "json",
		"csv-summary": "csv",
		"xml":         "xml",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeFormatName(in), in)
	}
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"console", "csv", "json"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "text")
}

func TestWriteUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "xml", incomeTaxReport(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "console, csv, json")
	assert.Zero(t, buf.Len())
}

func TestConsoleFormatterIncomeTax(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "text", incomeTaxReport(t)))
	out := buf.String()
	assert.Contains(t, out, "INCOME TAX COMPUTATION")
	assert.Contains(t, out, "900000-1200000")
	assert.Contains(t, out, "₹62,400.00")
	assert.Contains(t, out, "6.24%")
}

func TestConsoleFormatterGST(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(gstReport(t))
	require.NoError(t, err)
	assert.Contains(t, string(out), "₹900.00")
	assert.Contains(t, string(out), "₹11,800.00")
}

func TestConsoleFormatterFiling(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(filingReport(t))
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "ITR FILING f-1")
	assert.Contains(t, s, "step 2 of 8")
	assert.Contains(t, s, "salaryIncome")
	assert.Contains(t, s, "Refund/Credit:   ₹7,600.00")
}

func TestConsoleFormatterEmptyReport(t *testing.T) {
	_, err := ConsoleFormatter{}.Format(&Report{})
	assert.Error(t, err)
}

func TestJSONFormatterKeepsDecimalStrings(t *testing.T) {
	out, err := JSONFormatter{}.Format(incomeTaxReport(t))
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "62400", decoded["incomeTax"]["totalTax"])
	assert.NotContains(t, decoded, "gst")
}

func TestCSVFormatterGST(t *testing.T) {
	out, err := CSVFormatter{}.Format(gstReport(t))
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"section", "item", "rate_percent", "amount"}, rows[0])
	assert.Equal(t, []string{"gst", "cgst", "9", "900.00"}, rows[2])
	assert.Equal(t, []string{"gst", "total", "", "11800.00"}, rows[5])
}

func TestCSVFormatterFilingSummary(t *testing.T) {
	out, err := CSVFormatter{}.Format(filingReport(t))
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"line_item", "salaryIncome", "", "1000000.00"}, rows[1])
	last := rows[len(rows)-1]
	assert.Equal(t, []string{"summary", "refund_or_credit_due", "", "7600.00"}, last)
}
