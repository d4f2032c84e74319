package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxportal/filing-engine/internal/calculation"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

func derived(t *testing.T, rec *domain.FilingRecord) *domain.FilingRecord {
	t.Helper()
	d, err := calculation.NewEngine(nil, nil).Derive(rec)
	require.NoError(t, err)
	rec.Derived = d
	return rec
}

func fixedGenerator() *Generator {
	return &Generator{Now: func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }}
}

func TestGenerateITRSheet(t *testing.T) {
	rec := derived(t, &domain.FilingRecord{
		ID:        "itr-1",
		Kind:      domain.KindITR,
		Status:    domain.StatusFiled,
		PeriodKey: "2025-26",
		ITR:       &domain.ITRDetails{PAN: "ABCDE1234F", FullName: "Asha Rao", Regime: domain.RegimeOld},
		LineItems: domain.LineItems{
			domain.ItemSalaryIncome: money.NewMoneyFromInt(1250000),
			domain.ItemSection80C:   money.NewMoneyFromInt(150000),
			domain.ItemTDSDeducted:  money.NewMoneyFromInt(120000),
		},
		AcknowledgmentNo: "ITR-123",
	})

	var buf bytes.Buffer
	require.NoError(t, fixedGenerator().Generate(context.Background(), rec, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestGenerateGSTSheet(t *testing.T) {
	rec := derived(t, &domain.FilingRecord{
		ID:        "gst-1",
		Kind:      domain.KindGST,
		Status:    domain.StatusDraft,
		PeriodKey: "2025-04",
		GST:       &domain.GSTDetails{GSTIN: "27ABCDE1234F1Z5", TradeName: "Acme Traders", ReturnType: domain.ReturnGSTR3B, RatePercent: decimal.NewFromInt(12)},
		LineItems: domain.LineItems{domain.ItemITCIGST: money.NewMoneyFromInt(900)},
	})

	var buf bytes.Buffer
	require.NoError(t, NewGenerator().Generate(context.Background(), rec, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerateHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := fixedGenerator().Generate(ctx, &domain.FilingRecord{Kind: domain.KindITR}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
