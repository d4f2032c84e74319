package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

func TestComputeGSTExclusive(t *testing.T) {
	bd, err := ComputeGST(money.NewMoneyFromInt(100000), decimal.NewFromInt(18), domain.GSTExclusive)
	require.NoError(t, err)

	assert.True(t, bd.BaseAmount.Equal(money.NewMoneyFromInt(100000)))
	assert.True(t, bd.GSTAmount.Equal(money.NewMoneyFromInt(18000)))
	assert.True(t, bd.CGST.Equal(money.NewMoneyFromInt(9000)))
	assert.True(t, bd.SGST.Equal(money.NewMoneyFromInt(9000)))
	assert.True(t, bd.TotalAmount.Equal(money.NewMoneyFromInt(118000)))
}

func TestComputeGSTInclusive(t *testing.T) {
	bd, err := ComputeGST(money.NewMoneyFromInt(118000), decimal.NewFromInt(18), domain.GSTInclusive)
	require.NoError(t, err)

	assert.Equal(t, "100000.00", bd.BaseAmount.String())
	assert.Equal(t, "18000.00", bd.GSTAmount.String())
	assert.True(t, bd.TotalAmount.Equal(money.NewMoneyFromInt(118000)))
}

func TestComputeGSTZeroRate(t *testing.T) {
	for _, mode := range []domain.GSTMode{domain.GSTExclusive, domain.GSTInclusive} {
		bd, err := ComputeGST(money.NewMoneyFromInt(5000), decimal.Zero, mode)
		require.NoError(t, err)
		assert.True(t, bd.GSTAmount.IsZero())
		assert.True(t, bd.BaseAmount.Equal(money.NewMoneyFromInt(5000)))
	}
}

func TestComputeGSTRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		amount money.Money
		rate   decimal.Decimal
		mode   domain.GSTMode
	}{
		{"negative amount", money.NewMoneyFromInt(-1), decimal.NewFromInt(18), domain.GSTExclusive},
		{"negative rate", money.NewMoneyFromInt(1), decimal.NewFromInt(-5), domain.GSTExclusive},
		{"rate above hundred", money.NewMoneyFromInt(1), decimal.NewFromInt(101), domain.GSTInclusive},
		{"unknown mode", money.NewMoneyFromInt(1), decimal.NewFromInt(5), domain.GSTMode("reverse")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeGST(tt.amount, tt.rate, tt.mode)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestGSTRoundTripAndSplit(t *testing.T) {
	amounts := []string{"0", "0.01", "1", "99.99", "100000", "123456.78", "9999999.99"}
	rates := []string{"0", "0.25", "3", "5", "12", "18", "28", "100"}

	for _, a := range amounts {
		for _, r := range rates {
			x := money.MustMoney(a)
			rate := decimal.RequireFromString(r)

			excl, err := ComputeGST(x, rate, domain.GSTExclusive)
			require.NoError(t, err)
			assert.True(t, excl.CGST.Add(excl.SGST).Equal(excl.GSTAmount), "split %s@%s", a, r)

			incl, err := ComputeGST(excl.TotalAmount, rate, domain.GSTInclusive)
			require.NoError(t, err)
			assert.True(t, incl.CGST.Add(incl.SGST).Equal(incl.GSTAmount), "split incl %s@%s", a, r)
			assert.True(t, incl.BaseAmount.Round().Equal(x.Round()), "round trip %s@%s: %s", a, r, incl.BaseAmount)
		}
	}
}
