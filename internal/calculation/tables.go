package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// DefaultTables returns the built-in slab tables used when no table file is
// configured. Both apply from assessment year 2024-25 with no end.
func DefaultTables() domain.RegimeTables {
	return domain.RegimeTables{
		{
			Regime:        domain.RegimeNew,
			Version:       "builtin-new-2024",
			EffectiveFrom: "2024-25",
			CessPercent:   decimal.NewFromInt(4),
			Brackets: []domain.Bracket{
				slab(300000, 0),
				slab(600000, 5),
				slab(900000, 10),
				slab(1200000, 15),
				slab(1500000, 20),
				{RatePercent: decimal.NewFromInt(30)},
			},
		},
		{
			Regime:        domain.RegimeOld,
			Version:       "builtin-old-2024",
			EffectiveFrom: "2024-25",
			CessPercent:   decimal.NewFromInt(4),
			Brackets: []domain.Bracket{
				slab(250000, 0),
				slab(500000, 5),
				slab(1000000, 20),
				{RatePercent: decimal.NewFromInt(30)},
			},
			DeductionLimits: map[string]money.Money{
				domain.ItemSection80C:     money.NewMoneyFromInt(150000),
				domain.ItemSection80CCD1B: money.NewMoneyFromInt(50000),
				domain.ItemSection80D:     money.NewMoneyFromInt(25000),
				domain.ItemSection24b:     money.NewMoneyFromInt(200000),
				domain.ItemSection80TTA:   money.NewMoneyFromInt(10000),
			},
		},
	}
}

func slab(upTo, ratePercent int64) domain.Bracket {
	limit := money.NewMoneyFromInt(upTo)
	return domain.Bracket{UpTo: &limit, RatePercent: decimal.NewFromInt(ratePercent)}
}
