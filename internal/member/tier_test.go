package member

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testThresholds() TierThresholds {
	return TierThresholds{
		Silver:  decimal.NewFromInt(5000000),
		Gold:    decimal.NewFromInt(20000000),
		Diamond: decimal.NewFromInt(50000000),
	}
}

func TestTierForThresholds(t *testing.T) {
	th := testThresholds()

	cases := []struct {
		name  string
		spent int64
		want  Tier
	}{
		{"below silver", 4999999, TierStandard},
		{"exactly silver", 5000000, TierSilver},
		{"between silver and gold", 19999999, TierSilver},
		{"exactly gold", 20000000, TierGold},
		{"exactly diamond", 50000000, TierDiamond},
		{"far above diamond", 999999999, TierDiamond},
		{"zero spend", 0, TierStandard},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TierFor(decimal.NewFromInt(tc.spent), TierStandard, th)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTierForNeverDowngrades(t *testing.T) {
	th := testThresholds()

	// A refund can drag TotalSpent back under a threshold; the stored tier
	// stays where it is.
	got := TierFor(decimal.NewFromInt(1000), TierGold, th)
	assert.Equal(t, TierGold, got)

	got = TierFor(decimal.Zero, TierDiamond, th)
	assert.Equal(t, TierDiamond, got)
}

func TestTierForUpgradesPastCurrent(t *testing.T) {
	th := testThresholds()

	got := TierFor(decimal.NewFromInt(50000000), TierSilver, th)
	assert.Equal(t, TierDiamond, got)
}
