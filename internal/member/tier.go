package member

import "github.com/shopspring/decimal"

// TierThresholds holds the cumulative-spend boundaries for tier upgrades.
// Values come from configuration, not code.
type TierThresholds struct {
	Silver  decimal.Decimal
	Gold    decimal.Decimal
	Diamond decimal.Decimal
}

// TierFor maps cumulative spend to a tier, evaluated highest-first, and never
// returns a tier below current: membership only upgrades. Refunds shrink
// TotalSpent but the watermark holds.
func TierFor(totalSpent decimal.Decimal, current Tier, th TierThresholds) Tier {
	computed := TierStandard
	switch {
	case totalSpent.GreaterThanOrEqual(th.Diamond):
		computed = TierDiamond
	case totalSpent.GreaterThanOrEqual(th.Gold):
		computed = TierGold
	case totalSpent.GreaterThanOrEqual(th.Silver):
		computed = TierSilver
	}
	if computed < current {
		return current
	}
	return computed
}
