package mapper

import "solana-wallet-lens/internal/domain"

// redistributeGroups spreads each (mint, direction) group's total value
// across its legs in proportion to token amount. Legs whose amount is
// fee-sized relative to the group's largest leg are remnants: they take
// zero value and are excluded from the proration base, with the remnant
// total recorded on the group's largest leg. The group total is conserved
// exactly because every non-remnant leg is priced at the same rate.
func (m *Mapper) redistributeGroups(legs []*domain.AttributedLeg, stats *domain.MappingStats) {
	groups := make(map[groupKey][]*domain.AttributedLeg)
	var order []groupKey

	for _, leg := range legs {
		if leg.IsReferenceCurrency() || leg.IsStablecoin() {
			continue
		}
		key := groupKey{leg.Mint, leg.Direction}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], leg)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		var largest *domain.AttributedLeg
		for _, leg := range group {
			if largest == nil || leg.Amount > largest.Amount {
				largest = leg
			}
		}

		var base, remnantAmount float64
		var totalSol, totalUsdc float64
		remnant := make(map[*domain.AttributedLeg]bool, len(group))
		for _, leg := range group {
			totalSol += leg.AssociatedSolValue
			totalUsdc += leg.AssociatedUsdcValue
			if leg.Amount < largest.Amount && leg.Amount < largest.Amount*m.cfg.SmallFeeRatio {
				remnant[leg] = true
				remnantAmount += leg.Amount
			} else {
				base += leg.Amount
			}
		}

		if totalSol == 0 && totalUsdc == 0 {
			continue
		}
		if base == 0 {
			// Degenerate group: every leg is fee-sized. Leave values as
			// the dedup guard placed them rather than divide by zero.
			stats.ZeroBaseGroups++
			continue
		}

		solRate := totalSol / base
		usdcRate := totalUsdc / base
		for _, leg := range group {
			if remnant[leg] {
				leg.AssociatedSolValue = 0
				leg.AssociatedUsdcValue = 0
				continue
			}
			leg.AssociatedSolValue = leg.Amount * solRate
			leg.AssociatedUsdcValue = leg.Amount * usdcRate
		}
		stats.RedistributedGroups++

		if remnantAmount > 0 {
			pct := remnantAmount / (base + remnantAmount) * 100
			amt := remnantAmount
			largest.FeeAmount = &amt
			largest.FeePercentage = &pct
		}
	}
}
