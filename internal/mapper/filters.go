package mapper

import "solana-wallet-lens/internal/domain"

type sigMintKey struct {
	signature string
	mint      string
}

// applyPostFilters runs the batch-level cleanup passes over mapped legs:
//
//  1. Reference-currency legs are dropped from transactions that produced
//     a token leg; there the SOL movement is already captured as the token
//     legs' value, and keeping both would double-count.
//  2. Dust-sized reference legs of plain transfers are dropped.
//  3. Token legs whose whole (signature, mint) group never cleared either
//     value minimum are dropped as spam/airdrop noise. Zero-valued legs
//     inside a group with a valued sibling survive on that sibling's value.
func (m *Mapper) applyPostFilters(legs []*domain.AttributedLeg, stats *domain.MappingStats) []*domain.AttributedLeg {
	sigHasToken := make(map[string]bool)
	groupMaxSol := make(map[sigMintKey]float64)
	groupMaxUsdc := make(map[sigMintKey]float64)

	for _, leg := range legs {
		if !leg.IsReferenceCurrency() {
			sigHasToken[leg.Signature] = true
		}
		if leg.IsReferenceCurrency() || leg.IsStablecoin() {
			continue
		}
		key := sigMintKey{leg.Signature, leg.Mint}
		if leg.AssociatedSolValue > groupMaxSol[key] {
			groupMaxSol[key] = leg.AssociatedSolValue
		}
		if leg.AssociatedUsdcValue > groupMaxUsdc[key] {
			groupMaxUsdc[key] = leg.AssociatedUsdcValue
		}
	}

	kept := legs[:0]
	for _, leg := range legs {
		if leg.IsReferenceCurrency() {
			if sigHasToken[leg.Signature] {
				stats.WsolRowsDropped++
				continue
			}
			if leg.InteractionType == "TRANSFER" && leg.Amount < m.cfg.NativeDustThreshold {
				stats.DustRowsDropped++
				continue
			}
			kept = append(kept, leg)
			continue
		}
		if !leg.IsStablecoin() {
			key := sigMintKey{leg.Signature, leg.Mint}
			if groupMaxSol[key] < m.cfg.MinSolValue && groupMaxUsdc[key] < m.cfg.MinUsdcValue {
				stats.LowValueDropped++
				continue
			}
		}
		kept = append(kept, leg)
	}
	return kept
}
