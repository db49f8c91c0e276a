// Package pnl builds per-mint position ledgers and wallet summaries from
// attributed legs. Values are realized only: tokens still held carry no
// mark-to-market component.
package pnl

import (
	"sort"
	"time"

	"solana-wallet-lens/internal/domain"
)

// BuildPositions folds a wallet's attributed legs into per-mint positions,
// sorted by mint. Reference-currency and stablecoin legs are the pricing
// side of other legs and never form positions themselves.
func BuildPositions(wallet string, legs []*domain.AttributedLeg) []*domain.MintPosition {
	byMint := make(map[string]*domain.MintPosition)

	for _, leg := range legs {
		if leg == nil || leg.IsReferenceCurrency() || leg.IsStablecoin() {
			continue
		}

		p, ok := byMint[leg.Mint]
		if !ok {
			p = &domain.MintPosition{
				WalletAddress: wallet,
				Mint:          leg.Mint,
				FirstActivity: leg.Timestamp,
				LastActivity:  leg.Timestamp,
			}
			byMint[leg.Mint] = p
		}

		switch leg.Direction {
		case domain.DirectionIn:
			p.AmountIn += leg.Amount
			p.SolSpent += leg.AssociatedSolValue
			p.UsdcSpent += leg.AssociatedUsdcValue
		case domain.DirectionOut:
			p.AmountOut += leg.Amount
			p.SolReceived += leg.AssociatedSolValue
			p.UsdcReceived += leg.AssociatedUsdcValue
		default:
			continue
		}
		p.LegCount++

		if leg.Timestamp < p.FirstActivity {
			p.FirstActivity = leg.Timestamp
		}
		if leg.Timestamp > p.LastActivity {
			p.LastActivity = leg.Timestamp
		}
	}

	positions := make([]*domain.MintPosition, 0, len(byMint))
	for _, p := range byMint {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Mint < positions[j].Mint
	})
	return positions
}

// BuildSummary aggregates positions into a wallet summary. A mint counts
// as profitable when either realized denomination is positive.
func BuildSummary(wallet string, positions []*domain.MintPosition) *domain.WalletPnlSummary {
	summary := &domain.WalletPnlSummary{
		WalletAddress: wallet,
		Positions:     positions,
		MintsTraded:   len(positions),
		GeneratedAt:   time.Now().Unix(),
	}

	for _, p := range positions {
		summary.TotalSolPnl += p.RealizedSolPnl()
		summary.TotalUsdcPnl += p.RealizedUsdcPnl()
		summary.LegCount += p.LegCount
		if p.RealizedSolPnl() > 0 || p.RealizedUsdcPnl() > 0 {
			summary.ProfitableMints++
		}
	}
	return summary
}
