package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/similarity"
)

// RenderPnlMarkdown renders a wallet P&L summary as Markdown string.
func RenderPnlMarkdown(s *domain.WalletPnlSummary) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Wallet P&L Report\n\n")
	sb.WriteString(fmt.Sprintf("Wallet: `%s`\n\n", s.WalletAddress))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Unix(s.GeneratedAt, 0).UTC().Format(time.RFC3339)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Mints Traded | %d |\n", s.MintsTraded))
	sb.WriteString(fmt.Sprintf("| Profitable Mints | %d |\n", s.ProfitableMints))
	sb.WriteString(fmt.Sprintf("| Attributed Legs | %d |\n", s.LegCount))
	sb.WriteString(fmt.Sprintf("| Realized SOL P&L | %.6f |\n", s.TotalSolPnl))
	sb.WriteString(fmt.Sprintf("| Realized USDC P&L | %.6f |\n", s.TotalUsdcPnl))
	sb.WriteString("\n")

	// Positions
	sb.WriteString("## Positions\n\n")
	if len(s.Positions) > 0 {
		sb.WriteString("| Mint | In | Out | Net | SOL P&L | USDC P&L | Legs |\n")
		sb.WriteString("|------|----|----|-----|---------|----------|------|\n")
		for _, p := range s.Positions {
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %.6f | %.6f | %d |\n",
				p.Mint, p.AmountIn, p.AmountOut, p.NetAmount(),
				p.RealizedSolPnl(), p.RealizedUsdcPnl(), p.LegCount))
		}
	} else {
		sb.WriteString("No positions found.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderStatsMarkdown renders mapping stats as Markdown string.
func RenderStatsMarkdown(wallet string, stats *domain.MappingStats) string {
	var sb strings.Builder

	sb.WriteString("# Mapping Report\n\n")
	sb.WriteString(fmt.Sprintf("Wallet: `%s`\n\n", wallet))

	sb.WriteString("## Transactions\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Received | %d |\n", stats.TransactionsReceived))
	sb.WriteString(fmt.Sprintf("| Mapped | %d |\n", stats.TransactionsMapped))
	sb.WriteString(fmt.Sprintf("| Failed | %d |\n", stats.TransactionsFailed))
	sb.WriteString(fmt.Sprintf("| Errored | %d |\n", stats.TransactionsErrored))
	sb.WriteString(fmt.Sprintf("| Liquidity Skips | %d |\n", stats.LiquiditySkips))
	sb.WriteString("\n")

	sb.WriteString("## Attribution Tiers\n\n")
	if len(stats.TierHits) > 0 {
		sb.WriteString("| Tier | Legs |\n")
		sb.WriteString("|------|------|\n")
		tiers := make([]string, 0, len(stats.TierHits))
		for tier := range stats.TierHits {
			tiers = append(tiers, string(tier))
		}
		sort.Strings(tiers)
		for _, tier := range tiers {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", tier, stats.TierHits[domain.AttributionTier(tier)]))
		}
	} else {
		sb.WriteString("No token legs attributed.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Filtering\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Duplicates Suppressed | %d |\n", stats.DuplicatesSuppressed))
	sb.WriteString(fmt.Sprintf("| Redistributed Groups | %d |\n", stats.RedistributedGroups))
	sb.WriteString(fmt.Sprintf("| Ambiguous Event Matches | %d |\n", stats.AmbiguousEventMatches))
	sb.WriteString(fmt.Sprintf("| WSOL Rows Dropped | %d |\n", stats.WsolRowsDropped))
	sb.WriteString(fmt.Sprintf("| Dust Rows Dropped | %d |\n", stats.DustRowsDropped))
	sb.WriteString(fmt.Sprintf("| Low Value Dropped | %d |\n", stats.LowValueDropped))
	sb.WriteString("\n")

	return sb.String()
}

// RenderSimilarityMarkdown renders pairwise wallet scores as Markdown string.
func RenderSimilarityMarkdown(scores []similarity.Score) string {
	var sb strings.Builder

	sb.WriteString("# Wallet Similarity Report\n\n")

	if len(scores) > 0 {
		sb.WriteString("| Wallet A | Wallet B | Token Overlap | Allocation Cosine | Shared Mints |\n")
		sb.WriteString("|----------|----------|---------------|-------------------|-------------|\n")
		for _, s := range scores {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.4f | %.4f | %d |\n",
				s.WalletA, s.WalletB, s.TokenOverlap, s.AllocationCosine, len(s.SharedMints)))
		}
	} else {
		sb.WriteString("No wallet pairs compared.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
