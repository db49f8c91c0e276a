package reporting

import (
	"fmt"
	"strings"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/similarity"
)

// RenderPositionsCSV renders per-mint positions as CSV string.
func RenderPositionsCSV(positions []*domain.MintPosition) string {
	var sb strings.Builder

	// Header
	sb.WriteString("wallet_address,mint,amount_in,amount_out,net_amount,")
	sb.WriteString("sol_spent,sol_received,sol_pnl,usdc_spent,usdc_received,usdc_pnl,")
	sb.WriteString("leg_count,first_activity,last_activity\n")

	// Rows
	for _, p := range positions {
		sb.WriteString(fmt.Sprintf("%s,%s,%.9f,%.9f,%.9f,%.9f,%.9f,%.9f,%.6f,%.6f,%.6f,%d,%d,%d\n",
			p.WalletAddress,
			p.Mint,
			p.AmountIn,
			p.AmountOut,
			p.NetAmount(),
			p.SolSpent,
			p.SolReceived,
			p.RealizedSolPnl(),
			p.UsdcSpent,
			p.UsdcReceived,
			p.RealizedUsdcPnl(),
			p.LegCount,
			p.FirstActivity,
			p.LastActivity,
		))
	}

	return sb.String()
}

// RenderLegsCSV renders attributed legs as CSV string.
func RenderLegsCSV(legs []*domain.AttributedLeg) string {
	var sb strings.Builder

	sb.WriteString("wallet_address,signature,timestamp,mint,amount,direction,")
	sb.WriteString("associated_sol_value,associated_usdc_value,interaction_type,tier,")
	sb.WriteString("fee_amount,fee_percentage,from_account,to_account\n")

	for _, l := range legs {
		feeAmount, feePct := "", ""
		if l.FeeAmount != nil {
			feeAmount = fmt.Sprintf("%.9f", *l.FeeAmount)
		}
		if l.FeePercentage != nil {
			feePct = fmt.Sprintf("%.4f", *l.FeePercentage)
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%s,%.9f,%s,%.9f,%.6f,%s,%s,%s,%s,%s,%s\n",
			l.WalletAddress,
			l.Signature,
			l.Timestamp,
			l.Mint,
			l.Amount,
			l.Direction,
			l.AssociatedSolValue,
			l.AssociatedUsdcValue,
			l.InteractionType,
			l.Tier,
			feeAmount,
			feePct,
			l.FromAccount,
			l.ToAccount,
		))
	}

	return sb.String()
}

// RenderSimilarityCSV renders pairwise wallet scores as CSV string.
func RenderSimilarityCSV(scores []similarity.Score) string {
	var sb strings.Builder

	sb.WriteString("wallet_a,wallet_b,token_overlap,allocation_cosine,shared_mints\n")

	for _, s := range scores {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%.6f,%s\n",
			s.WalletA,
			s.WalletB,
			s.TokenOverlap,
			s.AllocationCosine,
			strings.Join(s.SharedMints, ";"),
		))
	}

	return sb.String()
}
