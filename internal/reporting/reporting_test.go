package reporting

import (
	"strings"
	"testing"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/similarity"
)

func samplePositions() []*domain.MintPosition {
	return []*domain.MintPosition{
		{
			WalletAddress: "wallet-1",
			Mint:          "mint-A",
			AmountIn:      100,
			AmountOut:     40,
			SolSpent:      2,
			SolReceived:   5,
			LegCount:      3,
			FirstActivity: 1700000000,
			LastActivity:  1700000600,
		},
		{
			WalletAddress: "wallet-1",
			Mint:          "mint-B",
			AmountIn:      50,
			UsdcSpent:     120,
			LegCount:      1,
			FirstActivity: 1700000100,
			LastActivity:  1700000100,
		},
	}
}

func TestRenderPositionsCSV(t *testing.T) {
	out := RenderPositionsCSV(samplePositions())

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "wallet_address,mint,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	// Realized SOL pnl for mint-A is 5 - 2 = 3.
	if !strings.Contains(lines[1], "3.000000000") {
		t.Errorf("expected SOL pnl column in row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "mint-B") {
		t.Errorf("expected mint-B row, got: %s", lines[2])
	}
}

func TestRenderPositionsCSV_Empty(t *testing.T) {
	out := RenderPositionsCSV(nil)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 {
		t.Errorf("expected header only, got %d lines", len(lines))
	}
}

func TestRenderLegsCSV(t *testing.T) {
	fee := 0.1
	pct := 0.0999
	legs := []*domain.AttributedLeg{
		{
			WalletAddress:      "wallet-1",
			Signature:          "sig-1",
			Timestamp:          1700000000,
			Mint:               "mint-A",
			Amount:             100,
			Direction:          domain.DirectionOut,
			AssociatedSolValue: 4,
			InteractionType:    "SWAP",
			Tier:               domain.TierEventMatch,
			FeeAmount:          &fee,
			FeePercentage:      &pct,
			FromAccount:        "acct-from",
			ToAccount:          "acct-to",
		},
		{
			WalletAddress: "wallet-1",
			Signature:     "sig-2",
			Mint:          "mint-B",
			Amount:        10,
			Direction:     domain.DirectionIn,
			Tier:          domain.TierUnresolved,
		},
	}

	out := RenderLegsCSV(legs)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "EVENT_MATCH") || !strings.Contains(lines[1], "0.0999") {
		t.Errorf("expected tier and fee percentage in row: %s", lines[1])
	}
	// Nil fee pointers render as empty columns.
	if !strings.Contains(lines[2], "UNRESOLVED,,,") {
		t.Errorf("expected empty fee columns in row: %s", lines[2])
	}
}

func TestRenderPnlMarkdown(t *testing.T) {
	summary := &domain.WalletPnlSummary{
		WalletAddress:   "wallet-1",
		Positions:       samplePositions(),
		TotalSolPnl:     3,
		TotalUsdcPnl:    -120,
		MintsTraded:     2,
		ProfitableMints: 1,
		LegCount:        4,
		GeneratedAt:     1700000000,
	}

	out := RenderPnlMarkdown(summary)
	for _, want := range []string{
		"# Wallet P&L Report",
		"Wallet: `wallet-1`",
		"| Mints Traded | 2 |",
		"| Profitable Mints | 1 |",
		"| Realized SOL P&L | 3.000000 |",
		"| mint-A |",
		"| mint-B |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderPnlMarkdown_NoPositions(t *testing.T) {
	out := RenderPnlMarkdown(&domain.WalletPnlSummary{WalletAddress: "wallet-1"})
	if !strings.Contains(out, "No positions found.") {
		t.Error("expected empty-positions placeholder")
	}
}

func TestRenderStatsMarkdown(t *testing.T) {
	stats := domain.NewMappingStats()
	stats.TransactionsReceived = 10
	stats.TransactionsMapped = 8
	stats.TierHits[domain.TierIndirectSwap] = 5
	stats.TierHits[domain.TierUnresolved] = 2
	stats.RedistributedGroups = 1

	out := RenderStatsMarkdown("wallet-1", stats)
	for _, want := range []string{
		"| Received | 10 |",
		"| Mapped | 8 |",
		"| INDIRECT_SWAP | 5 |",
		"| UNRESOLVED | 2 |",
		"| Redistributed Groups | 1 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderSimilarityOutputs(t *testing.T) {
	scores := []similarity.Score{
		{
			WalletA:          "w1",
			WalletB:          "w2",
			TokenOverlap:     0.5,
			AllocationCosine: 0.8,
			SharedMints:      []string{"mint-A", "mint-B"},
		},
	}

	csvOut := RenderSimilarityCSV(scores)
	if !strings.Contains(csvOut, "w1,w2,0.500000,0.800000,mint-A;mint-B") {
		t.Errorf("unexpected CSV output: %s", csvOut)
	}

	mdOut := RenderSimilarityMarkdown(scores)
	if !strings.Contains(mdOut, "| w1 | w2 | 0.5000 | 0.8000 | 2 |") {
		t.Errorf("unexpected markdown output: %s", mdOut)
	}

	if !strings.Contains(RenderSimilarityMarkdown(nil), "No wallet pairs compared.") {
		t.Error("expected empty-scores placeholder")
	}
}
