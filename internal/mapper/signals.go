package mapper

import (
	"math"

	"solana-wallet-lens/internal/domain"
)

// txSignals are transaction-wide aggregates computed once and consumed by
// several heuristics.
type txSignals struct {
	// netSol is the wallet's net SOL change: native balance delta plus its
	// WSOL token balance delta (the reference currency surfaces either way
	// depending on wrapping).
	netSol float64

	// netUsdc is the wallet's net USDC token balance delta.
	netUsdc float64

	// WSOL movement across all token transfers of the transaction,
	// regardless of party.
	wsolTotal   float64
	wsolLargest float64

	usdcTotal   float64
	usdcLargest float64

	// Per-mint largest single transfer and transfer count, used to spot
	// fee-sized chunks.
	largestByMint map[string]float64
	countByMint   map[string]int
}

func computeSignals(tx *domain.HeliusTransaction, wallet string) *txSignals {
	sig := &txSignals{
		largestByMint: make(map[string]float64),
		countByMint:   make(map[string]int),
	}

	for _, ad := range tx.AccountData {
		if ad.Account == wallet {
			sig.netSol += float64(ad.NativeBalanceChange) / domain.LamportsPerSOL
		}
		for _, tbc := range ad.TokenBalanceChanges {
			if tbc.UserAccount != wallet {
				continue
			}
			switch tbc.Mint {
			case domain.WSOLMint:
				sig.netSol += tbc.RawTokenAmount.UIAmount()
			case domain.USDCMint:
				sig.netUsdc += tbc.RawTokenAmount.UIAmount()
			}
		}
	}

	for _, tt := range tx.TokenTransfers {
		amount := math.Abs(tt.TokenAmount)
		if amount == 0 {
			continue
		}
		sig.countByMint[tt.Mint]++
		if amount > sig.largestByMint[tt.Mint] {
			sig.largestByMint[tt.Mint] = amount
		}
		switch tt.Mint {
		case domain.WSOLMint:
			sig.wsolTotal += amount
			if amount > sig.wsolLargest {
				sig.wsolLargest = amount
			}
		case domain.USDCMint:
			sig.usdcTotal += amount
			if amount > sig.usdcLargest {
				sig.usdcLargest = amount
			}
		}
	}

	return sig
}
