package mapper

import (
	"math"

	"solana-wallet-lens/internal/domain"
)

// indirectSwap is the detector's verdict for one transaction. When
// detected, value is the single largest WSOL transfer observed: the one
// real intermediary hop, with smaller WSOL chunks assumed to be fee skims.
type indirectSwap struct {
	detected bool
	value    float64 // SOL
}

// detectIndirectSwap classifies a token-for-token swap routed through the
// reference currency as an invisible intermediary. Requirements: at least
// one non-WSOL mint moving out and one moving in, a positive largest WSOL
// transfer, and either a round-trip signature (|net SOL| within tolerance
// of twice the largest transfer) or a simple shape (few distinct mints per
// direction).
func detectIndirectSwap(legs []*domain.AttributedLeg, sig *txSignals, cfg Config) indirectSwap {
	outMints := make(map[string]struct{})
	inMints := make(map[string]struct{})
	for _, leg := range legs {
		if leg.Mint == domain.WSOLMint {
			continue
		}
		if leg.Direction == domain.DirectionOut {
			outMints[leg.Mint] = struct{}{}
		} else {
			inMints[leg.Mint] = struct{}{}
		}
	}

	if len(outMints) == 0 || len(inMints) == 0 {
		return indirectSwap{}
	}
	if sig.wsolLargest <= 0 {
		return indirectSwap{}
	}

	roundTrip := false
	if ratio := math.Abs(sig.netSol) / (2 * sig.wsolLargest); ratio >= 1-cfg.RoundTripTolerance && ratio <= 1+cfg.RoundTripTolerance {
		roundTrip = true
	}
	simpleSwap := len(outMints) <= cfg.SimpleSwapMaxMints && len(inMints) <= cfg.SimpleSwapMaxMints

	if !roundTrip && !simpleSwap {
		return indirectSwap{}
	}

	return indirectSwap{detected: true, value: sig.wsolLargest}
}
