package mapper

import (
	"math"

	"solana-wallet-lens/internal/domain"
)

// eventMatch is the cross-validator's result: the one intermediary value
// that consistently links the wallet's primary outgoing token to its
// primary incoming token across the event's inner swaps.
type eventMatch struct {
	found      bool
	ambiguous  bool
	primaryOut string
	primaryIn  string
	value      float64
	stable     bool // value denominated in USDC rather than SOL
}

// matchSwapEvent scans a structured swap event with inner swaps. It
// identifies the wallet's primary out/in mints from the top-level token
// transfers, then checks that the amount obtained selling the primary-out
// mint agrees with the amount spent buying the primary-in mint, per
// currency. Exactly one agreeing currency wins; two disagreeing ones are
// ambiguous and resolve to "not found".
func (m *Mapper) matchSwapEvent(tx *domain.HeliusTransaction, owned map[string]struct{}) eventMatch {
	swap := tx.Events.Swap
	if swap == nil || len(swap.InnerSwaps) == 0 {
		return eventMatch{}
	}

	primaryOut, primaryIn := primaryMints(tx, owned)
	if primaryOut == "" || primaryIn == "" {
		return eventMatch{}
	}

	floor := m.cfg.EventSignificanceFloor
	var solObtained, usdcObtained float64 // selling primaryOut
	var solSpent, usdcSpent float64       // buying primaryIn

	for i := range swap.InnerSwaps {
		inner := &swap.InnerSwaps[i]
		if innerTouchesMint(inner.TokenInputs, primaryOut) {
			for _, out := range inner.TokenOutputs {
				amount := math.Abs(out.TokenAmount)
				if amount < floor {
					continue
				}
				switch out.Mint {
				case domain.WSOLMint:
					solObtained += amount
				case domain.USDCMint:
					usdcObtained += amount
				}
			}
		}
		if innerTouchesMint(inner.TokenOutputs, primaryIn) {
			for _, in := range inner.TokenInputs {
				amount := math.Abs(in.TokenAmount)
				if amount < floor {
					continue
				}
				switch in.Mint {
				case domain.WSOLMint:
					solSpent += amount
				case domain.USDCMint:
					usdcSpent += amount
				}
			}
		}
	}

	solConsistent := agreeWithin(solObtained, solSpent, floor, m.cfg.EventMatchTolerance)
	usdcConsistent := agreeWithin(usdcObtained, usdcSpent, floor, m.cfg.EventMatchTolerance)

	switch {
	case solConsistent && usdcConsistent:
		// Two internally consistent but competing denominations; log and
		// let the cascade fall through rather than guess.
		m.log.WithFields(map[string]interface{}{
			"signature": tx.Signature,
			"sol":       solObtained,
			"usdc":      usdcObtained,
		}).Warn("ambiguous swap event match: SOL and USDC both consistent")
		return eventMatch{ambiguous: true, primaryOut: primaryOut, primaryIn: primaryIn}
	case solConsistent:
		return eventMatch{found: true, primaryOut: primaryOut, primaryIn: primaryIn, value: solObtained}
	case usdcConsistent:
		return eventMatch{found: true, primaryOut: primaryOut, primaryIn: primaryIn, value: usdcObtained, stable: true}
	default:
		return eventMatch{}
	}
}

// primaryMints finds the mint moving exclusively out of the wallet's token
// accounts and the mint moving exclusively into them, scanning top-level
// token transfers. Reference and stablecoin mints never qualify.
func primaryMints(tx *domain.HeliusTransaction, owned map[string]struct{}) (primaryOut, primaryIn string) {
	movesOut := make(map[string]bool)
	movesIn := make(map[string]bool)
	var order []string

	for _, tt := range tx.TokenTransfers {
		if tt.Mint == domain.WSOLMint || tt.Mint == domain.USDCMint {
			continue
		}
		fromOwned := isOwned(owned, tt.FromUserAccount, tt.FromTokenAccount)
		toOwned := isOwned(owned, tt.ToUserAccount, tt.ToTokenAccount)
		if !fromOwned && !toOwned {
			continue
		}
		if _, seen := movesOut[tt.Mint]; !seen {
			if _, seen := movesIn[tt.Mint]; !seen {
				order = append(order, tt.Mint)
			}
		}
		if fromOwned {
			movesOut[tt.Mint] = true
		}
		if toOwned {
			movesIn[tt.Mint] = true
		}
	}

	for _, mint := range order {
		if movesOut[mint] && !movesIn[mint] && primaryOut == "" {
			primaryOut = mint
		}
		if movesIn[mint] && !movesOut[mint] && primaryIn == "" {
			primaryIn = mint
		}
	}
	return primaryOut, primaryIn
}

func innerTouchesMint(transfers []domain.TokenTransfer, mint string) bool {
	for _, t := range transfers {
		if t.Mint == mint {
			return true
		}
	}
	return false
}

// agreeWithin reports whether a and b are both significant and within the
// relative tolerance of each other.
func agreeWithin(a, b, floor, tolerance float64) bool {
	if a < floor || b < floor {
		return false
	}
	return math.Abs(a-b)/math.Max(a, b) <= tolerance
}
