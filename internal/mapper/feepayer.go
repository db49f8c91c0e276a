package mapper

import (
	"math"

	"solana-wallet-lens/internal/domain"
)

// reattributeFeePayerSwap handles the relayer pattern: the wallet is the
// transaction's declared fee payer, a swap event is present, but none of
// the swap's token legs belong to the wallet. The swap's token flow is
// recorded against the wallet anyway under a distinct interaction tag.
//
// The caller verifies the firing conditions; this function returns nil
// when no significant representative value can be found.
func (m *Mapper) reattributeFeePayerSwap(tx *domain.HeliusTransaction, wallet string) []*domain.AttributedLeg {
	swap := tx.Events.Swap
	if swap == nil {
		return nil
	}

	solValue, usdcValue := representativeSwapValue(swap, m.cfg)
	if solValue == 0 && usdcValue == 0 {
		return nil
	}

	makeLeg := func(amount SwapTokenView, dir domain.Direction) *domain.AttributedLeg {
		leg := &domain.AttributedLeg{
			WalletAddress:   wallet,
			Signature:       tx.Signature,
			Timestamp:       tx.Timestamp,
			Mint:            amount.Mint,
			Amount:          amount.Amount,
			Direction:       dir,
			InteractionType: domain.InteractionTypeFeePayerSwap,
			Tier:            domain.TierEventMatch,
			FromAccount:     amount.From,
			ToAccount:       amount.To,
		}
		if solValue > 0 {
			leg.AssociatedSolValue = solValue
		} else {
			leg.AssociatedUsdcValue = usdcValue
		}
		return leg
	}

	var legs []*domain.AttributedLeg
	for _, in := range swap.TokenInputs {
		view, ok := swapTokenView(in, wallet)
		if !ok {
			continue
		}
		legs = append(legs, makeLeg(view, domain.DirectionOut))
	}
	for _, out := range swap.TokenOutputs {
		view, ok := swapTokenView(out, wallet)
		if !ok {
			continue
		}
		legs = append(legs, makeLeg(view, domain.DirectionIn))
	}
	if len(legs) == 0 {
		return nil
	}

	m.log.WithFields(map[string]interface{}{
		"signature": tx.Signature,
		"legs":      len(legs),
		"sol":       solValue,
		"usdc":      usdcValue,
	}).Debug("fee-payer swap reattributed")

	return legs
}

// SwapTokenView is a flattened token side of a swap event.
type SwapTokenView struct {
	Mint   string
	Amount float64
	From   string
	To     string
}

// swapTokenView filters out reference/stablecoin sides (they are the price,
// not a position) and legs already owned by the wallet.
func swapTokenView(t domain.SwapTokenAmount, wallet string) (SwapTokenView, bool) {
	if t.Mint == domain.WSOLMint || t.Mint == domain.USDCMint {
		return SwapTokenView{}, false
	}
	if t.UserAccount == wallet {
		return SwapTokenView{}, false
	}
	amount := math.Abs(t.RawTokenAmount.UIAmount())
	if amount == 0 {
		return SwapTokenView{}, false
	}
	return SwapTokenView{Mint: t.Mint, Amount: amount, From: t.UserAccount, To: t.TokenAccount}, true
}

// representativeSwapValue scans the event for the swap's economic size, in
// order of preference: top-level outputs, top-level inputs, inner-swap
// legs. Within each stage the largest amount clearing its significance
// floor wins; SOL is preferred over USDC when both clear.
func representativeSwapValue(swap *domain.SwapEvent, cfg Config) (sol, usdc float64) {
	stageSol := func(native *domain.NativeSwapAmount, tokens []domain.SwapTokenAmount) float64 {
		best := native.SOL()
		for _, t := range tokens {
			if t.Mint != domain.WSOLMint {
				continue
			}
			if v := math.Abs(t.RawTokenAmount.UIAmount()); v > best {
				best = v
			}
		}
		return best
	}
	stageUsdc := func(tokens []domain.SwapTokenAmount) float64 {
		var best float64
		for _, t := range tokens {
			if t.Mint != domain.USDCMint {
				continue
			}
			if v := math.Abs(t.RawTokenAmount.UIAmount()); v > best {
				best = v
			}
		}
		return best
	}

	// Outputs, then inputs.
	for _, stage := range []struct {
		sol  float64
		usdc float64
	}{
		{stageSol(swap.NativeOutput, swap.TokenOutputs), stageUsdc(swap.TokenOutputs)},
		{stageSol(swap.NativeInput, swap.TokenInputs), stageUsdc(swap.TokenInputs)},
	} {
		if stage.sol >= cfg.FeePayerSolFloor {
			return stage.sol, 0
		}
		if stage.usdc >= cfg.FeePayerUsdcFloor {
			return 0, stage.usdc
		}
	}

	// Inner-swap legs last.
	var bestSol, bestUsdc float64
	for i := range swap.InnerSwaps {
		inner := &swap.InnerSwaps[i]
		for _, transfers := range [][]domain.TokenTransfer{inner.TokenInputs, inner.TokenOutputs} {
			for _, t := range transfers {
				amount := math.Abs(t.TokenAmount)
				switch t.Mint {
				case domain.WSOLMint:
					if amount > bestSol {
						bestSol = amount
					}
				case domain.USDCMint:
					if amount > bestUsdc {
						bestUsdc = amount
					}
				}
			}
		}
	}
	if bestSol >= cfg.FeePayerSolFloor {
		return bestSol, 0
	}
	if bestUsdc >= cfg.FeePayerUsdcFloor {
		return 0, bestUsdc
	}
	return 0, 0
}
