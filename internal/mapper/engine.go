// Package mapper implements the value-attribution engine: given enriched
// transactions for one observed wallet, it reconstructs a SOL- or
// USDC-denominated economic value for every leg the wallet participated
// in, resolving each leg through a fixed cascade of heuristics and
// conserving value across split transfers.
package mapper

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"solana-wallet-lens/internal/domain"
)

// Mapper is the batch attribution engine. It holds configuration and a
// logger only; MapBatch performs no I/O and keeps no state between calls,
// so one Mapper may serve concurrent batches.
type Mapper struct {
	cfg Config
	log *logrus.Logger
}

// New creates a Mapper. A nil logger gets a default text logger.
func New(cfg Config, log *logrus.Logger) *Mapper {
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &Mapper{cfg: cfg, log: log}
}

type groupKey struct {
	mint      string
	direction domain.Direction
}

type legTuple struct {
	signature string
	mint      string
	direction domain.Direction
	from      string
	to        string
	amount    float64
}

// MapBatch attributes values for every transaction in arrival order and
// returns the surviving legs plus the batch statistics. Failures inside a
// single transaction discard that transaction's legs and continue; the
// only possible error is an invalid wallet address.
func (m *Mapper) MapBatch(wallet string, txs []*domain.HeliusTransaction) ([]*domain.AttributedLeg, *domain.MappingStats, error) {
	if !OwnerKeyOnCurve(wallet) {
		return nil, nil, fmt.Errorf("wallet address %q is not an on-curve ed25519 key", wallet)
	}

	stats := domain.NewMappingStats()
	legs := make([]*domain.AttributedLeg, 0, len(txs))

	for _, tx := range txs {
		stats.TransactionsReceived++
		if tx == nil || tx.Signature == "" {
			stats.TransactionsErrored++
			continue
		}
		if tx.Failed() {
			stats.TransactionsFailed++
			continue
		}

		txLegs, err := m.mapTransaction(wallet, tx, stats)
		if err != nil {
			stats.TransactionsErrored++
			m.log.WithFields(map[string]interface{}{
				"signature": tx.Signature,
				"err":       err,
			}).Warn("transaction discarded")
			continue
		}
		if txLegs == nil {
			continue // liquidity skip, already counted
		}

		stats.TransactionsMapped++
		stats.InteractionTypes[tx.Type]++
		legs = append(legs, txLegs...)
	}

	legs = m.applyPostFilters(legs, stats)
	return legs, stats, nil
}

// mapTransaction runs normalization, the heuristic cascade, the dedup
// guard and proportional redistribution for one transaction. A nil, nil
// return means the transaction was skipped by the liquidity filter.
func (m *Mapper) mapTransaction(wallet string, tx *domain.HeliusTransaction, stats *domain.MappingStats) (legs []*domain.AttributedLeg, err error) {
	defer func() {
		if r := recover(); r != nil {
			legs, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	owned := collectOwnedAccounts(tx, wallet)
	normalized := m.normalizeLegs(tx, wallet, owned)

	if m.isLiquidityOperation(tx, normalized) {
		stats.LiquiditySkips++
		return nil, nil
	}

	// Relayer pattern: the wallet only paid the fee for someone else's
	// swap. Evaluated before the cascade and only when normalization
	// produced no owned token legs, so it can never compete with the
	// indirect-swap detector over a leg.
	if tx.FeePayer == wallet && tx.Events.Swap != nil && !hasOwnedTokenTransfer(tx, owned) {
		normalized = append(normalized, m.reattributeFeePayerSwap(tx, wallet)...)
	}

	sig := computeSignals(tx, wallet)

	// Indirect-swap detection runs first and is exclusive with event
	// matching: a resolved intermediary hop already explains the value.
	indirect := detectIndirectSwap(normalized, sig, m.cfg)
	var event eventMatch
	if !indirect.detected {
		event = m.matchSwapEvent(tx, owned)
		if event.ambiguous {
			stats.AmbiguousEventMatches++
		}
	}

	seen := make(map[legTuple]struct{}, len(normalized))
	groupHasValue := make(map[groupKey]bool)
	legs = make([]*domain.AttributedLeg, 0, len(normalized))

	for _, leg := range normalized {
		tuple := legTuple{tx.Signature, leg.Mint, leg.Direction, leg.FromAccount, leg.ToAccount, leg.Amount}
		if _, dup := seen[tuple]; dup {
			stats.DuplicatesSuppressed++
			continue
		}
		seen[tuple] = struct{}{}

		switch leg.Mint {
		case domain.WSOLMint:
			// Reference-currency legs are their own value.
			leg.AssociatedSolValue = leg.Amount
			leg.AssociatedUsdcValue = 0
			stats.NativeLegs++
		case domain.USDCMint:
			leg.AssociatedSolValue = 0
			leg.AssociatedUsdcValue = leg.Amount
			stats.TokenLegs++
		default:
			stats.TokenLegs++
			if leg.InteractionType != domain.InteractionTypeFeePayerSwap {
				m.resolveLegValue(leg, sig, indirect, event, stats)
			}
			stats.TierHits[leg.Tier]++

			// At most one leg per (mint, direction) group keeps a
			// non-zero value here; redistribution spreads it back out.
			if leg.AssociatedSolValue != 0 || leg.AssociatedUsdcValue != 0 {
				key := groupKey{leg.Mint, leg.Direction}
				if groupHasValue[key] {
					leg.AssociatedSolValue = 0
					leg.AssociatedUsdcValue = 0
					stats.DuplicatesSuppressed++
				} else {
					groupHasValue[key] = true
				}
			}
		}

		legs = append(legs, leg)
	}

	m.redistributeGroups(legs, stats)
	return legs, nil
}

// resolveLegValue walks the tier cascade for one non-reference leg,
// stopping at the first non-zero result. The small-outgoing-fee heuristic
// short-circuits the whole cascade.
func (m *Mapper) resolveLegValue(leg *domain.AttributedLeg, sig *txSignals, indirect indirectSwap, event eventMatch, stats *domain.MappingStats) {
	if m.isSmallOutgoingFee(leg, sig) {
		leg.Tier = domain.TierFeeSuppressed
		stats.SmallFeeSuppressed++
		return
	}

	floor := m.cfg.EventSignificanceFloor

	if indirect.detected {
		leg.AssociatedSolValue = indirect.value
		leg.Tier = domain.TierIndirectSwap
		return
	}

	if event.found && (leg.Mint == event.primaryOut || leg.Mint == event.primaryIn) {
		if event.stable {
			leg.AssociatedUsdcValue = event.value
		} else {
			leg.AssociatedSolValue = event.value
		}
		leg.Tier = domain.TierEventMatch
		return
	}

	solMoved := sig.wsolTotal >= floor
	usdcMoved := sig.usdcTotal >= floor
	if solMoved != usdcMoved {
		if solMoved {
			leg.AssociatedSolValue = sig.wsolTotal
		} else {
			leg.AssociatedUsdcValue = sig.usdcTotal
		}
		leg.Tier = domain.TierTotalMovement
		return
	}

	solNet := math.Abs(sig.netSol) >= floor
	usdcNet := math.Abs(sig.netUsdc) >= floor
	if solNet != usdcNet {
		if solNet {
			leg.AssociatedSolValue = math.Abs(sig.netSol)
		} else {
			leg.AssociatedUsdcValue = math.Abs(sig.netUsdc)
		}
		leg.Tier = domain.TierNetChange
		return
	}

	leg.Tier = domain.TierUnresolved
}

// isSmallOutgoingFee flags an outgoing chunk that is dwarfed by its mint's
// largest transfer in the same transaction: a router/platform fee skim,
// not an economic swap leg.
func (m *Mapper) isSmallOutgoingFee(leg *domain.AttributedLeg, sig *txSignals) bool {
	if leg.Direction != domain.DirectionOut {
		return false
	}
	if sig.countByMint[leg.Mint] <= 1 {
		return false
	}
	largest := sig.largestByMint[leg.Mint]
	return leg.Amount < largest && leg.Amount < largest*m.cfg.SmallFeeRatio
}

func hasOwnedTokenTransfer(tx *domain.HeliusTransaction, owned map[string]struct{}) bool {
	for _, tt := range tx.TokenTransfers {
		if isOwned(owned, tt.FromUserAccount, tt.FromTokenAccount) ||
			isOwned(owned, tt.ToUserAccount, tt.ToTokenAccount) {
			return true
		}
	}
	return false
}
