package mapper

import (
	"math"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-wallet-lens/internal/domain"
)

// OwnerKeyOnCurve reports whether addr decodes to a 32-byte ed25519 point
// on the curve. Wallet owner keys are on-curve; program-derived token
// accounts are not.
func OwnerKeyOnCurve(addr string) bool {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}

// collectOwnedAccounts resolves the set of accounts that belong to the
// wallet within one transaction: the wallet address itself plus every token
// account the balance-change snapshots or token transfers attribute to it.
func collectOwnedAccounts(tx *domain.HeliusTransaction, wallet string) map[string]struct{} {
	owned := map[string]struct{}{wallet: {}}

	for _, ad := range tx.AccountData {
		for _, tbc := range ad.TokenBalanceChanges {
			if tbc.UserAccount == wallet && tbc.TokenAccount != "" {
				owned[tbc.TokenAccount] = struct{}{}
			}
		}
	}
	for _, tt := range tx.TokenTransfers {
		if tt.FromUserAccount == wallet && tt.FromTokenAccount != "" {
			owned[tt.FromTokenAccount] = struct{}{}
		}
		if tt.ToUserAccount == wallet && tt.ToTokenAccount != "" {
			owned[tt.ToTokenAccount] = struct{}{}
		}
	}
	return owned
}

func isOwned(owned map[string]struct{}, accounts ...string) bool {
	for _, a := range accounts {
		if a == "" {
			continue
		}
		if _, ok := owned[a]; ok {
			return true
		}
	}
	return false
}

// normalizeLegs extracts the wallet's legs from a transaction in discovery
// order: native transfers first, then token transfers. Transfers touching
// neither side of the wallet are discarded; transfers touching both sides
// (self-transfers) classify as out.
func (m *Mapper) normalizeLegs(tx *domain.HeliusTransaction, wallet string, owned map[string]struct{}) []*domain.AttributedLeg {
	var legs []*domain.AttributedLeg

	for _, nt := range tx.NativeTransfers {
		sol := math.Abs(float64(nt.Amount)) / domain.LamportsPerSOL
		if sol < m.cfg.NativeDustThreshold {
			continue
		}
		fromOwned := isOwned(owned, nt.FromUserAccount)
		toOwned := isOwned(owned, nt.ToUserAccount)
		if !fromOwned && !toOwned {
			continue
		}
		dir := domain.DirectionIn
		if fromOwned {
			dir = domain.DirectionOut
		}
		legs = append(legs, &domain.AttributedLeg{
			WalletAddress:   wallet,
			Signature:       tx.Signature,
			Timestamp:       tx.Timestamp,
			Mint:            domain.WSOLMint,
			Amount:          sol,
			Direction:       dir,
			InteractionType: tx.Type,
			FromAccount:     nt.FromUserAccount,
			ToAccount:       nt.ToUserAccount,
		})
	}

	for _, tt := range tx.TokenTransfers {
		amount := math.Abs(tt.TokenAmount)
		if amount == 0 {
			continue
		}
		fromOwned := isOwned(owned, tt.FromUserAccount, tt.FromTokenAccount)
		toOwned := isOwned(owned, tt.ToUserAccount, tt.ToTokenAccount)
		if !fromOwned && !toOwned {
			continue
		}
		dir := domain.DirectionIn
		if fromOwned {
			dir = domain.DirectionOut
		}
		legs = append(legs, &domain.AttributedLeg{
			WalletAddress:   wallet,
			Signature:       tx.Signature,
			Timestamp:       tx.Timestamp,
			Mint:            tt.Mint,
			Amount:          amount,
			Direction:       dir,
			InteractionType: tx.Type,
			FromAccount:     tt.FromTokenAccount,
			ToAccount:       tt.ToTokenAccount,
		})
	}

	return legs
}

// isLiquidityOperation reports whether an UNKNOWN-typed transaction moves
// two or more mints in a single direction for the wallet (a deposit or
// withdrawal against a pool, not a swap). Such transactions are skipped
// before attribution.
func (m *Mapper) isLiquidityOperation(tx *domain.HeliusTransaction, legs []*domain.AttributedLeg) bool {
	if !m.cfg.LiquidityFilterEnabled || tx.Type != "UNKNOWN" {
		return false
	}

	net := make(map[string]float64)
	for _, leg := range legs {
		if leg.Mint == domain.WSOLMint {
			continue
		}
		if leg.Direction == domain.DirectionIn {
			net[leg.Mint] += leg.Amount
		} else {
			net[leg.Mint] -= leg.Amount
		}
	}

	pos, neg := 0, 0
	for _, flow := range net {
		if math.Abs(flow) < m.cfg.EventSignificanceFloor {
			continue
		}
		if flow > 0 {
			pos++
		} else {
			neg++
		}
	}

	// One-directional flow across at least two mints.
	return (pos >= 2 && neg == 0) || (neg >= 2 && pos == 0)
}
