// Package similarity compares wallets by their attributed trading
// behavior. All functions are pure; callers load legs however they like.
package similarity

import (
	"math"
	"sort"

	"solana-wallet-lens/internal/domain"
)

// TokenSet returns the distinct non-reference mints a wallet traded.
func TokenSet(legs []*domain.AttributedLeg) map[string]struct{} {
	set := make(map[string]struct{})
	for _, leg := range legs {
		if leg == nil || leg.IsReferenceCurrency() || leg.IsStablecoin() {
			continue
		}
		set[leg.Mint] = struct{}{}
	}
	return set
}

// AllocationVector returns each mint's share of the wallet's total
// attributed buy-side SOL value. USDC-denominated buys are folded in at
// their USDC value so stable-quoted positions still register.
func AllocationVector(legs []*domain.AttributedLeg) map[string]float64 {
	weights := make(map[string]float64)
	var total float64

	for _, leg := range legs {
		if leg == nil || leg.IsReferenceCurrency() || leg.IsStablecoin() {
			continue
		}
		if leg.Direction != domain.DirectionIn {
			continue
		}
		v := leg.AssociatedSolValue + leg.AssociatedUsdcValue
		if v <= 0 {
			continue
		}
		weights[leg.Mint] += v
		total += v
	}

	if total == 0 {
		return weights
	}
	for mint := range weights {
		weights[mint] /= total
	}
	return weights
}

// Cosine returns the cosine similarity of two sparse vectors. Vectors
// with no magnitude compare as 0.
func Cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for key, va := range a {
		normA += va * va
		if vb, ok := b[key]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Jaccard returns the Jaccard index of two sets. Two empty sets compare
// as 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for key := range a {
		if _, ok := b[key]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Score is one pairwise wallet comparison.
type Score struct {
	WalletA string
	WalletB string

	// TokenOverlap is the Jaccard index over traded-mint sets.
	TokenOverlap float64

	// AllocationCosine is the cosine similarity of capital-allocation
	// vectors.
	AllocationCosine float64

	SharedMints []string
}

// Compare scores two wallets from their attributed legs.
func Compare(walletA string, legsA []*domain.AttributedLeg, walletB string, legsB []*domain.AttributedLeg) Score {
	setA, setB := TokenSet(legsA), TokenSet(legsB)

	var shared []string
	for mint := range setA {
		if _, ok := setB[mint]; ok {
			shared = append(shared, mint)
		}
	}
	sort.Strings(shared)

	return Score{
		WalletA:          walletA,
		WalletB:          walletB,
		TokenOverlap:     Jaccard(setA, setB),
		AllocationCosine: Cosine(AllocationVector(legsA), AllocationVector(legsB)),
		SharedMints:      shared,
	}
}

// Pairwise scores every wallet pair. Input order is preserved in the
// output: pair (i, j) with i < j appears as (wallets[i], wallets[j]).
func Pairwise(wallets []string, legsByWallet map[string][]*domain.AttributedLeg) []Score {
	var scores []Score
	for i := 0; i < len(wallets); i++ {
		for j := i + 1; j < len(wallets); j++ {
			scores = append(scores, Compare(
				wallets[i], legsByWallet[wallets[i]],
				wallets[j], legsByWallet[wallets[j]],
			))
		}
	}
	return scores
}
