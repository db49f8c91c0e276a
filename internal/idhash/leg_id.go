package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"solana-wallet-lens/internal/domain"
)

// ComputeLegID computes a deterministic leg identity using SHA256.
// Formula: SHA256(wallet|signature|mint|direction|from|to|amount)
// Returns hex-encoded hash (64 characters).
//
// Amount is formatted with strconv 'g' at full precision so that equal
// float64 values always hash identically.
func ComputeLegID(leg *domain.AttributedLeg) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		leg.WalletAddress,
		leg.Signature,
		leg.Mint,
		leg.Direction,
		leg.FromAccount,
		leg.ToAccount,
		strconv.FormatFloat(leg.Amount, 'g', -1, 64),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
