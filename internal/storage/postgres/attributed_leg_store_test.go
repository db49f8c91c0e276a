package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
	. "solana-wallet-lens/internal/storage/postgres"
)

func testLeg(wallet, sig, mint string, dir domain.Direction, amount float64) *domain.AttributedLeg {
	return &domain.AttributedLeg{
		WalletAddress:      wallet,
		Signature:          sig,
		Timestamp:          1700000000,
		Mint:               mint,
		Amount:             amount,
		Direction:          dir,
		AssociatedSolValue: 1.5,
		InteractionType:    "SWAP",
		Tier:               domain.TierTotalMovement,
		FromAccount:        "from-ta",
		ToAccount:          "to-ta",
	}
}

func TestAttributedLegStore_InsertBulkAndGetByWallet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAttributedLegStore(pool)

	leg := testLeg("wallet-1", "sig-1", "mint-1", domain.DirectionOut, 100)
	leg.FeeAmount = ptr(0.1)
	leg.FeePercentage = ptr(0.0999)

	err := store.InsertBulk(ctx, []*domain.AttributedLeg{
		leg,
		testLeg("wallet-1", "sig-1", "mint-2", domain.DirectionIn, 50),
		testLeg("wallet-2", "sig-2", "mint-1", domain.DirectionIn, 10),
	})
	require.NoError(t, err)

	legs, err := store.GetByWallet(ctx, "wallet-1")
	require.NoError(t, err)
	require.Len(t, legs, 2)

	var got *domain.AttributedLeg
	for _, l := range legs {
		if l.Mint == "mint-1" {
			got = l
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, domain.DirectionOut, got.Direction)
	assert.Equal(t, domain.TierTotalMovement, got.Tier)
	assert.InDelta(t, 1.5, got.AssociatedSolValue, 0.0001)
	require.NotNil(t, got.FeeAmount)
	assert.InDelta(t, 0.1, *got.FeeAmount, 0.0001)
}

func TestAttributedLegStore_DuplicateIdentityFailsBatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAttributedLegStore(pool)

	leg := testLeg("wallet-1", "sig-1", "mint-1", domain.DirectionOut, 100)
	require.NoError(t, store.InsertBulk(ctx, []*domain.AttributedLeg{leg}))

	// Identity collision fails the whole batch atomically.
	err := store.InsertBulk(ctx, []*domain.AttributedLeg{
		testLeg("wallet-1", "sig-1", "mint-3", domain.DirectionIn, 5),
		testLeg("wallet-1", "sig-1", "mint-1", domain.DirectionOut, 100),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	legs, err := store.GetByWallet(ctx, "wallet-1")
	require.NoError(t, err)
	assert.Len(t, legs, 1)
}

func TestAttributedLegStore_ReplaceWallet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAttributedLegStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.AttributedLeg{
		testLeg("wallet-1", "sig-1", "mint-1", domain.DirectionOut, 100),
		testLeg("wallet-2", "sig-2", "mint-1", domain.DirectionIn, 10),
	}))

	// Replace overlaps the previous set; the rerun must be idempotent.
	err := store.ReplaceWallet(ctx, "wallet-1", []*domain.AttributedLeg{
		testLeg("wallet-1", "sig-1", "mint-1", domain.DirectionOut, 100),
		testLeg("wallet-1", "sig-3", "mint-2", domain.DirectionIn, 25),
	})
	require.NoError(t, err)

	legs, err := store.GetByWallet(ctx, "wallet-1")
	require.NoError(t, err)
	assert.Len(t, legs, 2)

	// Other wallets are untouched.
	other, err := store.GetByWallet(ctx, "wallet-2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestAttributedLegStore_GetByWalletMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAttributedLegStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.AttributedLeg{
		testLeg("wallet-1", "sig-1", "mint-1", domain.DirectionOut, 100),
		testLeg("wallet-1", "sig-2", "mint-2", domain.DirectionIn, 50),
	}))

	legs, err := store.GetByWalletMint(ctx, "wallet-1", "mint-2")
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, "mint-2", legs[0].Mint)
}
