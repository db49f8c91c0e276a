package memory

import (
	"context"
	"errors"
	"testing"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
)

func testLeg(wallet, sig, mint string, dir domain.Direction, amount float64) *domain.AttributedLeg {
	return &domain.AttributedLeg{
		WalletAddress: wallet,
		Signature:     sig,
		Timestamp:     1700000000,
		Mint:          mint,
		Amount:        amount,
		Direction:     dir,
	}
}

func TestAttributedLegStore_InsertBulkAndGet(t *testing.T) {
	store := NewAttributedLegStore()
	ctx := context.Background()

	legs := []*domain.AttributedLeg{
		testLeg("w1", "s1", "m1", domain.DirectionOut, 100),
		testLeg("w1", "s1", "m2", domain.DirectionIn, 50),
		testLeg("w2", "s2", "m1", domain.DirectionIn, 10),
	}
	if err := store.InsertBulk(ctx, legs); err != nil {
		t.Fatalf("InsertBulk: %v", err)
	}

	got, err := store.GetByWallet(ctx, "w1")
	if err != nil {
		t.Fatalf("GetByWallet: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 legs for w1, got %d", len(got))
	}

	byMint, err := store.GetByWalletMint(ctx, "w1", "m2")
	if err != nil {
		t.Fatalf("GetByWalletMint: %v", err)
	}
	if len(byMint) != 1 || byMint[0].Mint != "m2" {
		t.Errorf("expected 1 leg for m2, got %+v", byMint)
	}
}

func TestAttributedLegStore_DuplicateIdentityRejected(t *testing.T) {
	store := NewAttributedLegStore()
	ctx := context.Background()

	leg := testLeg("w1", "s1", "m1", domain.DirectionOut, 100)
	if err := store.InsertBulk(ctx, []*domain.AttributedLeg{leg}); err != nil {
		t.Fatalf("InsertBulk: %v", err)
	}

	// Same identity, different derived value: still a duplicate.
	dup := testLeg("w1", "s1", "m1", domain.DirectionOut, 100)
	dup.AssociatedSolValue = 99
	err := store.InsertBulk(ctx, []*domain.AttributedLeg{dup})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	// Failed batch must not partially apply.
	got, _ := store.GetByWallet(ctx, "w1")
	if len(got) != 1 {
		t.Errorf("expected 1 leg after rejected batch, got %d", len(got))
	}
}

func TestAttributedLegStore_IntraBatchDuplicateRejected(t *testing.T) {
	store := NewAttributedLegStore()

	leg := testLeg("w1", "s1", "m1", domain.DirectionOut, 100)
	err := store.InsertBulk(context.Background(), []*domain.AttributedLeg{leg, leg})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestAttributedLegStore_ReplaceWallet(t *testing.T) {
	store := NewAttributedLegStore()
	ctx := context.Background()

	old := []*domain.AttributedLeg{
		testLeg("w1", "s1", "m1", domain.DirectionOut, 100),
		testLeg("w1", "s2", "m2", domain.DirectionIn, 50),
	}
	if err := store.InsertBulk(ctx, old); err != nil {
		t.Fatalf("InsertBulk: %v", err)
	}

	// Replacing with an overlapping set must succeed (idempotent remap).
	replacement := []*domain.AttributedLeg{
		testLeg("w1", "s1", "m1", domain.DirectionOut, 100),
		testLeg("w1", "s3", "m3", domain.DirectionIn, 25),
	}
	if err := store.ReplaceWallet(ctx, "w1", replacement); err != nil {
		t.Fatalf("ReplaceWallet: %v", err)
	}

	got, _ := store.GetByWallet(ctx, "w1")
	if len(got) != 2 {
		t.Fatalf("expected 2 legs after replace, got %d", len(got))
	}
	mints := map[string]bool{}
	for _, l := range got {
		mints[l.Mint] = true
	}
	if !mints["m1"] || !mints["m3"] || mints["m2"] {
		t.Errorf("unexpected mints after replace: %v", mints)
	}
}

func TestAttributedLegStore_ReplaceWallet_RejectsForeignLegs(t *testing.T) {
	store := NewAttributedLegStore()
	err := store.ReplaceWallet(context.Background(), "w1", []*domain.AttributedLeg{
		testLeg("w2", "s1", "m1", domain.DirectionOut, 100),
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAttributedLegStore_GetByWallet_Ordering(t *testing.T) {
	store := NewAttributedLegStore()
	ctx := context.Background()

	a := testLeg("w1", "s-late", "m1", domain.DirectionOut, 1)
	a.Timestamp = 1700000300
	b := testLeg("w1", "s-early", "m1", domain.DirectionOut, 2)
	b.Timestamp = 1700000100
	if err := store.InsertBulk(ctx, []*domain.AttributedLeg{a, b}); err != nil {
		t.Fatalf("InsertBulk: %v", err)
	}

	got, _ := store.GetByWallet(ctx, "w1")
	if len(got) != 2 || got[0].Signature != "s-early" {
		t.Errorf("expected timestamp-ascending order, got %+v", got)
	}
}
