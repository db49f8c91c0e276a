package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
)

func cachedTx(sig string, ts int64) *domain.CachedTransaction {
	return &domain.CachedTransaction{
		Signature: sig,
		Timestamp: ts,
		RawData:   json.RawMessage(`{"signature":"` + sig + `"}`),
		FetchedAt: ts + 10,
	}
}

func TestTransactionCacheStore_PutAndGet(t *testing.T) {
	store := NewTransactionCacheStore()
	ctx := context.Background()

	if err := store.Put(ctx, cachedTx("s1", 100)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.GetBySignature(ctx, "s1")
	if err != nil {
		t.Fatalf("GetBySignature: %v", err)
	}
	if got.Signature != "s1" || got.Timestamp != 100 {
		t.Errorf("unexpected record: %+v", got)
	}

	if err := store.Put(ctx, cachedTx("s1", 100)); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	if _, err := store.GetBySignature(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionCacheStore_PutBulkSkipsDuplicates(t *testing.T) {
	store := NewTransactionCacheStore()
	ctx := context.Background()

	if err := store.Put(ctx, cachedTx("s1", 100)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	err := store.PutBulk(ctx, []*domain.CachedTransaction{
		cachedTx("s1", 100),
		cachedTx("s2", 200),
	})
	if err != nil {
		t.Fatalf("PutBulk: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 cached transactions, got %d", len(all))
	}
}

func TestTransactionCacheStore_ExistingSignatures(t *testing.T) {
	store := NewTransactionCacheStore()
	ctx := context.Background()

	store.Put(ctx, cachedTx("s1", 100))
	store.Put(ctx, cachedTx("s2", 200))

	existing, err := store.ExistingSignatures(ctx, []string{"s1", "s3"})
	if err != nil {
		t.Fatalf("ExistingSignatures: %v", err)
	}
	if _, ok := existing["s1"]; !ok {
		t.Error("expected s1 to exist")
	}
	if _, ok := existing["s3"]; ok {
		t.Error("did not expect s3 to exist")
	}
}

func TestTransactionCacheStore_GetByTimeRange(t *testing.T) {
	store := NewTransactionCacheStore()
	ctx := context.Background()

	store.Put(ctx, cachedTx("s1", 100))
	store.Put(ctx, cachedTx("s2", 200))
	store.Put(ctx, cachedTx("s3", 300))

	got, err := store.GetByTimeRange(ctx, 100, 200)
	if err != nil {
		t.Fatalf("GetByTimeRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions in range, got %d", len(got))
	}
	// Inclusive bounds, ascending order.
	if got[0].Signature != "s1" || got[1].Signature != "s2" {
		t.Errorf("unexpected order: %s, %s", got[0].Signature, got[1].Signature)
	}
}
