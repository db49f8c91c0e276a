package postgres_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
	. "solana-wallet-lens/internal/storage/postgres"
)

func cachedTx(sig string, ts int64) *domain.CachedTransaction {
	return &domain.CachedTransaction{
		Signature: sig,
		Timestamp: ts,
		RawData:   json.RawMessage(`{"signature":"` + sig + `","type":"SWAP"}`),
		FetchedAt: ts + 5,
	}
}

func TestTransactionCacheStore_PutAndGetBySignature(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionCacheStore(pool)

	require.NoError(t, store.Put(ctx, cachedTx("sig-1", 100)))

	got, err := store.GetBySignature(ctx, "sig-1")
	require.NoError(t, err)
	assert.Equal(t, "sig-1", got.Signature)
	assert.Equal(t, int64(100), got.Timestamp)

	// Round-trip through JSONB keeps the payload decodable.
	tx, err := got.Decode()
	require.NoError(t, err)
	assert.Equal(t, "SWAP", tx.Type)

	err = store.Put(ctx, cachedTx("sig-1", 100))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetBySignature(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTransactionCacheStore_PutBulkSkipsCached(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionCacheStore(pool)

	require.NoError(t, store.Put(ctx, cachedTx("sig-1", 100)))
	require.NoError(t, store.PutBulk(ctx, []*domain.CachedTransaction{
		cachedTx("sig-1", 100),
		cachedTx("sig-2", 200),
		cachedTx("sig-3", 300),
	}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTransactionCacheStore_ExistingSignatures(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionCacheStore(pool)

	require.NoError(t, store.Put(ctx, cachedTx("sig-1", 100)))

	existing, err := store.ExistingSignatures(ctx, []string{"sig-1", "sig-2"})
	require.NoError(t, err)
	assert.Contains(t, existing, "sig-1")
	assert.NotContains(t, existing, "sig-2")
}

func TestTransactionCacheStore_GetByTimeRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionCacheStore(pool)

	require.NoError(t, store.PutBulk(ctx, []*domain.CachedTransaction{
		cachedTx("sig-1", 100),
		cachedTx("sig-2", 200),
		cachedTx("sig-3", 300),
	}))

	got, err := store.GetByTimeRange(ctx, 100, 200)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "sig-1", got[0].Signature)
	assert.Equal(t, "sig-2", got[1].Signature)
}
