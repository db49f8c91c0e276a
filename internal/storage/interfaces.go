package storage

import (
	"context"

	"solana-wallet-lens/internal/domain"
)

// TransactionCacheStore provides access to helius_transaction_cache
// storage. The cache is keyed by signature; fetched raw JSON is immutable.
type TransactionCacheStore interface {
	// Put adds one cached transaction. Returns ErrDuplicateKey if the
	// signature exists.
	Put(ctx context.Context, tx *domain.CachedTransaction) error

	// PutBulk adds multiple cached transactions, silently skipping
	// signatures that are already cached.
	PutBulk(ctx context.Context, txs []*domain.CachedTransaction) error

	// GetBySignature retrieves one cached transaction. Returns ErrNotFound
	// if not cached.
	GetBySignature(ctx context.Context, signature string) (*domain.CachedTransaction, error)

	// ExistingSignatures reports which of the given signatures are cached.
	ExistingSignatures(ctx context.Context, signatures []string) (map[string]struct{}, error)

	// GetByTimeRange retrieves cached transactions with timestamp within
	// [start, end] (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.CachedTransaction, error)

	// GetAll retrieves the whole cache ordered by timestamp ASC.
	GetAll(ctx context.Context) ([]*domain.CachedTransaction, error)
}

// AttributedLegStore provides access to swap_analysis_inputs storage.
// Leg identity is the idhash over (wallet, signature, mint, direction,
// from_account, to_account, amount).
type AttributedLegStore interface {
	// InsertBulk adds multiple legs atomically. Fails the entire batch
	// with ErrDuplicateKey on any identity conflict.
	InsertBulk(ctx context.Context, legs []*domain.AttributedLeg) error

	// ReplaceWallet atomically deletes a wallet's legs and inserts the
	// given set. Re-running a mapping is idempotent through this method.
	ReplaceWallet(ctx context.Context, wallet string, legs []*domain.AttributedLeg) error

	// GetByWallet retrieves all legs of a wallet ordered by timestamp ASC.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.AttributedLeg, error)

	// GetByWalletMint retrieves a wallet's legs for one mint, ordered by
	// timestamp ASC.
	GetByWalletMint(ctx context.Context, wallet, mint string) ([]*domain.AttributedLeg, error)
}

// IngestionProgress is the per-wallet fetch watermark.
type IngestionProgress struct {
	WalletAddress   string
	NewestSignature string // most recent signature seen at the tip
	OldestSignature string // pagination cursor for backward walks
	Fetched         int64  // total transactions cached for this wallet
	UpdatedAt       int64  // Unix seconds
}

// IngestionProgressStore provides access to ingestion_progress storage.
type IngestionProgressStore interface {
	// Get retrieves a wallet's watermark. Returns ErrNotFound if the
	// wallet was never ingested.
	Get(ctx context.Context, wallet string) (*IngestionProgress, error)

	// Set upserts a wallet's watermark.
	Set(ctx context.Context, progress *IngestionProgress) error
}

// ActivityLogStore provides access to mapping_activity_log storage.
// The log is append-only.
type ActivityLogStore interface {
	// Append adds one completed-batch record.
	Append(ctx context.Context, entry *domain.ActivityLogEntry) error

	// GetByWallet retrieves a wallet's log entries ordered by batch time ASC.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.ActivityLogEntry, error)
}

// WalletPnlStore provides access to wallet_pnl_aggregates storage.
type WalletPnlStore interface {
	// InsertBulk adds per-mint position rows for one generation run.
	InsertBulk(ctx context.Context, positions []*domain.MintPosition) error

	// GetByWallet retrieves a wallet's positions ordered by mint ASC.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.MintPosition, error)
}
