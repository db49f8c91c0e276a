package postgres

import (
	"context"
	"fmt"

	"solana-wallet-lens/internal/storage"
)

// IngestionProgressStore implements storage.IngestionProgressStore using
// PostgreSQL (table ingestion_progress, one row per wallet).
type IngestionProgressStore struct {
	pool *Pool
}

// NewIngestionProgressStore creates a new IngestionProgressStore.
func NewIngestionProgressStore(pool *Pool) *IngestionProgressStore {
	return &IngestionProgressStore{pool: pool}
}

// Compile-time interface check.
var _ storage.IngestionProgressStore = (*IngestionProgressStore)(nil)

// Get retrieves a wallet's watermark. Returns ErrNotFound if the wallet
// was never ingested.
func (s *IngestionProgressStore) Get(ctx context.Context, wallet string) (*storage.IngestionProgress, error) {
	if wallet == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT wallet_address, newest_signature, oldest_signature, fetched, updated_at
		FROM ingestion_progress
		WHERE wallet_address = $1
	`

	var p storage.IngestionProgress
	err := s.pool.QueryRow(ctx, query, wallet).Scan(
		&p.WalletAddress, &p.NewestSignature, &p.OldestSignature, &p.Fetched, &p.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get ingestion progress: %w", err)
	}
	return &p, nil
}

// Set upserts a wallet's watermark.
func (s *IngestionProgressStore) Set(ctx context.Context, progress *storage.IngestionProgress) error {
	if progress == nil || progress.WalletAddress == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO ingestion_progress (wallet_address, newest_signature, oldest_signature, fetched, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (wallet_address) DO UPDATE
		SET newest_signature = EXCLUDED.newest_signature,
		    oldest_signature = EXCLUDED.oldest_signature,
		    fetched = EXCLUDED.fetched,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		progress.WalletAddress,
		progress.NewestSignature,
		progress.OldestSignature,
		progress.Fetched,
		progress.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("set ingestion progress: %w", err)
	}
	return nil
}
