package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
)

// ActivityLogStore implements storage.ActivityLogStore using PostgreSQL
// (table mapping_activity_log, stats serialized as JSONB).
type ActivityLogStore struct {
	pool *Pool
}

// NewActivityLogStore creates a new ActivityLogStore.
func NewActivityLogStore(pool *Pool) *ActivityLogStore {
	return &ActivityLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ActivityLogStore = (*ActivityLogStore)(nil)

// Append adds one completed-batch record.
func (s *ActivityLogStore) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	if entry == nil || entry.WalletAddress == "" {
		return storage.ErrInvalidInput
	}

	stats, err := json.Marshal(entry.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	query := `
		INSERT INTO mapping_activity_log (wallet_address, batch_at, stats)
		VALUES ($1, $2, $3)
	`

	if _, err := s.pool.Exec(ctx, query, entry.WalletAddress, entry.BatchAt, stats); err != nil {
		return fmt.Errorf("append activity log entry: %w", err)
	}
	return nil
}

// GetByWallet retrieves a wallet's log entries ordered by batch time ASC.
func (s *ActivityLogStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.ActivityLogEntry, error) {
	if wallet == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT id, wallet_address, batch_at, stats
		FROM mapping_activity_log
		WHERE wallet_address = $1
		ORDER BY batch_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get activity log by wallet: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ActivityLogEntry
	for rows.Next() {
		var (
			entry domain.ActivityLogEntry
			stats []byte
		)
		if err := rows.Scan(&entry.ID, &entry.WalletAddress, &entry.BatchAt, &stats); err != nil {
			return nil, fmt.Errorf("scan activity log entry: %w", err)
		}
		if len(stats) > 0 {
			entry.Stats = domain.NewMappingStats()
			if err := json.Unmarshal(stats, entry.Stats); err != nil {
				return nil, fmt.Errorf("unmarshal stats: %w", err)
			}
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
