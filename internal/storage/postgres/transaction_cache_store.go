package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
)

// TransactionCacheStore implements storage.TransactionCacheStore using
// PostgreSQL (table helius_transaction_cache, raw payload as JSONB).
type TransactionCacheStore struct {
	pool *Pool
}

// NewTransactionCacheStore creates a new TransactionCacheStore.
func NewTransactionCacheStore(pool *Pool) *TransactionCacheStore {
	return &TransactionCacheStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionCacheStore = (*TransactionCacheStore)(nil)

// Put adds one cached transaction. Returns ErrDuplicateKey if the
// signature exists.
func (s *TransactionCacheStore) Put(ctx context.Context, tx *domain.CachedTransaction) error {
	if tx == nil || tx.Signature == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO helius_transaction_cache (signature, timestamp, raw_data, fetched_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, tx.Signature, tx.Timestamp, tx.RawData, tx.FetchedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert cached transaction: %w", err)
	}
	return nil
}

// PutBulk adds multiple cached transactions, silently skipping signatures
// that are already cached.
func (s *TransactionCacheStore) PutBulk(ctx context.Context, txs []*domain.CachedTransaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbtx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbtx.Rollback(ctx)

	query := `
		INSERT INTO helius_transaction_cache (signature, timestamp, raw_data, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (signature) DO NOTHING
	`

	for _, tx := range txs {
		if tx == nil || tx.Signature == "" {
			return storage.ErrInvalidInput
		}
		if _, err := dbtx.Exec(ctx, query, tx.Signature, tx.Timestamp, tx.RawData, tx.FetchedAt); err != nil {
			return fmt.Errorf("insert cached transaction in bulk: %w", err)
		}
	}

	if err := dbtx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySignature retrieves one cached transaction. Returns ErrNotFound if
// not cached.
func (s *TransactionCacheStore) GetBySignature(ctx context.Context, signature string) (*domain.CachedTransaction, error) {
	if signature == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT signature, timestamp, raw_data, fetched_at
		FROM helius_transaction_cache
		WHERE signature = $1
	`

	var tx domain.CachedTransaction
	err := s.pool.QueryRow(ctx, query, signature).Scan(
		&tx.Signature, &tx.Timestamp, &tx.RawData, &tx.FetchedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get cached transaction: %w", err)
	}
	return &tx, nil
}

// ExistingSignatures reports which of the given signatures are cached.
func (s *TransactionCacheStore) ExistingSignatures(ctx context.Context, signatures []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(signatures))
	if len(signatures) == 0 {
		return existing, nil
	}

	query := `
		SELECT signature
		FROM helius_transaction_cache
		WHERE signature = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, signatures)
	if err != nil {
		return nil, fmt.Errorf("query existing signatures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sig string
		if err := rows.Scan(&sig); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		existing[sig] = struct{}{}
	}
	return existing, rows.Err()
}

// GetByTimeRange retrieves cached transactions with timestamp within
// [start, end] (inclusive), ordered by timestamp ASC.
func (s *TransactionCacheStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.CachedTransaction, error) {
	query := `
		SELECT signature, timestamp, raw_data, fetched_at
		FROM helius_transaction_cache
		WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp ASC, signature ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get cached transactions by time range: %w", err)
	}
	defer rows.Close()

	return scanCachedTransactions(rows)
}

// GetAll retrieves the whole cache ordered by timestamp ASC.
func (s *TransactionCacheStore) GetAll(ctx context.Context) ([]*domain.CachedTransaction, error) {
	query := `
		SELECT signature, timestamp, raw_data, fetched_at
		FROM helius_transaction_cache
		ORDER BY timestamp ASC, signature ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all cached transactions: %w", err)
	}
	defer rows.Close()

	return scanCachedTransactions(rows)
}

func scanCachedTransactions(rows pgx.Rows) ([]*domain.CachedTransaction, error) {
	var txs []*domain.CachedTransaction
	for rows.Next() {
		var tx domain.CachedTransaction
		if err := rows.Scan(&tx.Signature, &tx.Timestamp, &tx.RawData, &tx.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan cached transaction: %w", err)
		}
		txs = append(txs, &tx)
	}
	return txs, rows.Err()
}
