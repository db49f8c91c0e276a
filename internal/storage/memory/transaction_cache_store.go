// Package memory provides in-memory storage backends, used by tests and
// local single-run invocations of the cmd binaries.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
)

// TransactionCacheStore is an in-memory implementation of
// storage.TransactionCacheStore.
type TransactionCacheStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CachedTransaction // keyed by signature
}

// NewTransactionCacheStore creates a new in-memory transaction cache.
func NewTransactionCacheStore() *TransactionCacheStore {
	return &TransactionCacheStore{
		data: make(map[string]*domain.CachedTransaction),
	}
}

// Compile-time interface check.
var _ storage.TransactionCacheStore = (*TransactionCacheStore)(nil)

// Put adds one cached transaction. Returns ErrDuplicateKey if the
// signature exists.
func (s *TransactionCacheStore) Put(_ context.Context, tx *domain.CachedTransaction) error {
	if tx == nil || tx.Signature == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[tx.Signature]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *tx
	s.data[tx.Signature] = &copy
	return nil
}

// PutBulk adds multiple cached transactions, silently skipping signatures
// that are already cached.
func (s *TransactionCacheStore) PutBulk(_ context.Context, txs []*domain.CachedTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		if tx == nil || tx.Signature == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[tx.Signature]; exists {
			continue
		}
		copy := *tx
		s.data[tx.Signature] = &copy
	}
	return nil
}

// GetBySignature retrieves one cached transaction. Returns ErrNotFound if
// not cached.
func (s *TransactionCacheStore) GetBySignature(_ context.Context, signature string) (*domain.CachedTransaction, error) {
	if signature == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.data[signature]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *tx
	return &copy, nil
}

// ExistingSignatures reports which of the given signatures are cached.
func (s *TransactionCacheStore) ExistingSignatures(_ context.Context, signatures []string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing := make(map[string]struct{}, len(signatures))
	for _, sig := range signatures {
		if _, ok := s.data[sig]; ok {
			existing[sig] = struct{}{}
		}
	}
	return existing, nil
}

// GetByTimeRange retrieves cached transactions with timestamp within
// [start, end] (inclusive), ordered by timestamp ASC.
func (s *TransactionCacheStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.CachedTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txs []*domain.CachedTransaction
	for _, tx := range s.data {
		if tx.Timestamp >= start && tx.Timestamp <= end {
			copy := *tx
			txs = append(txs, &copy)
		}
	}
	sortCached(txs)
	return txs, nil
}

// GetAll retrieves the whole cache ordered by timestamp ASC.
func (s *TransactionCacheStore) GetAll(_ context.Context) ([]*domain.CachedTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]*domain.CachedTransaction, 0, len(s.data))
	for _, tx := range s.data {
		copy := *tx
		txs = append(txs, &copy)
	}
	sortCached(txs)
	return txs, nil
}

func sortCached(txs []*domain.CachedTransaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Timestamp != txs[j].Timestamp {
			return txs[i].Timestamp < txs[j].Timestamp
		}
		return txs[i].Signature < txs[j].Signature
	})
}
