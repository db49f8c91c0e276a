package memory

import (
	"context"
	"sync"

	"solana-wallet-lens/internal/storage"
)

// IngestionProgressStore is an in-memory implementation of
// storage.IngestionProgressStore.
type IngestionProgressStore struct {
	mu   sync.RWMutex
	data map[string]*storage.IngestionProgress // keyed by wallet
}

// NewIngestionProgressStore creates a new in-memory progress store.
func NewIngestionProgressStore() *IngestionProgressStore {
	return &IngestionProgressStore{
		data: make(map[string]*storage.IngestionProgress),
	}
}

// Compile-time interface check.
var _ storage.IngestionProgressStore = (*IngestionProgressStore)(nil)

// Get retrieves a wallet's watermark. Returns ErrNotFound if the wallet
// was never ingested.
func (s *IngestionProgressStore) Get(_ context.Context, wallet string) (*storage.IngestionProgress, error) {
	if wallet == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[wallet]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

// Set upserts a wallet's watermark.
func (s *IngestionProgressStore) Set(_ context.Context, progress *storage.IngestionProgress) error {
	if progress == nil || progress.WalletAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *progress
	s.data[progress.WalletAddress] = &copy
	return nil
}
