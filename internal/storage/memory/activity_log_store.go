package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
)

// ActivityLogStore is an in-memory implementation of
// storage.ActivityLogStore.
type ActivityLogStore struct {
	mu     sync.RWMutex
	nextID int64
	data   []*domain.ActivityLogEntry
}

// NewActivityLogStore creates a new in-memory activity log.
func NewActivityLogStore() *ActivityLogStore {
	return &ActivityLogStore{nextID: 1}
}

// Compile-time interface check.
var _ storage.ActivityLogStore = (*ActivityLogStore)(nil)

// Append adds one completed-batch record.
func (s *ActivityLogStore) Append(_ context.Context, entry *domain.ActivityLogEntry) error {
	if entry == nil || entry.WalletAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *entry
	copy.ID = s.nextID
	s.nextID++
	s.data = append(s.data, &copy)
	return nil
}

// GetByWallet retrieves a wallet's log entries ordered by batch time ASC.
func (s *ActivityLogStore) GetByWallet(_ context.Context, wallet string) ([]*domain.ActivityLogEntry, error) {
	if wallet == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []*domain.ActivityLogEntry
	for _, entry := range s.data {
		if entry.WalletAddress == wallet {
			copy := *entry
			entries = append(entries, &copy)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].BatchAt != entries[j].BatchAt {
			return entries[i].BatchAt < entries[j].BatchAt
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}
