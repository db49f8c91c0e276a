package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
)

// WalletPnlStore is an in-memory implementation of storage.WalletPnlStore.
// Repeated inserts for the same (wallet, mint) replace the previous row,
// matching the ClickHouse ReplacingMergeTree semantics.
type WalletPnlStore struct {
	mu   sync.RWMutex
	data map[pnlKey]*domain.MintPosition
}

type pnlKey struct {
	wallet string
	mint   string
}

// NewWalletPnlStore creates a new in-memory PnL store.
func NewWalletPnlStore() *WalletPnlStore {
	return &WalletPnlStore{
		data: make(map[pnlKey]*domain.MintPosition),
	}
}

// Compile-time interface check.
var _ storage.WalletPnlStore = (*WalletPnlStore)(nil)

// InsertBulk adds per-mint position rows for one generation run.
func (s *WalletPnlStore) InsertBulk(_ context.Context, positions []*domain.MintPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range positions {
		if p == nil || p.WalletAddress == "" || p.Mint == "" {
			return storage.ErrInvalidInput
		}
		copy := *p
		s.data[pnlKey{p.WalletAddress, p.Mint}] = &copy
	}
	return nil
}

// GetByWallet retrieves a wallet's positions ordered by mint ASC.
func (s *WalletPnlStore) GetByWallet(_ context.Context, wallet string) ([]*domain.MintPosition, error) {
	if wallet == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var positions []*domain.MintPosition
	for key, p := range s.data {
		if key.wallet == wallet {
			copy := *p
			positions = append(positions, &copy)
		}
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Mint < positions[j].Mint
	})
	return positions, nil
}
