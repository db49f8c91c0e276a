package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/idhash"
	"solana-wallet-lens/internal/storage"
)

// AttributedLegStore is an in-memory implementation of
// storage.AttributedLegStore.
type AttributedLegStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AttributedLeg // keyed by leg ID
}

// NewAttributedLegStore creates a new in-memory attributed-leg store.
func NewAttributedLegStore() *AttributedLegStore {
	return &AttributedLegStore{
		data: make(map[string]*domain.AttributedLeg),
	}
}

// Compile-time interface check.
var _ storage.AttributedLegStore = (*AttributedLegStore)(nil)

// InsertBulk adds multiple legs atomically. Fails the entire batch with
// ErrDuplicateKey on any identity conflict.
func (s *AttributedLegStore) InsertBulk(_ context.Context, legs []*domain.AttributedLeg) error {
	if len(legs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check existing and intra-batch duplicates.
	batchKeys := make(map[string]struct{}, len(legs))
	for _, leg := range legs {
		if leg == nil || leg.WalletAddress == "" || leg.Signature == "" {
			return storage.ErrInvalidInput
		}
		id := idhash.ComputeLegID(leg)
		if _, exists := s.data[id]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[id]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[id] = struct{}{}
	}

	for _, leg := range legs {
		copy := *leg
		s.data[idhash.ComputeLegID(leg)] = &copy
	}
	return nil
}

// ReplaceWallet atomically deletes a wallet's legs and inserts the given
// set.
func (s *AttributedLegStore) ReplaceWallet(_ context.Context, wallet string, legs []*domain.AttributedLeg) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}
	for _, leg := range legs {
		if leg == nil || leg.WalletAddress != wallet {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, leg := range s.data {
		if leg.WalletAddress == wallet {
			delete(s.data, id)
		}
	}
	for _, leg := range legs {
		copy := *leg
		s.data[idhash.ComputeLegID(leg)] = &copy
	}
	return nil
}

// GetByWallet retrieves all legs of a wallet ordered by timestamp ASC.
func (s *AttributedLegStore) GetByWallet(_ context.Context, wallet string) ([]*domain.AttributedLeg, error) {
	if wallet == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var legs []*domain.AttributedLeg
	for _, leg := range s.data {
		if leg.WalletAddress == wallet {
			copy := *leg
			legs = append(legs, &copy)
		}
	}
	sortLegs(legs)
	return legs, nil
}

// GetByWalletMint retrieves a wallet's legs for one mint, ordered by
// timestamp ASC.
func (s *AttributedLegStore) GetByWalletMint(_ context.Context, wallet, mint string) ([]*domain.AttributedLeg, error) {
	if wallet == "" || mint == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var legs []*domain.AttributedLeg
	for _, leg := range s.data {
		if leg.WalletAddress == wallet && leg.Mint == mint {
			copy := *leg
			legs = append(legs, &copy)
		}
	}
	sortLegs(legs)
	return legs, nil
}

func sortLegs(legs []*domain.AttributedLeg) {
	sort.Slice(legs, func(i, j int) bool {
		a, b := legs[i], legs[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		if a.Signature != b.Signature {
			return a.Signature < b.Signature
		}
		if a.Mint != b.Mint {
			return a.Mint < b.Mint
		}
		return a.Direction < b.Direction
	})
}
