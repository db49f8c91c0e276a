package clickhouse

import (
	"context"
	"fmt"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage"
)

// WalletPnlStore implements storage.WalletPnlStore using ClickHouse
// (table wallet_pnl_aggregates, ReplacingMergeTree keyed by wallet+mint).
type WalletPnlStore struct {
	conn *Conn
}

// NewWalletPnlStore creates a new WalletPnlStore.
func NewWalletPnlStore(conn *Conn) *WalletPnlStore {
	return &WalletPnlStore{conn: conn}
}

// Compile-time interface check.
var _ storage.WalletPnlStore = (*WalletPnlStore)(nil)

// InsertBulk adds per-mint position rows for one generation run. Repeated
// runs for the same wallet converge via ReplacingMergeTree.
func (s *WalletPnlStore) InsertBulk(ctx context.Context, positions []*domain.MintPosition) error {
	if len(positions) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO wallet_pnl_aggregates (
			wallet_address, mint, amount_in, amount_out,
			sol_spent, sol_received, usdc_spent, usdc_received,
			leg_count, first_activity, last_activity
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range positions {
		if p == nil || p.WalletAddress == "" || p.Mint == "" {
			return storage.ErrInvalidInput
		}
		err = batch.Append(
			p.WalletAddress, p.Mint, p.AmountIn, p.AmountOut,
			p.SolSpent, p.SolReceived, p.UsdcSpent, p.UsdcReceived,
			uint32(p.LegCount), uint64(p.FirstActivity), uint64(p.LastActivity),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByWallet retrieves a wallet's positions ordered by mint ASC. FINAL
// collapses replaced rows from repeated generation runs.
func (s *WalletPnlStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.MintPosition, error) {
	if wallet == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT wallet_address, mint, amount_in, amount_out,
		       sol_spent, sol_received, usdc_spent, usdc_received,
		       leg_count, first_activity, last_activity
		FROM wallet_pnl_aggregates FINAL
		WHERE wallet_address = ?
		ORDER BY mint ASC
	`

	rows, err := s.conn.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get positions by wallet: %w", err)
	}
	defer rows.Close()

	var positions []*domain.MintPosition
	for rows.Next() {
		var (
			p             domain.MintPosition
			legCount      uint32
			firstActivity uint64
			lastActivity  uint64
		)
		err := rows.Scan(
			&p.WalletAddress, &p.Mint, &p.AmountIn, &p.AmountOut,
			&p.SolSpent, &p.SolReceived, &p.UsdcSpent, &p.UsdcReceived,
			&legCount, &firstActivity, &lastActivity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		p.LegCount = int(legCount)
		p.FirstActivity = int64(firstActivity)
		p.LastActivity = int64(lastActivity)
		positions = append(positions, &p)
	}
	return positions, rows.Err()
}
