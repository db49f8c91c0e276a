package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/idhash"
	"solana-wallet-lens/internal/storage"
)

// AttributedLegStore implements storage.AttributedLegStore using
// PostgreSQL (table swap_analysis_inputs). The primary key is the
// idhash leg identity.
type AttributedLegStore struct {
	pool *Pool
}

// NewAttributedLegStore creates a new AttributedLegStore.
func NewAttributedLegStore(pool *Pool) *AttributedLegStore {
	return &AttributedLegStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AttributedLegStore = (*AttributedLegStore)(nil)

const legInsertQuery = `
	INSERT INTO swap_analysis_inputs (
		leg_id, wallet_address, signature, timestamp, mint, amount, direction,
		associated_sol_value, associated_usdc_value, interaction_type, tier,
		fee_amount, fee_percentage, from_account, to_account
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

const legSelectColumns = `
	wallet_address, signature, timestamp, mint, amount, direction,
	associated_sol_value, associated_usdc_value, interaction_type, tier,
	fee_amount, fee_percentage, from_account, to_account
`

func execLegInsert(ctx context.Context, tx pgx.Tx, leg *domain.AttributedLeg) error {
	_, err := tx.Exec(ctx, legInsertQuery,
		idhash.ComputeLegID(leg),
		leg.WalletAddress,
		leg.Signature,
		leg.Timestamp,
		leg.Mint,
		leg.Amount,
		leg.Direction.String(),
		leg.AssociatedSolValue,
		leg.AssociatedUsdcValue,
		leg.InteractionType,
		leg.Tier.String(),
		leg.FeeAmount,
		leg.FeePercentage,
		leg.FromAccount,
		leg.ToAccount,
	)
	return err
}

// InsertBulk adds multiple legs atomically. Fails the entire batch with
// ErrDuplicateKey on any identity conflict.
func (s *AttributedLegStore) InsertBulk(ctx context.Context, legs []*domain.AttributedLeg) error {
	if len(legs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, leg := range legs {
		if leg == nil || leg.WalletAddress == "" || leg.Signature == "" {
			return storage.ErrInvalidInput
		}
		if err := execLegInsert(ctx, tx, leg); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert leg in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ReplaceWallet atomically deletes a wallet's legs and inserts the given
// set. Re-running a mapping is idempotent through this method.
func (s *AttributedLegStore) ReplaceWallet(ctx context.Context, wallet string, legs []*domain.AttributedLeg) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM swap_analysis_inputs WHERE wallet_address = $1`, wallet); err != nil {
		return fmt.Errorf("delete wallet legs: %w", err)
	}

	for _, leg := range legs {
		if leg == nil || leg.WalletAddress != wallet {
			return storage.ErrInvalidInput
		}
		if err := execLegInsert(ctx, tx, leg); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert wallet leg: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByWallet retrieves all legs of a wallet ordered by timestamp ASC.
func (s *AttributedLegStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.AttributedLeg, error) {
	if wallet == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT ` + legSelectColumns + `
		FROM swap_analysis_inputs
		WHERE wallet_address = $1
		ORDER BY timestamp ASC, signature ASC, mint ASC, direction ASC
	`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get legs by wallet: %w", err)
	}
	defer rows.Close()

	return scanLegs(rows)
}

// GetByWalletMint retrieves a wallet's legs for one mint, ordered by
// timestamp ASC.
func (s *AttributedLegStore) GetByWalletMint(ctx context.Context, wallet, mint string) ([]*domain.AttributedLeg, error) {
	if wallet == "" || mint == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT ` + legSelectColumns + `
		FROM swap_analysis_inputs
		WHERE wallet_address = $1 AND mint = $2
		ORDER BY timestamp ASC, signature ASC, direction ASC
	`

	rows, err := s.pool.Query(ctx, query, wallet, mint)
	if err != nil {
		return nil, fmt.Errorf("get legs by wallet and mint: %w", err)
	}
	defer rows.Close()

	return scanLegs(rows)
}

func scanLegs(rows pgx.Rows) ([]*domain.AttributedLeg, error) {
	var legs []*domain.AttributedLeg
	for rows.Next() {
		var (
			leg       domain.AttributedLeg
			direction string
			tier      string
		)
		err := rows.Scan(
			&leg.WalletAddress,
			&leg.Signature,
			&leg.Timestamp,
			&leg.Mint,
			&leg.Amount,
			&direction,
			&leg.AssociatedSolValue,
			&leg.AssociatedUsdcValue,
			&leg.InteractionType,
			&tier,
			&leg.FeeAmount,
			&leg.FeePercentage,
			&leg.FromAccount,
			&leg.ToAccount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan leg: %w", err)
		}
		leg.Direction = domain.Direction(direction)
		leg.Tier = domain.AttributionTier(tier)
		legs = append(legs, &leg)
	}
	return legs, rows.Err()
}
