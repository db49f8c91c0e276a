// Package ingestion walks a wallet's signature history and fills the raw
// transaction cache through the Helius parse API. Runs are incremental:
// a per-wallet watermark stops the walk at signatures already seen.
package ingestion

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// SignatureInfo is one entry of a signature page, newest first.
type SignatureInfo struct {
	Signature string
	BlockTime int64
	Failed    bool
}

// SignatureSource pages through an address's signature history.
type SignatureSource interface {
	// SignaturePage returns up to limit signatures older than before
	// (exclusive), newest first. An empty before starts at the tip.
	SignaturePage(ctx context.Context, address, before string, limit int) ([]SignatureInfo, error)
}

// RPCSignatureSource implements SignatureSource over standard Solana RPC.
type RPCSignatureSource struct {
	client *rpc.Client
}

// NewRPCSignatureSource creates a SignatureSource against an RPC endpoint.
func NewRPCSignatureSource(endpoint string) *RPCSignatureSource {
	return &RPCSignatureSource{client: rpc.New(endpoint)}
}

// Compile-time interface check.
var _ SignatureSource = (*RPCSignatureSource)(nil)

// SignaturePage calls getSignaturesForAddress.
func (s *RPCSignatureSource) SignaturePage(ctx context.Context, address, before string, limit int) ([]SignatureInfo, error) {
	pub, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("parse address: %w", err)
	}

	opts := &rpc.GetSignaturesForAddressOpts{
		Commitment: rpc.CommitmentFinalized,
	}
	if limit > 0 {
		opts.Limit = &limit
	}
	if before != "" {
		sig, err := solana.SignatureFromBase58(before)
		if err != nil {
			return nil, fmt.Errorf("parse before signature: %w", err)
		}
		opts.Before = sig
	}

	entries, err := s.client.GetSignaturesForAddressWithOpts(ctx, pub, opts)
	if err != nil {
		return nil, fmt.Errorf("get signatures for address: %w", err)
	}

	page := make([]SignatureInfo, 0, len(entries))
	for _, e := range entries {
		info := SignatureInfo{
			Signature: e.Signature.String(),
			Failed:    e.Err != nil,
		}
		if e.BlockTime != nil {
			info.BlockTime = e.BlockTime.Time().Unix()
		}
		page = append(page, info)
	}
	return page, nil
}
