package ingestion

import (
	"context"
	"fmt"
	"testing"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/storage/memory"
)

// fakeSignatureSource serves a fixed newest-first history in pages.
type fakeSignatureSource struct {
	history []SignatureInfo
}

func (f *fakeSignatureSource) SignaturePage(_ context.Context, _, before string, limit int) ([]SignatureInfo, error) {
	start := 0
	if before != "" {
		for i, info := range f.history {
			if info.Signature == before {
				start = i + 1
				break
			}
		}
		if start == 0 {
			return nil, fmt.Errorf("unknown cursor %q", before)
		}
	}
	end := start + limit
	if end > len(f.history) {
		end = len(f.history)
	}
	if start >= len(f.history) {
		return nil, nil
	}
	return f.history[start:end], nil
}

// fakeParseSource resolves signatures into minimal transactions and
// records what was requested.
type fakeParseSource struct {
	requested [][]string
}

func (f *fakeParseSource) ParseTransactions(_ context.Context, sigs []string) ([]*domain.HeliusTransaction, error) {
	f.requested = append(f.requested, append([]string(nil), sigs...))
	txs := make([]*domain.HeliusTransaction, 0, len(sigs))
	for _, sig := range sigs {
		txs = append(txs, &domain.HeliusTransaction{Signature: sig, Timestamp: 1700000000, Type: "SWAP"})
	}
	return txs, nil
}

func (f *fakeParseSource) AddressTransactions(_ context.Context, _, _ string, _ int) ([]*domain.HeliusTransaction, error) {
	return nil, nil
}

func sigInfos(sigs ...string) []SignatureInfo {
	infos := make([]SignatureInfo, 0, len(sigs))
	for i, sig := range sigs {
		infos = append(infos, SignatureInfo{Signature: sig, BlockTime: int64(1700001000 - i)})
	}
	return infos
}

func newTestFetcher(history []SignatureInfo, cfg Config) (*Fetcher, *fakeParseSource, *memory.TransactionCacheStore, *memory.IngestionProgressStore) {
	parse := &fakeParseSource{}
	cache := memory.NewTransactionCacheStore()
	progress := memory.NewIngestionProgressStore()
	f := NewFetcher(&fakeSignatureSource{history: history}, parse, cache, progress, cfg, nil)
	return f, parse, cache, progress
}

func TestFetcherRun_FullWalk(t *testing.T) {
	f, _, cache, progress := newTestFetcher(sigInfos("s3", "s2", "s1"), Config{PageSize: 2})
	ctx := context.Background()

	result, err := f.Run(ctx, "wallet-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SignaturesSeen != 3 || result.Fetched != 3 {
		t.Errorf("expected 3 seen and fetched, got %+v", result)
	}

	all, _ := cache.GetAll(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 cached transactions, got %d", len(all))
	}

	p, err := progress.Get(ctx, "wallet-1")
	if err != nil {
		t.Fatalf("progress.Get: %v", err)
	}
	if p.NewestSignature != "s3" {
		t.Errorf("expected newest watermark s3, got %s", p.NewestSignature)
	}
	if p.OldestSignature != "s1" {
		t.Errorf("expected oldest watermark s1, got %s", p.OldestSignature)
	}
	if p.Fetched != 3 {
		t.Errorf("expected fetched 3, got %d", p.Fetched)
	}
}

func TestFetcherRun_IncrementalStopsAtWatermark(t *testing.T) {
	ctx := context.Background()

	f, parse, cache, _ := newTestFetcher(sigInfos("s3", "s2", "s1"), Config{PageSize: 10})
	if _, err := f.Run(ctx, "wallet-1"); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// Two new transactions land at the tip.
	f.signatures = &fakeSignatureSource{history: sigInfos("s5", "s4", "s3", "s2", "s1")}
	parse.requested = nil

	result, err := f.Run(ctx, "wallet-1")
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if result.SignaturesSeen != 2 || result.Fetched != 2 {
		t.Errorf("expected incremental run to see and fetch 2, got %+v", result)
	}
	for _, batch := range parse.requested {
		for _, sig := range batch {
			if sig == "s3" || sig == "s2" || sig == "s1" {
				t.Errorf("already-ingested signature %s re-requested", sig)
			}
		}
	}

	all, _ := cache.GetAll(ctx)
	if len(all) != 5 {
		t.Errorf("expected 5 cached transactions, got %d", len(all))
	}
}

func TestFetcherRun_SkipsFailedSignatures(t *testing.T) {
	history := sigInfos("s3", "s2", "s1")
	history[1].Failed = true

	f, _, cache, _ := newTestFetcher(history, Config{})
	result, err := f.Run(context.Background(), "wallet-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FailedSkipped != 1 {
		t.Errorf("expected 1 failed signature skipped, got %d", result.FailedSkipped)
	}
	all, _ := cache.GetAll(context.Background())
	if len(all) != 2 {
		t.Errorf("expected 2 cached transactions, got %d", len(all))
	}
}

func TestFetcherRun_SkipsAlreadyCached(t *testing.T) {
	f, parse, cache, _ := newTestFetcher(sigInfos("s2", "s1"), Config{})
	ctx := context.Background()

	// s1 is already in the cache from an earlier wallet sharing the tx.
	cache.Put(ctx, &domain.CachedTransaction{Signature: "s1", Timestamp: 1, RawData: []byte(`{}`)})

	result, err := f.Run(ctx, "wallet-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.AlreadyCached != 1 || result.Fetched != 1 {
		t.Errorf("expected 1 cached and 1 fetched, got %+v", result)
	}
	for _, batch := range parse.requested {
		for _, sig := range batch {
			if sig == "s1" {
				t.Error("cached signature s1 re-requested")
			}
		}
	}
}

func TestFetcherRun_MaxTransactionsCap(t *testing.T) {
	f, _, _, _ := newTestFetcher(sigInfos("s4", "s3", "s2", "s1"), Config{MaxTransactions: 2})
	result, err := f.Run(context.Background(), "wallet-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Fetched != 2 {
		t.Errorf("expected cap of 2 fetched, got %d", result.Fetched)
	}
}
