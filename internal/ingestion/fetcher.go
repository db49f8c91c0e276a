package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/helius"
	"solana-wallet-lens/internal/storage"
)

// Default configuration values.
const (
	DefaultPageSize = 1000
)

// Config holds fetcher settings.
type Config struct {
	// PageSize is the signature page size of the history walk.
	PageSize int

	// MaxTransactions caps how many new transactions one run may fetch.
	// Zero means unlimited.
	MaxTransactions int
}

// Result summarizes one fetch run.
type Result struct {
	SignaturesSeen int
	AlreadyCached  int
	FailedSkipped  int
	Fetched        int
	Malformed      int
}

// Fetcher fills the transaction cache for one wallet at a time.
type Fetcher struct {
	signatures SignatureSource
	source     helius.Source
	cache      storage.TransactionCacheStore
	progress   storage.IngestionProgressStore
	cfg        Config
	log        *logrus.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(
	signatures SignatureSource,
	source helius.Source,
	cache storage.TransactionCacheStore,
	progress storage.IngestionProgressStore,
	cfg Config,
	log *logrus.Logger,
) *Fetcher {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if log == nil {
		log = logrus.New()
	}
	return &Fetcher{
		signatures: signatures,
		source:     source,
		cache:      cache,
		progress:   progress,
		cfg:        cfg,
		log:        log,
	}
}

// Run walks the wallet's history from the tip down to the stored
// watermark, fetches uncached transactions, and advances the watermark.
func (f *Fetcher) Run(ctx context.Context, wallet string) (*Result, error) {
	watermark, err := f.progress.Get(ctx, wallet)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("load ingestion progress: %w", err)
		}
		watermark = &storage.IngestionProgress{WalletAddress: wallet}
	}

	result := &Result{}

	newSigs, newest, oldest, err := f.collectSignatures(ctx, wallet, watermark.NewestSignature, result)
	if err != nil {
		return nil, err
	}

	if err := f.fetchAndCache(ctx, newSigs, result); err != nil {
		return nil, err
	}

	if newest != "" {
		watermark.NewestSignature = newest
	}
	if watermark.OldestSignature == "" && oldest != "" {
		watermark.OldestSignature = oldest
	}
	watermark.Fetched += int64(result.Fetched)
	watermark.UpdatedAt = time.Now().Unix()
	if err := f.progress.Set(ctx, watermark); err != nil {
		return nil, fmt.Errorf("save ingestion progress: %w", err)
	}

	f.log.WithFields(map[string]interface{}{
		"wallet":  wallet,
		"seen":    result.SignaturesSeen,
		"cached":  result.AlreadyCached,
		"fetched": result.Fetched,
	}).Info("ingestion run complete")

	return result, nil
}

// collectSignatures pages newest-first until the watermark, the history
// end, or the run cap. Returns the signatures to fetch plus the newest and
// oldest signature seen.
func (f *Fetcher) collectSignatures(ctx context.Context, wallet, stopAt string, result *Result) (sigs []string, newest, oldest string, err error) {
	before := ""
	for {
		page, err := f.signatures.SignaturePage(ctx, wallet, before, f.cfg.PageSize)
		if err != nil {
			return nil, "", "", fmt.Errorf("signature page: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, info := range page {
			if info.Signature == stopAt && stopAt != "" {
				return sigs, newest, oldest, nil
			}
			result.SignaturesSeen++
			if newest == "" {
				newest = info.Signature
			}
			oldest = info.Signature
			if info.Failed {
				// On-chain failures carry no legs; skip the parse call.
				result.FailedSkipped++
				continue
			}
			sigs = append(sigs, info.Signature)
			if f.cfg.MaxTransactions > 0 && len(sigs) >= f.cfg.MaxTransactions {
				return sigs, newest, oldest, nil
			}
		}
		before = page[len(page)-1].Signature
	}
	return sigs, newest, oldest, nil
}

// fetchAndCache resolves uncached signatures through the parse API in
// batches and stores the raw payloads.
func (f *Fetcher) fetchAndCache(ctx context.Context, sigs []string, result *Result) error {
	for start := 0; start < len(sigs); start += helius.MaxParseBatch {
		end := start + helius.MaxParseBatch
		if end > len(sigs) {
			end = len(sigs)
		}
		batch := sigs[start:end]

		existing, err := f.cache.ExistingSignatures(ctx, batch)
		if err != nil {
			return fmt.Errorf("check cached signatures: %w", err)
		}

		missing := make([]string, 0, len(batch))
		for _, sig := range batch {
			if _, ok := existing[sig]; ok {
				result.AlreadyCached++
				continue
			}
			missing = append(missing, sig)
		}
		if len(missing) == 0 {
			continue
		}

		txs, err := f.source.ParseTransactions(ctx, missing)
		if err != nil {
			return fmt.Errorf("parse transactions: %w", err)
		}

		cached := make([]*domain.CachedTransaction, 0, len(txs))
		now := time.Now().Unix()
		for _, tx := range txs {
			if tx == nil || tx.Signature == "" {
				result.Malformed++
				continue
			}
			raw, err := json.Marshal(tx)
			if err != nil {
				result.Malformed++
				f.log.WithField("signature", tx.Signature).Warn("unserializable transaction skipped")
				continue
			}
			cached = append(cached, &domain.CachedTransaction{
				Signature: tx.Signature,
				Timestamp: tx.Timestamp,
				RawData:   raw,
				FetchedAt: now,
			})
		}

		if err := f.cache.PutBulk(ctx, cached); err != nil {
			return fmt.Errorf("cache transactions: %w", err)
		}
		result.Fetched += len(cached)
	}
	return nil
}
