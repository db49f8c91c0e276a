package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/mapper"
	"solana-wallet-lens/internal/observability"
	"solana-wallet-lens/internal/reporting"
	"solana-wallet-lens/internal/storage/migrations"
	pgstore "solana-wallet-lens/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	wallet := flag.String("wallet", "", "Wallet address to map")
	postgresDSN := flag.String("postgres-dsn", envOr("POSTGRES_DSN", ""), "PostgreSQL connection string")
	fromTime := flag.String("from-time", "", "Only map cached transactions at/after this time (RFC3339)")
	toTime := flag.String("to-time", "", "Only map cached transactions at/before this time (RFC3339)")
	outputDir := flag.String("output-dir", "", "Directory for the mapping report (empty to skip)")
	disableLiquidityFilter := flag.Bool("disable-liquidity-filter", false, "Map one-sided UNKNOWN transactions instead of skipping them")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *wallet == "" {
		logger.Fatal("--wallet is required")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, *wallet, *postgresDSN, *fromTime, *toTime, *outputDir, *disableLiquidityFilter); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *logrus.Logger, wallet, postgresDSN, fromTime, toTime, outputDir string, disableLiquidityFilter bool) error {
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return fmt.Errorf("run postgres migrations: %w", err)
	}

	cache := pgstore.NewTransactionCacheStore(pool)
	legStore := pgstore.NewAttributedLegStore(pool)
	activityLog := pgstore.NewActivityLogStore(pool)

	// Load cached transactions
	var cached []*domain.CachedTransaction
	if fromTime != "" || toTime != "" {
		start, end, err := parseTimeRange(fromTime, toTime)
		if err != nil {
			return err
		}
		cached, err = cache.GetByTimeRange(ctx, start, end)
		if err != nil {
			return fmt.Errorf("load cached transactions: %w", err)
		}
	} else {
		cached, err = cache.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("load cached transactions: %w", err)
		}
	}
	logger.Infof("Loaded %d cached transactions", len(cached))

	txs := make([]*domain.HeliusTransaction, 0, len(cached))
	malformed := 0
	for _, c := range cached {
		tx, err := c.Decode()
		if err != nil {
			malformed++
			logger.WithField("signature", c.Signature).Warnf("Malformed cached transaction: %v", err)
			continue
		}
		txs = append(txs, tx)
	}

	cfg := mapper.DefaultConfig()
	if disableLiquidityFilter {
		cfg.LiquidityFilterEnabled = false
	}

	start := time.Now()
	legs, stats, err := mapper.New(cfg, logger).MapBatch(wallet, txs)
	if err != nil {
		return fmt.Errorf("map batch: %w", err)
	}
	observability.DefaultMetrics.BatchesMapped.Inc()
	observability.DefaultMetrics.MapBatchDuration.Observe(time.Since(start).Seconds())
	for tier, n := range stats.TierHits {
		observability.DefaultMetrics.TierHits.WithLabelValues(string(tier)).Add(float64(n))
	}
	for _, leg := range legs {
		observability.DefaultMetrics.LegsEmitted.WithLabelValues(string(leg.Direction)).Inc()
	}

	// Re-running a wallet replaces its prior legs wholesale.
	if err := legStore.ReplaceWallet(ctx, wallet, legs); err != nil {
		return fmt.Errorf("store legs: %w", err)
	}

	if err := activityLog.Append(ctx, &domain.ActivityLogEntry{
		WalletAddress: wallet,
		BatchAt:       time.Now().Unix(),
		Stats:         stats,
	}); err != nil {
		return fmt.Errorf("append activity log: %w", err)
	}
	observability.DefaultMetrics.LastSuccessfulMap.Set(float64(time.Now().Unix()))

	logger.WithFields(logrus.Fields{
		"wallet":       wallet,
		"transactions": stats.TransactionsReceived,
		"mapped":       stats.TransactionsMapped,
		"legs":         len(legs),
		"malformed":    malformed,
	}).Info("Mapping complete")

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path := filepath.Join(outputDir, "MAPPING_REPORT.md")
		if err := os.WriteFile(path, []byte(reporting.RenderStatsMarkdown(wallet, stats)), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Infof("Report written to %s", path)
	}

	return nil
}

// parseTimeRange converts optional RFC3339 bounds into Unix seconds.
// Missing bounds default to the epoch and now respectively.
func parseTimeRange(fromTime, toTime string) (int64, int64, error) {
	var start, end int64
	end = time.Now().Unix()

	if fromTime != "" {
		t, err := time.Parse(time.RFC3339, fromTime)
		if err != nil {
			return 0, 0, fmt.Errorf("parse from-time: %w", err)
		}
		start = t.Unix()
	}
	if toTime != "" {
		t, err := time.Parse(time.RFC3339, toTime)
		if err != nil {
			return 0, 0, fmt.Errorf("parse to-time: %w", err)
		}
		end = t.Unix()
	}
	return start, end, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
