package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"solana-wallet-lens/internal/helius"
	"solana-wallet-lens/internal/ingestion"
	"solana-wallet-lens/internal/observability"
	"solana-wallet-lens/internal/storage"
	"solana-wallet-lens/internal/storage/memory"
	"solana-wallet-lens/internal/storage/migrations"
	pgstore "solana-wallet-lens/internal/storage/postgres"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	wallet := flag.String("wallet", "", "Wallet address to ingest")
	rpcEndpoint := flag.String("rpc-endpoint", envOr("SOLANA_RPC_ENDPOINT", ""), "Solana RPC HTTP endpoint")
	heliusKey := flag.String("helius-api-key", envOr("HELIUS_API_KEY", ""), "Helius API key")
	postgresDSN := flag.String("postgres-dsn", envOr("POSTGRES_DSN", ""), "PostgreSQL connection string")
	pageSize := flag.Int("page-size", ingestion.DefaultPageSize, "Signature page size for the history walk")
	maxTransactions := flag.Int("max-transactions", 0, "Cap on new transactions per run (0 = unlimited)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *wallet == "" {
		logger.Fatal("--wallet is required")
	}
	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required (or set SOLANA_RPC_ENDPOINT)")
	}
	if *heliusKey == "" {
		logger.Fatal("--helius-api-key is required (or set HELIUS_API_KEY)")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Infof("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Errorf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, *wallet, *rpcEndpoint, *heliusKey, *postgresDSN, *pageSize, *maxTransactions, *useMemory); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *logrus.Logger, wallet, rpcEndpoint, heliusKey, postgresDSN string, pageSize, maxTransactions int, useMemory bool) error {
	var cache storage.TransactionCacheStore = memory.NewTransactionCacheStore()
	var progress storage.IngestionProgressStore = memory.NewIngestionProgressStore()

	if !useMemory {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		cache = pgstore.NewTransactionCacheStore(pool)
		progress = pgstore.NewIngestionProgressStore(pool)
	}

	fetcher := ingestion.NewFetcher(
		ingestion.NewRPCSignatureSource(rpcEndpoint),
		helius.NewHTTPClient(heliusKey),
		cache,
		progress,
		ingestion.Config{PageSize: pageSize, MaxTransactions: maxTransactions},
		logger,
	)

	result, err := fetcher.Run(ctx, wallet)
	if err != nil {
		observability.RecordFetchError("run")
		return err
	}

	observability.DefaultMetrics.SignaturesSeen.Add(float64(result.SignaturesSeen))
	observability.DefaultMetrics.TransactionsFetched.Add(float64(result.Fetched))
	observability.DefaultMetrics.TransactionsCached.Add(float64(result.Fetched))
	observability.DefaultMetrics.LastSuccessfulFetch.Set(float64(time.Now().Unix()))

	logger.WithFields(logrus.Fields{
		"wallet":          wallet,
		"signatures_seen": result.SignaturesSeen,
		"already_cached":  result.AlreadyCached,
		"failed_skipped":  result.FailedSkipped,
		"fetched":         result.Fetched,
		"malformed":       result.Malformed,
	}).Info("Ingestion complete")

	return nil
}

// envOr returns the environment value for key, or fallback if unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
