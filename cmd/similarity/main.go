package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"solana-wallet-lens/internal/domain"
	"solana-wallet-lens/internal/reporting"
	"solana-wallet-lens/internal/similarity"
	pgstore "solana-wallet-lens/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	wallets := flag.String("wallets", "", "Comma-separated wallet addresses to compare (at least 2)")
	postgresDSN := flag.String("postgres-dsn", envOr("POSTGRES_DSN", ""), "PostgreSQL connection string")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	list := splitWallets(*wallets)
	if len(list) < 2 {
		logger.Fatal("--wallets needs at least 2 comma-separated addresses")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	ctx := context.Background()

	if err := run(ctx, logger, list, *postgresDSN, *outputDir); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *logrus.Logger, wallets []string, postgresDSN, outputDir string) error {
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	legStore := pgstore.NewAttributedLegStore(pool)

	legsByWallet := make(map[string][]*domain.AttributedLeg, len(wallets))
	for _, wallet := range wallets {
		legs, err := legStore.GetByWallet(ctx, wallet)
		if err != nil {
			return fmt.Errorf("load legs for %s: %w", wallet, err)
		}
		if len(legs) == 0 {
			logger.Warnf("Wallet %s has no attributed legs", wallet)
		}
		legsByWallet[wallet] = legs
	}

	scores := similarity.Pairwise(wallets, legsByWallet)
	logger.Infof("Compared %d wallet pairs", len(scores))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	mdPath := filepath.Join(outputDir, "SIMILARITY_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderSimilarityMarkdown(scores)), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}

	csvPath := filepath.Join(outputDir, "SIMILARITY.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderSimilarityCSV(scores)), 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	fmt.Printf("  - %s\n  - %s\n", mdPath, csvPath)
	return nil
}

// splitWallets splits and trims a comma-separated address list.
func splitWallets(s string) []string {
	var out []string
	for _, w := range strings.Split(s, ",") {
		w = strings.TrimSpace(w)
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
