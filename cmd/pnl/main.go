package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"solana-wallet-lens/internal/pnl"
	"solana-wallet-lens/internal/reporting"
	chstore "solana-wallet-lens/internal/storage/clickhouse"
	"solana-wallet-lens/internal/storage/migrations"
	pgstore "solana-wallet-lens/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	wallet := flag.String("wallet", "", "Wallet address to aggregate")
	postgresDSN := flag.String("postgres-dsn", envOr("POSTGRES_DSN", ""), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", envOr("CLICKHOUSE_DSN", ""), "ClickHouse connection string (empty to skip aggregate storage)")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *wallet == "" {
		logger.Fatal("--wallet is required")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	ctx := context.Background()

	if err := run(ctx, logger, *wallet, *postgresDSN, *clickhouseDSN, *outputDir); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *logrus.Logger, wallet, postgresDSN, clickhouseDSN, outputDir string) error {
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	legs, err := pgstore.NewAttributedLegStore(pool).GetByWallet(ctx, wallet)
	if err != nil {
		return fmt.Errorf("load legs: %w", err)
	}
	logger.Infof("Loaded %d attributed legs", len(legs))

	positions := pnl.BuildPositions(wallet, legs)
	summary := pnl.BuildSummary(wallet, positions)

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}
		defer conn.Close()

		if err := chstore.NewWalletPnlStore(conn).InsertBulk(ctx, positions); err != nil {
			return fmt.Errorf("store positions: %w", err)
		}
		logger.Infof("Stored %d positions to ClickHouse", len(positions))
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	mdPath := filepath.Join(outputDir, "PNL_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderPnlMarkdown(summary)), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}

	csvPath := filepath.Join(outputDir, "POSITIONS.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderPositionsCSV(positions)), 0o644); err != nil {
		return fmt.Errorf("write positions csv: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"wallet":           wallet,
		"mints_traded":     summary.MintsTraded,
		"profitable_mints": summary.ProfitableMints,
		"sol_pnl":          summary.TotalSolPnl,
		"usdc_pnl":         summary.TotalUsdcPnl,
	}).Info("P&L report generated")
	fmt.Printf("  - %s\n  - %s\n", mdPath, csvPath)

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
