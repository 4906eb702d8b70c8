// Package main generates the daily consensus dashboard report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"equity-consensus-lab/internal/config"
	"equity-consensus-lab/internal/observability"
	"equity-consensus-lab/internal/reporting"
	pgstore "equity-consensus-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file (optional, env vars apply either way)")
	snapshotFlag := flag.String("snapshot-date", "", "Snapshot date YYYY-MM-DD (default: today UTC)")
	outputDir := flag.String("output-dir", "", "Output directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	snapshotDate, err := resolveSnapshotDate(*snapshotFlag)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid snapshot date")
	}

	dir := cfg.Report.OutputDir
	if *outputDir != "" {
		dir = *outputDir
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()

	gen := reporting.NewGenerator(
		pgstore.NewConsensusMetricStore(pool),
		pgstore.NewConsensusDiffLogStore(pool),
	)

	report, err := gen.Generate(ctx, snapshotDate)
	if err != nil {
		logger.Fatal().Err(err).Msg("generate report")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", dir).Msg("create output directory")
	}

	mdPath := filepath.Join(dir, "CONSENSUS_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		logger.Fatal().Err(err).Str("path", mdPath).Msg("write markdown report")
	}

	csvPath := filepath.Join(dir, "priority_ranking.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Ranking)), 0o644); err != nil {
		logger.Fatal().Err(err).Str("path", csvPath).Msg("write ranking csv")
	}

	logger.Info().
		Str("snapshot_date", snapshotDate.Format("2006-01-02")).
		Int("rows", report.Summary.TotalRows).
		Str("markdown", mdPath).
		Str("csv", csvPath).
		Msg("report generated")
}

// resolveSnapshotDate parses the flag value, falling back to today at UTC midnight.
func resolveSnapshotDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse snapshot date %q: %w", value, err)
	}
	return d, nil
}
