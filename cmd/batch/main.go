// Package main provides the daily consensus batch entry point.
// Executes: load universe → resolve facts → compute metrics → diff logs → history
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

	"equity-consensus-lab/internal/config"
	"equity-consensus-lab/internal/observability"
	"equity-consensus-lab/internal/orchestrator"
	"equity-consensus-lab/internal/storage"
	chstore "equity-consensus-lab/internal/storage/clickhouse"
	"equity-consensus-lab/internal/storage/migrations"
	pgstore "equity-consensus-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file (optional, env vars apply either way)")
	snapshotFlag := flag.String("snapshot-date", "", "Snapshot date YYYY-MM-DD (default: today UTC)")
	skipHistory := flag.Bool("skip-history", false, "Skip the history append (for same-day re-runs)")
	migrate := flag.Bool("migrate", false, "Apply embedded schema migrations before running")
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

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn().Str("signal", sig.String()).Msg("received signal, cancelling batch")
		cancel()
	}()

	// Optional Prometheus endpoint for scrape-while-running setups
	if cfg.Metrics.Enabled {
		go func() {
			logger.Info().Str("addr", cfg.Metrics.ListenAddr).Msg("serving metrics")
			if err := http.ListenAndServe(cfg.Metrics.ListenAddr, observability.Handler()); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()

	if *migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("apply postgres migrations")
		}
		logger.Info().Msg("postgres migrations applied")
	}

	var historyStore storage.MetricHistoryStore
	if cfg.Database.ClickHouseDSN != "" {
		var conn *chstore.Conn
		if *migrate {
			conn, err = migrations.RunClickhouseMigrations(ctx, cfg.Database.ClickHouseDSN)
		} else {
			conn, err = chstore.NewConn(ctx, cfg.Database.ClickHouseDSN)
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to clickhouse")
		}
		defer conn.Close()
		historyStore = chstore.NewMetricHistoryStore(conn)
	} else {
		logger.Warn().Msg("no clickhouse dsn configured, history append disabled")
	}

	targetY1, targetY2 := cfg.TargetYears(snapshotDate.Year())

	orch := orchestrator.New(orchestrator.Options{
		CompanyStore:  pgstore.NewCompanyStore(pool),
		FactStore:     pgstore.NewFinancialFactStore(pool),
		MetricStore:   pgstore.NewConsensusMetricStore(pool),
		DiffLogStore:  pgstore.NewConsensusDiffLogStore(pool),
		ProgressStore: pgstore.NewBatchProgressStore(pool),
		HistoryStore:  historyStore,
		TargetY1:      targetY1,
		TargetY2:      targetY2,
		SkipHistory:   *skipHistory || cfg.Batch.SkipHistory,
		Logger:        logger,
	})

	logger.Info().
		Str("snapshot_date", snapshotDate.Format("2006-01-02")).
		Int("target_y1", targetY1).
		Int("target_y2", targetY2).
		Msg("starting consensus batch")

	start := time.Now()
	result, err := orch.Run(ctx, snapshotDate)
	if err != nil {
		logger.Fatal().Err(err).Msg("batch failed")
	}

	for _, e := range result.Errors {
		logger.Warn().Str("error", e).Msg("row-level error")
	}

	logger.Info().
		Int("companies", result.CompaniesProcessed).
		Int("metrics_upserted", result.MetricsUpserted).
		Int("diff_logs_upserted", result.DiffLogsUpserted).
		Int("history_appended", result.HistoryAppended).
		Int("row_errors", len(result.Errors)).
		Dur("elapsed", time.Since(start)).
		Msg("consensus batch completed")

	for status, count := range result.StatusCounts {
		logger.Info().Str("status", string(status)).Int("count", count).Msg("status breakdown")
	}
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
