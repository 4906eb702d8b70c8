// Package orchestrator coordinates the daily consensus batch run.
// Flow: load universe → resolve facts → compute and persist daily metrics →
// build and persist diff logs → record progress.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"equity-consensus-lab/internal/consensus"
	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/facts"
	"equity-consensus-lab/internal/lookup"
	"equity-consensus-lab/internal/observability"
	"equity-consensus-lab/internal/signals"
	"equity-consensus-lab/internal/storage"
)

// JobName identifies the daily run in the batch progress table.
const JobName = "consensus-daily"

// Orchestrator coordinates the daily batch execution.
type Orchestrator struct {
	companyStore  storage.CompanyStore
	factStore     storage.FinancialFactStore
	metricStore   storage.ConsensusMetricStore
	diffLogStore  storage.ConsensusDiffLogStore
	historyStore  storage.MetricHistoryStore
	progressStore storage.BatchProgressStore

	targetY1 int
	targetY2 int

	skipHistory bool
	log         zerolog.Logger
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	CompanyStore  storage.CompanyStore
	FactStore     storage.FinancialFactStore
	MetricStore   storage.ConsensusMetricStore
	DiffLogStore  storage.ConsensusDiffLogStore
	ProgressStore storage.BatchProgressStore

	// Optional chart history sink. Nil disables the history phase.
	HistoryStore storage.MetricHistoryStore

	// Target fiscal years for the run
	TargetY1 int
	TargetY2 int

	// SkipHistory disables history appends even when a store is wired,
	// for re-runs of an already recorded snapshot.
	SkipHistory bool

	Logger zerolog.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		companyStore:  opts.CompanyStore,
		factStore:     opts.FactStore,
		metricStore:   opts.MetricStore,
		diffLogStore:  opts.DiffLogStore,
		historyStore:  opts.HistoryStore,
		progressStore: opts.ProgressStore,
		targetY1:      opts.TargetY1,
		targetY2:      opts.TargetY2,
		skipHistory:   opts.SkipHistory,
		log:           opts.Logger.With().Str("component", "orchestrator").Logger(),
	}
}

// RunResult contains results from one batch execution.
type RunResult struct {
	CompaniesProcessed int
	MetricsUpserted    int
	DiffLogsUpserted   int
	HistoryAppended    int
	StatusCounts       map[domain.CalcStatus]int
	Errors             []string
}

// Run executes the daily batch for the given snapshot date.
// Per-ticker failures are collected into the result; only infrastructure
// failures abort the run.
func (o *Orchestrator) Run(ctx context.Context, snapshotDate time.Time) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{StatusCounts: make(map[domain.CalcStatus]int)}

	// Phase 1: Load the active universe
	o.log.Info().Time("snapshot_date", snapshotDate).Msg("phase 1: loading universe")
	companies, err := o.companyStore.GetActive(ctx)
	if err != nil {
		observability.RecordBatchPhase("load_universe", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("phase 1 (load universe) failed: %w", err)
	}
	result.CompaniesProcessed = len(companies)
	observability.DefaultMetrics.CompaniesProcessed.Add(float64(len(companies)))
	o.log.Info().Int("companies", len(companies)).Msg("universe loaded")

	if len(companies) == 0 {
		return result, nil
	}

	// Phase 2: Resolve facts into per-ticker year pairs
	o.log.Info().Int("target_y1", o.targetY1).Int("target_y2", o.targetY2).Msg("phase 2: resolving facts")
	allFacts, err := o.factStore.GetByYears(ctx, o.targetY1, o.targetY2, snapshotDate)
	if err != nil {
		observability.RecordBatchPhase("resolve_facts", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("phase 2 (resolve facts) failed: %w", err)
	}
	observability.DefaultMetrics.FactsLoaded.Add(float64(len(allFacts)))
	pairs := facts.Resolve(allFacts, o.targetY1, o.targetY2)
	o.log.Info().Int("facts", len(allFacts)).Int("tickers", len(pairs)).Msg("facts resolved")

	// Phase 3: Compute and persist daily metrics
	o.log.Info().Msg("phase 3: computing daily metrics")
	dailyRows := o.runEngine(ctx, snapshotDate, companies, pairs, result)

	// Phase 4: Diff logs against historical baselines
	o.log.Info().Msg("phase 4: building diff logs")
	o.runDiffLogs(ctx, snapshotDate, dailyRows, result)

	// Phase 5: Append chart history and record progress
	if o.historyStore != nil && !o.skipHistory {
		o.log.Info().Msg("phase 5: appending history")
		if err := o.historyStore.InsertBulk(ctx, dailyRows); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("append history: %v", err))
		} else {
			result.HistoryAppended = len(dailyRows)
			observability.DefaultMetrics.HistoryAppended.Add(float64(len(dailyRows)))
		}
	}

	if err := o.progressStore.Record(ctx, &storage.BatchProgress{
		JobName:            JobName,
		SnapshotDate:       snapshotDate,
		CompaniesProcessed: result.CompaniesProcessed,
		MetricsUpserted:    result.MetricsUpserted,
		DiffLogsUpserted:   result.DiffLogsUpserted,
		ErrorCount:         len(result.Errors),
	}); err != nil {
		return nil, fmt.Errorf("record batch progress: %w", err)
	}

	observability.RecordBatchPhase("run", "ok", time.Since(start).Seconds())
	observability.DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()
	o.log.Info().
		Int("metrics", result.MetricsUpserted).
		Int("diff_logs", result.DiffLogsUpserted).
		Int("errors", len(result.Errors)).
		Dur("elapsed", time.Since(start)).
		Msg("batch completed")

	return result, nil
}

// runEngine evaluates each active company's year pair and upserts the daily row.
// Companies with no facts get a MISSING pair so they still produce an ERROR row.
func (o *Orchestrator) runEngine(ctx context.Context, snapshotDate time.Time, companies []*domain.Company, pairs map[string]domain.YearPair, result *RunResult) []*domain.ConsensusMetricDaily {
	var rows []*domain.ConsensusMetricDaily

	for _, company := range companies {
		pair, ok := pairs[company.Ticker]
		if !ok {
			pair = domain.YearPair{TargetY1: o.targetY1, TargetY2: o.targetY2}
			observability.DefaultMetrics.IncompletePairs.Inc()
		}

		res := consensus.Assemble(pair)
		row := consensus.ToDaily(snapshotDate, company.Ticker, company.CompanyID, res)

		result.StatusCounts[row.CalcStatus]++
		observability.RecordRowStatus(row.CalcStatus.String())

		if err := o.metricStore.Upsert(ctx, row); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("upsert metric %s: %v", company.Ticker, err))
			observability.RecordTickerSkipped("upsert_failed")
			continue
		}
		result.MetricsUpserted++
		observability.DefaultMetrics.MetricsUpserted.Inc()
		rows = append(rows, row)
	}

	return rows
}

// runDiffLogs builds and upserts one diff log per persisted daily row.
func (o *Orchestrator) runDiffLogs(ctx context.Context, snapshotDate time.Time, rows []*domain.ConsensusMetricDaily, result *RunResult) {
	locator := lookup.NewBaselineLocator(o.metricStore)

	for _, row := range rows {
		baselines, err := locator.Locate(ctx, row.Ticker, row.TargetY1, row.TargetY2, snapshotDate)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("locate baselines %s: %v", row.Ticker, err))
			continue
		}
		recordBaselineMisses(baselines)

		diffLog := signals.Build(row, baselines)
		if err := o.diffLogStore.Upsert(ctx, diffLog); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("upsert diff log %s: %v", row.Ticker, err))
			continue
		}
		result.DiffLogsUpserted++
		observability.DefaultMetrics.DiffLogsUpserted.Inc()

		for _, tag := range diffLog.SignalTags {
			observability.RecordSignalTag(tag.String())
		}
		recordAlerts(diffLog.Alerts)
	}
}

func recordBaselineMisses(b signals.Baselines) {
	if b.D1 == nil {
		observability.RecordBaselineMiss("d1")
	}
	if b.W1 == nil {
		observability.RecordBaselineMiss("w1")
	}
	if b.M1 == nil {
		observability.RecordBaselineMiss("m1")
	}
}

func recordAlerts(a domain.AlertFlags) {
	if a.IsOverheat {
		observability.RecordAlert("overheat")
	}
	if a.IsTargetZone {
		observability.RecordAlert("target_zone")
	}
	if a.IsTurnaround {
		observability.RecordAlert("turnaround")
	}
	if a.IsHighGrowth {
		observability.RecordAlert("high_growth")
	}
	if a.IsHealthy {
		observability.RecordAlert("healthy")
	}
}
