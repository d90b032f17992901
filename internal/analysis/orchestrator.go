package analysis

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
)

// PeriodStore owns analysis periods and their persisted summary rows.
type PeriodStore interface {
	// GetPeriod returns nil without error when the period does not exist.
	GetPeriod(ctx context.Context, periodID int64) (*core.AnalysisPeriod, error)
	ListPeriods(ctx context.Context, userID int64) ([]core.AnalysisPeriod, error)
	// ReplaceAnalysis atomically swaps the stored row set for the period:
	// delete everything for (period, user), insert rows, commit as one unit.
	ReplaceAnalysis(ctx context.Context, periodID, userID int64, rows []core.AnalysisRow) error
	AnalysisRows(ctx context.Context, periodID, userID int64) ([]core.AnalysisRow, error)
}

// Orchestrator rebuilds persisted summary rows from current ledger data.
// Recomputes for the same (period, user) are serialized; distinct periods
// recompute independently.
type Orchestrator struct {
	periods    PeriodStore
	aggregator *Aggregator
	logger     *log.Logger

	mu    sync.Mutex
	locks map[periodLock]*sync.Mutex
}

type periodLock struct {
	periodID int64
	userID   int64
}

func NewOrchestrator(periods PeriodStore, aggregator *Aggregator, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Orchestrator{
		periods:    periods,
		aggregator: aggregator,
		logger:     logger.WithComponent(log.ComponentAnalysis),
		locks:      make(map[periodLock]*sync.Mutex),
	}
}

// lockFor returns the mutex guarding one (period, user) pair, creating it on
// first use. Entries are tiny and bounded by the number of periods, so they
// are never evicted.
func (o *Orchestrator) lockFor(periodID, userID int64) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()

	key := periodLock{periodID: periodID, userID: userID}
	l, ok := o.locks[key]
	if !ok {
		l = &sync.Mutex{}
		o.locks[key] = l
	}
	return l
}

// RecomputePeriod replaces the period's summary rows with freshly aggregated
// ones and returns the new set. A period that does not exist or belongs to a
// different user is a no-op returning nil: recompute is routinely invoked
// speculatively from range-based triggers. Store failures propagate; a
// dropped recompute would leave stale analysis data.
func (o *Orchestrator) RecomputePeriod(ctx context.Context, periodID, userID int64) ([]core.AnalysisRow, error) {
	l := o.lockFor(periodID, userID)
	l.Lock()
	defer l.Unlock()

	period, err := o.periods.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("get period %d: %w", periodID, err)
	}
	if period == nil || period.UserID != userID {
		o.logger.DebugContext(ctx, "Recompute skipped, period not found for user",
			"period_id", periodID, "user_id", userID)
		return nil, nil
	}

	rows, err := o.aggregator.Aggregate(ctx, *period, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate period %d: %w", periodID, err)
	}

	if err := o.periods.ReplaceAnalysis(ctx, periodID, userID, rows); err != nil {
		return nil, fmt.Errorf("replace analysis for period %d: %w", periodID, err)
	}

	o.logger.InfoContext(ctx, "Analysis recomputed",
		"period_id", periodID,
		"user_id", userID,
		"rows", len(rows))
	return rows, nil
}

// OverlappingPeriods returns every period of the user whose range contains
// the date, boundaries included.
func (o *Orchestrator) OverlappingPeriods(ctx context.Context, userID int64, date core.Date) ([]core.AnalysisPeriod, error) {
	periods, err := o.periods.ListPeriods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	var matched []core.AnalysisPeriod
	for _, p := range periods {
		if p.Contains(date) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// RecomputeRange recomputes every period of the user intersecting
// [start, end]. Per-period recomputes are independent and run concurrently;
// the first failure aborts the wait and is returned.
func (o *Orchestrator) RecomputeRange(ctx context.Context, userID int64, start, end core.Date) error {
	if end.Before(start) {
		start, end = end, start
	}
	periods, err := o.periods.ListPeriods(ctx, userID)
	if err != nil {
		return fmt.Errorf("list periods: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range periods {
		if !p.Overlaps(start, end) {
			continue
		}
		g.Go(func() error {
			_, err := o.RecomputePeriod(gctx, p.ID, userID)
			return err
		})
	}
	return g.Wait()
}
