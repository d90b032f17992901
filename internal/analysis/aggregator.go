// Package analysis implements the budget-vs-actual engine: aggregation of
// ledger data into per-period summary rows, atomic recomputation of those
// rows, and projection into display-ready reports.
package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
)

// ActualGroup is one grouped aggregate of debit, categorized transactions.
type ActualGroup struct {
	Key   core.GroupKey
	Total decimal.Decimal
	Count int64
}

// BudgetGroup is one grouped aggregate of active budgeted expenses.
type BudgetGroup struct {
	Key   core.GroupKey
	Total decimal.Decimal
}

// LedgerStore is the read-only view of transactions and budget items the
// aggregator consumes. Filtering rules (debits only, categorized only,
// active budget items only, inclusive date bounds) live behind it.
type LedgerStore interface {
	ActualsByCategory(ctx context.Context, userID int64, start, end core.Date) ([]ActualGroup, error)
	BudgetedByCategory(ctx context.Context, userID int64, start, end core.Date) ([]BudgetGroup, error)
}

// Aggregator derives summary rows for a period from raw ledger aggregates.
// It is stateless; all data access goes through the LedgerStore.
type Aggregator struct {
	ledger LedgerStore
}

func NewAggregator(ledger LedgerStore) *Aggregator {
	return &Aggregator{ledger: ledger}
}

// Aggregate computes the full summary row set for the period. One row per
// (category, subcategory) key present in either source; keys absent from
// both never produce a row.
func (a *Aggregator) Aggregate(ctx context.Context, period core.AnalysisPeriod, userID int64) ([]core.AnalysisRow, error) {
	actuals, err := a.ledger.ActualsByCategory(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("aggregate actuals: %w", err)
	}
	budgets, err := a.ledger.BudgetedByCategory(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("aggregate budgets: %w", err)
	}
	return Merge(period.ID, userID, actuals, budgets), nil
}

// Merge performs the full outer join of actual and budgeted aggregates on
// the grouping key. A key present only in actuals gets budgeted = 0; a key
// present only in budgets gets actual = 0 and count = 0. Variance is
// budgeted minus actual for every row. Output order is deterministic:
// ascending by category id, then uncategorized-subcategory first, then
// ascending by subcategory id.
func Merge(periodID, userID int64, actuals []ActualGroup, budgets []BudgetGroup) []core.AnalysisRow {
	merged := make(map[core.GroupKey]core.AnalysisRow, len(actuals)+len(budgets))

	for _, g := range actuals {
		merged[g.Key] = core.AnalysisRow{
			PeriodID:         periodID,
			UserID:           userID,
			Key:              g.Key,
			Budgeted:         core.Zero,
			Actual:           g.Total,
			TransactionCount: g.Count,
		}
	}
	for _, g := range budgets {
		row, ok := merged[g.Key]
		if !ok {
			row = core.AnalysisRow{
				PeriodID: periodID,
				UserID:   userID,
				Key:      g.Key,
				Actual:   core.Zero,
			}
		}
		row.Budgeted = g.Total
		merged[g.Key] = row
	}

	rows := make([]core.AnalysisRow, 0, len(merged))
	for _, row := range merged {
		row.Variance = row.Budgeted.Sub(row.Actual)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Key, rows[j].Key
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		if a.HasSubcategory != b.HasSubcategory {
			return !a.HasSubcategory
		}
		return a.SubcategoryID < b.SubcategoryID
	})
	return rows
}
