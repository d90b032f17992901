package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
)

const (
	// UnknownCategory labels a category id the resolver cannot find. Should
	// not happen under referential integrity, but a report must never crash
	// over a dangling id.
	UnknownCategory = "Unknown"
	// Uncategorized labels summary rows carrying no subcategory tag.
	Uncategorized = "Uncategorized"
)

var hundred = decimal.NewFromInt(100)

// NameResolver resolves a category id to its display name. ok is false when
// the id is unknown.
type NameResolver interface {
	CategoryName(ctx context.Context, categoryID int64) (name string, ok bool, err error)
}

// Projector reshapes persisted summary rows into display rows. Read-only:
// it never triggers a recompute and never touches the ledger.
type Projector struct {
	periods PeriodStore
	names   NameResolver
}

func NewProjector(periods PeriodStore, names NameResolver) *Projector {
	return &Projector{periods: periods, names: names}
}

// ReportByCategory projects the period's stored summary rows. With drill nil
// it rolls subcategory rows up to their top-level category; with drill set
// it returns one row per summary row of that category, labeled by
// subcategory. Rows are ordered by actual amount descending; ties break on
// ascending id so the order is stable across calls.
func (p *Projector) ReportByCategory(ctx context.Context, periodID, userID int64, drill *int64) ([]core.DisplayRow, error) {
	rows, err := p.periods.AnalysisRows(ctx, periodID, userID)
	if err != nil {
		return nil, fmt.Errorf("load analysis rows: %w", err)
	}
	if len(rows) == 0 {
		return []core.DisplayRow{}, nil
	}

	if drill != nil {
		return p.drillDown(ctx, rows, *drill)
	}
	return p.rollUp(ctx, rows)
}

// rollUp sums all subcategory rows sharing a top-level category.
func (p *Projector) rollUp(ctx context.Context, rows []core.AnalysisRow) ([]core.DisplayRow, error) {
	byCategory := make(map[int64]core.DisplayRow)
	for _, row := range rows {
		d, ok := byCategory[row.Key.CategoryID]
		if !ok {
			d = core.DisplayRow{
				CategoryID: row.Key.CategoryID,
				Budgeted:   core.Zero,
				Actual:     core.Zero,
				Variance:   core.Zero,
			}
		}
		d.Budgeted = d.Budgeted.Add(row.Budgeted)
		d.Actual = d.Actual.Add(row.Actual)
		d.Variance = d.Variance.Add(row.Variance)
		d.TransactionCount += row.TransactionCount
		byCategory[row.Key.CategoryID] = d
	}

	out := make([]core.DisplayRow, 0, len(byCategory))
	for id, d := range byCategory {
		name, err := p.resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		d.Name = name
		d.Percent = percentOf(d.Actual, d.Budgeted)
		out = append(out, d)
	}
	sortDisplayRows(out)
	return out, nil
}

// drillDown emits one row per summary row of the selected category. All rows
// share the drilled category id, so ties break on the subcategory key, with
// the uncategorized row first.
func (p *Projector) drillDown(ctx context.Context, rows []core.AnalysisRow, categoryID int64) ([]core.DisplayRow, error) {
	type entry struct {
		row core.DisplayRow
		key core.GroupKey
	}
	entries := []entry{}
	for _, row := range rows {
		if row.Key.CategoryID != categoryID {
			continue
		}
		name := Uncategorized
		if row.Key.HasSubcategory {
			n, err := p.resolve(ctx, row.Key.SubcategoryID)
			if err != nil {
				return nil, err
			}
			name = n
		}
		entries = append(entries, entry{
			row: core.DisplayRow{
				CategoryID:       row.Key.CategoryID,
				Name:             name,
				Budgeted:         row.Budgeted,
				Actual:           row.Actual,
				Variance:         row.Variance,
				TransactionCount: row.TransactionCount,
				Percent:          percentOf(row.Actual, row.Budgeted),
			},
			key: row.Key,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		c := entries[i].row.Actual.Cmp(entries[j].row.Actual)
		if c != 0 {
			return c > 0
		}
		if entries[i].key.HasSubcategory != entries[j].key.HasSubcategory {
			return !entries[i].key.HasSubcategory
		}
		return entries[i].key.SubcategoryID < entries[j].key.SubcategoryID
	})

	out := make([]core.DisplayRow, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.row)
	}
	return out, nil
}

func (p *Projector) resolve(ctx context.Context, categoryID int64) (string, error) {
	name, ok, err := p.names.CategoryName(ctx, categoryID)
	if err != nil {
		return "", fmt.Errorf("resolve category %d: %w", categoryID, err)
	}
	if !ok {
		return UnknownCategory, nil
	}
	return name, nil
}

// percentOf returns floor(actual/budgeted*100) or nil when nothing was
// budgeted. A zero budget is the documented no-percentage case, not an
// arithmetic error.
func percentOf(actual, budgeted decimal.Decimal) *int64 {
	if budgeted.Sign() <= 0 {
		return nil
	}
	pct := actual.Mul(hundred).Div(budgeted).Floor().IntPart()
	return &pct
}

func sortDisplayRows(rows []core.DisplayRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := rows[i].Actual.Cmp(rows[j].Actual)
		if c != 0 {
			return c > 0
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
}
