package core

import "github.com/shopspring/decimal"

// GroupKey identifies one (category, subcategory) aggregation bucket.
// HasSubcategory distinguishes "category with no subcategory tag" from any
// real subcategory id; a zero SubcategoryID is never a valid id on its own.
type GroupKey struct {
	CategoryID     int64
	SubcategoryID  int64
	HasSubcategory bool
}

// Key builds a GroupKey from a category id and an optional subcategory id.
func Key(categoryID int64, subcategoryID *int64) GroupKey {
	k := GroupKey{CategoryID: categoryID}
	if subcategoryID != nil {
		k.SubcategoryID = *subcategoryID
		k.HasSubcategory = true
	}
	return k
}

// Subcategory returns the optional subcategory id in pointer form, for
// persistence.
func (k GroupKey) Subcategory() *int64 {
	if !k.HasSubcategory {
		return nil
	}
	id := k.SubcategoryID
	return &id
}

// AnalysisRow is one persisted budget-vs-actual summary for a period. The
// full row set of a period is always the output of its latest recompute.
type AnalysisRow struct {
	PeriodID         int64
	UserID           int64
	Key              GroupKey
	Budgeted         decimal.Decimal
	Actual           decimal.Decimal
	Variance         decimal.Decimal
	TransactionCount int64
}

// DisplayRow is a report line ready for presentation: either one top-level
// category roll-up or one subcategory drill-down entry.
type DisplayRow struct {
	CategoryID       int64
	Name             string
	Budgeted         decimal.Decimal
	Actual           decimal.Decimal
	Variance         decimal.Decimal
	TransactionCount int64
	// Percent is floor(actual/budgeted*100); nil when nothing was budgeted.
	Percent *int64
}
