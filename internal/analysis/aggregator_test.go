package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sub(id int64) *int64 {
	return &id
}

type fakeLedger struct {
	actuals []ActualGroup
	budgets []BudgetGroup
	err     error
}

func (f *fakeLedger) ActualsByCategory(ctx context.Context, userID int64, start, end core.Date) ([]ActualGroup, error) {
	return f.actuals, f.err
}

func (f *fakeLedger) BudgetedByCategory(ctx context.Context, userID int64, start, end core.Date) ([]BudgetGroup, error) {
	return f.budgets, f.err
}

func TestMerge_FullOuterJoin(t *testing.T) {
	actuals := []ActualGroup{
		{Key: core.Key(1, sub(10)), Total: dec("350.00"), Count: 2},
		{Key: core.Key(2, nil), Total: dec("80.00"), Count: 1},
	}
	budgets := []BudgetGroup{
		{Key: core.Key(1, sub(10)), Total: dec("500.00")},
		{Key: core.Key(3, nil), Total: dec("120.00")},
	}

	rows := Merge(7, 42, actuals, budgets)
	if len(rows) != 3 {
		t.Fatalf("Merge() returned %d rows, want 3", len(rows))
	}

	// Rows come back ordered by ascending category id.
	both := rows[0]
	if both.Key.CategoryID != 1 || !both.Key.HasSubcategory || both.Key.SubcategoryID != 10 {
		t.Fatalf("rows[0] key = %+v, want category 1 / subcategory 10", both.Key)
	}
	if !both.Budgeted.Equal(dec("500.00")) || !both.Actual.Equal(dec("350.00")) {
		t.Errorf("rows[0] budgeted/actual = %s/%s, want 500.00/350.00", both.Budgeted, both.Actual)
	}
	if !both.Variance.Equal(dec("150.00")) {
		t.Errorf("rows[0] variance = %s, want 150.00", both.Variance)
	}
	if both.TransactionCount != 2 {
		t.Errorf("rows[0] count = %d, want 2", both.TransactionCount)
	}
	if both.PeriodID != 7 || both.UserID != 42 {
		t.Errorf("rows[0] period/user = %d/%d, want 7/42", both.PeriodID, both.UserID)
	}

	actualOnly := rows[1]
	if actualOnly.Key.CategoryID != 2 {
		t.Fatalf("rows[1] category = %d, want 2", actualOnly.Key.CategoryID)
	}
	if !actualOnly.Budgeted.IsZero() {
		t.Errorf("actual-only row budgeted = %s, want 0", actualOnly.Budgeted)
	}
	if !actualOnly.Variance.Equal(dec("-80.00")) {
		t.Errorf("actual-only row variance = %s, want -80.00", actualOnly.Variance)
	}

	budgetOnly := rows[2]
	if budgetOnly.Key.CategoryID != 3 {
		t.Fatalf("rows[2] category = %d, want 3", budgetOnly.Key.CategoryID)
	}
	if !budgetOnly.Actual.IsZero() || budgetOnly.TransactionCount != 0 {
		t.Errorf("budget-only row actual/count = %s/%d, want 0/0", budgetOnly.Actual, budgetOnly.TransactionCount)
	}
	if !budgetOnly.Variance.Equal(dec("120.00")) {
		t.Errorf("budget-only row variance = %s, want 120.00", budgetOnly.Variance)
	}
}

func TestMerge_VarianceInvariant(t *testing.T) {
	actuals := []ActualGroup{
		{Key: core.Key(1, nil), Total: dec("19.99"), Count: 1},
		{Key: core.Key(2, sub(5)), Total: dec("42.50"), Count: 3},
	}
	budgets := []BudgetGroup{
		{Key: core.Key(1, nil), Total: dec("20.00")},
		{Key: core.Key(2, sub(5)), Total: dec("40.00")},
	}

	for _, row := range Merge(1, 1, actuals, budgets) {
		want := row.Budgeted.Sub(row.Actual)
		if !row.Variance.Equal(want) {
			t.Errorf("variance for %+v = %s, want %s", row.Key, row.Variance, want)
		}
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	rows := Merge(1, 1, nil, nil)
	if rows == nil {
		t.Fatal("Merge() returned nil, want empty slice")
	}
	if len(rows) != 0 {
		t.Fatalf("Merge() returned %d rows, want 0", len(rows))
	}
}

func TestMerge_DeterministicOrder(t *testing.T) {
	actuals := []ActualGroup{
		{Key: core.Key(2, sub(9)), Total: dec("1.00"), Count: 1},
		{Key: core.Key(2, nil), Total: dec("2.00"), Count: 1},
		{Key: core.Key(1, sub(4)), Total: dec("3.00"), Count: 1},
		{Key: core.Key(2, sub(3)), Total: dec("4.00"), Count: 1},
	}

	first := Merge(1, 1, actuals, nil)
	for i := 0; i < 10; i++ {
		again := Merge(1, 1, actuals, nil)
		for j := range first {
			if first[j].Key != again[j].Key {
				t.Fatalf("run %d: order changed at index %d: %+v vs %+v", i, j, first[j].Key, again[j].Key)
			}
		}
	}

	wantOrder := []core.GroupKey{
		core.Key(1, sub(4)),
		core.Key(2, nil),
		core.Key(2, sub(3)),
		core.Key(2, sub(9)),
	}
	for i, want := range wantOrder {
		if first[i].Key != want {
			t.Errorf("rows[%d].Key = %+v, want %+v", i, first[i].Key, want)
		}
	}
}

func TestMerge_SubcategoryKeysStayDistinct(t *testing.T) {
	// Same category with and without subcategory must not collapse.
	actuals := []ActualGroup{
		{Key: core.Key(1, nil), Total: dec("10.00"), Count: 1},
		{Key: core.Key(1, sub(2)), Total: dec("20.00"), Count: 1},
	}
	rows := Merge(1, 1, actuals, nil)
	if len(rows) != 2 {
		t.Fatalf("Merge() returned %d rows, want 2", len(rows))
	}
}

func TestAggregator_Aggregate(t *testing.T) {
	ledger := &fakeLedger{
		actuals: []ActualGroup{{Key: core.Key(1, nil), Total: dec("50.00"), Count: 1}},
		budgets: []BudgetGroup{{Key: core.Key(1, nil), Total: dec("75.00")}},
	}
	agg := NewAggregator(ledger)

	period := core.AnalysisPeriod{
		ID:     3,
		Name:   "February 2026",
		Start:  core.NewDate(2026, 2, 1),
		End:    core.NewDate(2026, 2, 28),
		UserID: 1,
	}
	rows, err := agg.Aggregate(context.Background(), period, 1)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Aggregate() returned %d rows, want 1", len(rows))
	}
	if rows[0].PeriodID != 3 {
		t.Errorf("rows[0].PeriodID = %d, want 3", rows[0].PeriodID)
	}
	if !rows[0].Variance.Equal(dec("25.00")) {
		t.Errorf("rows[0].Variance = %s, want 25.00", rows[0].Variance)
	}
}

func TestAggregator_AggregateError(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("db gone")}
	agg := NewAggregator(ledger)

	period := core.AnalysisPeriod{
		ID:     1,
		Name:   "p",
		Start:  core.NewDate(2026, 1, 1),
		End:    core.NewDate(2026, 1, 31),
		UserID: 1,
	}
	if _, err := agg.Aggregate(context.Background(), period, 1); err == nil {
		t.Fatal("Aggregate() error = nil, want error")
	}
}
