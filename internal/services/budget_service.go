package services

import (
	"context"
	"fmt"

	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// BudgetService handles budgeted expense mutations; like transactions, every
// committed change fires the recompute hook for the affected span.
type BudgetService struct {
	storage *storage.SQLiteRepository
	hook    *RecomputeHook
}

func NewBudgetService(storage *storage.SQLiteRepository, hook *RecomputeHook) *BudgetService {
	return &BudgetService{storage: storage, hook: hook}
}

func (s *BudgetService) Create(ctx context.Context, b core.BudgetedExpense) (core.BudgetedExpense, error) {
	if err := b.Validate(); err != nil {
		return core.BudgetedExpense{}, err
	}
	catID := b.CategoryID
	if err := checkSubcategory(ctx, s.storage, &catID, b.SubcategoryID); err != nil {
		return core.BudgetedExpense{}, err
	}

	created, err := s.storage.CreateBudgetItem(ctx, b)
	if err != nil {
		return core.BudgetedExpense{}, fmt.Errorf("create budget item: %w", err)
	}

	if err := s.trigger(ctx, b.UserID, created.DateScheduled, created.DateScheduled); err != nil {
		return core.BudgetedExpense{}, err
	}
	return created, nil
}

// Get returns nil for a missing item or one owned by another user.
func (s *BudgetService) Get(ctx context.Context, id, userID int64) (*core.BudgetedExpense, error) {
	b, err := s.storage.GetBudgetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil || b.UserID != userID {
		return nil, nil
	}
	return b, nil
}

func (s *BudgetService) List(ctx context.Context, userID int64, activeOnly bool) ([]core.BudgetedExpense, error) {
	return s.storage.ListBudgetItems(ctx, userID, activeOnly)
}

// Update rewrites a budget item; a moved scheduled date recomputes the span
// covering both the old and new dates.
func (s *BudgetService) Update(ctx context.Context, b core.BudgetedExpense) (*core.BudgetedExpense, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	catID := b.CategoryID
	if err := checkSubcategory(ctx, s.storage, &catID, b.SubcategoryID); err != nil {
		return nil, err
	}
	prev, err := s.Get(ctx, b.ID, b.UserID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}

	ok, err := s.storage.UpdateBudgetItem(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("update budget item: %w", err)
	}
	if !ok {
		return nil, nil
	}

	if err := s.trigger(ctx, b.UserID, prev.DateScheduled.Min(b.DateScheduled), prev.DateScheduled.Max(b.DateScheduled)); err != nil {
		return nil, err
	}
	return &b, nil
}

// Deactivate pulls an item out of every future aggregation without deleting
// its history, then recomputes its scheduled date.
func (s *BudgetService) Deactivate(ctx context.Context, id, userID int64) (*core.BudgetedExpense, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	b.Active = false
	return s.Update(ctx, *b)
}

func (s *BudgetService) trigger(ctx context.Context, userID int64, start, end core.Date) error {
	if s.hook == nil {
		return nil
	}
	if err := s.hook.Trigger(ctx, userID, start, end); err != nil {
		return fmt.Errorf("recompute trigger: %w", err)
	}
	return nil
}
