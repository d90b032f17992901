package services

import (
	"context"
	"fmt"

	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// PeriodService owns analysis period CRUD around the Period Store. Summary
// rows themselves are owned by the orchestrator; this service only triggers
// it when a period's date range changes.
type PeriodService struct {
	storage *storage.SQLiteRepository
	hook    *RecomputeHook
}

func NewPeriodService(storage *storage.SQLiteRepository, hook *RecomputeHook) *PeriodService {
	return &PeriodService{storage: storage, hook: hook}
}

func (s *PeriodService) Create(ctx context.Context, p core.AnalysisPeriod) (core.AnalysisPeriod, error) {
	if err := p.Validate(); err != nil {
		return core.AnalysisPeriod{}, err
	}
	created, err := s.storage.CreatePeriod(ctx, p)
	if err != nil {
		return core.AnalysisPeriod{}, fmt.Errorf("create period: %w", err)
	}
	return created, nil
}

// Get returns nil for a missing period or one owned by another user.
func (s *PeriodService) Get(ctx context.Context, periodID, userID int64) (*core.AnalysisPeriod, error) {
	p, err := s.storage.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.UserID != userID {
		return nil, nil
	}
	return p, nil
}

func (s *PeriodService) List(ctx context.Context, userID int64) ([]core.AnalysisPeriod, error) {
	return s.storage.ListPeriods(ctx, userID)
}

// Update rewrites a period. When the date range moved, the period's rows are
// rebuilt over the union of the old and new ranges so no stale rows survive.
func (s *PeriodService) Update(ctx context.Context, p core.AnalysisPeriod) (*core.AnalysisPeriod, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	prev, err := s.Get(ctx, p.ID, p.UserID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}

	ok, err := s.storage.UpdatePeriod(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update period: %w", err)
	}
	if !ok {
		return nil, nil
	}

	if s.hook != nil && (!prev.Start.Equal(p.Start) || !prev.End.Equal(p.End)) {
		start := prev.Start.Min(p.Start)
		end := prev.End.Max(p.End)
		if err := s.hook.Trigger(ctx, p.UserID, start, end); err != nil {
			return nil, fmt.Errorf("recompute after period move: %w", err)
		}
	}
	return &p, nil
}

// Delete removes the period and cascades its analysis rows. Returns false
// when there was nothing to delete.
func (s *PeriodService) Delete(ctx context.Context, periodID, userID int64) (bool, error) {
	return s.storage.DeletePeriod(ctx, periodID, userID)
}
