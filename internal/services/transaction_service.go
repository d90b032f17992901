package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// TransactionService handles ledger transaction mutations and fires the
// recompute hook after every committed change.
type TransactionService struct {
	storage *storage.SQLiteRepository
	hook    *RecomputeHook
}

func NewTransactionService(storage *storage.SQLiteRepository, hook *RecomputeHook) *TransactionService {
	return &TransactionService{storage: storage, hook: hook}
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkSubcategory(ctx, t.CategoryID, t.SubcategoryID); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	if err := s.trigger(ctx, t.UserID, created.Date, created.Date); err != nil {
		return core.Transaction{}, err
	}
	return created, nil
}

// Get returns nil for a missing transaction or one owned by another user.
func (s *TransactionService) Get(ctx context.Context, id, userID int64) (*core.Transaction, error) {
	t, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.UserID != userID {
		return nil, nil
	}
	return t, nil
}

func (s *TransactionService) List(ctx context.Context, userID int64, filter storage.TransactionFilter) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, userID, filter)
}

// Update rewrites a transaction. When its date moved, the recompute span is
// the min/max of the old and new dates so both sides get rebuilt.
func (s *TransactionService) Update(ctx context.Context, t core.Transaction) (*core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkSubcategory(ctx, t.CategoryID, t.SubcategoryID); err != nil {
		return nil, err
	}
	prev, err := s.Get(ctx, t.ID, t.UserID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}

	ok, err := s.storage.UpdateTransaction(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if !ok {
		return nil, nil
	}

	if err := s.trigger(ctx, t.UserID, prev.Date.Min(t.Date), prev.Date.Max(t.Date)); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a transaction and recomputes its date. Returns false when
// there was nothing to delete.
func (s *TransactionService) Delete(ctx context.Context, id, userID int64) (bool, error) {
	prev, err := s.Get(ctx, id, userID)
	if err != nil {
		return false, err
	}
	if prev == nil {
		return false, nil
	}

	ok, err := s.storage.DeleteTransaction(ctx, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := s.trigger(ctx, userID, prev.Date, prev.Date); err != nil {
		return false, err
	}
	return true, nil
}

// ImportError records one rejected CSV row. Row numbering starts at 2, row
// 1 being the header.
type ImportError struct {
	Row int
	Err string
}

// ImportResult summarizes a CSV import: valid rows are applied even when
// others fail.
type ImportResult struct {
	Imported int
	Errors   []ImportError
}

// ImportCSV reads transactions from CSV data. Expected columns: date,
// payee, amount, type (debit/credit); optional: post_date, description,
// notes. One recompute is triggered at the end spanning the min/max of all
// imported dates.
func (s *TransactionService) ImportCSV(ctx context.Context, data io.Reader, userID int64, accountID *int64) (ImportResult, error) {
	reader := csv.NewReader(data)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var (
		result   ImportResult
		minDate  core.Date
		maxDate  core.Date
		imported bool
	)

	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Err: err.Error()})
			continue
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		amount, err := core.ParseAmount(field("amount"))
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Err: "invalid amount"})
			continue
		}
		date, err := core.ParseDate(field("date"))
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Err: "invalid date"})
			continue
		}
		txnType := core.TransactionType(strings.ToLower(field("type")))
		if field("type") == "" {
			txnType = core.Debit
		}
		if !txnType.Valid() {
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Err: "invalid type: " + field("type")})
			continue
		}

		t := core.Transaction{
			Date:        date,
			Payee:       field("payee"),
			Description: field("description"),
			Notes:       field("notes"),
			Amount:      amount,
			Type:        txnType,
			UserID:      userID,
		}
		// post_date is non-critical; a bad value is skipped, not rejected.
		if v := field("post_date"); v != "" {
			if pd, err := core.ParseDate(v); err == nil {
				t.PostDate = &pd
			}
		}
		if accountID != nil {
			if txnType == core.Debit {
				t.DebitAccountID = accountID
			} else {
				t.CreditAccountID = accountID
			}
		}
		if err := t.Validate(); err != nil {
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Err: err.Error()})
			continue
		}

		if _, err := s.storage.CreateTransaction(ctx, t); err != nil {
			return result, fmt.Errorf("import row %d: %w", rowNum, err)
		}
		result.Imported++

		if !imported {
			minDate, maxDate = date, date
			imported = true
		} else {
			minDate = minDate.Min(date)
			maxDate = maxDate.Max(date)
		}
	}

	if imported {
		if err := s.trigger(ctx, userID, minDate, maxDate); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *TransactionService) trigger(ctx context.Context, userID int64, start, end core.Date) error {
	if s.hook == nil {
		return nil
	}
	if err := s.hook.Trigger(ctx, userID, start, end); err != nil {
		return fmt.Errorf("recompute trigger: %w", err)
	}
	return nil
}

// checkSubcategory rejects a subcategory whose parent is not the claimed
// category. Aggregation itself stays permissive; the boundary is where the
// pairing is enforced.
func (s *TransactionService) checkSubcategory(ctx context.Context, categoryID, subcategoryID *int64) error {
	return checkSubcategory(ctx, s.storage, categoryID, subcategoryID)
}

type categoryGetter interface {
	GetCategory(ctx context.Context, id int64) (*core.Category, error)
}

func checkSubcategory(ctx context.Context, store categoryGetter, categoryID, subcategoryID *int64) error {
	if subcategoryID == nil {
		return nil
	}
	if categoryID == nil {
		return core.ErrOrphanSubcategory
	}
	sub, err := store.GetCategory(ctx, *subcategoryID)
	if err != nil {
		return fmt.Errorf("load subcategory: %w", err)
	}
	if sub == nil || sub.ParentID == nil || *sub.ParentID != *categoryID {
		return core.ErrOrphanSubcategory
	}
	return nil
}
