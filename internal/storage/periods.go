package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"budgetbook/internal/core"
)

// CreatePeriod inserts a new analysis period and returns it with its id set.
func (r *SQLiteRepository) CreatePeriod(ctx context.Context, p core.AnalysisPeriod) (core.AnalysisPeriod, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO analysis_periods (name, start_date, end_date, user_id) VALUES (?, ?, ?, ?)`,
		p.Name, dateArg(p.Start), dateArg(p.End), p.UserID)
	if err != nil {
		return core.AnalysisPeriod{}, fmt.Errorf("insert period: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.AnalysisPeriod{}, fmt.Errorf("period id: %w", err)
	}
	p.ID = id

	slog.InfoContext(ctx, "Analysis period created",
		"id", p.ID, "name", p.Name, "user_id", p.UserID,
		"start", p.Start.String(), "end", p.End.String())
	return p, nil
}

// GetPeriod returns nil (no error) when the period does not exist.
func (r *SQLiteRepository) GetPeriod(ctx context.Context, periodID int64) (*core.AnalysisPeriod, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, start_date, end_date, user_id FROM analysis_periods WHERE id = ?`, periodID)
	p, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get period: %w", err)
	}
	return &p, nil
}

// ListPeriods returns the user's periods, most recent start date first.
func (r *SQLiteRepository) ListPeriods(ctx context.Context, userID int64) ([]core.AnalysisPeriod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, start_date, end_date, user_id
		 FROM analysis_periods WHERE user_id = ? ORDER BY start_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer rows.Close()

	var periods []core.AnalysisPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// UpdatePeriod rewrites name and date range. Returns false when the period
// does not exist or belongs to another user.
func (r *SQLiteRepository) UpdatePeriod(ctx context.Context, p core.AnalysisPeriod) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE analysis_periods SET name = ?, start_date = ?, end_date = ? WHERE id = ? AND user_id = ?`,
		p.Name, dateArg(p.Start), dateArg(p.End), p.ID, p.UserID)
	if err != nil {
		return false, fmt.Errorf("update period: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update period affected: %w", err)
	}
	return n > 0, nil
}

// DeletePeriod removes the period and all of its analysis rows in one
// transaction. Returns false when nothing was deleted.
func (r *SQLiteRepository) DeletePeriod(ctx context.Context, periodID, userID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete period: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM expense_analysis WHERE period_id = ? AND user_id = ?`, periodID, userID); err != nil {
		return false, fmt.Errorf("delete analysis rows: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM analysis_periods WHERE id = ? AND user_id = ?`, periodID, userID)
	if err != nil {
		return false, fmt.Errorf("delete period: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete period affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete period: %w", err)
	}

	if n > 0 {
		slog.InfoContext(ctx, "Analysis period deleted", "id", periodID, "user_id", userID)
	}
	return n > 0, nil
}

// ReplaceAnalysis swaps the stored summary rows for (period, user) as a
// single transaction: a concurrent reader observes either the old set or
// the new one, never a gap.
func (r *SQLiteRepository) ReplaceAnalysis(ctx context.Context, periodID, userID int64, rows []core.AnalysisRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace analysis: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM expense_analysis WHERE period_id = ? AND user_id = ?`, periodID, userID); err != nil {
		return fmt.Errorf("clear analysis rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expense_analysis
		 (period_id, user_id, category_id, subcategory_id, budgeted_cents, actual_cents, variance_cents, transaction_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare analysis insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			periodID, userID, row.Key.CategoryID, nullInt(row.Key.Subcategory()),
			toCents(row.Budgeted), toCents(row.Actual), toCents(row.Variance), row.TransactionCount); err != nil {
			return fmt.Errorf("insert analysis row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace analysis: %w", err)
	}
	return nil
}

// AnalysisRows loads the stored summary rows for (period, user) in a single
// statement, so a report never mixes row sets from different recomputes.
func (r *SQLiteRepository) AnalysisRows(ctx context.Context, periodID, userID int64) ([]core.AnalysisRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, subcategory_id, budgeted_cents, actual_cents, variance_cents, transaction_count
		 FROM expense_analysis
		 WHERE period_id = ? AND user_id = ?
		 ORDER BY category_id, subcategory_id`, periodID, userID)
	if err != nil {
		return nil, fmt.Errorf("query analysis rows: %w", err)
	}
	defer rows.Close()

	var out []core.AnalysisRow
	for rows.Next() {
		var (
			categoryID    int64
			subcategoryID sql.NullInt64
			budgeted      int64
			actual        int64
			variance      int64
			count         int64
		)
		if err := rows.Scan(&categoryID, &subcategoryID, &budgeted, &actual, &variance, &count); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		out = append(out, core.AnalysisRow{
			PeriodID:         periodID,
			UserID:           userID,
			Key:              core.Key(categoryID, intPtr(subcategoryID)),
			Budgeted:         fromCents(budgeted),
			Actual:           fromCents(actual),
			Variance:         fromCents(variance),
			TransactionCount: count,
		})
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(s rowScanner) (core.AnalysisPeriod, error) {
	var (
		p          core.AnalysisPeriod
		start, end string
	)
	if err := s.Scan(&p.ID, &p.Name, &start, &end, &p.UserID); err != nil {
		return core.AnalysisPeriod{}, err
	}
	var err error
	if p.Start, err = scanDate(start); err != nil {
		return core.AnalysisPeriod{}, err
	}
	if p.End, err = scanDate(end); err != nil {
		return core.AnalysisPeriod{}, err
	}
	return p, nil
}
