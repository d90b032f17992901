package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"budgetbook/internal/analysis"
	"budgetbook/internal/core"
)

// ActualsByCategory sums debit, categorized transactions for the user inside
// [start, end], grouped by (category, subcategory). Credits, uncategorized
// rows and anything outside the range never contribute.
func (r *SQLiteRepository) ActualsByCategory(ctx context.Context, userID int64, start, end core.Date) ([]analysis.ActualGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, subcategory_id, SUM(amount_cents), COUNT(*)
		 FROM transactions
		 WHERE user_id = ?
		   AND transaction_date >= ? AND transaction_date <= ?
		   AND transaction_type = 'debit'
		   AND category_id IS NOT NULL
		 GROUP BY category_id, subcategory_id`,
		userID, dateArg(start), dateArg(end))
	if err != nil {
		return nil, fmt.Errorf("query actuals: %w", err)
	}
	defer rows.Close()

	var groups []analysis.ActualGroup
	for rows.Next() {
		var (
			categoryID    int64
			subcategoryID sql.NullInt64
			totalCents    int64
			count         int64
		)
		if err := rows.Scan(&categoryID, &subcategoryID, &totalCents, &count); err != nil {
			return nil, fmt.Errorf("scan actual group: %w", err)
		}
		groups = append(groups, analysis.ActualGroup{
			Key:   core.Key(categoryID, intPtr(subcategoryID)),
			Total: fromCents(totalCents),
			Count: count,
		})
	}
	return groups, rows.Err()
}

// BudgetedByCategory sums active budget items scheduled inside [start, end],
// grouped by (category, subcategory).
func (r *SQLiteRepository) BudgetedByCategory(ctx context.Context, userID int64, start, end core.Date) ([]analysis.BudgetGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, subcategory_id, SUM(budgeted_cents)
		 FROM budgeted_expenses
		 WHERE user_id = ?
		   AND is_active = 1
		   AND date_scheduled >= ? AND date_scheduled <= ?
		 GROUP BY category_id, subcategory_id`,
		userID, dateArg(start), dateArg(end))
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var groups []analysis.BudgetGroup
	for rows.Next() {
		var (
			categoryID    int64
			subcategoryID sql.NullInt64
			totalCents    int64
		)
		if err := rows.Scan(&categoryID, &subcategoryID, &totalCents); err != nil {
			return nil, fmt.Errorf("scan budget group: %w", err)
		}
		groups = append(groups, analysis.BudgetGroup{
			Key:   core.Key(categoryID, intPtr(subcategoryID)),
			Total: fromCents(totalCents),
		})
	}
	return groups, rows.Err()
}

// CreateTransaction inserts a transaction and returns it with its id set.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (transaction_date, post_date, payee, description, notes, amount_cents, transaction_type,
		  user_id, debit_account_id, credit_account_id, category_id, subcategory_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dateArg(t.Date), optDateArg(t.PostDate), t.Payee, optString(t.Description), optString(t.Notes),
		toCents(t.Amount), string(t.Type), t.UserID,
		nullInt(t.DebitAccountID), nullInt(t.CreditAccountID), nullInt(t.CategoryID), nullInt(t.SubcategoryID))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	t.ID = id

	slog.DebugContext(ctx, "Transaction saved",
		"id", t.ID, "payee", t.Payee, "amount", t.Amount.String(), "date", t.Date.String())
	return t, nil
}

// GetTransaction returns nil (no error) when the transaction does not exist.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, transaction_date, post_date, payee, description, notes, amount_cents, transaction_type,
		        user_id, debit_account_id, credit_account_id, category_id, subcategory_id
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	Start      *core.Date
	End        *core.Date
	CategoryID *int64
	AccountID  *int64
	Limit      int
}

// ListTransactions returns the user's transactions, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]core.Transaction, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if filter.Start != nil {
		where = append(where, "transaction_date >= ?")
		args = append(args, filter.Start.String())
	}
	if filter.End != nil {
		where = append(where, "transaction_date <= ?")
		args = append(args, filter.End.String())
	}
	if filter.CategoryID != nil {
		where = append(where, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.AccountID != nil {
		where = append(where, "(debit_account_id = ? OR credit_account_id = ?)")
		args = append(args, *filter.AccountID, *filter.AccountID)
	}

	query := `SELECT id, transaction_date, post_date, payee, description, notes, amount_cents, transaction_type,
	                 user_id, debit_account_id, credit_account_id, category_id, subcategory_id
	          FROM transactions WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY transaction_date DESC, id DESC`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTransaction rewrites all mutable fields. Returns false when the
// transaction does not exist or belongs to another user.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET
		 transaction_date = ?, post_date = ?, payee = ?, description = ?, notes = ?,
		 amount_cents = ?, transaction_type = ?, debit_account_id = ?, credit_account_id = ?,
		 category_id = ?, subcategory_id = ?
		 WHERE id = ? AND user_id = ?`,
		dateArg(t.Date), optDateArg(t.PostDate), t.Payee, optString(t.Description), optString(t.Notes),
		toCents(t.Amount), string(t.Type), nullInt(t.DebitAccountID), nullInt(t.CreditAccountID),
		nullInt(t.CategoryID), nullInt(t.SubcategoryID), t.ID, t.UserID)
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update transaction affected: %w", err)
	}
	return n > 0, nil
}

// DeleteTransaction returns false when nothing was deleted.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete transaction affected: %w", err)
	}
	return n > 0, nil
}

// CreateBudgetItem inserts a budgeted expense and returns it with its id.
func (r *SQLiteRepository) CreateBudgetItem(ctx context.Context, b core.BudgetedExpense) (core.BudgetedExpense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgeted_expenses
		 (payee, variability, frequency, date_scheduled, budgeted_cents, notes, is_active, user_id, category_id, subcategory_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Payee, string(b.Variability), string(b.Frequency), dateArg(b.DateScheduled),
		toCents(b.BudgetedAmount), optString(b.Notes), boolArg(b.Active), b.UserID, b.CategoryID, nullInt(b.SubcategoryID))
	if err != nil {
		return core.BudgetedExpense{}, fmt.Errorf("insert budget item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.BudgetedExpense{}, fmt.Errorf("budget item id: %w", err)
	}
	b.ID = id
	return b, nil
}

// GetBudgetItem returns nil (no error) when the item does not exist.
func (r *SQLiteRepository) GetBudgetItem(ctx context.Context, id int64) (*core.BudgetedExpense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, payee, variability, frequency, date_scheduled, budgeted_cents, notes, is_active,
		        user_id, category_id, subcategory_id
		 FROM budgeted_expenses WHERE id = ?`, id)
	b, err := scanBudgetItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget item: %w", err)
	}
	return &b, nil
}

// ListBudgetItems returns the user's budget items by scheduled date. With
// activeOnly set, deactivated items are excluded.
func (r *SQLiteRepository) ListBudgetItems(ctx context.Context, userID int64, activeOnly bool) ([]core.BudgetedExpense, error) {
	query := `SELECT id, payee, variability, frequency, date_scheduled, budgeted_cents, notes, is_active,
	                 user_id, category_id, subcategory_id
	          FROM budgeted_expenses WHERE user_id = ?`
	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY date_scheduled, id"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list budget items: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetedExpense
	for rows.Next() {
		b, err := scanBudgetItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget item: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateBudgetItem rewrites all mutable fields, including the active flag.
func (r *SQLiteRepository) UpdateBudgetItem(ctx context.Context, b core.BudgetedExpense) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgeted_expenses SET
		 payee = ?, variability = ?, frequency = ?, date_scheduled = ?, budgeted_cents = ?,
		 notes = ?, is_active = ?, category_id = ?, subcategory_id = ?
		 WHERE id = ? AND user_id = ?`,
		b.Payee, string(b.Variability), string(b.Frequency), dateArg(b.DateScheduled),
		toCents(b.BudgetedAmount), optString(b.Notes), boolArg(b.Active), b.CategoryID, nullInt(b.SubcategoryID),
		b.ID, b.UserID)
	if err != nil {
		return false, fmt.Errorf("update budget item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update budget item affected: %w", err)
	}
	return n > 0, nil
}

func boolArg(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		date       string
		postDate   sql.NullString
		desc       sql.NullString
		notes      sql.NullString
		cents      int64
		txnType    string
		debitAcct  sql.NullInt64
		creditAcct sql.NullInt64
		category   sql.NullInt64
		subcat     sql.NullInt64
	)
	if err := s.Scan(&t.ID, &date, &postDate, &t.Payee, &desc, &notes, &cents, &txnType,
		&t.UserID, &debitAcct, &creditAcct, &category, &subcat); err != nil {
		return core.Transaction{}, err
	}
	var err error
	if t.Date, err = scanDate(date); err != nil {
		return core.Transaction{}, err
	}
	if postDate.Valid {
		d, err := scanDate(postDate.String)
		if err != nil {
			return core.Transaction{}, err
		}
		t.PostDate = &d
	}
	t.Description = desc.String
	t.Notes = notes.String
	t.Amount = fromCents(cents)
	t.Type = core.TransactionType(txnType)
	t.DebitAccountID = intPtr(debitAcct)
	t.CreditAccountID = intPtr(creditAcct)
	t.CategoryID = intPtr(category)
	t.SubcategoryID = intPtr(subcat)
	return t, nil
}

func scanBudgetItem(s rowScanner) (core.BudgetedExpense, error) {
	var (
		b         core.BudgetedExpense
		scheduled string
		cents     int64
		notes     sql.NullString
		active    int64
		subcat    sql.NullInt64
	)
	if err := s.Scan(&b.ID, &b.Payee, &b.Variability, &b.Frequency, &scheduled, &cents, &notes, &active,
		&b.UserID, &b.CategoryID, &subcat); err != nil {
		return core.BudgetedExpense{}, err
	}
	var err error
	if b.DateScheduled, err = scanDate(scheduled); err != nil {
		return core.BudgetedExpense{}, err
	}
	b.BudgetedAmount = fromCents(cents)
	b.Notes = notes.String
	b.Active = active != 0
	b.SubcategoryID = intPtr(subcat)
	return b, nil
}
