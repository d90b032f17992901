package http

import (
	"fmt"

	"budgetbook/internal/core"
)

// Wire representations. Dates travel as ISO strings, amounts as decimal
// strings so no precision is lost to float encoding.

type periodJSON struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

func toPeriodJSON(p core.AnalysisPeriod) periodJSON {
	return periodJSON{
		ID:    p.ID,
		Name:  p.Name,
		Start: p.Start.String(),
		End:   p.End.String(),
	}
}

func (j periodJSON) toDomain(userID int64) (core.AnalysisPeriod, error) {
	start, err := core.ParseDate(j.Start)
	if err != nil {
		return core.AnalysisPeriod{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := core.ParseDate(j.End)
	if err != nil {
		return core.AnalysisPeriod{}, fmt.Errorf("invalid end_date: %w", err)
	}
	return core.AnalysisPeriod{
		ID:     j.ID,
		Name:   j.Name,
		Start:  start,
		End:    end,
		UserID: userID,
	}, nil
}

type transactionJSON struct {
	ID              int64  `json:"id,omitempty"`
	Date            string `json:"date"`
	PostDate        string `json:"post_date,omitempty"`
	Payee           string `json:"payee"`
	Description     string `json:"description,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Amount          string `json:"amount"`
	Type            string `json:"type"`
	CategoryID      *int64 `json:"category_id,omitempty"`
	SubcategoryID   *int64 `json:"subcategory_id,omitempty"`
	DebitAccountID  *int64 `json:"debit_account_id,omitempty"`
	CreditAccountID *int64 `json:"credit_account_id,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	j := transactionJSON{
		ID:              t.ID,
		Date:            t.Date.String(),
		Payee:           t.Payee,
		Description:     t.Description,
		Notes:           t.Notes,
		Amount:          t.Amount.String(),
		Type:            string(t.Type),
		CategoryID:      t.CategoryID,
		SubcategoryID:   t.SubcategoryID,
		DebitAccountID:  t.DebitAccountID,
		CreditAccountID: t.CreditAccountID,
	}
	if t.PostDate != nil {
		j.PostDate = t.PostDate.String()
	}
	return j
}

func (j transactionJSON) toDomain(userID int64) (core.Transaction, error) {
	date, err := core.ParseDate(j.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date: %w", err)
	}
	amount, err := core.ParseAmount(j.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}
	t := core.Transaction{
		ID:              j.ID,
		Date:            date,
		Payee:           j.Payee,
		Description:     j.Description,
		Notes:           j.Notes,
		Amount:          amount,
		Type:            core.TransactionType(j.Type),
		UserID:          userID,
		CategoryID:      j.CategoryID,
		SubcategoryID:   j.SubcategoryID,
		DebitAccountID:  j.DebitAccountID,
		CreditAccountID: j.CreditAccountID,
	}
	if j.PostDate != "" {
		pd, err := core.ParseDate(j.PostDate)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("invalid post_date: %w", err)
		}
		t.PostDate = &pd
	}
	return t, nil
}

type budgetItemJSON struct {
	ID             int64  `json:"id,omitempty"`
	Payee          string `json:"payee"`
	Variability    string `json:"variability"`
	Frequency      string `json:"frequency"`
	DateScheduled  string `json:"date_scheduled"`
	BudgetedAmount string `json:"budgeted_amount"`
	Notes          string `json:"notes,omitempty"`
	Active         bool   `json:"active"`
	CategoryID     int64  `json:"category_id"`
	SubcategoryID  *int64 `json:"subcategory_id,omitempty"`
}

func toBudgetItemJSON(b core.BudgetedExpense) budgetItemJSON {
	return budgetItemJSON{
		ID:             b.ID,
		Payee:          b.Payee,
		Variability:    string(b.Variability),
		Frequency:      string(b.Frequency),
		DateScheduled:  b.DateScheduled.String(),
		BudgetedAmount: b.BudgetedAmount.String(),
		Notes:          b.Notes,
		Active:         b.Active,
		CategoryID:     b.CategoryID,
		SubcategoryID:  b.SubcategoryID,
	}
}

func (j budgetItemJSON) toDomain(userID int64) (core.BudgetedExpense, error) {
	scheduled, err := core.ParseDate(j.DateScheduled)
	if err != nil {
		return core.BudgetedExpense{}, fmt.Errorf("invalid date_scheduled: %w", err)
	}
	amount, err := core.ParseAmount(j.BudgetedAmount)
	if err != nil {
		return core.BudgetedExpense{}, fmt.Errorf("invalid budgeted_amount: %w", err)
	}
	return core.BudgetedExpense{
		ID:             j.ID,
		Payee:          j.Payee,
		Variability:    core.Variability(j.Variability),
		Frequency:      core.Frequency(j.Frequency),
		DateScheduled:  scheduled,
		BudgetedAmount: amount,
		Notes:          j.Notes,
		Active:         j.Active,
		UserID:         userID,
		CategoryID:     j.CategoryID,
		SubcategoryID:  j.SubcategoryID,
	}, nil
}

type categoryJSON struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
	}
}

type displayRowJSON struct {
	CategoryID       int64  `json:"category_id"`
	Name             string `json:"name"`
	Budgeted         string `json:"budgeted"`
	Actual           string `json:"actual"`
	Variance         string `json:"variance"`
	TransactionCount int64  `json:"transaction_count"`
	Percent          *int64 `json:"percent_of_budget,omitempty"`
}

func toDisplayRowsJSON(rows []core.DisplayRow) []displayRowJSON {
	out := make([]displayRowJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, displayRowJSON{
			CategoryID:       row.CategoryID,
			Name:             row.Name,
			Budgeted:         row.Budgeted.String(),
			Actual:           row.Actual.String(),
			Variance:         row.Variance.String(),
			TransactionCount: row.TransactionCount,
			Percent:          row.Percent,
		})
	}
	return out
}

type analysisRowJSON struct {
	CategoryID       int64  `json:"category_id"`
	SubcategoryID    *int64 `json:"subcategory_id,omitempty"`
	Budgeted         string `json:"budgeted"`
	Actual           string `json:"actual"`
	Variance         string `json:"variance"`
	TransactionCount int64  `json:"transaction_count"`
}

func toAnalysisRowsJSON(rows []core.AnalysisRow) []analysisRowJSON {
	out := make([]analysisRowJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, analysisRowJSON{
			CategoryID:       row.Key.CategoryID,
			SubcategoryID:    row.Key.Subcategory(),
			Budgeted:         row.Budgeted.String(),
			Actual:           row.Actual.String(),
			Variance:         row.Variance.String(),
			TransactionCount: row.TransactionCount,
		})
	}
	return out
}
