package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

const (
	Fixed    Variability = "fixed"
	Variable Variability = "variable"
)

const (
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annual    Frequency = "annual"
	OneTime   Frequency = "one_time"
)

type (
	TransactionType string
	Variability     string
	Frequency       string

	Transaction struct {
		ID          int64
		Date        Date
		PostDate    *Date
		Payee       string
		Description string
		Notes       string
		Amount      decimal.Decimal
		Type        TransactionType
		UserID      int64

		DebitAccountID  *int64
		CreditAccountID *int64
		CategoryID      *int64
		SubcategoryID   *int64
	}

	BudgetedExpense struct {
		ID             int64
		Payee          string
		Variability    Variability
		Frequency      Frequency
		DateScheduled  Date
		BudgetedAmount decimal.Decimal
		Notes          string
		Active         bool
		UserID         int64
		CategoryID     int64
		SubcategoryID  *int64
	}

	Category struct {
		ID          int64
		Name        string
		Description string
		ParentID    *int64
	}

	AnalysisPeriod struct {
		ID     int64
		Name   string
		Start  Date
		End    Date
		UserID int64
	}
)

var (
	ErrZeroDate          = errors.New("date cannot be zero")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyPayee        = errors.New("empty payee")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidRange      = errors.New("start date must be before end date")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrOrphanSubcategory = errors.New("subcategory does not belong to category")
)

func (t TransactionType) Valid() bool {
	return t == Debit || t == Credit
}

func (v Variability) Valid() bool {
	return v == Fixed || v == Variable
}

func (f Frequency) Valid() bool {
	switch f {
	case Weekly, Biweekly, Monthly, Quarterly, Annual, OneTime:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Payee) == "" {
		return ErrEmptyPayee
	}
	if len(t.Payee) > 200 {
		return errors.New("payee too long (max 200 characters)")
	}
	if t.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	// A subcategory without a category makes no grouping sense.
	if t.SubcategoryID != nil && t.CategoryID == nil {
		return ErrOrphanSubcategory
	}
	return nil
}

func (b BudgetedExpense) Validate() error {
	if err := b.DateScheduled.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.Payee) == "" {
		return ErrEmptyPayee
	}
	if b.BudgetedAmount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !b.Variability.Valid() {
		return errors.New("invalid variability")
	}
	if !b.Frequency.Valid() {
		return errors.New("invalid frequency")
	}
	if b.CategoryID == 0 {
		return errors.New("category is required")
	}
	return nil
}

// TopLevel reports whether the category has no parent.
func (c Category) TopLevel() bool {
	return c.ParentID == nil
}

func (p AnalysisPeriod) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > 120 {
		return errors.New("name too long (max 120 characters)")
	}
	if err := p.Start.Validate(); err != nil {
		return err
	}
	if err := p.End.Validate(); err != nil {
		return err
	}
	if !p.Start.Before(p.End) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether the date falls inside the period, boundaries included.
func (p AnalysisPeriod) Contains(d Date) bool {
	return d.In(p.Start, p.End)
}

// Overlaps reports whether [start, end] intersects the period's range.
func (p AnalysisPeriod) Overlaps(start, end Date) bool {
	return !p.Start.After(end) && !p.End.Before(start)
}
