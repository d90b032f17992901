// Package storage persists the domain model in SQLite. Monetary amounts are
// stored as integer cents so SQL SUMs stay exact; dates are stored as ISO
// strings so range filters are plain lexicographic comparisons.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

// sqliteDSN appends the connection pragmas every pool connection needs:
// WAL so readers are not blocked by the single writer, and a busy timeout
// so concurrent writers queue instead of failing with SQLITE_BUSY. Range
// recomputes run periods in parallel against this one file.
func sqliteDSN(dbPath string) string {
	return dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// toCents converts a currency-precision decimal into integer cents.
func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// fromCents converts integer cents back to a two-place decimal.
func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func dateArg(d core.Date) string {
	return d.String()
}

func optDateArg(d *core.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanDate(s string) (core.Date, error) {
	return core.ParseDate(s)
}

func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
