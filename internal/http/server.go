// Package http exposes the JSON API: analysis periods, reports, ledger
// transactions and budgeted expenses. Handlers stay thin; validation and
// recompute triggering live in the services layer.
package http

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"budgetbook/internal/cache"
	"budgetbook/internal/core"
	"budgetbook/internal/middleware/ratelimit"
	"budgetbook/internal/middleware/security"
	"budgetbook/internal/middleware/trace"
	"budgetbook/internal/services"
	"budgetbook/internal/storage"
)

// PeriodAPI is the period surface the server needs.
type PeriodAPI interface {
	Create(ctx context.Context, p core.AnalysisPeriod) (core.AnalysisPeriod, error)
	Get(ctx context.Context, periodID, userID int64) (*core.AnalysisPeriod, error)
	List(ctx context.Context, userID int64) ([]core.AnalysisPeriod, error)
	Update(ctx context.Context, p core.AnalysisPeriod) (*core.AnalysisPeriod, error)
	Delete(ctx context.Context, periodID, userID int64) (bool, error)
}

// TransactionAPI is the transaction surface the server needs.
type TransactionAPI interface {
	Create(ctx context.Context, t core.Transaction) (core.Transaction, error)
	Get(ctx context.Context, id, userID int64) (*core.Transaction, error)
	List(ctx context.Context, userID int64, filter storage.TransactionFilter) ([]core.Transaction, error)
	Update(ctx context.Context, t core.Transaction) (*core.Transaction, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
	ImportCSV(ctx context.Context, data io.Reader, userID int64, accountID *int64) (services.ImportResult, error)
}

// BudgetAPI is the budgeted expense surface the server needs.
type BudgetAPI interface {
	Create(ctx context.Context, b core.BudgetedExpense) (core.BudgetedExpense, error)
	Get(ctx context.Context, id, userID int64) (*core.BudgetedExpense, error)
	List(ctx context.Context, userID int64, activeOnly bool) ([]core.BudgetedExpense, error)
	Update(ctx context.Context, b core.BudgetedExpense) (*core.BudgetedExpense, error)
	Deactivate(ctx context.Context, id, userID int64) (*core.BudgetedExpense, error)
}

// Reporter projects persisted summary rows into display rows.
type Reporter interface {
	ReportByCategory(ctx context.Context, periodID, userID int64, drill *int64) ([]core.DisplayRow, error)
}

// Recomputer rebuilds one period's summary rows on demand.
type Recomputer interface {
	RecomputePeriod(ctx context.Context, periodID, userID int64) ([]core.AnalysisRow, error)
}

// ReportExporter pushes a report snapshot to an external spreadsheet.
type ReportExporter interface {
	ExportReport(ctx context.Context, period core.AnalysisPeriod, rows []core.DisplayRow) (string, error)
}

// CategoryDirectory lists and creates categories.
type CategoryDirectory interface {
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	ListTopCategories(ctx context.Context) ([]core.Category, error)
	ListSubcategories(ctx context.Context, parentID int64) ([]core.Category, error)
}

type Server struct {
	http.Server

	periods      PeriodAPI
	transactions TransactionAPI
	budget       BudgetAPI
	reporter     Reporter
	recomputer   Recomputer
	categories   CategoryDirectory
	exporter     ReportExporter

	limiter      *ratelimit.Limiter
	reportCache  *cache.LRUCache[[]core.DisplayRow]
	cacheManager *cache.Manager

	defaultUserID int64
	shutdownOnce  sync.Once
}

// Options bundles the collaborators NewServer wires into the route table.
type Options struct {
	Periods      PeriodAPI
	Transactions TransactionAPI
	Budget       BudgetAPI
	Reporter     Reporter
	Recomputer   Recomputer
	Categories   CategoryDirectory

	// Exporter is optional; when nil the export endpoint answers 503.
	Exporter ReportExporter

	// DefaultUserID backs requests carrying no X-User-ID header.
	DefaultUserID int64

	ReportCacheSize int
	ReportCacheTTL  time.Duration
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, opts Options) *Server {
	if opts.ReportCacheSize <= 0 {
		opts.ReportCacheSize = 256
	}
	if opts.ReportCacheTTL <= 0 {
		opts.ReportCacheTTL = 5 * time.Minute
	}
	if opts.DefaultUserID <= 0 {
		opts.DefaultUserID = 1
	}

	mux := http.NewServeMux()

	s := &Server{
		periods:       opts.Periods,
		transactions:  opts.Transactions,
		budget:        opts.Budget,
		reporter:      opts.Reporter,
		recomputer:    opts.Recomputer,
		categories:    opts.Categories,
		exporter:      opts.Exporter,
		limiter:       ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		reportCache:   cache.NewLRUCache[[]core.DisplayRow](opts.ReportCacheSize, opts.ReportCacheTTL),
		cacheManager:  cache.NewManager(),
		defaultUserID: opts.DefaultUserID,
	}
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(opts.ReportCacheTTL)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/periods", s.handleCreatePeriod)
	mux.HandleFunc("GET /api/periods", s.handleListPeriods)
	mux.HandleFunc("GET /api/periods/{id}", s.handleGetPeriod)
	mux.HandleFunc("PUT /api/periods/{id}", s.handleUpdatePeriod)
	mux.HandleFunc("DELETE /api/periods/{id}", s.handleDeletePeriod)
	mux.HandleFunc("POST /api/periods/{id}/recompute", s.handleRecomputePeriod)
	mux.HandleFunc("GET /api/periods/{id}/report", s.handleReport)
	mux.HandleFunc("POST /api/periods/{id}/export", s.handleExportReport)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /api/transactions/import", s.handleImportTransactions)

	mux.HandleFunc("POST /api/budget-items", s.handleCreateBudgetItem)
	mux.HandleFunc("GET /api/budget-items", s.handleListBudgetItems)
	mux.HandleFunc("GET /api/budget-items/{id}", s.handleGetBudgetItem)
	mux.HandleFunc("PUT /api/budget-items/{id}", s.handleUpdateBudgetItem)
	mux.HandleFunc("POST /api/budget-items/{id}/deactivate", s.handleDeactivateBudgetItem)

	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /api/categories/{id}/subcategories", s.handleListSubcategories)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)
	limited := s.limiter.Middleware(clientIP, nil)

	s.Server = http.Server{
		Addr:         addr,
		Handler:      tracer.Middleware(headers.Middleware(limited(mux))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Shutdown stops the background cleanup goroutines and drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// userID resolves the acting user from the X-User-ID header, falling back
// to the configured default user.
func (s *Server) userID(r *http.Request) int64 {
	if v := r.Header.Get("X-User-ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return s.defaultUserID
}

func (s *Server) reportCacheKey(userID, periodID int64, drill *int64) string {
	key := s.reportCachePrefix(userID, periodID)
	if drill != nil {
		return key + strconv.FormatInt(*drill, 10)
	}
	return key + "all"
}

func (s *Server) reportCachePrefix(userID, periodID int64) string {
	return "report:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(periodID, 10) + ":"
}

func (s *Server) invalidateReports(userID, periodID int64) {
	s.reportCache.DeletePrefix(s.reportCachePrefix(userID, periodID))
}

// invalidateUserReports drops every cached report of the user. Ledger and
// budget mutations trigger recomputes through the services hook without
// knowing which periods are affected, so the whole user prefix goes.
func (s *Server) invalidateUserReports(userID int64) {
	s.reportCache.DeletePrefix("report:" + strconv.FormatInt(userID, 10) + ":")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// clientIP extracts the caller's address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
