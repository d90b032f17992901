package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
	"budgetbook/internal/services"
	"budgetbook/internal/storage"
)

type fakePeriods struct {
	nextID  int64
	periods map[int64]core.AnalysisPeriod
}

func newFakePeriods() *fakePeriods {
	return &fakePeriods{nextID: 1, periods: map[int64]core.AnalysisPeriod{}}
}

func (f *fakePeriods) Create(ctx context.Context, p core.AnalysisPeriod) (core.AnalysisPeriod, error) {
	if err := p.Validate(); err != nil {
		return core.AnalysisPeriod{}, err
	}
	p.ID = f.nextID
	f.nextID++
	f.periods[p.ID] = p
	return p, nil
}

func (f *fakePeriods) Get(ctx context.Context, periodID, userID int64) (*core.AnalysisPeriod, error) {
	p, ok := f.periods[periodID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePeriods) List(ctx context.Context, userID int64) ([]core.AnalysisPeriod, error) {
	var out []core.AnalysisPeriod
	for _, p := range f.periods {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePeriods) Update(ctx context.Context, p core.AnalysisPeriod) (*core.AnalysisPeriod, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	prev, ok := f.periods[p.ID]
	if !ok || prev.UserID != p.UserID {
		return nil, nil
	}
	f.periods[p.ID] = p
	return &p, nil
}

func (f *fakePeriods) Delete(ctx context.Context, periodID, userID int64) (bool, error) {
	p, ok := f.periods[periodID]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(f.periods, periodID)
	return true, nil
}

type fakeTransactions struct {
	nextID       int64
	transactions map[int64]core.Transaction
	importResult services.ImportResult
	importedCSV  string
	importAcct   *int64
}

func newFakeTransactions() *fakeTransactions {
	return &fakeTransactions{nextID: 1, transactions: map[int64]core.Transaction{}}
}

func (f *fakeTransactions) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = f.nextID
	f.nextID++
	f.transactions[t.ID] = t
	return t, nil
}

func (f *fakeTransactions) Get(ctx context.Context, id, userID int64) (*core.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeTransactions) List(ctx context.Context, userID int64, filter storage.TransactionFilter) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactions) Update(ctx context.Context, t core.Transaction) (*core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	prev, ok := f.transactions[t.ID]
	if !ok || prev.UserID != t.UserID {
		return nil, nil
	}
	f.transactions[t.ID] = t
	return &t, nil
}

func (f *fakeTransactions) Delete(ctx context.Context, id, userID int64) (bool, error) {
	t, ok := f.transactions[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(f.transactions, id)
	return true, nil
}

func (f *fakeTransactions) ImportCSV(ctx context.Context, data io.Reader, userID int64, accountID *int64) (services.ImportResult, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return services.ImportResult{}, err
	}
	f.importedCSV = string(raw)
	f.importAcct = accountID
	return f.importResult, nil
}

type fakeBudget struct {
	nextID int64
	items  map[int64]core.BudgetedExpense
}

func newFakeBudget() *fakeBudget {
	return &fakeBudget{nextID: 1, items: map[int64]core.BudgetedExpense{}}
}

func (f *fakeBudget) Create(ctx context.Context, b core.BudgetedExpense) (core.BudgetedExpense, error) {
	if err := b.Validate(); err != nil {
		return core.BudgetedExpense{}, err
	}
	b.ID = f.nextID
	f.nextID++
	f.items[b.ID] = b
	return b, nil
}

func (f *fakeBudget) Get(ctx context.Context, id, userID int64) (*core.BudgetedExpense, error) {
	b, ok := f.items[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBudget) List(ctx context.Context, userID int64, activeOnly bool) ([]core.BudgetedExpense, error) {
	var out []core.BudgetedExpense
	for _, b := range f.items {
		if b.UserID != userID || (activeOnly && !b.Active) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBudget) Update(ctx context.Context, b core.BudgetedExpense) (*core.BudgetedExpense, error) {
	prev, ok := f.items[b.ID]
	if !ok || prev.UserID != b.UserID {
		return nil, nil
	}
	f.items[b.ID] = b
	return &b, nil
}

func (f *fakeBudget) Deactivate(ctx context.Context, id, userID int64) (*core.BudgetedExpense, error) {
	b, ok := f.items[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	b.Active = false
	f.items[id] = b
	return &b, nil
}

type fakeReporter struct {
	rows  []core.DisplayRow
	calls int
}

func (f *fakeReporter) ReportByCategory(ctx context.Context, periodID, userID int64, drill *int64) ([]core.DisplayRow, error) {
	f.calls++
	return f.rows, nil
}

type fakeRecomputer struct {
	periods *fakePeriods
	rows    []core.AnalysisRow
	calls   int
}

func (f *fakeRecomputer) RecomputePeriod(ctx context.Context, periodID, userID int64) ([]core.AnalysisRow, error) {
	f.calls++
	p, ok := f.periods.periods[periodID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	if f.rows == nil {
		return []core.AnalysisRow{}, nil
	}
	return f.rows, nil
}

type fakeCategories struct {
	nextID int64
	cats   map[int64]core.Category
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{nextID: 1, cats: map[int64]core.Category{}}
}

func (f *fakeCategories) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.ID = f.nextID
	f.nextID++
	f.cats[c.ID] = c
	return c, nil
}

func (f *fakeCategories) ListTopCategories(ctx context.Context) ([]core.Category, error) {
	var out []core.Category
	for _, c := range f.cats {
		if c.TopLevel() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) ListSubcategories(ctx context.Context, parentID int64) ([]core.Category, error) {
	var out []core.Category
	for _, c := range f.cats {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeExporter struct {
	ref   string
	calls int
}

func (f *fakeExporter) ExportReport(ctx context.Context, period core.AnalysisPeriod, rows []core.DisplayRow) (string, error) {
	f.calls++
	return f.ref, nil
}

type testEnv struct {
	server       *Server
	periods      *fakePeriods
	transactions *fakeTransactions
	budget       *fakeBudget
	reporter     *fakeReporter
	recomputer   *fakeRecomputer
	categories   *fakeCategories
}

func newTestEnv(t *testing.T, exporter ReportExporter) *testEnv {
	t.Helper()

	periods := newFakePeriods()
	env := &testEnv{
		periods:      periods,
		transactions: newFakeTransactions(),
		budget:       newFakeBudget(),
		reporter:     &fakeReporter{},
		recomputer:   &fakeRecomputer{periods: periods},
		categories:   newFakeCategories(),
	}
	env.server = NewServer(":0", Options{
		Periods:       env.periods,
		Transactions:  env.transactions,
		Budget:        env.budget,
		Reporter:      env.reporter,
		Recomputer:    env.recomputer,
		Categories:    env.categories,
		Exporter:      exporter,
		DefaultUserID: 1,
	})
	t.Cleanup(func() { _ = env.server.Shutdown(context.Background()) })
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) addPeriod(t *testing.T, userID int64) core.AnalysisPeriod {
	t.Helper()
	p, err := e.periods.Create(context.Background(), core.AnalysisPeriod{
		Name: "February 2026", Start: core.NewDate(2026, 2, 1), End: core.NewDate(2026, 2, 28), UserID: userID,
	})
	if err != nil {
		t.Fatalf("seed period: %v", err)
	}
	return p
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got == "" {
		t.Error("X-Frame-Options header missing")
	}
}

func TestCreatePeriod(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/periods",
		`{"name":"February 2026","start_date":"2026-02-01","end_date":"2026-02-28"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody[periodJSON](t, rec)
	if body.ID == 0 || body.Name != "February 2026" || body.Start != "2026-02-01" {
		t.Errorf("response = %+v", body)
	}
}

func TestCreatePeriod_Invalid(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"unknown field", `{"name":"x","start_date":"2026-02-01","end_date":"2026-02-28","bogus":1}`, http.StatusBadRequest},
		{"bad date", `{"name":"x","start_date":"02/01/2026","end_date":"2026-02-28"}`, http.StatusUnprocessableEntity},
		{"backwards range", `{"name":"x","start_date":"2026-02-28","end_date":"2026-02-01"}`, http.StatusUnprocessableEntity},
		{"empty name", `{"name":" ","start_date":"2026-02-01","end_date":"2026-02-28"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/periods", tt.body, nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestGetPeriod_NotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/periods/42", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetPeriod_OtherUserHidden(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.addPeriod(t, 2)

	rec := env.do(t, http.MethodGet, "/api/periods/1", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("default user sees user 2's period: status %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/periods/1", "", map[string]string{"X-User-ID": "2"})
	if rec.Code != http.StatusOK {
		t.Errorf("owner blocked from own period: status %d", rec.Code)
	}
	body := decodeBody[periodJSON](t, rec)
	if body.ID != p.ID {
		t.Errorf("response = %+v", body)
	}
}

func TestReportCaching(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addPeriod(t, 1)
	env.reporter.rows = []core.DisplayRow{
		{CategoryID: 3, Name: "Housing", Budgeted: decimal.New(50000, -2), Actual: decimal.New(35000, -2),
			Variance: decimal.New(15000, -2), TransactionCount: 2},
	}

	for i := 0; i < 3; i++ {
		rec := env.do(t, http.MethodGet, "/api/periods/1/report", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		rows := decodeBody[[]displayRowJSON](t, rec)
		if len(rows) != 1 || rows[0].Name != "Housing" || rows[0].Actual != "350" {
			t.Fatalf("rows = %+v", rows)
		}
	}
	if env.reporter.calls != 1 {
		t.Errorf("reporter called %d times for 3 identical requests, want 1 (cached)", env.reporter.calls)
	}

	// Drill-down is a distinct cache entry.
	rec := env.do(t, http.MethodGet, "/api/periods/1/report?category_id=3", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("drill status = %d", rec.Code)
	}
	if env.reporter.calls != 2 {
		t.Errorf("reporter called %d times after drill request, want 2", env.reporter.calls)
	}

	// Recompute invalidates both variants.
	rec = env.do(t, http.MethodPost, "/api/periods/1/recompute", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recompute status = %d, body %s", rec.Code, rec.Body.String())
	}
	env.do(t, http.MethodGet, "/api/periods/1/report", "", nil)
	if env.reporter.calls != 3 {
		t.Errorf("reporter called %d times after invalidation, want 3", env.reporter.calls)
	}
}

// Ledger and budget mutations recompute through the services hook, so they
// must drop the user's cached reports too, not just the recompute endpoint.
func TestReportCacheInvalidatedByMutations(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addPeriod(t, 1)

	fetch := func() {
		t.Helper()
		rec := env.do(t, http.MethodGet, "/api/periods/1/report", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("report status = %d, body %s", rec.Code, rec.Body.String())
		}
	}

	fetch()
	fetch()
	if env.reporter.calls != 1 {
		t.Fatalf("reporter called %d times before mutation, want 1 (cached)", env.reporter.calls)
	}

	rec := env.do(t, http.MethodPost, "/api/transactions",
		`{"date":"2026-02-10","payee":"Grocer","amount":"42.00","type":"debit"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction status = %d, body %s", rec.Code, rec.Body.String())
	}
	fetch()
	if env.reporter.calls != 2 {
		t.Errorf("reporter called %d times after transaction create, want 2", env.reporter.calls)
	}

	rec = env.do(t, http.MethodPost, "/api/budget-items",
		`{"payee":"Landlord","variability":"fixed","frequency":"monthly","date_scheduled":"2026-02-01","budgeted_amount":"500.00","category_id":3}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget item status = %d, body %s", rec.Code, rec.Body.String())
	}
	fetch()
	if env.reporter.calls != 3 {
		t.Errorf("reporter called %d times after budget create, want 3", env.reporter.calls)
	}

	// A rejected mutation leaves the cache alone.
	rec = env.do(t, http.MethodPost, "/api/transactions",
		`{"date":"2026-02-10","payee":"","amount":"10.00","type":"debit"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid transaction status = %d", rec.Code)
	}
	fetch()
	if env.reporter.calls != 3 {
		t.Errorf("reporter called %d times after rejected mutation, want 3 (still cached)", env.reporter.calls)
	}

	// Mutations by another user do not evict this user's entries.
	rec = env.do(t, http.MethodPost, "/api/transactions",
		`{"date":"2026-02-10","payee":"Cafe","amount":"5.00","type":"debit"}`,
		map[string]string{"X-User-ID": "2"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("other-user create status = %d, body %s", rec.Code, rec.Body.String())
	}
	fetch()
	if env.reporter.calls != 3 {
		t.Errorf("reporter called %d times after other user's mutation, want 3 (still cached)", env.reporter.calls)
	}
}

func TestReport_PeriodNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/periods/7/report", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if env.reporter.calls != 0 {
		t.Errorf("reporter called for missing period")
	}
}

func TestRecomputePeriod(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addPeriod(t, 1)
	sub := int64(9)
	env.recomputer.rows = []core.AnalysisRow{
		{PeriodID: 1, UserID: 1, Key: core.Key(3, &sub),
			Budgeted: decimal.New(50000, -2), Actual: decimal.New(35000, -2),
			Variance: decimal.New(15000, -2), TransactionCount: 2},
	}

	rec := env.do(t, http.MethodPost, "/api/periods/1/recompute", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	rows := decodeBody[[]analysisRowJSON](t, rec)
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}
	row := rows[0]
	if row.CategoryID != 3 || row.SubcategoryID == nil || *row.SubcategoryID != 9 {
		t.Errorf("row key = %+v", row)
	}
	if row.Variance != "150" || row.TransactionCount != 2 {
		t.Errorf("row = %+v", row)
	}
}

func TestRecomputePeriod_NotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/periods/99/recompute", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestImportTransactions(t *testing.T) {
	env := newTestEnv(t, nil)
	env.transactions.importResult = services.ImportResult{
		Imported: 2,
		Errors:   []services.ImportError{{Row: 4, Err: "invalid amount"}},
	}

	csvBody := "date,payee,amount\n2026-02-01,A,1.00\n2026-02-02,B,2.00\nbad\n"
	rec := env.do(t, http.MethodPost, "/api/transactions/import?account_id=5", csvBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[importResponse](t, rec)
	if resp.Imported != 2 || len(resp.Errors) != 1 || resp.Errors[0].Row != 4 {
		t.Errorf("response = %+v", resp)
	}
	if env.transactions.importedCSV != csvBody {
		t.Errorf("service received %q", env.transactions.importedCSV)
	}
	if env.transactions.importAcct == nil || *env.transactions.importAcct != 5 {
		t.Errorf("account id = %v, want 5", env.transactions.importAcct)
	}
}

func TestCreateTransaction_ValidationStatus(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/transactions",
		`{"date":"2026-02-10","payee":"","amount":"10.00","type":"debit"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestBudgetItemLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/budget-items",
		`{"payee":"Landlord","variability":"fixed","frequency":"monthly","date_scheduled":"2026-02-01","budgeted_amount":"500.00","category_id":3}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[budgetItemJSON](t, rec)
	if !created.Active {
		t.Error("created item inactive; create should force active")
	}

	rec = env.do(t, http.MethodPost, "/api/budget-items/1/deactivate", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate status = %d, body %s", rec.Code, rec.Body.String())
	}
	item := decodeBody[budgetItemJSON](t, rec)
	if item.Active {
		t.Error("item still active after deactivate")
	}
}

func TestExportReport(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.addPeriod(t, 1)

		rec := env.do(t, http.MethodPost, "/api/periods/1/export", "", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("configured", func(t *testing.T) {
		exporter := &fakeExporter{ref: "Reports!A10:F12"}
		env := newTestEnv(t, exporter)
		env.addPeriod(t, 1)
		env.reporter.rows = []core.DisplayRow{{CategoryID: 3, Name: "Housing"}}

		rec := env.do(t, http.MethodPost, "/api/periods/1/export", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		resp := decodeBody[map[string]any](t, rec)
		if resp["ref"] != "Reports!A10:F12" {
			t.Errorf("ref = %v", resp["ref"])
		}
		if exporter.calls != 1 {
			t.Errorf("exporter called %d times, want 1", exporter.calls)
		}
	})
}

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/categories", `{"name":"  Housing  "}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[categoryJSON](t, rec)
	if created.Name != "Housing" {
		t.Errorf("name = %q, want trimmed Housing", created.Name)
	}

	rec = env.do(t, http.MethodPost, "/api/categories", `{"name":"   "}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank name status = %d, want 422", rec.Code)
	}
}

func TestListSubcategories(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	housing, _ := env.categories.CreateCategory(ctx, core.Category{Name: "Housing"})
	if _, err := env.categories.CreateCategory(ctx, core.Category{Name: "Rent", ParentID: &housing.ID}); err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodGet, "/api/categories/1/subcategories", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	subs := decodeBody[[]categoryJSON](t, rec)
	if len(subs) != 1 || subs[0].Name != "Rent" {
		t.Errorf("subcategories = %+v", subs)
	}
}

func TestPathIDValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/periods/zero", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-numeric id", rec.Code)
	}
}
