package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/session"
	"fintrack/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sess := session.New(memory.New(), "u1")
	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	srv := NewServer(":0", sess)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	if rec := doRequest(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
}

func TestCreateAndListTransactions(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-15","amount":"12.50","description":"lunch","category":"daily","type":"expense"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body)
	}
	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" {
		t.Error("created transaction must carry an id")
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	var listed []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("list = %+v", listed)
	}
}

func TestCreateTransaction_InvalidIs422(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-15","amount":"10","description":"","category":"daily","type":"expense"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid transaction = %d, want 422", rec.Code)
	}
}

func TestListTransactions_Filters(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-10","amount":"10","description":"groceries run","category":"groceries","type":"expense"}`)
	doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-20","amount":"1000","description":"salary","category":"salary","type":"income"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions?type=income", "")
	var listed []core.Transaction
	json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].Type != core.Income {
		t.Errorf("type filter = %+v", listed)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?q=groceries", "")
	listed = nil
	json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].Category != "groceries" {
		t.Errorf("search filter = %+v", listed)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?start=bad-date", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad start date = %d, want 400", rec.Code)
	}
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-15","amount":"10","description":"lunch","category":"daily","type":"expense"}`)
	var created core.Transaction
	json.Unmarshal(rec.Body.Bytes(), &created)

	rec = doRequest(t, srv, http.MethodPatch, "/api/transactions/"+created.ID,
		`{"description":"dinner","amount":"15,50"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("patch = %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions", "")
	var listed []core.Transaction
	json.Unmarshal(rec.Body.Bytes(), &listed)
	if listed[0].Description != "dinner" || listed[0].Amount.String() != "15.5" {
		t.Errorf("after patch: %+v", listed[0])
	}

	if rec := doRequest(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestCSVExportImportRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-15","amount":"12.5","description":"coffee, \"the usual\" blend","category":"daily","type":"expense"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions_") || !strings.Contains(cd, ".csv") {
		t.Errorf("content disposition = %q", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "Date,Description,Category,Amount,Type") {
		t.Errorf("csv header missing: %q", body)
	}

	// Import the export into a fresh server.
	other := newTestServer(t)
	rec = doRequest(t, other, http.MethodPost, "/api/transactions/import", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import = %d: %s", rec.Code, rec.Body)
	}

	listRec := doRequest(t, other, http.MethodGet, "/api/transactions", "")
	var listed []core.Transaction
	json.Unmarshal(listRec.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].Description != `coffee, "the usual" blend` {
		t.Errorf("after import: %+v", listed)
	}
}

func TestImportCSV_BadHeaderIs400(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions/import", "Wrong,Header,Entirely,Here,Now\n")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad header = %d, want 400", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-10","amount":"1000","description":"salary","category":"salary","type":"income"}`)
	doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-15","amount":"400","description":"rent","category":"home","type":"expense"}`)
	doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2023-12-15","amount":"500","description":"old salary","category":"salary","type":"income"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard?month=2024-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Month          string `json:"month"`
		Income         string `json:"income"`
		Expense        string `json:"expense"`
		Balance        string `json:"balance"`
		BalanceDisplay string `json:"balance_display"`
		IncomeChange   string `json:"income_change"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if resp.Month != "2024-01" {
		t.Errorf("month = %q", resp.Month)
	}
	if resp.Income != "1000" || resp.Expense != "400" || resp.Balance != "600" {
		t.Errorf("totals = %s / %s / %s", resp.Income, resp.Expense, resp.Balance)
	}
	if resp.BalanceDisplay != "€600,00" {
		t.Errorf("balance display = %q", resp.BalanceDisplay)
	}
	// 500 -> 1000 is a 100% increase.
	if resp.IncomeChange != "100" {
		t.Errorf("income change = %q", resp.IncomeChange)
	}
}

func TestGoalLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/goals",
		`{"type":"savings","target_amount":"1000","current_amount":"100","start_date":"2024-01-01","end_date":"2024-12-31","title":"vacation"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal = %d: %s", rec.Code, rec.Body)
	}
	var created goalView
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Progress.String() != "10" {
		t.Errorf("initial progress = %s, want 10", created.Progress)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/goals/"+created.ID+"/allocate",
		`{"date":"2024-02-01","amount":"400","description":"monthly saving","category":"savings","type":"income"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("allocate = %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/goals", "")
	var views []goalView
	json.Unmarshal(rec.Body.Bytes(), &views)
	if len(views) != 1 {
		t.Fatalf("goals = %+v", views)
	}
	if views[0].CurrentAmount.String() != "500" || views[0].Progress.String() != "50" {
		t.Errorf("after allocation: current %s progress %s", views[0].CurrentAmount, views[0].Progress)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/goals",
		`{"type":"savings","target_amount":"0","current_amount":"0","start_date":"2024-01-01","end_date":"2024-12-31","title":"broken"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero target goal = %d, want 422", rec.Code)
	}
}

func TestListGoals_EligibleOnly(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/goals",
		`{"type":"savings","target_amount":"1000","current_amount":"0","start_date":"2024-01-01","end_date":"2099-12-31","title":"open"}`)
	doRequest(t, srv, http.MethodPost, "/api/goals",
		`{"type":"savings","target_amount":"100","current_amount":"100","start_date":"2024-01-01","end_date":"2099-12-31","title":"done"}`)
	doRequest(t, srv, http.MethodPost, "/api/goals",
		`{"type":"expense_reduction","target_amount":"100","current_amount":"0","start_date":"2024-01-01","end_date":"2099-12-31","title":"not savings"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/goals?eligible=true", "")
	var views []goalView
	json.Unmarshal(rec.Body.Bytes(), &views)
	if len(views) != 1 || views[0].Title != "open" {
		t.Errorf("eligible goals = %+v", views)
	}
}

func TestCategoryCreateDerivesID(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/categories",
		`{"name":"Pet Care","color":"#123456","icon":"paw","type":"expense"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category = %d: %s", rec.Code, rec.Body)
	}
	var created core.Category
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.ID != "pet_care" {
		t.Errorf("derived id = %q", created.ID)
	}
}

func TestDeleteMonth(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-31","amount":"10","description":"in range","category":"daily","type":"expense"}`)
	doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-02-01","amount":"10","description":"out of range","category":"daily","type":"expense"}`)

	if rec := doRequest(t, srv, http.MethodDelete, "/api/data/month?year=2024&month=1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete month = %d", rec.Code)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions", "")
	var listed []core.Transaction
	json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].Description != "out of range" {
		t.Errorf("after delete month: %+v", listed)
	}

	if rec := doRequest(t, srv, http.MethodDelete, "/api/data/month?year=2024", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing month param = %d, want 400", rec.Code)
	}
}

func TestJSONArchiveRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPut, "/api/profile",
		`{"full_name":"Test User","theme":"dark","language":"en"}`)
	doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"date":"2024-01-15","amount":"10","description":"lunch","category":"daily","type":"expense"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/data/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d", rec.Code)
	}
	archive := rec.Body.String()

	other := newTestServer(t)
	rec = doRequest(t, other, http.MethodPost, "/api/data/import", archive)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import = %d: %s", rec.Code, rec.Body)
	}

	profRec := doRequest(t, other, http.MethodGet, "/api/profile", "")
	var prof core.Profile
	json.Unmarshal(profRec.Body.Bytes(), &prof)
	if prof.FullName != "Test User" {
		t.Errorf("profile after import = %+v", prof)
	}

	listRec := doRequest(t, other, http.MethodGet, "/api/transactions", "")
	var listed []core.Transaction
	json.Unmarshal(listRec.Body.Bytes(), &listed)
	if len(listed) != 1 {
		t.Errorf("transactions after import = %+v", listed)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request 61 should be rejected")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("other clients must not be affected")
	}
}
