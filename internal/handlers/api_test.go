package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"admin-pulse/internal/config"
	"admin-pulse/internal/models"
	"admin-pulse/internal/services"
	"admin-pulse/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testDate(y int, m time.Month, d int) models.Date {
	return models.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func newTestAPIHandlers(t *testing.T) *APIHandlers {
	t.Helper()
	logger := quietLogger()

	st := store.New(logger)

	customers := services.NewCustomerDirectory(logger)
	customers.SetData([]models.User{
		{ID: 1, Name: "An Nguyen", Email: "an@example.com", Plan: models.PlanFree, Status: "Active", RegistrationDate: testDate(2024, 3, 10)},
		{ID: 2, Name: "Binh Tran", Email: "binh@example.com", Plan: models.PlanPro, Status: "Active", RegistrationDate: testDate(2024, 1, 5)},
		{ID: 3, Name: "Cuong Le", Email: "cuong@example.com", Plan: models.PlanMax, Status: "Inactive", RegistrationDate: testDate(2024, 2, 20)},
	})

	ledger := services.NewTransactionLedger(logger)
	ledger.SetData([]models.Transaction{
		{ID: 2, TransactionCode: "TXN002", UserID: 3, UserName: "Cuong Le", Plan: models.PlanMax, Amount: 599000, Status: models.StatusSuccess, TransactionDate: testDate(2025, 1, 10)},
		{ID: 1, TransactionCode: "TXN001", UserID: 1, UserName: "An Nguyen", Plan: models.PlanPro, Amount: 299000, Status: models.StatusPending, TransactionDate: testDate(2025, 1, 5)},
	})

	analytics := services.NewVisitorAnalytics(time.UTC, logger)
	analytics.SetData([]models.Visitor{
		{RegistrationDate: testDate(2025, 1, 6)},
		{RegistrationDate: testDate(2025, 1, 6)},
		{RegistrationDate: testDate(2025, 1, 7)},
	})

	return NewAPIHandlers(st, customers, ledger, analytics, logger)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return response
}

func TestAPIHandlers_HandleCustomers(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	w := httptest.NewRecorder()

	h.HandleCustomers(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	response := decodeEnvelope(t, w)
	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data object in response")
	}
	if data["total"] != float64(3) || data["filtered"] != float64(3) {
		t.Errorf("expected total=3 filtered=3, got total=%v filtered=%v", data["total"], data["filtered"])
	}
}

func TestAPIHandlers_HandleCustomers_Filtering(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantFiltered int
	}{
		{"single plan", "/api/customers?plan=Pro+Plan", 1},
		{"two plans", "/api/customers?plan=Pro+Plan&plan=Max+Plan", 2},
		{"empty plan parameter matches nothing", "/api/customers?plan=", 0},
		{"search term", "/api/customers?q=binh", 1},
		{"no matches is an empty result, not an error", "/api/customers?q=zzz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAPIHandlers(t)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			h.HandleCustomers(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}

			data := decodeEnvelope(t, w)["data"].(map[string]any)
			if data["filtered"] != float64(tt.wantFiltered) {
				t.Errorf("filtered = %v, want %d", data["filtered"], tt.wantFiltered)
			}
		})
	}
}

func TestAPIHandlers_HandleCustomers_Sorted(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/customers?sort=name&dir=desc", nil)
	w := httptest.NewRecorder()
	h.HandleCustomers(w, req)

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	if data["sort_column"] != "name" || data["sort_descending"] != true {
		t.Errorf("sort state = (%v, %v), want (name, true)", data["sort_column"], data["sort_descending"])
	}

	items := data["items"].([]any)
	first := items[0].(map[string]any)
	if first["name"] != "Cuong Le" {
		t.Errorf("descending name sort should put Cuong Le first, got %v", first["name"])
	}
}

func TestAPIHandlers_HandleCustomer(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"found", "2", http.StatusOK},
		{"not found", "99", http.StatusNotFound},
		{"bad id", "abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAPIHandlers(t)

			req := httptest.NewRequest(http.MethodGet, "/api/customers/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			h.HandleCustomer(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestAPIHandlers_HandleTransactions(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?status=Success", nil)
	w := httptest.NewRecorder()
	h.HandleTransactions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	if data["filtered"] != float64(1) {
		t.Errorf("filtered = %v, want 1", data["filtered"])
	}
}

func TestAPIHandlers_HandleTransactionSummary(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/summary", nil)
	w := httptest.NewRecorder()
	h.HandleTransactionSummary(w, req)

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	if data["total_amount"] != float64(599000) {
		t.Errorf("total_amount = %v, want 599000 (successful transactions only)", data["total_amount"])
	}
}

func TestAPIHandlers_HandleVisits(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visits", nil)
	w := httptest.NewRecorder()
	h.HandleVisits(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].(map[string]any)

	stats := data["stats"].(map[string]any)
	if stats["total_visits"] != float64(3) {
		t.Errorf("total_visits = %v, want 3", stats["total_visits"])
	}
	if stats["growth"] != string(models.GrowthNotEnoughData) {
		t.Errorf("growth = %v, want %q", stats["growth"], models.GrowthNotEnoughData)
	}

	series := data["series"].(map[string]any)
	labels := series["labels"].([]any)
	values := series["values"].([]any)
	if len(labels) != 2 || len(values) != 2 {
		t.Fatalf("expected 2 chart points, got %d labels / %d values", len(labels), len(values))
	}
	if labels[0] != "Jan 6" || values[0] != float64(2) {
		t.Errorf("first point = (%v, %v), want (Jan 6, 2)", labels[0], values[0])
	}
}

func TestAPIHandlers_LoadFailureIsServiceUnavailable(t *testing.T) {
	logger := quietLogger()

	st := store.New(logger)
	// Every fixture is missing, so every dataset records a failure.
	st.Load(context.Background(), config.DataConfig{
		Dir:              t.TempDir(),
		UsersFile:        "users.json",
		TransactionsFile: "transactions.json",
		VisitorsFile:     "visitors.json",
		Timezone:         "UTC",
	})

	h := NewAPIHandlers(st,
		services.NewCustomerDirectory(logger),
		services.NewTransactionLedger(logger),
		services.NewVisitorAnalytics(time.UTC, logger),
		logger)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	w := httptest.NewRecorder()
	h.HandleCustomers(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	response := decodeEnvelope(t, w)
	if success, ok := response["success"].(bool); !ok || success {
		t.Error("expected success=false in response")
	}

	errObj := response["error"].(map[string]any)
	msg, _ := errObj["message"].(string)
	if !strings.Contains(msg, "users.json") {
		t.Errorf("error message should name the expected data file, got %q", msg)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	if data["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", data["status"])
	}
}
