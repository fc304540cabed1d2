package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mcclellann/fredBank/internal/config"
	"github.com/mcclellann/fredBank/pkg/functions"
	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/mcclellann/fredBank/pkg/store"
	"github.com/shopspring/decimal"
)

func setupTestServer(t *testing.T) (*Server, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test_api.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	d := store.NewDataset()
	d.Customers.Put(1, &models.Customer{ID: 1, FirstName: "Ana"})
	d.Accounts.Put(1, &models.Account{ID: 1, CustomerID: 1, AccountNumber: "100200", Balance: decimal.RequireFromString("300.00")})

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewServer(d, s, ledger.WithClock(func() time.Time { return now })), s
}

func post(t *testing.T, server *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	server.routes().ServeHTTP(rr, req)
	return rr
}

func TestAPI_ListFunctions(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/functions", nil)
	rr := httptest.NewRecorder()
	server.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var md []functions.Metadata
	if err := json.Unmarshal(rr.Body.Bytes(), &md); err != nil {
		t.Fatalf("Failed to decode metadata: %v", err)
	}
	found := false
	for _, m := range md {
		if m.Function.Name == "make_payment" {
			found = true
		}
	}
	if !found {
		t.Error("Expected make_payment in the function list")
	}
}

func TestAPI_DepositPersists(t *testing.T) {
	server, s := setupTestServer(t)

	rr := post(t, server, "/functions/deposit_to_account", `{"account_id":1,"amount":50.5,"channel":"BRANCH"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"message":"Deposit successful"`) {
		t.Errorf("Unexpected body %s", rr.Body.String())
	}

	saved, err := s.Load()
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	acct, ok := saved.Accounts.Get(1)
	if !ok || !acct.Balance.Equal(decimal.RequireFromString("350.50")) {
		t.Errorf("Expected saved balance 350.50, got %v", acct)
	}
	if saved.Transactions.Len() != 1 {
		t.Errorf("Expected 1 saved transaction, got %d", saved.Transactions.Len())
	}
}

func TestAPI_ErrorStatus(t *testing.T) {
	server, _ := setupTestServer(t)

	tests := []struct {
		path string
		body string
		code int
		msg  string
	}{
		{"/functions/withdraw_from_account", `{"account_id":1,"amount":"300.01","channel":"ATM"}`, http.StatusConflict, "Error: Insufficient funds"},
		{"/functions/withdraw_from_account", `{"account_id":7,"amount":1,"channel":"ATM"}`, http.StatusNotFound, "Error: Account '7' not found"},
		{"/functions/withdraw_from_account", `{"amount":1,"channel":"ATM"}`, http.StatusBadRequest, "Error: 'account_id' is required"},
		{"/functions/no_such_function", `{}`, http.StatusNotFound, "Error: Unknown function 'no_such_function'"},
	}

	for _, tt := range tests {
		rr := post(t, server, tt.path, tt.body)
		if rr.Code != tt.code {
			t.Errorf("%s: expected status %d, got %d", tt.path, tt.code, rr.Code)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != tt.msg {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.msg, got)
		}
	}
}

func TestAPI_GetCollection(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/collections/accounts", nil)
	rr := httptest.NewRecorder()
	server.routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var accounts map[string]models.Account
	if err := json.Unmarshal(rr.Body.Bytes(), &accounts); err != nil {
		t.Fatalf("Failed to decode accounts: %v", err)
	}
	if accounts["1"].AccountNumber != "100200" {
		t.Errorf("Unexpected accounts %v", accounts)
	}

	req = httptest.NewRequest("GET", "/collections", nil)
	rr = httptest.NewRecorder()
	server.routes().ServeHTTP(rr, req)
	var names []string
	if err := json.Unmarshal(rr.Body.Bytes(), &names); err != nil || len(names) != 12 {
		t.Errorf("Expected 12 collection names, got %v (%v)", names, err)
	}

	req = httptest.NewRequest("GET", "/collections/vaults", nil)
	rr = httptest.NewRecorder()
	server.routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestLoadDataset_PrefersFixtures(t *testing.T) {
	_, s := setupTestServer(t)
	dir := t.TempDir()

	d, err := loadDataset(config.Config{}, s)
	if err != nil {
		t.Fatalf("Failed to load from snapshot: %v", err)
	}
	if d.Accounts.Len() != 0 {
		t.Errorf("Expected an empty snapshot, got %d accounts", d.Accounts.Len())
	}

	d, err = loadDataset(config.Config{DataDir: dir}, s)
	if err != nil {
		t.Fatalf("Failed to load from fixtures: %v", err)
	}
	if d == nil || d.Loans.Len() != 0 {
		t.Errorf("Expected an empty fixture dataset")
	}

	if _, err := loadDataset(config.Config{DataDir: filepath.Join(dir, "missing")}, s); err != nil {
		t.Errorf("Expected a missing directory to load empty, got %v", err)
	}
}
