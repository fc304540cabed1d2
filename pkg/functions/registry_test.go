package functions

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/mcclellann/fredBank/pkg/store"
	"github.com/shopspring/decimal"
)

func newTestRegistry(t *testing.T) (*Registry, *store.Dataset) {
	t.Helper()
	d := store.NewDataset()
	d.Customers.Put(1, &models.Customer{ID: 1, FirstName: "Ana"})
	d.Branches.Put(1, &models.Branch{ID: 1, Name: "Main"})
	d.Accounts.Put(1, &models.Account{ID: 1, CustomerID: 1, AccountNumber: "100200", Balance: decimal.RequireFromString("5000.00")})
	d.Loans.Put(1, &models.Loan{
		ID:                1,
		CustomerID:        1,
		LoanAccountNumber: "900001",
		Type:              "HOME",
		PrincipalAmount:   decimal.RequireFromString("12000"),
		InterestRate:      decimal.RequireFromString("6"),
		Tenure:            12,
		StartDate:         "2024-01-01",
	})
	d.Beneficiaries.Put(1, &models.Beneficiary{ID: 1, CustomerID: 1, BeneficiaryType: models.BeneficiaryLoanAccount, AccountNumber: "900001"})

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := ledger.NewLedger(d, ledger.WithClock(func() time.Time { return now }), ledger.WithLogger(logger))
	return NewRegistry(l, logger), d
}

func call(t *testing.T, r *Registry, name, args string) Result {
	t.Helper()
	return r.Call(name, json.RawMessage(args))
}

func TestMetadata(t *testing.T) {
	r, _ := newTestRegistry(t)
	md := r.Metadata()
	if len(md) != len(builtins()) {
		t.Fatalf("Expected %d functions, got %d", len(builtins()), len(md))
	}
	for i, m := range md {
		if m.Type != "function" {
			t.Errorf("%s: expected type function, got %s", m.Function.Name, m.Type)
		}
		if i > 0 && md[i-1].Function.Name >= m.Function.Name {
			t.Errorf("Metadata not sorted at %s", m.Function.Name)
		}
		for _, req := range m.Function.Parameters.Required {
			if _, ok := m.Function.Parameters.Properties[req]; !ok {
				t.Errorf("%s: required parameter %s is not described", m.Function.Name, req)
			}
		}
	}

	b, err := json.Marshal(md[0])
	if err != nil {
		t.Fatalf("Failed to marshal metadata: %v", err)
	}
	if !strings.Contains(string(b), `"function":{"name":`) {
		t.Errorf("Unexpected metadata shape %s", b)
	}
}

func TestMetadata_Enums(t *testing.T) {
	r, _ := newTestRegistry(t)

	tests := []struct {
		fn    string
		param string
		want  []string
	}{
		{"make_payment", "product_type", []string{"LOAN", "CARD"}},
		{"make_payment", "channel", []string{"BRANCH", "ATM", "ONLINE", "MOBILE"}},
		{"make_card_purchase", "channel", []string{"POS", "ONLINE", "MOBILE", "BRANCH", "ATM"}},
		{"issue_card", "card_type", []string{"DEBIT", "CREDIT", "PREPAID"}},
		{"create_loan", "loan_type", []string{"HOME", "CAR", "PERSONAL", "EDUCATION"}},
		{"update_loan_status", "status", []string{"ACTIVE", "CLOSED", "DEFAULTED"}},
		{"list_loan_statements", "status", []string{"PENDING", "PAID"}},
		{"update_card", "status", []string{"ACTIVE", "BLOCKED", "EXPIRED"}},
		{"add_beneficiary", "beneficiary_type", []string{"BANK_ACCOUNT", "LOAN_ACCOUNT", "CARD"}},
	}

	for _, tt := range tests {
		fn, ok := r.Lookup(tt.fn)
		if !ok {
			t.Fatalf("Expected %s to be registered", tt.fn)
		}
		got := fn.Parameters.Properties[tt.param].Enum
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%s.%s: expected enum %v, got %v", tt.fn, tt.param, tt.want, got)
		}
	}

	b, _ := json.Marshal(r.Metadata())
	if !strings.Contains(string(b), `"product_type":{"type":"string","description":"Product type: 'LOAN' or 'CARD'","enum":["LOAN","CARD"]}`) {
		t.Errorf("Expected product_type enum in the published metadata")
	}
	fn, _ := r.Lookup("generate_loan_statement")
	if fn.Parameters.Properties["loan_id"].Enum != nil {
		t.Errorf("Expected no enum on integer parameters")
	}
}

func TestCall_UnknownFunction(t *testing.T) {
	r, _ := newTestRegistry(t)
	res := call(t, r, "open_vault", `{}`)
	if !errors.Is(res.Err, ledger.ErrNotFound) {
		t.Errorf("Expected not found, got %v", res.Err)
	}
	if res.String() != "Error: Unknown function 'open_vault'" {
		t.Errorf("Unexpected result %s", res)
	}
}

func TestCall_ArgumentErrors(t *testing.T) {
	r, _ := newTestRegistry(t)

	tests := []struct {
		name string
		fn   string
		args string
		want string
	}{
		{"missing", "generate_loan_statement", `{}`, "Error: 'loan_id' is required"},
		{"empty input", "generate_card_statement", ``, "Error: 'card_id' is required"},
		{"wrong type", "generate_loan_statement", `{"loan_id":"one"}`, "Error: 'loan_id' must be an integer"},
		{"unknown", "generate_loan_statement", `{"loan_id":1,"force":true}`, "Error: Unexpected argument 'force'"},
		{"malformed", "generate_loan_statement", `{"loan_id":}`, "Error: Arguments must be a JSON object"},
		{"bad date", "create_loan", `{"customer_id":1,"branch_id":1,"loan_type":"CAR","principal_amount":10,"interest_rate":1,"tenure_months":3,"start_date":"3 May"}`, "Error: 'start_date' must be a string in YYYY-MM-DD format"},
		{"zero tenure", "create_loan", `{"customer_id":1,"branch_id":1,"loan_type":"CAR","principal_amount":10,"interest_rate":1,"tenure_months":0,"start_date":"2024-05-03"}`, "Error: 'tenure_months' must be greater than 0"},
		{"blank merchant", "make_card_purchase", `{"card_id":1,"amount":5,"merchant":"  "}`, "Error: 'merchant' must be a non-empty string"},
		{"bad product filter", "list_penalty_rates", `{"product_type":"BOND"}`, "Error: 'product_type' must be one of: LOAN, CARD"},
		{"bad period filter", "list_loan_statements", `{"period_start_from":"yesterday"}`, "Error: 'period_start_from' must be a string in YYYY-MM-DD format"},
		{"trailing garbage", "list_loan_statements", `{"period_end_to":"2024-01-15garbage"}`, "Error: 'period_end_to' must be a string in YYYY-MM-DD format"},
		{"bad email", "create_customer", `{"first_name":"Mia","last_name":"Park","dob":"1990-07-04","email":"mia","phone":"1","address":"x"}`, "Error: 'email' must be a valid email address"},
		{"negative count", "get_account_summary", `{"account_id":1,"recent_txns_count":-1}`, "Error: 'recent_txns_count' must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, r, tt.fn, tt.args)
			if !errors.Is(res.Err, ledger.ErrValidation) {
				t.Errorf("Expected validation error, got %v", res.Err)
			}
			if res.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, res.String())
			}
		})
	}
}

func TestCall_PaymentFlow(t *testing.T) {
	r, d := newTestRegistry(t)

	res := call(t, r, "generate_loan_statement", `{"loan_id":1}`)
	if !res.OK() {
		t.Fatalf("Failed to generate statement: %v", res.Err)
	}
	var generated struct {
		Message   string               `json:"message"`
		Statement models.LoanStatement `json:"statement"`
	}
	if err := json.Unmarshal([]byte(res.String()), &generated); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if generated.Message != "Loan statement generated" || generated.Statement.PeriodStart != "2024-01-02" {
		t.Errorf("Unexpected payload %+v", generated)
	}

	res = call(t, r, "make_payment", `{"account_id":1,"beneficiary_id":1,"product_type":"loan","amount":"1032.80","channel":"ONLINE"}`)
	if !res.OK() {
		t.Fatalf("Failed to pay: %v", res.Err)
	}
	if !strings.Contains(res.String(), `"message":"Loan payment successful"`) {
		t.Errorf("Unexpected payload %s", res)
	}
	stmt, _ := d.LoanStatements.Get(1)
	if stmt.Status != models.StatementPaid {
		t.Errorf("Expected PAID, got %s", stmt.Status)
	}

	res = call(t, r, "make_payment", `{"account_id":1,"beneficiary_id":1,"product_type":"LOAN","amount":5000,"channel":"ONLINE"}`)
	if res.String() != "Error: Insufficient funds" || !errors.Is(res.Err, ledger.ErrRejected) {
		t.Errorf("Unexpected result %s", res)
	}

	res = call(t, r, "list_loan_statements", `{"loan_id":1,"status":"paid"}`)
	if !res.OK() {
		t.Fatalf("Failed to list: %v", res.Err)
	}
	var listed []models.LoanStatement
	if err := json.Unmarshal([]byte(res.String()), &listed); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("Expected one paid statement, got %d", len(listed))
	}
}

func TestCall_EmptyListIsArray(t *testing.T) {
	r, _ := newTestRegistry(t)
	res := call(t, r, "list_card_statements", `{}`)
	if res.String() != "[]" {
		t.Errorf("Expected [], got %s", res)
	}
}

func TestCall_RecoversPanic(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Register(Function{
		Name: "explode",
		Apply: func(*ledger.Ledger, json.RawMessage) (any, error) {
			panic("boom")
		},
	})
	res := call(t, r, "explode", `{}`)
	if res.OK() || !strings.HasPrefix(res.String(), "Error: internal error in explode") {
		t.Errorf("Unexpected result %s", res)
	}
}

func TestMutatingFunctions(t *testing.T) {
	r, _ := newTestRegistry(t)
	for _, name := range []string{"make_payment", "generate_card_statement", "deposit_to_account", "create_customer", "create_account", "update_account", "update_card"} {
		fn, ok := r.Lookup(name)
		if !ok || !fn.Mutates {
			t.Errorf("Expected %s to be registered as mutating", name)
		}
	}
	for _, name := range []string{"list_penalty_rates", "get_loan_amortization_schedule", "get_account_summary", "list_card_transactions", "get_bank_by_name", "list_employees"} {
		fn, ok := r.Lookup(name)
		if !ok || fn.Mutates {
			t.Errorf("Expected %s to be read-only", name)
		}
	}
}

func TestCall_OnboardingFlow(t *testing.T) {
	r, d := newTestRegistry(t)

	res := call(t, r, "create_customer", `{"first_name":"Mia","last_name":"Park","dob":"1990-07-04","email":"mia@example.com","phone":"555-0100","address":"1 Elm St"}`)
	if !res.OK() || !strings.Contains(res.String(), `"message":"Customer created successfully"`) {
		t.Fatalf("Unexpected result %s", res)
	}
	res = call(t, r, "create_account", `{"branch_id":1,"customer_id":2,"account_type":"savings","initial_deposit":100}`)
	if !res.OK() {
		t.Fatalf("Failed to create account: %v", res.Err)
	}
	acct, ok := d.Accounts.Get(2)
	if !ok || acct.CustomerID != 2 || acct.Type != "SAVINGS" || acct.AccountNumber != "100201" {
		t.Fatalf("Unexpected account %+v", acct)
	}

	if res = call(t, r, "deposit_to_account", `{"account_id":2,"amount":25,"channel":"MOBILE"}`); !res.OK() {
		t.Fatalf("Failed to deposit: %v", res.Err)
	}
	res = call(t, r, "get_account_summary", `{"account_id":2}`)
	var summary struct {
		Balance    string               `json:"balance"`
		Status     string               `json:"status"`
		RecentTxns []models.Transaction `json:"recent_txns"`
	}
	if err := json.Unmarshal([]byte(res.String()), &summary); err != nil {
		t.Fatalf("Failed to decode summary %s: %v", res, err)
	}
	if summary.Balance != "125" || summary.Status != "OPEN" || len(summary.RecentTxns) != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}

	res = call(t, r, "update_account", `{"account_id":2,"status":"frozen"}`)
	if !res.OK() || acct.Status != models.AccountStatusFrozen {
		t.Errorf("Expected FROZEN, got %s (%s)", acct.Status, res)
	}

	res = call(t, r, "list_customer_accounts", `{"customer_id":2}`)
	var accounts []models.Account
	if err := json.Unmarshal([]byte(res.String()), &accounts); err != nil || len(accounts) != 1 {
		t.Errorf("Expected one account for customer 2, got %s", res)
	}
}

func TestCall_CardTransactionTagging(t *testing.T) {
	r, d := newTestRegistry(t)

	res := call(t, r, "issue_card", `{"account_id":1,"card_type":"credit","expiry_date":"2028-01-31","credit_limit":500}`)
	if !res.OK() {
		t.Fatalf("Failed to issue card: %v", res.Err)
	}
	if res = call(t, r, "make_card_purchase", `{"card_id":1,"amount":42.5,"merchant":"Bookshop"}`); !res.OK() {
		t.Fatalf("Failed purchase: %v", res.Err)
	}
	if res = call(t, r, "deposit_to_account", `{"account_id":1,"amount":5,"channel":"ATM"}`); !res.OK() {
		t.Fatalf("Failed to deposit: %v", res.Err)
	}

	list := func(args string) []models.Transaction {
		t.Helper()
		res := call(t, r, "list_card_transactions", args)
		var txs []models.Transaction
		if err := json.Unmarshal([]byte(res.String()), &txs); err != nil {
			t.Fatalf("Failed to decode %s: %v", res, err)
		}
		return txs
	}

	if txs := list(`{}`); len(txs) != 1 || txs[0].CardTxStatus == nil || *txs[0].CardTxStatus != models.CardTxUnbilled {
		t.Fatalf("Expected one UNBILLED card transaction, got %+v", txs)
	}

	// Billing needs a period that has ended, so move the card's issue date back.
	card, _ := d.Cards.Get(1)
	card.IssuedDate = "2023-12-01"
	tx, _ := d.Transactions.Get(1)
	tx.OccurredAt = models.NewTimestamp(time.Date(2023, 12, 10, 9, 0, 0, 0, time.UTC))
	if res = call(t, r, "generate_card_statement", `{"card_id":1}`); !res.OK() {
		t.Fatalf("Failed to generate statement: %v", res.Err)
	}

	if txs := list(`{"card_id":1,"card_tx_status":"BILLED"}`); len(txs) != 1 || txs[0].Amount.String() != "42.5" {
		t.Errorf("Expected the purchase to be BILLED, got %+v", txs)
	}
	if txs := list(`{"card_tx_status":"UNBILLED"}`); len(txs) != 0 {
		t.Errorf("Expected no UNBILLED card transactions, got %d", len(txs))
	}

	res = call(t, r, "list_card_transactions", `{"occurred_from":"not a date"}`)
	if res.String() != "Error: 'occurred_from' must be an ISO datetime string" {
		t.Errorf("Unexpected result %s", res)
	}
}
