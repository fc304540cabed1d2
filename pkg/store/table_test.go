package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mcclellann/fredBank/pkg/models"
)

func TestTable_NextID(t *testing.T) {
	tbl := NewTable[models.Customer]()
	if got := tbl.NextID(); got != 1 {
		t.Errorf("Expected 1 for an empty table, got %d", got)
	}

	tbl.Put(4, &models.Customer{ID: 4})
	tbl.Put(2, &models.Customer{ID: 2})
	if got := tbl.NextID(); got != 5 {
		t.Errorf("Expected max+1 = 5, got %d", got)
	}
}

func TestTable_AllIsOrdered(t *testing.T) {
	tbl := NewTable[models.Customer]()
	for _, id := range []models.ID{10, 2, 7, 1} {
		tbl.Put(id, &models.Customer{ID: id})
	}

	var got []models.ID
	for id := range tbl.All() {
		got = append(got, id)
	}
	want := []models.ID{1, 2, 7, 10}
	if len(got) != len(want) {
		t.Fatalf("Expected %d ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestTable_JSONKeys(t *testing.T) {
	tbl := NewTable[models.Branch]()
	tbl.Put(3, &models.Branch{ID: 3, Name: "Davidshire"})

	data, err := json.Marshal(tbl)
	if err != nil {
		t.Fatalf("Failed to marshal table: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to decode table json: %v", err)
	}
	if _, ok := raw["3"]; !ok {
		t.Errorf("Expected string key \"3\", got %s", data)
	}
}

func TestIndex_FirstMatchWins(t *testing.T) {
	d := NewDataset()
	d.Cards.Put(5, &models.Card{ID: 5, CardNumber: "4000"})
	d.Cards.Put(2, &models.Card{ID: 2, CardNumber: "4000"})

	card := d.CardsByNumber()["4000"]
	if card == nil || card.ID != 2 {
		t.Errorf("Expected card 2 to win the duplicate number, got %+v", card)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	loans := `{"1": {"loan_id": 1, "loan_account_number": "700", "type": "CAR", "principal_amount": 5000, "interest_rate": 7.5, "tenure": 24, "start_date": "2024-03-01", "status": "ACTIVE"}}`
	if err := os.WriteFile(filepath.Join(dir, "loans.json"), []byte(loans), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	d, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}
	loan, ok := d.Loans.Get(1)
	if !ok {
		t.Fatal("Expected loan 1")
	}
	if loan.Tenure != 24 || loan.LoanAccountNumber != "700" {
		t.Errorf("Unexpected loan %+v", loan)
	}
	if d.Accounts == nil || d.Accounts.Len() != 0 {
		t.Error("Expected an empty accounts collection when its file is missing")
	}
}

func TestLoadDir_NaiveTimestamps(t *testing.T) {
	dir := t.TempDir()
	txs := `{
		"1": {"transaction_id": 1, "type": "DEPOSIT", "amount": 10, "occurred_at": "2024-03-05T14:30:00.123456", "created_at": "2024-03-05T14:30:00"},
		"2": {"transaction_id": 2, "type": "DEPOSIT", "amount": 20, "occurred_at": "2024-03-06T08:00:00+02:00", "created_at": null}
	}`
	if err := os.WriteFile(filepath.Join(dir, "transactions.json"), []byte(txs), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	d, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}
	tx, _ := d.Transactions.Get(1)
	want := time.Date(2024, 3, 5, 14, 30, 0, 123456000, time.UTC)
	if !tx.OccurredAt.Equal(want) {
		t.Errorf("Expected %s, got %s", want, tx.OccurredAt)
	}
	tx, _ = d.Transactions.Get(2)
	if !tx.OccurredAt.Equal(time.Date(2024, 3, 6, 6, 0, 0, 0, time.UTC)) || !tx.CreatedAt.IsZero() {
		t.Errorf("Unexpected timestamps %s / %s", tx.OccurredAt, tx.CreatedAt)
	}
}

func TestLoadDir_RecordKeys(t *testing.T) {
	dir := t.TempDir()
	loans := `{"4": {"loan_account_number": "700", "tenure": 12, "start_date": "2024-03-01"}}`
	if err := os.WriteFile(filepath.Join(dir, "loans.json"), []byte(loans), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	d, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}
	if loan, _ := d.Loans.Get(4); loan.ID != 4 {
		t.Errorf("Expected a record without an id to take its key, got %d", loan.ID)
	}

	mismatched := `{"2": {"account_id": 3, "account_number": "100"}}`
	if err := os.WriteFile(filepath.Join(dir, "accounts.json"), []byte(mismatched), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if _, err := LoadDir(dir); err == nil || !strings.Contains(err.Error(), "record 2 carries id 3") {
		t.Errorf("Expected a key mismatch error, got %v", err)
	}
}
