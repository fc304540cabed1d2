package store

import (
	"encoding/json"

	"github.com/mcclellann/fredBank/pkg/models"
)

// Dataset is the shared in-memory state every ledger operation reads and
// mutates. It has no locking; callers serialise access.
type Dataset struct {
	Banks          *Table[models.Bank]          `json:"banks"`
	Branches       *Table[models.Branch]        `json:"branches"`
	Employees      *Table[models.Employee]      `json:"employees"`
	Customers      *Table[models.Customer]      `json:"customers"`
	Accounts       *Table[models.Account]       `json:"accounts"`
	Cards          *Table[models.Card]          `json:"cards"`
	Loans          *Table[models.Loan]          `json:"loans"`
	Transactions   *Table[models.Transaction]   `json:"transactions"`
	Beneficiaries  *Table[models.Beneficiary]   `json:"beneficiaries"`
	LoanStatements *Table[models.LoanStatement] `json:"loan_statements"`
	CardStatements *Table[models.CardStatement] `json:"card_statements"`
	PenaltyRates   *Table[models.PenaltyRate]   `json:"penalty_rates"`
}

// NewDataset returns a dataset with every collection present and empty.
func NewDataset() *Dataset {
	d := &Dataset{}
	d.fill()
	return d
}

func (d *Dataset) fill() {
	if d.Customers == nil {
		d.Customers = NewTable[models.Customer]()
	}
	if d.Banks == nil {
		d.Banks = NewTable[models.Bank]()
	}
	if d.Branches == nil {
		d.Branches = NewTable[models.Branch]()
	}
	if d.Employees == nil {
		d.Employees = NewTable[models.Employee]()
	}
	if d.Accounts == nil {
		d.Accounts = NewTable[models.Account]()
	}
	if d.Cards == nil {
		d.Cards = NewTable[models.Card]()
	}
	if d.Loans == nil {
		d.Loans = NewTable[models.Loan]()
	}
	if d.Transactions == nil {
		d.Transactions = NewTable[models.Transaction]()
	}
	if d.Beneficiaries == nil {
		d.Beneficiaries = NewTable[models.Beneficiary]()
	}
	if d.LoanStatements == nil {
		d.LoanStatements = NewTable[models.LoanStatement]()
	}
	if d.CardStatements == nil {
		d.CardStatements = NewTable[models.CardStatement]()
	}
	if d.PenaltyRates == nil {
		d.PenaltyRates = NewTable[models.PenaltyRate]()
	}
}

func (d *Dataset) UnmarshalJSON(data []byte) error {
	type plain Dataset
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Dataset(p)
	d.fill()
	return nil
}

// collection is the persistence view of a Table.
type collection interface {
	json.Marshaler
	json.Unmarshaler
	Len() int
	encodeRows() (map[models.ID][]byte, error)
	decodeRows(map[models.ID][]byte) error
}

// collectionNames lists the collections in a stable order.
var collectionNames = []string{
	"banks",
	"branches",
	"employees",
	"customers",
	"accounts",
	"cards",
	"loans",
	"transactions",
	"beneficiaries",
	"loan_statements",
	"card_statements",
	"penalty_rates",
}

// CollectionNames returns the names of every collection in the dataset.
func CollectionNames() []string {
	return append([]string(nil), collectionNames...)
}

func (d *Dataset) collections() map[string]collection {
	return map[string]collection{
		"banks":           d.Banks,
		"branches":        d.Branches,
		"employees":       d.Employees,
		"customers":       d.Customers,
		"accounts":        d.Accounts,
		"cards":           d.Cards,
		"loans":           d.Loans,
		"transactions":    d.Transactions,
		"beneficiaries":   d.Beneficiaries,
		"loan_statements": d.LoanStatements,
		"card_statements": d.CardStatements,
		"penalty_rates":   d.PenaltyRates,
	}
}

// Collection returns the named collection for read-only encoding.
func (d *Dataset) Collection(name string) (json.Marshaler, bool) {
	c, ok := d.collections()[name]
	return c, ok
}
