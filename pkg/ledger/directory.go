package ledger

import "github.com/mcclellann/fredBank/pkg/models"

// GetBankByName returns the first bank, in id order, whose name contains
// name ignoring case.
func (l *Ledger) GetBankByName(name string) (*models.Bank, error) {
	if name == "" {
		return nil, validationf("'name' must be a non-empty string")
	}
	for _, b := range l.data.Banks.All() {
		if containsFold(b.Name, name) {
			return b, nil
		}
	}
	return nil, notFoundf("Bank matching '%s' not found", name)
}

type BranchFilter struct {
	BranchID      *models.ID
	BankID        *models.ID
	Name          string // substring, case-insensitive
	Address       string // substring, case-insensitive
	SwiftCode     string // case-insensitive
	ContactNumber string
}

func (l *Ledger) ListBranches(f BranchFilter) []*models.Branch {
	out := []*models.Branch{}
	for id, b := range l.data.Branches.All() {
		switch {
		case f.BranchID != nil && *f.BranchID != id,
			f.BankID != nil && *f.BankID != b.BankID,
			!containsFold(b.Name, f.Name),
			!containsFold(b.Address, f.Address),
			!equalFoldOrEmpty(b.SwiftCode, f.SwiftCode),
			f.ContactNumber != "" && b.ContactNumber != f.ContactNumber:
			continue
		}
		out = append(out, b)
	}
	return out
}

type EmployeeFilter struct {
	EmployeeID *models.ID
	BranchID   *models.ID
	FirstName  string // substring, case-insensitive
	LastName   string // substring, case-insensitive
	Role       string
	Email      string // case-insensitive
	Phone      string
	Status     string
}

func (l *Ledger) ListEmployees(f EmployeeFilter) []*models.Employee {
	out := []*models.Employee{}
	for id, e := range l.data.Employees.All() {
		switch {
		case f.EmployeeID != nil && *f.EmployeeID != id,
			f.BranchID != nil && *f.BranchID != e.BranchID,
			!containsFold(e.FirstName, f.FirstName),
			!containsFold(e.LastName, f.LastName),
			f.Role != "" && e.Role != f.Role,
			!equalFoldOrEmpty(e.Email, f.Email),
			f.Phone != "" && e.Phone != f.Phone,
			f.Status != "" && e.Status != f.Status:
			continue
		}
		out = append(out, e)
	}
	return out
}
