package ledger

import (
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

type CreateLoanRequest struct {
	CustomerID   models.ID
	BranchID     models.ID
	Type         string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal // Annual, in percent
	TenureMonths int
	StartDate    string
}

// CreateLoan opens an ACTIVE loan. Its account number is the previous loan's
// number plus one, falling back to the new id.
func (l *Ledger) CreateLoan(req CreateLoanRequest) (*models.Loan, error) {
	if _, ok := l.data.Customers.Get(req.CustomerID); !ok {
		return nil, notFoundf("Customer '%s' not found", req.CustomerID)
	}
	if _, ok := l.data.Branches.Get(req.BranchID); !ok {
		return nil, notFoundf("Branch '%s' not found", req.BranchID)
	}
	if req.Type == "" {
		return nil, validationf("'loan_type' must be a non-empty string")
	}
	if !req.Principal.IsPositive() {
		return nil, validationf("'principal_amount' must be positive")
	}
	if req.InterestRate.IsNegative() {
		return nil, validationf("'interest_rate' must be non-negative")
	}
	if req.TenureMonths <= 0 {
		return nil, validationf("'tenure_months' must be a positive integer")
	}
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		return nil, validationf("'start_date' must be a string in YYYY-MM-DD format")
	}

	id := l.data.Loans.NextID()
	number := id.String()
	if prev, ok := l.data.Loans.Get(id - 1); ok {
		if n, ok := incrementNumber(prev.LoanAccountNumber); ok {
			number = n
		}
	}

	loan := &models.Loan{
		ID:                id,
		CustomerID:        req.CustomerID,
		BranchID:          req.BranchID,
		LoanAccountNumber: number,
		Type:              req.Type,
		PrincipalAmount:   req.Principal,
		InterestRate:      req.InterestRate,
		Tenure:            req.TenureMonths,
		StartDate:         start,
		Status:            models.LoanStatusActive,
		CreatedAt:         models.NewTimestamp(l.now()),
	}
	l.data.Loans.Put(id, loan)
	l.log.Info("loan created", "loan_id", id, "loan_account_number", number, "principal", req.Principal.StringFixed(2))
	return loan, nil
}

// UpdateLoanStatus changes a loan's status. Closing a loan stamps today's
// date as its end date.
func (l *Ledger) UpdateLoanStatus(loanID models.ID, status models.LoanStatus) (*models.Loan, error) {
	loan, ok := l.data.Loans.Get(loanID)
	if !ok {
		return nil, notFoundf("Loan '%s' not found", loanID)
	}
	switch status {
	case models.LoanStatusActive, models.LoanStatusClosed, models.LoanStatusDefaulted:
	default:
		return nil, validationf("'status' must be one of: ACTIVE, CLOSED, DEFAULTED")
	}

	loan.Status = status
	if status == models.LoanStatusClosed {
		end := models.NewDate(l.today())
		loan.EndDate = &end
	}
	l.log.Info("loan status updated", "loan_id", loanID, "status", status)
	return loan, nil
}

// LoanFilter narrows ListLoans. Type and status match ignoring case; the
// amount bounds are inclusive and the rate bounds are in percent.
type LoanFilter struct {
	LoanID       *models.ID
	CustomerID   *models.ID
	BranchID     *models.ID
	Type         string
	Status       string
	PrincipalMin *decimal.Decimal
	PrincipalMax *decimal.Decimal
	InterestMin  *decimal.Decimal
	InterestMax  *decimal.Decimal
}

func (l *Ledger) ListLoans(f LoanFilter) []*models.Loan {
	out := []*models.Loan{}
	for id, loan := range l.data.Loans.All() {
		switch {
		case f.LoanID != nil && *f.LoanID != id,
			f.CustomerID != nil && *f.CustomerID != loan.CustomerID,
			f.BranchID != nil && *f.BranchID != loan.BranchID,
			!equalFoldOrEmpty(loan.Type, f.Type),
			!equalFoldOrEmpty(string(loan.Status), f.Status),
			!inRange(loan.PrincipalAmount, f.PrincipalMin, f.PrincipalMax),
			!inRange(loan.InterestRate, f.InterestMin, f.InterestMax):
			continue
		}
		out = append(out, loan)
	}
	return out
}
