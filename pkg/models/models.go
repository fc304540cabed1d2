package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        ID        `json:"customer_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	DOB       Date      `json:"dob"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

type Bank struct {
	ID        ID     `json:"bank_id"`
	Name      string `json:"name"`
	SwiftCode string `json:"swift_code"`
}

type Branch struct {
	ID            ID     `json:"branch_id"`
	BankID        ID     `json:"bank_id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	SwiftCode     string `json:"swift_code"`
	ContactNumber string `json:"contact_number"`
}

type Employee struct {
	ID        ID     `json:"employee_id"`
	BranchID  ID     `json:"branch_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"` // TELLER, MANAGER, ...
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    string `json:"status"` // ACTIVE, INACTIVE, ON_LEAVE
}

type Account struct {
	ID            ID              `json:"account_id"`
	CustomerID    ID              `json:"customer_id"`
	BranchID      ID              `json:"branch_id"`
	AccountNumber string          `json:"account_number"`
	Type          string          `json:"account_type"` // e.g., "CHECKING", "SAVINGS"
	Status        AccountStatus   `json:"status"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     Timestamp       `json:"created_at"`
	UpdatedAt     Timestamp       `json:"updated_at"`
}

type Card struct {
	ID          ID              `json:"card_id"`
	AccountID   ID              `json:"account_id"`
	Type        CardType        `json:"type"`
	CardNumber  string          `json:"card_number"`
	ExpiryDate  Date            `json:"expiry_date"`
	IssuedDate  Date            `json:"issued_date"`
	Status      CardStatus      `json:"status"`
	Balance     decimal.Decimal `json:"balance"`      // Stored value, PREPAID only
	CreditLimit decimal.Decimal `json:"credit_limit"` // Available credit, CREDIT only
	CreatedAt   Timestamp       `json:"created_at"`
	UpdatedAt   Timestamp       `json:"updated_at"`
}

type Loan struct {
	ID                ID              `json:"loan_id"`
	CustomerID        ID              `json:"customer_id"`
	BranchID          ID              `json:"branch_id"`
	LoanAccountNumber string          `json:"loan_account_number"` // What LOAN_ACCOUNT beneficiaries point at
	Type              string          `json:"type"`                // HOME, CAR, PERSONAL, EDUCATION
	PrincipalAmount   decimal.Decimal `json:"principal_amount"`
	InterestRate      decimal.Decimal `json:"interest_rate"` // Annual, in percent
	Tenure            int             `json:"tenure"`        // Months
	StartDate         Date            `json:"start_date"`
	EndDate           *Date           `json:"end_date"`
	Status            LoanStatus      `json:"status"`
	CreatedAt         Timestamp       `json:"created_at"`
}

type Transaction struct {
	ID            ID              `json:"transaction_id"`
	Reference     uuid.UUID       `json:"reference"`
	AccountID     *ID             `json:"account_id"`
	Type          TransactionType `json:"type"`
	Channel       Channel         `json:"channel"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    Timestamp       `json:"occurred_at"`
	BeneficiaryID *ID             `json:"beneficiary_id"`
	CardID        *ID             `json:"card_id"`
	Merchant      *string         `json:"merchant"`
	CardTxStatus  *CardTxStatus   `json:"card_tx_status"`
	CreatedAt     Timestamp       `json:"created_at"`
}

type Beneficiary struct {
	ID              ID              `json:"beneficiary_id"`
	CustomerID      ID              `json:"customer_id"`
	Name            string          `json:"name"`
	SwiftCode       *string         `json:"swift_code"`
	BeneficiaryType BeneficiaryType `json:"beneficiary_type"`
	AccountNumber   string          `json:"account_number"` // Account, loan account or card number of the target
	AddedAt         Timestamp       `json:"added_at"`
}

type LoanStatement struct {
	ID              ID              `json:"statement_id"`
	LoanID          ID              `json:"loan_id"`
	PeriodStart     Date            `json:"period_start"`
	PeriodEnd       Date            `json:"period_end"`
	DueDate         Date            `json:"due_date"`
	ScheduledAmount decimal.Decimal `json:"scheduled_amount"`
	LateFeeAmount   decimal.Decimal `json:"late_fee_amount"`
	PenaltyRateID   *ID             `json:"penalty_rate_id"`
	Status          StatementStatus `json:"status"`
	CreatedAt       Timestamp       `json:"created_at"`
}

type CardStatement struct {
	ID             ID              `json:"statement_id"`
	CardID         ID              `json:"card_id"`
	PeriodStart    Date            `json:"period_start"`
	PeriodEnd      Date            `json:"period_end"`
	PaymentDueDate Date            `json:"payment_due_date"`
	TotalDue       decimal.Decimal `json:"total_due"`
	MinimumDue     decimal.Decimal `json:"minimum_due"`
	LateFeeAmount  decimal.Decimal `json:"late_fee_amount"`
	PenaltyRateID  *ID             `json:"penalty_rate_id"`
	Status         StatementStatus `json:"status"`
	CreatedAt      Timestamp       `json:"created_at"`
}

type PenaltyRate struct {
	ID              ID              `json:"penalty_rate_id"`
	ProductType     ProductType     `json:"product_type"`
	ProductSubtype  string          `json:"product_subtype"`
	DaysOverdueFrom int             `json:"days_overdue_from"`
	DaysOverdueTo   *int            `json:"days_overdue_to"` // nil means unbounded
	Rate            decimal.Decimal `json:"rate"`            // Percent of the amount due
}

// Covers reports whether days falls inside the rate's overdue range.
func (pr *PenaltyRate) Covers(days int) bool {
	if days < pr.DaysOverdueFrom {
		return false
	}
	return pr.DaysOverdueTo == nil || days <= *pr.DaysOverdueTo
}

// Key and SetKey tie a record to the id its collection stores it under.

func (c *Customer) Key() ID { return c.ID }
func (c *Customer) SetKey(id ID) { c.ID = id }
func (b *Bank) Key() ID { return b.ID }
func (b *Bank) SetKey(id ID) { b.ID = id }
func (b *Branch) Key() ID { return b.ID }
func (b *Branch) SetKey(id ID) { b.ID = id }
func (e *Employee) Key() ID { return e.ID }
func (e *Employee) SetKey(id ID) { e.ID = id }
func (a *Account) Key() ID { return a.ID }
func (a *Account) SetKey(id ID) { a.ID = id }
func (c *Card) Key() ID { return c.ID }
func (c *Card) SetKey(id ID) { c.ID = id }
func (l *Loan) Key() ID { return l.ID }
func (l *Loan) SetKey(id ID) { l.ID = id }
func (t *Transaction) Key() ID { return t.ID }
func (t *Transaction) SetKey(id ID) { t.ID = id }
func (b *Beneficiary) Key() ID { return b.ID }
func (b *Beneficiary) SetKey(id ID) { b.ID = id }
func (s *LoanStatement) Key() ID { return s.ID }
func (s *LoanStatement) SetKey(id ID) { s.ID = id }
func (s *CardStatement) Key() ID { return s.ID }
func (s *CardStatement) SetKey(id ID) { s.ID = id }
func (pr *PenaltyRate) Key() ID { return pr.ID }
func (pr *PenaltyRate) SetKey(id ID) { pr.ID = id }
