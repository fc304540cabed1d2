package functions

import (
	"encoding/json"

	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

var createLoan = Function{
	Name:        "create_loan",
	Description: "Open a new ACTIVE loan for a customer at a branch",
	Parameters: object(map[string]Property{
		"customer_id":      integer("ID of the borrowing customer"),
		"branch_id":        integer("ID of the originating branch"),
		"loan_type":        enum("Loan type (HOME, CAR, PERSONAL, EDUCATION)", loanTypeValues...),
		"principal_amount": number("Principal amount (greater than 0)"),
		"interest_rate":    number("Annual interest rate in percent"),
		"tenure_months":    integer("Tenure in months (greater than 0)"),
		"start_date":       str("Start date as YYYY-MM-DD"),
	}, "customer_id", "branch_id", "loan_type", "principal_amount", "interest_rate", "tenure_months", "start_date"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			CustomerID      *models.ID       `json:"customer_id" validate:"required"`
			BranchID        *models.ID       `json:"branch_id" validate:"required"`
			LoanType        string           `json:"loan_type" validate:"required,notblank"`
			PrincipalAmount *decimal.Decimal `json:"principal_amount" validate:"required"`
			InterestRate    *decimal.Decimal `json:"interest_rate" validate:"required"`
			TenureMonths    *int             `json:"tenure_months" validate:"required,gt=0"`
			StartDate       string           `json:"start_date" validate:"required,date"`
		}](raw)
		if err != nil {
			return nil, err
		}
		loan, err := l.CreateLoan(ledger.CreateLoanRequest{
			CustomerID:   *args.CustomerID,
			BranchID:     *args.BranchID,
			Type:         caseFold(args.LoanType),
			Principal:    *args.PrincipalAmount,
			InterestRate: *args.InterestRate,
			TenureMonths: *args.TenureMonths,
			StartDate:    args.StartDate,
		})
		if err != nil {
			return nil, err
		}
		return H{"message": "Loan created successfully", "loan": loan}, nil
	},
}

var updateLoanStatus = Function{
	Name:        "update_loan_status",
	Description: "Change a loan's status; closing a loan sets its end date to today",
	Parameters: object(map[string]Property{
		"loan_id": integer("ID of the loan to update"),
		"status":  enum("New status (ACTIVE, CLOSED, DEFAULTED)", loanStatusValues...),
	}, "loan_id", "status"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			LoanID *models.ID `json:"loan_id" validate:"required"`
			Status string     `json:"status" validate:"required"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.UpdateLoanStatus(*args.LoanID, models.LoanStatus(caseFold(args.Status)))
	},
}

var issueCard = Function{
	Name:        "issue_card",
	Description: "Issue a DEBIT, CREDIT or PREPAID card linked to an account",
	Parameters: object(map[string]Property{
		"account_id":   integer("ID of the linked account"),
		"card_type":    enum("Card type (DEBIT, CREDIT, PREPAID)", cardTypeValues...),
		"expiry_date":  str("Expiry date as YYYY-MM-DD"),
		"credit_limit": number("Credit limit, required for CREDIT cards"),
		"balance":      number("Initial stored value, required for PREPAID cards"),
	}, "account_id", "card_type", "expiry_date"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			AccountID   *models.ID       `json:"account_id" validate:"required"`
			CardType    string           `json:"card_type" validate:"required"`
			ExpiryDate  string           `json:"expiry_date" validate:"required,date"`
			CreditLimit *decimal.Decimal `json:"credit_limit"`
			Balance     *decimal.Decimal `json:"balance"`
		}](raw)
		if err != nil {
			return nil, err
		}
		card, err := l.IssueCard(ledger.IssueCardRequest{
			AccountID:   *args.AccountID,
			Type:        models.CardType(caseFold(args.CardType)),
			ExpiryDate:  args.ExpiryDate,
			CreditLimit: args.CreditLimit,
			Balance:     args.Balance,
		})
		if err != nil {
			return nil, err
		}
		return H{"message": "Card issued successfully", "card": card}, nil
	},
}

var addBeneficiary = Function{
	Name:        "add_beneficiary",
	Description: "Save a payee for a customer: another bank account, a loan account or a card",
	Parameters: object(map[string]Property{
		"customer_id":      integer("ID of the customer saving the beneficiary"),
		"name":             str("Display name"),
		"beneficiary_type": enum("BANK_ACCOUNT, LOAN_ACCOUNT or CARD", beneficiaryTypeValues...),
		"account_number":   str("Account, loan account or card number of the target"),
		"swift_code":       str("SWIFT code, required for BANK_ACCOUNT"),
	}, "customer_id", "name", "beneficiary_type", "account_number"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			CustomerID      *models.ID `json:"customer_id" validate:"required"`
			Name            string     `json:"name" validate:"required,notblank"`
			BeneficiaryType string     `json:"beneficiary_type" validate:"required"`
			AccountNumber   string     `json:"account_number" validate:"required,notblank"`
			SwiftCode       *string    `json:"swift_code"`
		}](raw)
		if err != nil {
			return nil, err
		}
		b, err := l.AddBeneficiary(ledger.AddBeneficiaryRequest{
			CustomerID:    *args.CustomerID,
			Name:          args.Name,
			Type:          models.BeneficiaryType(caseFold(args.BeneficiaryType)),
			AccountNumber: args.AccountNumber,
			SwiftCode:     args.SwiftCode,
		})
		if err != nil {
			return nil, err
		}
		return H{"message": "Beneficiary added successfully", "beneficiary": b}, nil
	},
}

var updateCard = Function{
	Name:        "update_card",
	Description: "Modify properties of an existing card (credit limit, status, expiry date)",
	Parameters: object(map[string]Property{
		"card_id":      integer("ID of the card to update"),
		"credit_limit": number("New credit limit (non-negative)"),
		"status":       enum("New card status (ACTIVE, BLOCKED, EXPIRED)", cardStatusValues...),
		"expiry_date":  str("New expiry date (YYYY-MM-DD)"),
	}, "card_id"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			CardID      *models.ID       `json:"card_id" validate:"required"`
			CreditLimit *decimal.Decimal `json:"credit_limit"`
			Status      *string          `json:"status"`
			ExpiryDate  *string          `json:"expiry_date" validate:"omitempty,date"`
		}](raw)
		if err != nil {
			return nil, err
		}
		u := ledger.CardUpdate{CreditLimit: args.CreditLimit, ExpiryDate: args.ExpiryDate}
		if args.Status != nil {
			st := models.CardStatus(caseFold(*args.Status))
			u.Status = &st
		}
		return l.UpdateCard(*args.CardID, u)
	},
}

var listCustomerCards = Function{
	Name:        "list_customer_cards",
	Description: "List or filter all cards for a customer by various fields",
	Parameters: object(map[string]Property{
		"card_id":          integer("Card ID to filter by (exact match)"),
		"account_id":       integer("Account ID to filter by (exact match)"),
		"type":             enum("Card type (DEBIT, CREDIT, PREPAID)", cardTypeValues...),
		"status":           enum("Card status (ACTIVE, BLOCKED, EXPIRED)", cardStatusValues...),
		"balance_min":      number("Minimum card balance (inclusive)"),
		"balance_max":      number("Maximum card balance (inclusive)"),
		"credit_limit_min": number("Minimum credit limit (inclusive)"),
		"credit_limit_max": number("Maximum credit limit (inclusive)"),
	}),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			CardID         *models.ID       `json:"card_id"`
			AccountID      *models.ID       `json:"account_id"`
			Type           string           `json:"type"`
			Status         string           `json:"status"`
			BalanceMin     *decimal.Decimal `json:"balance_min"`
			BalanceMax     *decimal.Decimal `json:"balance_max"`
			CreditLimitMin *decimal.Decimal `json:"credit_limit_min"`
			CreditLimitMax *decimal.Decimal `json:"credit_limit_max"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListCards(ledger.CardFilter{
			CardID:         args.CardID,
			AccountID:      args.AccountID,
			Type:           args.Type,
			Status:         args.Status,
			BalanceMin:     args.BalanceMin,
			BalanceMax:     args.BalanceMax,
			CreditLimitMin: args.CreditLimitMin,
			CreditLimitMax: args.CreditLimitMax,
		}), nil
	},
}

var listCustomerLoans = Function{
	Name:        "list_customer_loans",
	Description: "List or filter loans for a customer by various fields",
	Parameters: object(map[string]Property{
		"loan_id":       integer("Loan ID to filter by (exact match)"),
		"customer_id":   integer("Customer ID to filter by (exact match)"),
		"branch_id":     integer("Branch ID to filter by (exact match)"),
		"loan_type":     enum("Loan type (HOME, CAR, PERSONAL, EDUCATION)", loanTypeValues...),
		"status":        enum("Loan status (ACTIVE, CLOSED, DEFAULTED)", loanStatusValues...),
		"principal_min": number("Minimum principal amount (inclusive)"),
		"principal_max": number("Maximum principal amount (inclusive)"),
		"interest_min":  number("Minimum annual interest rate in percent (inclusive)"),
		"interest_max":  number("Maximum annual interest rate in percent (inclusive)"),
	}),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			LoanID       *models.ID       `json:"loan_id"`
			CustomerID   *models.ID       `json:"customer_id"`
			BranchID     *models.ID       `json:"branch_id"`
			LoanType     string           `json:"loan_type"`
			Status       string           `json:"status"`
			PrincipalMin *decimal.Decimal `json:"principal_min"`
			PrincipalMax *decimal.Decimal `json:"principal_max"`
			InterestMin  *decimal.Decimal `json:"interest_min"`
			InterestMax  *decimal.Decimal `json:"interest_max"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListLoans(ledger.LoanFilter{
			LoanID:       args.LoanID,
			CustomerID:   args.CustomerID,
			BranchID:     args.BranchID,
			Type:         args.LoanType,
			Status:       args.Status,
			PrincipalMin: args.PrincipalMin,
			PrincipalMax: args.PrincipalMax,
			InterestMin:  args.InterestMin,
			InterestMax:  args.InterestMax,
		}), nil
	},
}

var listBeneficiaries = Function{
	Name:        "list_beneficiaries",
	Description: "List or filter all beneficiaries for a customer",
	Parameters: object(map[string]Property{
		"customer_id":      integer("Customer ID to filter by (exact match)"),
		"name":             str("Partial or full beneficiary name (case-insensitive substring match)"),
		"swift_code":       str("SWIFT code (exact match, case-insensitive)"),
		"beneficiary_type": enum("Type of beneficiary (LOAN_ACCOUNT, CARD, BANK_ACCOUNT)", beneficiaryTypeValues...),
		"account_number":   str("Account number (exact match)"),
	}),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			CustomerID      *models.ID `json:"customer_id"`
			Name            string     `json:"name"`
			SwiftCode       string     `json:"swift_code"`
			BeneficiaryType string     `json:"beneficiary_type"`
			AccountNumber   string     `json:"account_number"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListBeneficiaries(ledger.BeneficiaryFilter{
			CustomerID:    args.CustomerID,
			Name:          args.Name,
			SwiftCode:     args.SwiftCode,
			Type:          models.BeneficiaryType(caseFold(args.BeneficiaryType)),
			AccountNumber: args.AccountNumber,
		}), nil
	},
}

func builtins() []Function {
	return []Function{
		generateLoanStatement,
		generateCardStatement,
		makePayment,
		listLoanStatements,
		listCardStatements,
		getLoanAmortizationSchedule,
		listPenaltyRates,
		createLoan,
		updateLoanStatus,
		listCustomerLoans,
		issueCard,
		updateCard,
		listCustomerCards,
		addBeneficiary,
		listBeneficiaries,
		createCustomer,
		listCustomers,
		createAccount,
		updateAccount,
		getAccountSummary,
		listCustomerAccounts,
		listAccountTransactions,
		listCardTransactions,
		depositToAccount,
		withdrawFromAccount,
		transferToOtherBankAccount,
		makeCardPurchase,
		getBankByName,
		listBranches,
		listEmployees,
	}
}
