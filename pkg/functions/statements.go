package functions

import (
	"encoding/json"
	"maps"

	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

var generateLoanStatement = Function{
	Name:        "generate_loan_statement",
	Description: "Create the next 30-day statement for a loan, due 10 days after period end. A late fee from the penalty rate table is applied when the due date has passed without payment.",
	Parameters: object(map[string]Property{
		"loan_id": integer("ID of the loan for which to generate the statement"),
	}, "loan_id"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			LoanID *models.ID `json:"loan_id" validate:"required"`
		}](raw)
		if err != nil {
			return nil, err
		}
		stmt, err := l.GenerateLoanStatement(*args.LoanID)
		if err != nil {
			return nil, err
		}
		return H{"message": "Loan statement generated", "statement": stmt}, nil
	},
}

var generateCardStatement = Function{
	Name:        "generate_card_statement",
	Description: "Create the next billing statement for a card (30-day cycle, due 10 days after period end; marks encompassed transactions as billed)",
	Parameters: object(map[string]Property{
		"card_id": integer("ID of the card for which to generate the statement"),
	}, "card_id"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			CardID *models.ID `json:"card_id" validate:"required"`
		}](raw)
		if err != nil {
			return nil, err
		}
		stmt, err := l.GenerateCardStatement(*args.CardID)
		if err != nil {
			return nil, err
		}
		return H{"message": "Card statement generated successfully", "statement": stmt}, nil
	},
}

type statementFilterArgs struct {
	PeriodStartFrom string `json:"period_start_from" validate:"omitempty,date"`
	PeriodEndTo     string `json:"period_end_to" validate:"omitempty,date"`
	Status          string `json:"status"`
}

func (a statementFilterArgs) filter(id *models.ID, lo, hi *decimal.Decimal) ledger.StatementFilter {
	return ledger.StatementFilter{
		ProductID:       id,
		PeriodStartFrom: a.PeriodStartFrom,
		PeriodEndTo:     a.PeriodEndTo,
		Status:          a.Status,
		AmountMin:       lo,
		AmountMax:       hi,
	}
}

var statementFilterProps = map[string]Property{
	"period_start_from": str("Earliest period_start date as YYYY-MM-DD (inclusive)"),
	"period_end_to":     str("Latest period_end date as YYYY-MM-DD (inclusive)"),
}

func withProps(base map[string]Property, extra map[string]Property) map[string]Property {
	out := make(map[string]Property, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}

var listLoanStatements = Function{
	Name:        "list_loan_statements",
	Description: "List or filter loan statements by loan ID, period range, status, and scheduled amount range",
	Parameters: object(withProps(statementFilterProps, map[string]Property{
		"loan_id":       integer("Loan ID to filter by (exact match)"),
		"status":        enum("Statement status (PENDING or PAID)", "PENDING", "PAID"),
		"scheduled_min": number("Minimum scheduled amount (inclusive)"),
		"scheduled_max": number("Maximum scheduled amount (inclusive)"),
	})),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			statementFilterArgs
			LoanID       *models.ID       `json:"loan_id"`
			ScheduledMin *decimal.Decimal `json:"scheduled_min"`
			ScheduledMax *decimal.Decimal `json:"scheduled_max"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListLoanStatements(args.filter(args.LoanID, args.ScheduledMin, args.ScheduledMax))
	},
}

var listCardStatements = Function{
	Name:        "list_card_statements",
	Description: "List or filter billing statements for a card by various fields",
	Parameters: object(withProps(statementFilterProps, map[string]Property{
		"card_id":       integer("Card ID to filter by (exact match)"),
		"status":        enum("Statement status (OPEN or PAID)", "OPEN", "PAID"),
		"total_due_min": number("Minimum total due amount (inclusive)"),
		"total_due_max": number("Maximum total due amount (inclusive)"),
	})),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			statementFilterArgs
			CardID      *models.ID       `json:"card_id"`
			TotalDueMin *decimal.Decimal `json:"total_due_min"`
			TotalDueMax *decimal.Decimal `json:"total_due_max"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListCardStatements(args.filter(args.CardID, args.TotalDueMin, args.TotalDueMax))
	},
}

var getLoanAmortizationSchedule = Function{
	Name:        "get_loan_amortization_schedule",
	Description: "Get full amortization breakdown (principal/interest per period)",
	Parameters: object(map[string]Property{
		"loan_id": integer("Loan ID to generate the amortization schedule for"),
	}, "loan_id"),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			LoanID *models.ID `json:"loan_id" validate:"required"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.GetLoanAmortizationSchedule(*args.LoanID)
	},
}

var listPenaltyRates = Function{
	Name:        "list_penalty_rates",
	Description: "List or filter penalty rates by product type, subtype, and optionally a specific overdue days value",
	Parameters: object(map[string]Property{
		"product_type":    enum("Product type (LOAN or CARD)", productTypeValues...),
		"product_subtype": str("Product subtype (HOME, CAR, PERSONAL, EDUCATION, or CREDIT)"),
		"overdue_days":    integer("Number of days overdue; if provided, returns only rates where this value falls between days_overdue_from and days_overdue_to"),
	}),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			ProductType    string `json:"product_type" validate:"omitempty,oneof=LOAN CARD"`
			ProductSubtype string `json:"product_subtype"`
			OverdueDays    *int   `json:"overdue_days" validate:"omitempty,gte=0"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListPenaltyRates(ledger.PenaltyRateFilter{
			ProductType:    models.ProductType(args.ProductType),
			ProductSubtype: args.ProductSubtype,
			OverdueDays:    args.OverdueDays,
		}), nil
	},
}
