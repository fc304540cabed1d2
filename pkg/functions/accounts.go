package functions

import (
	"encoding/json"

	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

var createAccount = Function{
	Name:        "create_account",
	Description: "Open a new account with an initial deposit; account_number is set to one more than the previous account's number",
	Parameters: object(map[string]Property{
		"branch_id":       integer("Branch ID where the account is opened"),
		"customer_id":     integer("Customer ID for the new account"),
		"account_type":    str("Type of account (e.g., SAVINGS, CHECKING, BUSINESS)"),
		"initial_deposit": number("Initial deposit amount for the new account"),
	}, "branch_id", "customer_id", "account_type", "initial_deposit"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			BranchID       *models.ID       `json:"branch_id" validate:"required"`
			CustomerID     *models.ID       `json:"customer_id" validate:"required"`
			AccountType    string           `json:"account_type" validate:"required,notblank"`
			InitialDeposit *decimal.Decimal `json:"initial_deposit" validate:"required"`
		}](raw)
		if err != nil {
			return nil, err
		}
		acct, err := l.CreateAccount(ledger.CreateAccountRequest{
			CustomerID:     *args.CustomerID,
			BranchID:       *args.BranchID,
			Type:           caseFold(args.AccountType),
			InitialDeposit: *args.InitialDeposit,
		})
		if err != nil {
			return nil, err
		}
		return H{"message": "Account created successfully", "account": acct}, nil
	},
}

var updateAccount = Function{
	Name:        "update_account",
	Description: "Modify one or more properties of an account",
	Parameters: object(map[string]Property{
		"account_id":   integer("ID of the account to update"),
		"branch_id":    integer("New branch ID (exact match)"),
		"customer_id":  integer("New customer ID (exact match)"),
		"account_type": str("New account type (SAVINGS, CHECKING, BUSINESS)"),
		"status":       enum("New account status (OPEN, CLOSED, FROZEN)", accountStatusValues...),
	}, "account_id"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			AccountID   *models.ID `json:"account_id" validate:"required"`
			BranchID    *models.ID `json:"branch_id"`
			CustomerID  *models.ID `json:"customer_id"`
			AccountType *string    `json:"account_type"`
			Status      *string    `json:"status"`
		}](raw)
		if err != nil {
			return nil, err
		}
		u := ledger.AccountUpdate{BranchID: args.BranchID, CustomerID: args.CustomerID}
		if args.AccountType != nil {
			t := caseFold(*args.AccountType)
			u.Type = &t
		}
		if args.Status != nil {
			s := models.AccountStatus(caseFold(*args.Status))
			u.Status = &s
		}
		return l.UpdateAccount(*args.AccountID, u)
	},
}

var getAccountSummary = Function{
	Name:        "get_account_summary",
	Description: "Get balance, status, and recent transactions for an account",
	Parameters: object(map[string]Property{
		"account_id":        integer("Account ID to summarize (required)"),
		"recent_txns_count": integer("Number of recent transactions to include (default 3)"),
	}, "account_id"),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			AccountID       *models.ID `json:"account_id" validate:"required"`
			RecentTxnsCount *int       `json:"recent_txns_count" validate:"omitempty,gte=0"`
		}](raw)
		if err != nil {
			return nil, err
		}
		count := 3
		if args.RecentTxnsCount != nil {
			count = *args.RecentTxnsCount
		}
		return l.GetAccountSummary(*args.AccountID, count)
	},
}

var listCustomerAccounts = Function{
	Name:        "list_customer_accounts",
	Description: "List or filter all accounts for a customer by various fields",
	Parameters: object(map[string]Property{
		"account_id":   integer("Account ID to filter by (exact match)"),
		"customer_id":  integer("Customer ID to filter by (exact match)"),
		"branch_id":    integer("Branch ID to filter by (exact match)"),
		"account_type": str("Account type (SAVINGS, CHECKING, BUSINESS)"),
		"status":       enum("Account status (OPEN, CLOSED, FROZEN)", accountStatusValues...),
		"balance_min":  number("Minimum account balance (inclusive)"),
		"balance_max":  number("Maximum account balance (inclusive)"),
	}),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			AccountID   *models.ID       `json:"account_id"`
			CustomerID  *models.ID       `json:"customer_id"`
			BranchID    *models.ID       `json:"branch_id"`
			AccountType string           `json:"account_type"`
			Status      string           `json:"status"`
			BalanceMin  *decimal.Decimal `json:"balance_min"`
			BalanceMax  *decimal.Decimal `json:"balance_max"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListAccounts(ledger.AccountFilter{
			AccountID:  args.AccountID,
			CustomerID: args.CustomerID,
			BranchID:   args.BranchID,
			Type:       args.AccountType,
			Status:     args.Status,
			BalanceMin: args.BalanceMin,
			BalanceMax: args.BalanceMax,
		}), nil
	},
}

// transactionFilterArgs are the filters shared by both transaction listings.
type transactionFilterArgs struct {
	CardID       *models.ID       `json:"card_id"`
	Type         string           `json:"type"`
	Channel      string           `json:"channel"`
	AmountMin    *decimal.Decimal `json:"amount_min"`
	AmountMax    *decimal.Decimal `json:"amount_max"`
	OccurredFrom string           `json:"occurred_from"`
	OccurredTo   string           `json:"occurred_to"`
	Merchant     string           `json:"merchant"`
	CardTxStatus string           `json:"card_tx_status"`
}

func (a transactionFilterArgs) filter() ledger.TransactionFilter {
	return ledger.TransactionFilter{
		CardID:       a.CardID,
		Type:         a.Type,
		Channel:      a.Channel,
		AmountMin:    a.AmountMin,
		AmountMax:    a.AmountMax,
		OccurredFrom: a.OccurredFrom,
		OccurredTo:   a.OccurredTo,
		Merchant:     a.Merchant,
		CardTxStatus: a.CardTxStatus,
	}
}

var transactionFilterProps = map[string]Property{
	"card_id":        integer("Card ID to filter by (exact match)"),
	"type":           enum("Transaction type (DEPOSIT, WITHDRAWAL, TRANSFER, PAYMENT, CARD_PURCHASE)", transactionTypeValues...),
	"channel":        enum("Transaction channel (BRANCH, ATM, ONLINE, MOBILE, POS)", purchaseChannelValues...),
	"amount_min":     number("Minimum transaction amount (inclusive; decimals allowed)"),
	"amount_max":     number("Maximum transaction amount (inclusive; decimals allowed)"),
	"occurred_from":  str("Earliest occurred_at datetime as ISO string (inclusive)"),
	"occurred_to":    str("Latest occurred_at datetime as ISO string (inclusive)"),
	"merchant":       str("Partial or full merchant name (case-insensitive substring match)"),
	"card_tx_status": enum("Card transaction status (UNBILLED, BILLED)", cardTxStatusValues...),
}

var listAccountTransactions = Function{
	Name:        "list_account_transactions",
	Description: "Paginate or filter an account's transactions by any field",
	Parameters: object(withProps(transactionFilterProps, map[string]Property{
		"transaction_id": integer("Transaction ID to filter by (exact match)"),
		"account_id":     integer("Account ID to filter by (exact match)"),
		"beneficiary_id": integer("Beneficiary ID to filter by (exact match)"),
	})),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			transactionFilterArgs
			TransactionID *models.ID `json:"transaction_id"`
			AccountID     *models.ID `json:"account_id"`
			BeneficiaryID *models.ID `json:"beneficiary_id"`
		}](raw)
		if err != nil {
			return nil, err
		}
		f := args.filter()
		f.TransactionID = args.TransactionID
		f.AccountID = args.AccountID
		f.BeneficiaryID = args.BeneficiaryID
		return l.ListTransactions(f)
	},
}

var listCardTransactions = Function{
	Name:        "list_card_transactions",
	Description: "List or filter transactions on a card by various fields",
	Parameters:  object(transactionFilterProps),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[transactionFilterArgs](raw)
		if err != nil {
			return nil, err
		}
		f := args.filter()
		f.CardsOnly = true
		return l.ListTransactions(f)
	},
}
