package functions

import (
	"encoding/json"

	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	accountChannels  = "Channel (BRANCH, ATM, ONLINE, MOBILE)"
	purchaseChannels = "Channel (POS, ONLINE, MOBILE, BRANCH, ATM); defaults to POS"
)

var makePayment = Function{
	Name:        "make_payment",
	Description: "Record a payment to a saved LOAN or CARD beneficiary. For the latest statement, sum payments from that statement's period_start (inclusive) and auto-close when paid.",
	Parameters: object(map[string]Property{
		"account_id":     integer("ID of the account from which to pay"),
		"beneficiary_id": integer("ID of the saved beneficiary"),
		"product_type":   enum("Product type: 'LOAN' or 'CARD'", productTypeValues...),
		"amount":         number("Payment amount (number; decimals allowed)"),
		"channel":        enum("Payment channel (BRANCH, ONLINE, MOBILE, ATM)", accountChannelValues...),
	}, "account_id", "beneficiary_id", "product_type", "amount", "channel"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			AccountID     *models.ID       `json:"account_id" validate:"required"`
			BeneficiaryID *models.ID       `json:"beneficiary_id" validate:"required"`
			ProductType   string           `json:"product_type" validate:"required"`
			Amount        *decimal.Decimal `json:"amount" validate:"required"`
			Channel       models.Channel   `json:"channel" validate:"required"`
		}](raw)
		if err != nil {
			return nil, err
		}
		product := models.ProductType(caseFold(args.ProductType))
		tx, err := l.MakePayment(ledger.PaymentRequest{
			AccountID:     *args.AccountID,
			BeneficiaryID: *args.BeneficiaryID,
			ProductType:   product,
			Amount:        *args.Amount,
			Channel:       args.Channel,
		})
		if err != nil {
			return nil, err
		}
		msg := "Card payment successful"
		if product == models.ProductLoan {
			msg = "Loan payment successful"
		}
		return H{"message": msg, "transaction": tx}, nil
	},
}

var depositToAccount = Function{
	Name:        "deposit_to_account",
	Description: "Deposit funds into an account and record a DEPOSIT transaction",
	Parameters: object(map[string]Property{
		"account_id": integer("ID of the account to credit"),
		"amount":     number("Amount to deposit (greater than 0)"),
		"channel":    enum(accountChannels, accountChannelValues...),
	}, "account_id", "amount", "channel"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			AccountID *models.ID       `json:"account_id" validate:"required"`
			Amount    *decimal.Decimal `json:"amount" validate:"required"`
			Channel   models.Channel   `json:"channel" validate:"required"`
		}](raw)
		if err != nil {
			return nil, err
		}
		tx, err := l.Deposit(*args.AccountID, *args.Amount, args.Channel)
		if err != nil {
			return nil, err
		}
		return H{"message": "Deposit successful", "transaction": tx}, nil
	},
}

var withdrawFromAccount = Function{
	Name:        "withdraw_from_account",
	Description: "Withdraw funds from an account and record a WITHDRAWAL transaction; rejected if the balance is insufficient",
	Parameters: object(map[string]Property{
		"account_id": integer("ID of the account to debit"),
		"amount":     number("Amount to withdraw (greater than 0)"),
		"channel":    enum(accountChannels, accountChannelValues...),
	}, "account_id", "amount", "channel"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			AccountID *models.ID       `json:"account_id" validate:"required"`
			Amount    *decimal.Decimal `json:"amount" validate:"required"`
			Channel   models.Channel   `json:"channel" validate:"required"`
		}](raw)
		if err != nil {
			return nil, err
		}
		tx, err := l.Withdraw(*args.AccountID, *args.Amount, args.Channel)
		if err != nil {
			return nil, err
		}
		return H{"message": "Withdrawal successful", "transaction": tx}, nil
	},
}

var transferToOtherBankAccount = Function{
	Name:        "transfer_to_other_bank_account",
	Description: "Transfer funds from an account to a saved BANK_ACCOUNT beneficiary and record a TRANSFER transaction",
	Parameters: object(map[string]Property{
		"from_account_id": integer("ID of the source account"),
		"beneficiary_id":  integer("ID of the saved BANK_ACCOUNT beneficiary"),
		"amount":          number("Amount to transfer (greater than 0)"),
		"channel":         enum("Channel (BRANCH, ATM, ONLINE, MOBILE); defaults to ONLINE", accountChannelValues...),
	}, "from_account_id", "beneficiary_id", "amount"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			FromAccountID *models.ID       `json:"from_account_id" validate:"required"`
			BeneficiaryID *models.ID       `json:"beneficiary_id" validate:"required"`
			Amount        *decimal.Decimal `json:"amount" validate:"required"`
			Channel       models.Channel   `json:"channel"`
		}](raw)
		if err != nil {
			return nil, err
		}
		tx, err := l.Transfer(*args.FromAccountID, *args.BeneficiaryID, *args.Amount, args.Channel)
		if err != nil {
			return nil, err
		}
		return H{"message": "Transfer to other bank account successful", "transaction": tx}, nil
	},
}

var makeCardPurchase = Function{
	Name:        "make_card_purchase",
	Description: "Charge a card for a purchase: CREDIT uses available credit, PREPAID its stored balance, DEBIT the linked account. Records an UNBILLED CARD_PURCHASE transaction.",
	Parameters: object(map[string]Property{
		"card_id":  integer("ID of the card to charge"),
		"amount":   number("Purchase amount (greater than 0)"),
		"merchant": str("Merchant name"),
		"channel":  enum(purchaseChannels, purchaseChannelValues...),
	}, "card_id", "amount", "merchant"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			CardID   *models.ID       `json:"card_id" validate:"required"`
			Amount   *decimal.Decimal `json:"amount" validate:"required"`
			Merchant string           `json:"merchant" validate:"required,notblank"`
			Channel  models.Channel   `json:"channel"`
		}](raw)
		if err != nil {
			return nil, err
		}
		tx, err := l.MakeCardPurchase(*args.CardID, *args.Amount, args.Merchant, args.Channel)
		if err != nil {
			return nil, err
		}
		return H{"message": "Card purchase recorded", "transaction": tx}, nil
	},
}
