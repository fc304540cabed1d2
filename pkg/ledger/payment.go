package ledger

import (
	"time"

	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

// PaymentRequest pays a saved LOAN_ACCOUNT or CARD beneficiary from an account.
type PaymentRequest struct {
	AccountID     models.ID
	BeneficiaryID models.ID
	ProductType   models.ProductType
	Amount        decimal.Decimal
	Channel       models.Channel
}

// paymentTarget is the product a beneficiary resolves to.
type paymentTarget interface {
	// cardID links the recorded transaction to a card, if any.
	cardID() *models.ID
	// settle credits the product and closes its latest statement once the
	// payments since that statement's period start cover the amount due.
	// It runs only after every check has passed and must not fail.
	settle(l *Ledger, beneficiaryID models.ID, amount decimal.Decimal, now time.Time)
}

type loanTarget struct{ loan *models.Loan }

func (loanTarget) cardID() *models.ID { return nil }

func (t loanTarget) settle(l *Ledger, beneficiaryID models.ID, amount decimal.Decimal, _ time.Time) {
	var latest *models.LoanStatement
	var latestStart, latestEnd time.Time
	for _, s := range l.data.LoanStatements.All() {
		if s.LoanID != t.loan.ID {
			continue
		}
		start, end, ok := statementBounds(s.PeriodStart, s.PeriodEnd)
		if ok && (latest == nil || end.After(latestEnd)) {
			latest, latestStart, latestEnd = s, start, end
		}
	}
	if latest == nil || latest.Status == models.StatementPaid {
		return
	}
	if l.paidSince(beneficiaryID, latestStart).Add(amount).GreaterThanOrEqual(latest.ScheduledAmount) {
		latest.Status = models.StatementPaid
		l.log.Info("loan statement paid", "loan_id", t.loan.ID, "statement_id", latest.ID)
	}
}

type creditCardTarget struct{ card *models.Card }

func (t creditCardTarget) cardID() *models.ID { return t.card.ID.Ref() }

func (t creditCardTarget) settle(l *Ledger, beneficiaryID models.ID, amount decimal.Decimal, now time.Time) {
	t.card.CreditLimit = round2(t.card.CreditLimit.Add(amount))
	t.card.UpdatedAt = models.NewTimestamp(now)

	var latest *models.CardStatement
	var latestStart, latestEnd time.Time
	for _, s := range l.data.CardStatements.All() {
		if s.CardID != t.card.ID {
			continue
		}
		start, end, ok := statementBounds(s.PeriodStart, s.PeriodEnd)
		if ok && (latest == nil || end.After(latestEnd)) {
			latest, latestStart, latestEnd = s, start, end
		}
	}
	if latest == nil || latest.Status == models.StatementPaid {
		return
	}
	if l.paidSince(beneficiaryID, latestStart).Add(amount).GreaterThanOrEqual(latest.TotalDue) {
		latest.Status = models.StatementPaid
		l.log.Info("card statement paid", "card_id", t.card.ID, "statement_id", latest.ID)
	}
}

type prepaidCardTarget struct{ card *models.Card }

func (t prepaidCardTarget) cardID() *models.ID { return t.card.ID.Ref() }

func (t prepaidCardTarget) settle(_ *Ledger, _ models.ID, amount decimal.Decimal, now time.Time) {
	t.card.Balance = round2(t.card.Balance.Add(amount))
	t.card.UpdatedAt = models.NewTimestamp(now)
}

// statementBounds parses a stored period. Statements with unreadable dates
// are skipped when looking for the latest one.
func statementBounds(start, end models.Date) (time.Time, time.Time, bool) {
	s, err := start.Time()
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	e, err := end.Time()
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return s, e, true
}

// paidSince sums PAYMENT transactions made through the beneficiary on or
// after the given date.
func (l *Ledger) paidSince(beneficiaryID models.ID, since time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.data.Transactions.All() {
		if tx.Type != models.TransactionTypePayment || tx.BeneficiaryID == nil || *tx.BeneficiaryID != beneficiaryID {
			continue
		}
		if !models.CivilDate(tx.OccurredAt.Time).Before(since) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// resolveTarget finds the loan or card a beneficiary points at by its
// external number.
func (l *Ledger) resolveTarget(ben *models.Beneficiary, product models.ProductType) (paymentTarget, error) {
	switch product {
	case models.ProductLoan:
		if ben.BeneficiaryType != models.BeneficiaryLoanAccount {
			return nil, rejectedf("Beneficiary is not a loan account")
		}
		loan := l.data.LoansByAccountNumber()[ben.AccountNumber]
		if loan == nil {
			return nil, notFoundf("No loan found for beneficiary account '%s'", ben.AccountNumber)
		}
		return loanTarget{loan: loan}, nil

	case models.ProductCard:
		if ben.BeneficiaryType != models.BeneficiaryCard {
			return nil, rejectedf("Beneficiary is not a card")
		}
		card := l.data.CardsByNumber()[ben.AccountNumber]
		if card == nil {
			return nil, notFoundf("No card found for beneficiary account '%s'", ben.AccountNumber)
		}
		switch card.Type {
		case models.CardTypeCredit:
			return creditCardTarget{card: card}, nil
		case models.CardTypePrepaid:
			return prepaidCardTarget{card: card}, nil
		default:
			return nil, rejectedf("Cannot make payment to a %s card", card.Type)
		}
	}
	return nil, validationf("'product_type' must be 'LOAN' or 'CARD'")
}

// MakePayment debits the source account, credits the beneficiary's product,
// closes the latest statement when it is covered, and records a PAYMENT
// transaction. Every check runs before the first mutation, so a failed
// payment leaves the dataset untouched.
func (l *Ledger) MakePayment(req PaymentRequest) (*models.Transaction, error) {
	if req.ProductType != models.ProductLoan && req.ProductType != models.ProductCard {
		return nil, validationf("'product_type' must be 'LOAN' or 'CARD'")
	}
	acct, ok := l.data.Accounts.Get(req.AccountID)
	if !ok {
		return nil, notFoundf("Account '%s' not found", req.AccountID)
	}
	ben, ok := l.data.Beneficiaries.Get(req.BeneficiaryID)
	if !ok {
		return nil, notFoundf("Beneficiary '%s' not found", req.BeneficiaryID)
	}
	amount, err := centAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	req.Amount = amount
	if err := requireChannel(req.Channel, accountChannels); err != nil {
		return nil, err
	}
	if req.Amount.GreaterThan(acct.Balance) {
		l.log.Debug("payment rejected", "account_id", req.AccountID, "reason", "insufficient funds")
		return nil, rejectedf("Insufficient funds")
	}
	target, err := l.resolveTarget(ben, req.ProductType)
	if err != nil {
		l.log.Debug("payment rejected", "beneficiary_id", req.BeneficiaryID, "reason", err)
		return nil, err
	}

	now := l.now()
	if err := debitAccount(acct, req.Amount, "Insufficient funds", now); err != nil {
		return nil, err
	}
	target.settle(l, req.BeneficiaryID, req.Amount, now)

	tx := l.recordTransaction(&models.Transaction{
		AccountID:     req.AccountID.Ref(),
		Type:          models.TransactionTypePayment,
		Channel:       req.Channel,
		Amount:        req.Amount,
		BeneficiaryID: req.BeneficiaryID.Ref(),
		CardID:        target.cardID(),
	})
	l.log.Info("payment recorded",
		"transaction_id", tx.ID, "account_id", req.AccountID,
		"beneficiary_id", req.BeneficiaryID, "product_type", req.ProductType,
		"amount", tx.Amount.StringFixed(2))
	return tx, nil
}
