package ledger

import (
	"slices"
	"strings"

	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	CustomerID     models.ID
	BranchID       models.ID
	Type           string
	InitialDeposit decimal.Decimal
}

// CreateAccount opens an OPEN account holding the initial deposit. Its
// number is the previous account's number plus one, falling back to the
// new id.
func (l *Ledger) CreateAccount(req CreateAccountRequest) (*models.Account, error) {
	if _, ok := l.data.Customers.Get(req.CustomerID); !ok {
		return nil, notFoundf("Customer '%s' not found", req.CustomerID)
	}
	if _, ok := l.data.Branches.Get(req.BranchID); !ok {
		return nil, notFoundf("Branch '%s' not found", req.BranchID)
	}
	if strings.TrimSpace(req.Type) == "" {
		return nil, validationf("'account_type' must be a non-empty string")
	}
	deposit := round2(req.InitialDeposit)
	if deposit.IsNegative() {
		return nil, validationf("'initial_deposit' must be non-negative")
	}

	id := l.data.Accounts.NextID()
	number := id.String()
	if prev, ok := l.data.Accounts.Get(id - 1); ok {
		if n, ok := incrementNumber(prev.AccountNumber); ok {
			number = n
		}
	}

	now := models.NewTimestamp(l.now())
	acct := &models.Account{
		ID:            id,
		CustomerID:    req.CustomerID,
		BranchID:      req.BranchID,
		AccountNumber: number,
		Type:          req.Type,
		Status:        models.AccountStatusOpen,
		Balance:       deposit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	l.data.Accounts.Put(id, acct)
	l.log.Info("account created", "account_id", id, "account_number", number, "balance", deposit.StringFixed(2))
	return acct, nil
}

// AccountUpdate holds the fields to change; nil fields are left alone.
type AccountUpdate struct {
	BranchID   *models.ID
	CustomerID *models.ID
	Type       *string
	Status     *models.AccountStatus
}

var accountStatuses = []models.AccountStatus{
	models.AccountStatusOpen,
	models.AccountStatusClosed,
	models.AccountStatusFrozen,
}

// UpdateAccount applies u after checking every field, so a rejected update
// changes nothing.
func (l *Ledger) UpdateAccount(accountID models.ID, u AccountUpdate) (*models.Account, error) {
	acct, ok := l.data.Accounts.Get(accountID)
	if !ok {
		return nil, notFoundf("Account '%s' not found", accountID)
	}
	if u.BranchID != nil {
		if _, ok := l.data.Branches.Get(*u.BranchID); !ok {
			return nil, notFoundf("Branch '%s' not found", *u.BranchID)
		}
	}
	if u.CustomerID != nil {
		if _, ok := l.data.Customers.Get(*u.CustomerID); !ok {
			return nil, notFoundf("Customer '%s' not found", *u.CustomerID)
		}
	}
	if u.Type != nil && strings.TrimSpace(*u.Type) == "" {
		return nil, validationf("'account_type' must be a non-empty string")
	}
	if u.Status != nil && !slices.Contains(accountStatuses, *u.Status) {
		return nil, validationf("'status' must be one of: OPEN, CLOSED, FROZEN")
	}

	if u.BranchID != nil {
		acct.BranchID = *u.BranchID
	}
	if u.CustomerID != nil {
		acct.CustomerID = *u.CustomerID
	}
	if u.Type != nil {
		acct.Type = *u.Type
	}
	if u.Status != nil {
		acct.Status = *u.Status
	}
	acct.UpdatedAt = models.NewTimestamp(l.now())
	l.log.Info("account updated", "account_id", accountID, "status", acct.Status)
	return acct, nil
}

type AccountSummary struct {
	Balance    decimal.Decimal       `json:"balance"`
	Status     models.AccountStatus  `json:"status"`
	RecentTxns []*models.Transaction `json:"recent_txns"`
}

// GetAccountSummary returns the balance, status and the most recent count
// transactions of an account, newest first.
func (l *Ledger) GetAccountSummary(accountID models.ID, count int) (*AccountSummary, error) {
	acct, ok := l.data.Accounts.Get(accountID)
	if !ok {
		return nil, notFoundf("Account '%s' not found", accountID)
	}
	if count < 0 {
		return nil, validationf("'recent_txns_count' must be non-negative")
	}

	txns := []*models.Transaction{}
	for _, tx := range l.data.Transactions.All() {
		if tx.AccountID != nil && *tx.AccountID == accountID {
			txns = append(txns, tx)
		}
	}
	slices.SortStableFunc(txns, func(a, b *models.Transaction) int {
		return b.OccurredAt.Compare(a.OccurredAt.Time)
	})
	return &AccountSummary{
		Balance:    acct.Balance,
		Status:     acct.Status,
		RecentTxns: txns[:min(count, len(txns))],
	}, nil
}

// AccountFilter narrows ListAccounts. Type and status match ignoring case;
// balance bounds are inclusive.
type AccountFilter struct {
	AccountID  *models.ID
	CustomerID *models.ID
	BranchID   *models.ID
	Type       string
	Status     string
	BalanceMin *decimal.Decimal
	BalanceMax *decimal.Decimal
}

func (l *Ledger) ListAccounts(f AccountFilter) []*models.Account {
	out := []*models.Account{}
	for id, a := range l.data.Accounts.All() {
		switch {
		case f.AccountID != nil && *f.AccountID != id,
			f.CustomerID != nil && *f.CustomerID != a.CustomerID,
			f.BranchID != nil && *f.BranchID != a.BranchID,
			!equalFoldOrEmpty(a.Type, f.Type),
			!equalFoldOrEmpty(string(a.Status), f.Status),
			!inRange(a.Balance, f.BalanceMin, f.BalanceMax):
			continue
		}
		out = append(out, a)
	}
	return out
}

// inRange reports whether v lies within the inclusive bounds; nil bounds
// are open.
func inRange(v decimal.Decimal, lo, hi *decimal.Decimal) bool {
	if lo != nil && v.LessThan(*lo) {
		return false
	}
	return hi == nil || !v.GreaterThan(*hi)
}

// Deposit credits an account and records a DEPOSIT transaction.
func (l *Ledger) Deposit(accountID models.ID, amount decimal.Decimal, channel models.Channel) (*models.Transaction, error) {
	acct, ok := l.data.Accounts.Get(accountID)
	if !ok {
		return nil, notFoundf("Account '%s' not found", accountID)
	}
	amount, err := centAmount(amount)
	if err != nil {
		return nil, err
	}
	if err := requireChannel(channel, accountChannels); err != nil {
		return nil, err
	}

	creditAccount(acct, amount, l.now())
	tx := l.recordTransaction(&models.Transaction{
		AccountID: accountID.Ref(),
		Type:      models.TransactionTypeDeposit,
		Channel:   channel,
		Amount:    amount,
	})
	l.log.Info("deposit recorded", "account_id", accountID, "amount", tx.Amount.StringFixed(2), "balance", acct.Balance.StringFixed(2))
	return tx, nil
}

// Withdraw debits an account and records a WITHDRAWAL transaction. An
// overdrawing withdrawal is rejected and leaves the balance as it was.
func (l *Ledger) Withdraw(accountID models.ID, amount decimal.Decimal, channel models.Channel) (*models.Transaction, error) {
	acct, ok := l.data.Accounts.Get(accountID)
	if !ok {
		return nil, notFoundf("Account '%s' not found", accountID)
	}
	amount, err := centAmount(amount)
	if err != nil {
		return nil, err
	}
	if err := requireChannel(channel, accountChannels); err != nil {
		return nil, err
	}
	if err := debitAccount(acct, amount, "Insufficient funds", l.now()); err != nil {
		l.log.Debug("withdrawal rejected", "account_id", accountID, "amount", amount.String())
		return nil, err
	}

	tx := l.recordTransaction(&models.Transaction{
		AccountID: accountID.Ref(),
		Type:      models.TransactionTypeWithdrawal,
		Channel:   channel,
		Amount:    amount,
	})
	l.log.Info("withdrawal recorded", "account_id", accountID, "amount", tx.Amount.StringFixed(2), "balance", acct.Balance.StringFixed(2))
	return tx, nil
}

// Transfer sends funds to a BANK_ACCOUNT beneficiary. When the beneficiary's
// account number belongs to an account in the dataset, that account is
// credited too. An empty channel means ONLINE.
func (l *Ledger) Transfer(fromAccountID, beneficiaryID models.ID, amount decimal.Decimal, channel models.Channel) (*models.Transaction, error) {
	src, ok := l.data.Accounts.Get(fromAccountID)
	if !ok {
		return nil, notFoundf("Account '%s' not found", fromAccountID)
	}
	ben, ok := l.data.Beneficiaries.Get(beneficiaryID)
	if !ok {
		return nil, notFoundf("Beneficiary '%s' not found", beneficiaryID)
	}
	if ben.BeneficiaryType != models.BeneficiaryBankAccount {
		return nil, rejectedf("Beneficiary is not a bank account")
	}
	amount, err := centAmount(amount)
	if err != nil {
		return nil, err
	}
	if channel == "" {
		channel = models.ChannelOnline
	}
	if err := requireChannel(channel, accountChannels); err != nil {
		return nil, err
	}

	now := l.now()
	if err := debitAccount(src, amount, "Insufficient funds", now); err != nil {
		return nil, err
	}
	if ben.AccountNumber != "" {
		if dest := l.data.AccountsByNumber()[ben.AccountNumber]; dest != nil {
			creditAccount(dest, amount, now)
		}
	}

	tx := l.recordTransaction(&models.Transaction{
		AccountID:     fromAccountID.Ref(),
		Type:          models.TransactionTypeTransfer,
		Channel:       channel,
		Amount:        amount,
		BeneficiaryID: beneficiaryID.Ref(),
	})
	l.log.Info("transfer recorded", "from_account_id", fromAccountID, "beneficiary_id", beneficiaryID, "amount", tx.Amount.StringFixed(2))
	return tx, nil
}
