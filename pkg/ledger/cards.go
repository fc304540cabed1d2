package ledger

import (
	"strconv"
	"strings"

	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

// IssueCardRequest describes a new card. CreditLimit is required for CREDIT
// cards and Balance for PREPAID cards; DEBIT cards use neither.
type IssueCardRequest struct {
	AccountID   models.ID
	Type        models.CardType
	ExpiryDate  string
	CreditLimit *decimal.Decimal
	Balance     *decimal.Decimal
}

// IssueCard creates a card linked to an account. Its number is the previous
// card's number plus one, falling back to the new id.
func (l *Ledger) IssueCard(req IssueCardRequest) (*models.Card, error) {
	if _, ok := l.data.Accounts.Get(req.AccountID); !ok {
		return nil, notFoundf("Account '%s' not found", req.AccountID)
	}
	expiry, err := models.ParseDate(req.ExpiryDate)
	if err != nil {
		return nil, validationf("'expiry_date' must be YYYY-MM-DD")
	}

	balance, limit := decimal.Zero, decimal.Zero
	switch req.Type {
	case models.CardTypeCredit:
		if req.CreditLimit == nil || req.CreditLimit.IsNegative() {
			return nil, validationf("'credit_limit' must be a non-negative number for CREDIT cards")
		}
		limit = *req.CreditLimit
	case models.CardTypePrepaid:
		if req.Balance == nil || req.Balance.IsNegative() {
			return nil, validationf("'balance' must be a non-negative number for PREPAID cards")
		}
		balance = *req.Balance
	case models.CardTypeDebit:
	default:
		return nil, validationf("'card_type' must be one of: DEBIT, CREDIT, PREPAID")
	}

	id := l.data.Cards.NextID()
	number := id.String()
	if prev, ok := l.data.Cards.Get(id - 1); ok {
		if n, ok := incrementNumber(prev.CardNumber); ok {
			number = n
		}
	}

	now := l.now()
	card := &models.Card{
		ID:          id,
		AccountID:   req.AccountID,
		Type:        req.Type,
		CardNumber:  number,
		ExpiryDate:  expiry,
		IssuedDate:  models.NewDate(now),
		Status:      models.CardStatusActive,
		Balance:     round2(balance),
		CreditLimit: round2(limit),
		CreatedAt:   models.NewTimestamp(now),
		UpdatedAt:   models.NewTimestamp(now),
	}
	l.data.Cards.Put(id, card)
	l.log.Info("card issued", "card_id", id, "account_id", req.AccountID, "type", req.Type)
	return card, nil
}

// incrementNumber adds one to an all-digit number, keeping its width.
func incrementNumber(s string) (string, bool) {
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return "", false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return "", false
	}
	next := strconv.FormatUint(n+1, 10)
	if len(next) < len(s) {
		next = strings.Repeat("0", len(s)-len(next)) + next
	}
	return next, true
}

// MakeCardPurchase charges a card: CREDIT spends available credit, PREPAID
// spends stored value, DEBIT spends the linked account. A purchase that
// would overdraw is rejected with nothing changed.
func (l *Ledger) MakeCardPurchase(cardID models.ID, amount decimal.Decimal, merchant string, channel models.Channel) (*models.Transaction, error) {
	card, ok := l.data.Cards.Get(cardID)
	if !ok {
		return nil, notFoundf("Card '%s' not found", cardID)
	}
	amount, err := centAmount(amount)
	if err != nil {
		return nil, err
	}
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		return nil, validationf("'merchant' must be a non-empty string")
	}
	if channel == "" {
		channel = models.ChannelPOS
	}
	if err := requireChannel(channel, purchaseChannels); err != nil {
		return nil, err
	}

	now := l.now()
	switch card.Type {
	case models.CardTypeCredit:
		if amount.GreaterThan(card.CreditLimit) {
			return nil, rejectedf("Credit limit exceeded")
		}
		card.CreditLimit = round2(card.CreditLimit.Sub(amount))
		card.UpdatedAt = models.NewTimestamp(now)
	case models.CardTypePrepaid:
		if amount.GreaterThan(card.Balance) {
			return nil, rejectedf("Insufficient prepaid card balance")
		}
		card.Balance = round2(card.Balance.Sub(amount))
		card.UpdatedAt = models.NewTimestamp(now)
	case models.CardTypeDebit:
		acct, ok := l.data.Accounts.Get(card.AccountID)
		if !ok {
			return nil, notFoundf("Linked account '%s' not found", card.AccountID)
		}
		if err := debitAccount(acct, amount, "Insufficient funds in linked account", now); err != nil {
			return nil, err
		}
	default:
		return nil, dataf("Unsupported card type '%s'", card.Type)
	}

	unbilled := models.CardTxUnbilled
	tx := l.recordTransaction(&models.Transaction{
		AccountID:    card.AccountID.Ref(),
		Type:         models.TransactionTypeCardPurchase,
		Channel:      channel,
		Amount:       amount,
		CardID:       cardID.Ref(),
		Merchant:     &merchant,
		CardTxStatus: &unbilled,
	})
	l.log.Info("card purchase recorded", "card_id", cardID, "merchant", merchant, "amount", tx.Amount.StringFixed(2))
	return tx, nil
}

// CardUpdate holds the fields to change; nil fields are left alone.
type CardUpdate struct {
	CreditLimit *decimal.Decimal
	Status      *models.CardStatus
	ExpiryDate  *string
}

// UpdateCard applies u after checking every field, so a rejected update
// changes nothing.
func (l *Ledger) UpdateCard(cardID models.ID, u CardUpdate) (*models.Card, error) {
	card, ok := l.data.Cards.Get(cardID)
	if !ok {
		return nil, notFoundf("Card '%s' not found", cardID)
	}
	if u.CreditLimit != nil && u.CreditLimit.IsNegative() {
		return nil, validationf("'credit_limit' must be non-negative")
	}
	if u.Status != nil {
		switch *u.Status {
		case models.CardStatusActive, models.CardStatusBlocked, models.CardStatusExpired:
		default:
			return nil, validationf("'status' must be one of: ACTIVE, BLOCKED, EXPIRED")
		}
	}
	var expiry models.Date
	if u.ExpiryDate != nil {
		d, err := models.ParseDate(*u.ExpiryDate)
		if err != nil {
			return nil, validationf("'expiry_date' must be a string in YYYY-MM-DD format")
		}
		expiry = d
	}

	if u.CreditLimit != nil {
		card.CreditLimit = round2(*u.CreditLimit)
	}
	if u.Status != nil {
		card.Status = *u.Status
	}
	if u.ExpiryDate != nil {
		card.ExpiryDate = expiry
	}
	card.UpdatedAt = models.NewTimestamp(l.now())
	l.log.Info("card updated", "card_id", cardID, "status", card.Status)
	return card, nil
}

// CardFilter narrows ListCards. Type and status match ignoring case; the
// amount bounds are inclusive.
type CardFilter struct {
	CardID         *models.ID
	AccountID      *models.ID
	Type           string
	Status         string
	BalanceMin     *decimal.Decimal
	BalanceMax     *decimal.Decimal
	CreditLimitMin *decimal.Decimal
	CreditLimitMax *decimal.Decimal
}

func (l *Ledger) ListCards(f CardFilter) []*models.Card {
	out := []*models.Card{}
	for id, c := range l.data.Cards.All() {
		switch {
		case f.CardID != nil && *f.CardID != id,
			f.AccountID != nil && *f.AccountID != c.AccountID,
			!equalFoldOrEmpty(string(c.Type), f.Type),
			!equalFoldOrEmpty(string(c.Status), f.Status),
			!inRange(c.Balance, f.BalanceMin, f.BalanceMax),
			!inRange(c.CreditLimit, f.CreditLimitMin, f.CreditLimitMax):
			continue
		}
		out = append(out, c)
	}
	return out
}
