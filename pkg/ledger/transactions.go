package ledger

import (
	"time"

	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows ListTransactions. Enumerated fields match
// ignoring case, merchant as a case-insensitive substring, and the amount
// and time bounds are inclusive.
type TransactionFilter struct {
	TransactionID *models.ID
	AccountID     *models.ID
	BeneficiaryID *models.ID
	CardID        *models.ID
	Type          string
	Channel       string
	AmountMin     *decimal.Decimal
	AmountMax     *decimal.Decimal
	OccurredFrom  string // ISO date or date-time
	OccurredTo    string // ISO date or date-time
	Merchant      string
	CardTxStatus  string
	CardsOnly     bool // Only transactions linked to a card
}

// ListTransactions returns the matching transactions in id order.
func (l *Ledger) ListTransactions(f TransactionFilter) ([]*models.Transaction, error) {
	var from, to *time.Time
	if f.OccurredFrom != "" {
		t, err := models.ParseDateTime(f.OccurredFrom)
		if err != nil {
			return nil, validationf("'occurred_from' must be an ISO datetime string")
		}
		from = &t
	}
	if f.OccurredTo != "" {
		t, err := models.ParseDateTime(f.OccurredTo)
		if err != nil {
			return nil, validationf("'occurred_to' must be an ISO datetime string")
		}
		to = &t
	}

	out := []*models.Transaction{}
	for id, tx := range l.data.Transactions.All() {
		switch {
		case f.TransactionID != nil && *f.TransactionID != id,
			!sameRef(f.AccountID, tx.AccountID),
			!sameRef(f.BeneficiaryID, tx.BeneficiaryID),
			!sameRef(f.CardID, tx.CardID),
			f.CardsOnly && tx.CardID == nil,
			!equalFoldOrEmpty(string(tx.Type), f.Type),
			!equalFoldOrEmpty(string(tx.Channel), f.Channel),
			!inRange(tx.Amount, f.AmountMin, f.AmountMax),
			from != nil && tx.OccurredAt.Before(*from),
			to != nil && tx.OccurredAt.After(*to),
			f.Merchant != "" && (tx.Merchant == nil || !containsFold(*tx.Merchant, f.Merchant)),
			f.CardTxStatus != "" && (tx.CardTxStatus == nil || !equalFoldOrEmpty(string(*tx.CardTxStatus), f.CardTxStatus)):
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// sameRef reports whether want is unset or equals the optional id got.
func sameRef(want, got *models.ID) bool {
	return want == nil || (got != nil && *got == *want)
}
