package ledger

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/mcclellann/fredBank/pkg/store"
	"github.com/shopspring/decimal"
)

// Ledger handles the business logic for accounts, cards, loans and their
// statements. All operations run against one shared dataset and assume a
// single caller at a time.
type Ledger struct {
	data *store.Dataset
	now  func() time.Time
	log  *slog.Logger
}

type Option func(*Ledger)

// WithClock replaces time.Now as the source of "now" and "today".
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.log = logger }
}

// NewLedger creates a Ledger over the given dataset.
func NewLedger(d *store.Dataset, opts ...Option) *Ledger {
	l := &Ledger{
		data: d,
		now:  time.Now,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dataset returns the dataset the ledger mutates.
func (l *Ledger) Dataset() *store.Dataset {
	return l.data
}

func (l *Ledger) today() time.Time {
	return models.CivilDate(l.now())
}

// recordTransaction stores tx under the next transaction id and stamps it.
func (l *Ledger) recordTransaction(tx *models.Transaction) *models.Transaction {
	now := l.now()
	tx.ID = l.data.Transactions.NextID()
	tx.Reference = uuid.New()
	tx.Amount = round2(tx.Amount)
	tx.OccurredAt = models.NewTimestamp(now)
	tx.CreatedAt = models.NewTimestamp(now)
	l.data.Transactions.Put(tx.ID, tx)
	return tx
}

// debitAccount removes amount from the account or fails without touching it.
func debitAccount(acct *models.Account, amount decimal.Decimal, msg string, now time.Time) error {
	if amount.GreaterThan(acct.Balance) {
		return rejectedf("%s", msg)
	}
	acct.Balance = round2(acct.Balance.Sub(amount))
	acct.UpdatedAt = models.NewTimestamp(now)
	return nil
}

func creditAccount(acct *models.Account, amount decimal.Decimal, now time.Time) {
	acct.Balance = round2(acct.Balance.Add(amount))
	acct.UpdatedAt = models.NewTimestamp(now)
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// centAmount rounds an input amount to cents. Every balance change and the
// recorded transaction use the rounded value, so amounts that round to zero
// are rejected.
func centAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = round2(amount)
	if !amount.IsPositive() {
		return amount, validationf("'amount' must be greater than 0")
	}
	return amount, nil
}

var accountChannels = []models.Channel{
	models.ChannelBranch,
	models.ChannelATM,
	models.ChannelOnline,
	models.ChannelMobile,
}

var purchaseChannels = append(slices.Clone(accountChannels), models.ChannelPOS)

func requireChannel(ch models.Channel, allowed []models.Channel) error {
	if !slices.Contains(allowed, ch) {
		return validationf("'channel' must be one of: %s", joinChannels(allowed))
	}
	return nil
}

func joinChannels(chs []models.Channel) string {
	s := ""
	for i, ch := range chs {
		if i > 0 {
			s += ", "
		}
		s += string(ch)
	}
	return s
}
