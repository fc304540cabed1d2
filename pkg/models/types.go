package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID is the numeric key of a record within its collection.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Ref returns a pointer to a copy of id, for optional foreign keys.
func (id ID) Ref() *ID {
	return &id
}

const dateLayout = time.DateOnly

// dateTimeLayouts are the accepted forms of a date with a time of day. A
// trailing fractional second is accepted by each.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Date is a calendar date stored as YYYY-MM-DD. It is kept in its stored
// form so that a malformed value only fails the operation that reads it.
type Date string

// NewDate formats the calendar date of t.
func NewDate(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate validates s and returns it as a Date. Full ISO timestamps are
// accepted and truncated to their date part.
func ParseDate(s string) (Date, error) {
	t, err := Date(s).Time()
	if err != nil {
		return "", err
	}
	return NewDate(t), nil
}

// Time returns the date at midnight UTC.
func (d Date) Time() (time.Time, error) {
	if d == "" {
		return time.Time{}, fmt.Errorf("date is missing")
	}
	t, err := ParseDateTime(string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", string(d))
	}
	return CivilDate(t), nil
}

// ParseDateTime reads a bare date or an ISO date-time. Values without an
// offset are taken as UTC.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as an ISO date or date-time", s)
}

// Timestamp is an instant. It encodes as RFC 3339 and decodes RFC 3339 as
// well as ISO date-times without an offset, which are read as UTC.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return t.Time.MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// CivilDate truncates t to its calendar date in t's location, returned as
// midnight UTC so it compares directly with Date.Time values.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type AccountStatus string

const (
	AccountStatusOpen   AccountStatus = "OPEN"
	AccountStatusClosed AccountStatus = "CLOSED"
	AccountStatusFrozen AccountStatus = "FROZEN"
)

type CardType string

const (
	CardTypeDebit   CardType = "DEBIT"
	CardTypeCredit  CardType = "CREDIT"
	CardTypePrepaid CardType = "PREPAID"
)

type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusClosed    LoanStatus = "CLOSED"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

type TransactionType string

const (
	TransactionTypeDeposit      TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal   TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer     TransactionType = "TRANSFER"
	TransactionTypePayment      TransactionType = "PAYMENT"
	TransactionTypeCardPurchase TransactionType = "CARD_PURCHASE"
)

type Channel string

const (
	ChannelBranch Channel = "BRANCH"
	ChannelATM    Channel = "ATM"
	ChannelOnline Channel = "ONLINE"
	ChannelMobile Channel = "MOBILE"
	ChannelPOS    Channel = "POS"
)

type CardTxStatus string

const (
	CardTxUnbilled CardTxStatus = "UNBILLED"
	CardTxBilled   CardTxStatus = "BILLED"
)

type BeneficiaryType string

const (
	BeneficiaryBankAccount BeneficiaryType = "BANK_ACCOUNT"
	BeneficiaryLoanAccount BeneficiaryType = "LOAN_ACCOUNT"
	BeneficiaryCard        BeneficiaryType = "CARD"
)

// ProductType selects the product family a payment or penalty applies to.
type ProductType string

const (
	ProductLoan ProductType = "LOAN"
	ProductCard ProductType = "CARD"
)

type StatementStatus string

const (
	StatementPending StatementStatus = "PENDING" // loans
	StatementOpen    StatementStatus = "OPEN"    // cards
	StatementPaid    StatementStatus = "PAID"
)
