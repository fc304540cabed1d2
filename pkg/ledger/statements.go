package ledger

import (
	"strings"
	"time"

	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/mcclellann/fredBank/pkg/store"
	"github.com/shopspring/decimal"
)

// GenerateLoanStatement creates the loan's next 30-day statement. The late
// fee is decided once, here: it applies when the due date has already passed
// and no payment reached the loan between period start and due date.
func (l *Ledger) GenerateLoanStatement(loanID models.ID) (*models.LoanStatement, error) {
	loan, ok := l.data.Loans.Get(loanID)
	if !ok {
		return nil, notFoundf("Loan '%s' not found", loanID)
	}
	if loan.Tenure < 1 {
		return nil, dataf("loan.tenure must be at least 1 month")
	}

	var ends []models.Date
	for _, s := range l.data.LoanStatements.All() {
		if s.LoanID == loanID {
			ends = append(ends, s.PeriodEnd)
		}
	}
	period, err := NextStatementPeriod("loan.start_date", loan.StartDate, ends)
	if err != nil {
		return nil, err
	}

	scheduled := round2(FixedPayment(loan.PrincipalAmount, loan.InterestRate, loan.Tenure))

	stmt := &models.LoanStatement{
		ID:              l.data.LoanStatements.NextID(),
		LoanID:          loanID,
		PeriodStart:     models.NewDate(period.Start),
		PeriodEnd:       models.NewDate(period.End),
		DueDate:         models.NewDate(period.Due),
		ScheduledAmount: scheduled,
		LateFeeAmount:   decimal.Zero,
		Status:          models.StatementPending,
		CreatedAt:       models.NewTimestamp(l.now()),
	}

	today := l.today()
	if period.Due.Before(today) && !l.loanPaidWithin(loan, period.Start, period.Due) {
		daysOverdue := int(today.Sub(period.Due).Hours() / 24)
		if pr := FindPenaltyRate(l.data.PenaltyRates, models.ProductLoan, loan.Type, daysOverdue); pr != nil {
			stmt.LateFeeAmount = round2(scheduled.Mul(pr.Rate).Div(hundred))
			stmt.PenaltyRateID = pr.ID.Ref()
		}
	}

	l.data.LoanStatements.Put(stmt.ID, stmt)
	l.log.Info("loan statement generated",
		"loan_id", loanID, "statement_id", stmt.ID,
		"period_start", stmt.PeriodStart, "due_date", stmt.DueDate,
		"scheduled", scheduled.StringFixed(2), "late_fee", stmt.LateFeeAmount.StringFixed(2))
	return stmt, nil
}

// loanPaidWithin reports whether any transaction through a beneficiary that
// targets the loan occurred on a date in [from, to].
func (l *Ledger) loanPaidWithin(loan *models.Loan, from, to time.Time) bool {
	target := store.BeneficiaryTarget{Type: models.BeneficiaryLoanAccount, AccountNumber: loan.LoanAccountNumber}
	linked := make(map[models.ID]bool)
	for _, id := range l.data.BeneficiariesByTarget()[target] {
		linked[id] = true
	}
	if len(linked) == 0 {
		return false
	}
	for _, tx := range l.data.Transactions.All() {
		if tx.BeneficiaryID != nil && linked[*tx.BeneficiaryID] && within(models.CivilDate(tx.OccurredAt.Time), from, to) {
			return true
		}
	}
	return false
}

// GenerateCardStatement creates the card's next 30-day statement from every
// unbilled card transaction inside the period and marks them BILLED. A transaction
// is billed by at most one statement. Cards never carry a late fee at
// generation time.
func (l *Ledger) GenerateCardStatement(cardID models.ID) (*models.CardStatement, error) {
	card, ok := l.data.Cards.Get(cardID)
	if !ok {
		return nil, notFoundf("Card '%s' not found", cardID)
	}

	var ends []models.Date
	for _, s := range l.data.CardStatements.All() {
		if s.CardID == cardID {
			ends = append(ends, s.PeriodEnd)
		}
	}
	period, err := NextStatementPeriod("card.issued_date", card.IssuedDate, ends)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	var billed []*models.Transaction
	for _, tx := range l.data.Transactions.All() {
		if tx.CardID == nil || *tx.CardID != cardID {
			continue
		}
		if tx.CardTxStatus != nil && *tx.CardTxStatus == models.CardTxBilled {
			continue
		}
		if period.Contains(tx.OccurredAt.Time) {
			total = total.Add(tx.Amount)
			billed = append(billed, tx)
		}
	}
	for _, tx := range billed {
		status := models.CardTxBilled
		tx.CardTxStatus = &status
	}

	total = round2(total)
	stmt := &models.CardStatement{
		ID:             l.data.CardStatements.NextID(),
		CardID:         cardID,
		PeriodStart:    models.NewDate(period.Start),
		PeriodEnd:      models.NewDate(period.End),
		PaymentDueDate: models.NewDate(period.Due),
		TotalDue:       total,
		MinimumDue:     round2(total.Mul(minimumDueCut)),
		LateFeeAmount:  decimal.Zero,
		Status:         models.StatementOpen,
		CreatedAt:      models.NewTimestamp(l.now()),
	}
	l.data.CardStatements.Put(stmt.ID, stmt)
	l.log.Info("card statement generated",
		"card_id", cardID, "statement_id", stmt.ID,
		"period_start", stmt.PeriodStart, "billed", len(billed), "total_due", total.StringFixed(2))
	return stmt, nil
}

// StatementFilter narrows the statement listings. Zero fields match everything.
type StatementFilter struct {
	ProductID       *models.ID
	PeriodStartFrom string // YYYY-MM-DD, inclusive
	PeriodEndTo     string // YYYY-MM-DD, inclusive
	Status          string // case-insensitive
	AmountMin       *decimal.Decimal
	AmountMax       *decimal.Decimal
}

type statementWindow struct {
	from, to *time.Time
}

func (f StatementFilter) window() (statementWindow, error) {
	var w statementWindow
	if f.PeriodStartFrom != "" {
		t, err := models.Date(f.PeriodStartFrom).Time()
		if err != nil {
			return w, validationf("'period_start_from' must be YYYY-MM-DD")
		}
		w.from = &t
	}
	if f.PeriodEndTo != "" {
		t, err := models.Date(f.PeriodEndTo).Time()
		if err != nil {
			return w, validationf("'period_end_to' must be YYYY-MM-DD")
		}
		w.to = &t
	}
	return w, nil
}

func (f StatementFilter) match(w statementWindow, productID models.ID, start, end models.Date, status models.StatementStatus, amount decimal.Decimal) bool {
	if f.ProductID != nil && *f.ProductID != productID {
		return false
	}
	if w.from != nil {
		ps, err := start.Time()
		if err != nil || ps.Before(*w.from) {
			return false
		}
	}
	if w.to != nil {
		pe, err := end.Time()
		if err != nil || pe.After(*w.to) {
			return false
		}
	}
	if f.Status != "" && !strings.EqualFold(string(status), f.Status) {
		return false
	}
	if f.AmountMin != nil && amount.LessThan(*f.AmountMin) {
		return false
	}
	if f.AmountMax != nil && amount.GreaterThan(*f.AmountMax) {
		return false
	}
	return true
}

// ListLoanStatements filters loan statements; the amount bounds apply to the
// scheduled amount.
func (l *Ledger) ListLoanStatements(f StatementFilter) ([]*models.LoanStatement, error) {
	w, err := f.window()
	if err != nil {
		return nil, err
	}
	out := []*models.LoanStatement{}
	for _, s := range l.data.LoanStatements.All() {
		if f.match(w, s.LoanID, s.PeriodStart, s.PeriodEnd, s.Status, s.ScheduledAmount) {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListCardStatements filters card statements; the amount bounds apply to the
// total due.
func (l *Ledger) ListCardStatements(f StatementFilter) ([]*models.CardStatement, error) {
	w, err := f.window()
	if err != nil {
		return nil, err
	}
	out := []*models.CardStatement{}
	for _, s := range l.data.CardStatements.All() {
		if f.match(w, s.CardID, s.PeriodStart, s.PeriodEnd, s.Status, s.TotalDue) {
			out = append(out, s)
		}
	}
	return out, nil
}
