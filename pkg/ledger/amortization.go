package ledger

import (
	"math"
	"time"

	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	monthsInYear  = decimal.NewFromInt(12)
	minimumDueCut = decimal.RequireFromString("0.10")
)

// AmortizationPeriod is one row of a loan's repayment schedule.
type AmortizationPeriod struct {
	Period          int             `json:"period"`
	PeriodStart     models.Date     `json:"period_start"`
	PeriodEnd       models.Date     `json:"period_end"`
	ScheduledAmount decimal.Decimal `json:"scheduled_amount"`
	Principal       decimal.Decimal `json:"principal"`
	Interest        decimal.Decimal `json:"interest"`
	Balance         decimal.Decimal `json:"balance"`
}

// MonthlyRate converts an annual percentage rate to a monthly fraction.
func MonthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	return annualPercent.Div(hundred).Div(monthsInYear)
}

// FixedPayment is the level monthly payment that retires principal over
// tenure months: P*r*(1+r)^n / ((1+r)^n - 1), or P/n without interest.
// The result is not rounded.
func FixedPayment(principal, annualPercent decimal.Decimal, tenure int) decimal.Decimal {
	r := MonthlyRate(annualPercent)
	if !r.IsPositive() {
		return principal.Div(decimal.NewFromInt(int64(tenure)))
	}
	// float64 for the power term only, money stays in decimal.
	rf := r.InexactFloat64()
	factor := decimal.NewFromFloat(math.Pow(1+rf, float64(tenure)))
	return principal.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
}

// AmortizationSchedule builds the month-by-month schedule for a loan.
// The running balance keeps full precision and only the returned figures are
// rounded. The last period takes whatever principal remains, so the final
// balance is exactly zero.
func AmortizationSchedule(principal, annualPercent decimal.Decimal, tenure int, start time.Time) ([]AmortizationPeriod, error) {
	if tenure < 1 {
		return nil, validationf("'tenure' must be at least 1 month")
	}
	if principal.IsNegative() {
		return nil, validationf("'principal' must not be negative")
	}

	r := MonthlyRate(annualPercent)
	payment := FixedPayment(principal, annualPercent, tenure)
	balance := principal
	periodStart := start

	schedule := make([]AmortizationPeriod, 0, tenure)
	for k := 1; k <= tenure; k++ {
		interest := balance.Mul(r)
		principalPaid := payment.Sub(interest)
		due := payment
		if k == tenure || principalPaid.GreaterThan(balance) {
			principalPaid = balance
			due = principalPaid.Add(interest)
		}
		balance = balance.Sub(principalPaid)

		next := firstOfNextMonth(periodStart)
		schedule = append(schedule, AmortizationPeriod{
			Period:          k,
			PeriodStart:     models.NewDate(periodStart),
			PeriodEnd:       models.NewDate(next.AddDate(0, 0, -1)),
			ScheduledAmount: round2(due),
			Principal:       round2(principalPaid),
			Interest:        round2(interest),
			Balance:         round2(balance),
		})
		periodStart = next
	}
	return schedule, nil
}

func firstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}

// GetLoanAmortizationSchedule returns the schedule for a stored loan.
func (l *Ledger) GetLoanAmortizationSchedule(loanID models.ID) ([]AmortizationPeriod, error) {
	loan, ok := l.data.Loans.Get(loanID)
	if !ok {
		return nil, notFoundf("Loan '%s' not found", loanID)
	}
	start, err := loan.StartDate.Time()
	if err != nil {
		return nil, dataf("Invalid start_date '%s' for loan '%s'", loan.StartDate, loanID)
	}
	schedule, err := AmortizationSchedule(loan.PrincipalAmount, loan.InterestRate, loan.Tenure, start)
	if err != nil {
		return nil, dataf("Loan '%s' cannot be amortized: %v", loanID, err)
	}
	return schedule, nil
}
