package ledger

import (
	"time"

	"github.com/mcclellann/fredBank/pkg/models"
)

const (
	billingCycleDays = 30
	paymentGraceDays = 10
)

// StatementPeriod is a billing cycle, inclusive at both ends, and the date
// payment is due for it.
type StatementPeriod struct {
	Start time.Time
	End   time.Time
	Due   time.Time
}

// Contains reports whether the calendar date of t falls in [Start, End].
func (p StatementPeriod) Contains(t time.Time) bool {
	return within(models.CivilDate(t), p.Start, p.End)
}

func within(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}

// NextStatementPeriod returns the cycle that follows the latest of
// periodEnds, or the cycle starting the day after origination when there is
// no history. origin names the origination field for error messages.
func NextStatementPeriod(origin string, origination models.Date, periodEnds []models.Date) (StatementPeriod, error) {
	var last time.Time
	if len(periodEnds) > 0 {
		for _, pe := range periodEnds {
			end, err := pe.Time()
			if err != nil {
				return StatementPeriod{}, dataf("statement period_end '%s' is invalid", pe)
			}
			if end.After(last) {
				last = end
			}
		}
	} else {
		start, err := origination.Time()
		if err != nil {
			return StatementPeriod{}, dataf("%s is invalid", origin)
		}
		last = start
	}

	start := last.AddDate(0, 0, 1)
	end := start.AddDate(0, 0, billingCycleDays-1)
	return StatementPeriod{
		Start: start,
		End:   end,
		Due:   end.AddDate(0, 0, paymentGraceDays),
	}, nil
}
