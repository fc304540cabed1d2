package ledger

import (
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/mcclellann/fredBank/pkg/store"
)

// FindPenaltyRate returns the first rate, in id order, for the product whose
// overdue range contains daysOverdue. A nil result means no late fee applies.
func FindPenaltyRate(rates *store.Table[models.PenaltyRate], product models.ProductType, subtype string, daysOverdue int) *models.PenaltyRate {
	for _, pr := range rates.All() {
		if pr.ProductType == product && pr.ProductSubtype == subtype && pr.Covers(daysOverdue) {
			return pr
		}
	}
	return nil
}

// PenaltyRateFilter narrows ListPenaltyRates. Empty fields match everything.
type PenaltyRateFilter struct {
	ProductType    models.ProductType
	ProductSubtype string
	OverdueDays    *int
}

// ListPenaltyRates returns the configured rates matching f in id order.
func (l *Ledger) ListPenaltyRates(f PenaltyRateFilter) []*models.PenaltyRate {
	out := []*models.PenaltyRate{}
	for _, pr := range l.data.PenaltyRates.All() {
		if f.ProductType != "" && pr.ProductType != f.ProductType {
			continue
		}
		if f.ProductSubtype != "" && pr.ProductSubtype != f.ProductSubtype {
			continue
		}
		if f.OverdueDays != nil && !pr.Covers(*f.OverdueDays) {
			continue
		}
		out = append(out, pr)
	}
	return out
}
