package store

import "github.com/mcclellann/fredBank/pkg/models"

// Secondary indices by external number. Each is built from a full scan in
// ascending id order and keeps the first record for a number, so duplicate
// numbers resolve the same way a linear search would.

func (d *Dataset) LoansByAccountNumber() map[string]*models.Loan {
	idx := make(map[string]*models.Loan, d.Loans.Len())
	for _, loan := range d.Loans.All() {
		if _, seen := idx[loan.LoanAccountNumber]; !seen {
			idx[loan.LoanAccountNumber] = loan
		}
	}
	return idx
}

func (d *Dataset) CardsByNumber() map[string]*models.Card {
	idx := make(map[string]*models.Card, d.Cards.Len())
	for _, card := range d.Cards.All() {
		if _, seen := idx[card.CardNumber]; !seen {
			idx[card.CardNumber] = card
		}
	}
	return idx
}

func (d *Dataset) AccountsByNumber() map[string]*models.Account {
	idx := make(map[string]*models.Account, d.Accounts.Len())
	for _, acct := range d.Accounts.All() {
		if _, seen := idx[acct.AccountNumber]; !seen {
			idx[acct.AccountNumber] = acct
		}
	}
	return idx
}

// BeneficiariesByTarget groups beneficiary ids by (type, account number).
func (d *Dataset) BeneficiariesByTarget() map[BeneficiaryTarget][]models.ID {
	idx := make(map[BeneficiaryTarget][]models.ID)
	for id, b := range d.Beneficiaries.All() {
		key := BeneficiaryTarget{Type: b.BeneficiaryType, AccountNumber: b.AccountNumber}
		idx[key] = append(idx[key], id)
	}
	return idx
}

type BeneficiaryTarget struct {
	Type          models.BeneficiaryType
	AccountNumber string
}
