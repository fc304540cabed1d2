package ledger

import (
	"strings"

	"github.com/mcclellann/fredBank/pkg/models"
)

type AddBeneficiaryRequest struct {
	CustomerID    models.ID
	Name          string
	Type          models.BeneficiaryType
	AccountNumber string
	SwiftCode     *string
}

// AddBeneficiary saves a payee for a customer. The target is not checked:
// beneficiaries are resolved by number only when they are used.
func (l *Ledger) AddBeneficiary(req AddBeneficiaryRequest) (*models.Beneficiary, error) {
	if _, ok := l.data.Customers.Get(req.CustomerID); !ok {
		return nil, notFoundf("Customer '%s' not found", req.CustomerID)
	}
	if req.Name == "" {
		return nil, validationf("'name' must be a non-empty string")
	}
	switch req.Type {
	case models.BeneficiaryBankAccount:
		if req.SwiftCode == nil || strings.TrimSpace(*req.SwiftCode) == "" {
			return nil, validationf("'swift_code' is required when beneficiary_type is 'BANK_ACCOUNT'")
		}
	case models.BeneficiaryLoanAccount, models.BeneficiaryCard:
	default:
		return nil, validationf("'beneficiary_type' must be one of: BANK_ACCOUNT, LOAN_ACCOUNT, CARD")
	}
	if req.AccountNumber == "" {
		return nil, validationf("'account_number' must be a non-empty string")
	}

	b := &models.Beneficiary{
		ID:              l.data.Beneficiaries.NextID(),
		CustomerID:      req.CustomerID,
		Name:            req.Name,
		SwiftCode:       req.SwiftCode,
		BeneficiaryType: req.Type,
		AccountNumber:   req.AccountNumber,
		AddedAt:         models.NewTimestamp(l.now()),
	}
	l.data.Beneficiaries.Put(b.ID, b)
	l.log.Info("beneficiary added", "beneficiary_id", b.ID, "customer_id", req.CustomerID, "type", req.Type)
	return b, nil
}

type BeneficiaryFilter struct {
	CustomerID    *models.ID
	Name          string // substring, case-insensitive
	SwiftCode     string // case-insensitive
	Type          models.BeneficiaryType
	AccountNumber string
}

func (l *Ledger) ListBeneficiaries(f BeneficiaryFilter) []*models.Beneficiary {
	out := []*models.Beneficiary{}
	for _, b := range l.data.Beneficiaries.All() {
		swift := ""
		if b.SwiftCode != nil {
			swift = *b.SwiftCode
		}
		switch {
		case f.CustomerID != nil && *f.CustomerID != b.CustomerID,
			!containsFold(b.Name, f.Name),
			!equalFoldOrEmpty(swift, f.SwiftCode),
			f.Type != "" && b.BeneficiaryType != f.Type,
			f.AccountNumber != "" && b.AccountNumber != f.AccountNumber:
			continue
		}
		out = append(out, b)
	}
	return out
}
