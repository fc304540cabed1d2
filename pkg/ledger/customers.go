package ledger

import (
	"strings"

	"github.com/mcclellann/fredBank/pkg/models"
)

type CreateCustomerRequest struct {
	FirstName string
	LastName  string
	DOB       string
	Email     string
	Phone     string
	Address   string
}

// CreateCustomer adds an ACTIVE customer under the next id.
func (l *Ledger) CreateCustomer(req CreateCustomerRequest) (*models.Customer, error) {
	dob, err := models.ParseDate(req.DOB)
	if err != nil {
		return nil, validationf("'dob' must be a string in YYYY-MM-DD format")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, validationf("'first_name' and 'last_name' must be non-empty strings")
	}

	now := models.NewTimestamp(l.now())
	c := &models.Customer{
		ID:        l.data.Customers.NextID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       dob,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Status:    "ACTIVE",
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.data.Customers.Put(c.ID, c)
	l.log.Info("customer created", "customer_id", c.ID)
	return c, nil
}

// CustomerFilter narrows ListCustomers. Names match as case-insensitive
// substrings, email case-insensitively, phone and status exactly.
type CustomerFilter struct {
	CustomerID *models.ID
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Status     string
}

func (l *Ledger) ListCustomers(f CustomerFilter) []*models.Customer {
	out := []*models.Customer{}
	for id, c := range l.data.Customers.All() {
		switch {
		case f.CustomerID != nil && *f.CustomerID != id,
			!containsFold(c.FirstName, f.FirstName),
			!containsFold(c.LastName, f.LastName),
			!equalFoldOrEmpty(c.Email, f.Email),
			f.Phone != "" && c.Phone != f.Phone,
			f.Status != "" && c.Status != f.Status:
			continue
		}
		out = append(out, c)
	}
	return out
}

// containsFold reports whether sub is empty or a case-insensitive substring of s.
func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// equalFoldOrEmpty reports whether want is empty or equals s ignoring case.
func equalFoldOrEmpty(s, want string) bool {
	return want == "" || strings.EqualFold(s, want)
}
