package functions

import (
	"encoding/json"

	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/models"
)

var createCustomer = Function{
	Name:        "create_customer",
	Description: "Add a new customer",
	Parameters: object(map[string]Property{
		"first_name": str("Customer's first name"),
		"last_name":  str("Customer's last name"),
		"dob":        str("Date of birth as a string in YYYY-MM-DD format"),
		"email":      str("Unique email address"),
		"phone":      str("Contact phone number"),
		"address":    str("Residential address"),
	}, "first_name", "last_name", "dob", "email", "phone", "address"),
	Mutates: true,
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			FirstName string `json:"first_name" validate:"required,notblank"`
			LastName  string `json:"last_name" validate:"required,notblank"`
			DOB       string `json:"dob" validate:"required,date"`
			Email     string `json:"email" validate:"required,email"`
			Phone     string `json:"phone" validate:"required,notblank"`
			Address   string `json:"address" validate:"required,notblank"`
		}](raw)
		if err != nil {
			return nil, err
		}
		c, err := l.CreateCustomer(ledger.CreateCustomerRequest{
			FirstName: args.FirstName,
			LastName:  args.LastName,
			DOB:       args.DOB,
			Email:     args.Email,
			Phone:     args.Phone,
			Address:   args.Address,
		})
		if err != nil {
			return nil, err
		}
		return H{"message": "Customer created successfully", "customer": c}, nil
	},
}

var listCustomers = Function{
	Name:        "list_customers",
	Description: "Search or filter customers by any field",
	Parameters: object(map[string]Property{
		"customer_id": integer("Customer ID to filter by (exact match)"),
		"first_name":  str("Partial or full first name (case-insensitive substring match)"),
		"last_name":   str("Partial or full last name (case-insensitive substring match)"),
		"email":       str("Email address (exact match, case-insensitive)"),
		"phone":       str("Phone number (exact match)"),
		"status":      str("Customer status (exact match, e.g., ACTIVE, INACTIVE)"),
	}),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			CustomerID *models.ID `json:"customer_id"`
			FirstName  string     `json:"first_name"`
			LastName   string     `json:"last_name"`
			Email      string     `json:"email"`
			Phone      string     `json:"phone"`
			Status     string     `json:"status"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListCustomers(ledger.CustomerFilter{
			CustomerID: args.CustomerID,
			FirstName:  args.FirstName,
			LastName:   args.LastName,
			Email:      args.Email,
			Phone:      args.Phone,
			Status:     args.Status,
		}), nil
	},
}

var getBankByName = Function{
	Name:        "get_bank_by_name",
	Description: "Find a bank by partial or full name (case-insensitive); returns the first match",
	Parameters: object(map[string]Property{
		"name": str("Partial or full name of the bank (case-insensitive)"),
	}, "name"),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			Name string `json:"name" validate:"required,notblank"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.GetBankByName(args.Name)
	},
}

var listBranches = Function{
	Name:        "list_branches",
	Description: "List or filter branches by any field",
	Parameters: object(map[string]Property{
		"branch_id":      integer("Branch ID to filter by (exact match)"),
		"bank_id":        integer("Bank ID to filter by (exact match)"),
		"name":           str("Partial or full branch name (case-insensitive substring match)"),
		"address":        str("Partial or full address (case-insensitive substring match)"),
		"swift_code":     str("SWIFT code (exact match, case-insensitive)"),
		"contact_number": str("Contact number (exact match)"),
	}),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			BranchID      *models.ID `json:"branch_id"`
			BankID        *models.ID `json:"bank_id"`
			Name          string     `json:"name"`
			Address       string     `json:"address"`
			SwiftCode     string     `json:"swift_code"`
			ContactNumber string     `json:"contact_number"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListBranches(ledger.BranchFilter{
			BranchID:      args.BranchID,
			BankID:        args.BankID,
			Name:          args.Name,
			Address:       args.Address,
			SwiftCode:     args.SwiftCode,
			ContactNumber: args.ContactNumber,
		}), nil
	},
}

var listEmployees = Function{
	Name:        "list_employees",
	Description: "List or filter employees by any field",
	Parameters: object(map[string]Property{
		"employee_id": integer("Employee ID to filter by (exact match)"),
		"branch_id":   integer("Branch ID to filter by (exact match)"),
		"first_name":  str("Partial or full first name (case-insensitive substring match)"),
		"last_name":   str("Partial or full last name (case-insensitive substring match)"),
		"role":        str("Role (exact match: TELLER, MANAGER, etc.)"),
		"email":       str("Email address (exact match, case-insensitive)"),
		"phone":       str("Phone number (exact match)"),
		"status":      enum("Employment status (exact match: ACTIVE, INACTIVE, ON_LEAVE)", "ACTIVE", "INACTIVE", "ON_LEAVE"),
	}),
	Apply: func(l *ledger.Ledger, raw json.RawMessage) (any, error) {
		args, err := bind[struct {
			EmployeeID *models.ID `json:"employee_id"`
			BranchID   *models.ID `json:"branch_id"`
			FirstName  string     `json:"first_name"`
			LastName   string     `json:"last_name"`
			Role       string     `json:"role"`
			Email      string     `json:"email"`
			Phone      string     `json:"phone"`
			Status     string     `json:"status"`
		}](raw)
		if err != nil {
			return nil, err
		}
		return l.ListEmployees(ledger.EmployeeFilter{
			EmployeeID: args.EmployeeID,
			BranchID:   args.BranchID,
			FirstName:  args.FirstName,
			LastName:   args.LastName,
			Role:       args.Role,
			Email:      args.Email,
			Phone:      args.Phone,
			Status:     args.Status,
		}), nil
	},
}
