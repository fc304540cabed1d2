package functions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their argument names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Calendar date: "2024-12-31".
	_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})

	// Non-empty and not only whitespace.
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// bind decodes raw into a T and validates it. Unknown arguments are
// rejected. Empty input decodes as no arguments.
func bind[T any](raw json.RawMessage) (T, error) {
	var args T
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&args); err != nil {
		return args, decodeError(err)
	}
	if err := validate.Struct(args); err != nil {
		return args, validationError(err)
	}
	return args, nil
}

func argError(format string, a ...any) error {
	return &ledger.Error{Kind: ledger.ErrValidation, Msg: fmt.Sprintf(format, a...)}
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return argError("'%s' must be %s", typeErr.Field, describeType(typeErr.Type))
	case errors.As(err, &syntaxErr):
		return argError("Arguments must be a JSON object")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return argError("Unexpected argument '%s'", field)
	}
	return argError("Invalid arguments: %v", err)
}

func describeType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	case reflect.Struct:
		if t.Name() == "Decimal" {
			return "a number"
		}
		return "an object"
	case reflect.Float32, reflect.Float64:
		return "a number"
	}
	return "a " + t.Kind().String()
}

// validationError renders the first failed rule.
func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return argError("Invalid arguments: %v", err)
	}
	return argError("%s", fieldErrorToString(errs[0]))
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", e.Field())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of: %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
	case "date":
		return fmt.Sprintf("'%s' must be a string in YYYY-MM-DD format", e.Field())
	case "notblank":
		return fmt.Sprintf("'%s' must be a non-empty string", e.Field())
	case "gt":
		return fmt.Sprintf("'%s' must be greater than %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("'%s' must be at least %s", e.Field(), e.Param())
	case "email":
		return fmt.Sprintf("'%s' must be a valid email address", e.Field())
	default:
		return fmt.Sprintf("'%s' is invalid", e.Field())
	}
}

// caseFold upper-cases an enumerated argument.
func caseFold(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// property helpers

func integer(desc string) Property { return Property{Type: "integer", Description: desc} }
func number(desc string) Property  { return Property{Type: "number", Description: desc} }
func str(desc string) Property     { return Property{Type: "string", Description: desc} }

func enum(desc string, values ...string) Property {
	return Property{Type: "string", Description: desc, Enum: values}
}

var (
	accountChannelValues  = []string{"BRANCH", "ATM", "ONLINE", "MOBILE"}
	purchaseChannelValues = []string{"POS", "ONLINE", "MOBILE", "BRANCH", "ATM"}
	productTypeValues     = []string{"LOAN", "CARD"}
	loanTypeValues        = []string{"HOME", "CAR", "PERSONAL", "EDUCATION"}
	loanStatusValues      = []string{"ACTIVE", "CLOSED", "DEFAULTED"}
	cardTypeValues        = []string{"DEBIT", "CREDIT", "PREPAID"}
	cardStatusValues      = []string{"ACTIVE", "BLOCKED", "EXPIRED"}
	accountStatusValues   = []string{"OPEN", "CLOSED", "FROZEN"}
	beneficiaryTypeValues = []string{"BANK_ACCOUNT", "LOAN_ACCOUNT", "CARD"}
	transactionTypeValues = []string{"DEPOSIT", "WITHDRAWAL", "TRANSFER", "PAYMENT", "CARD_PURCHASE"}
	cardTxStatusValues    = []string{"UNBILLED", "BILLED"}
)

func object(props map[string]Property, required ...string) Parameters {
	if required == nil {
		required = []string{}
	}
	return Parameters{Type: "object", Properties: props, Required: required}
}
