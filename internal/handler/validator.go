package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	// Accounts are EVM-style addresses
	_ = v.RegisterValidation("account", validateAccount)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// without leaking internal struct names
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "account":
			errs[field] = "Invalid account address"
		case "gt", "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", minimumFor(e.Tag(), e.Param()))
		case "lt", "lte", "max":
			errs[field] = "Value too large"
		case "min":
			errs[field] = fmt.Sprintf("Needs at least %s entries", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

func minimumFor(tag, param string) string {
	if tag == "gt" && param == "0" {
		return "1"
	}
	if param == "" {
		return "0"
	}
	return param
}

func validateAccount(fl validator.FieldLevel) bool {
	account := fl.Field().String()
	if account == "" {
		return true // presence is the 'required' tag's job
	}
	return common.IsHexAddress(account)
}
