// Package validator registers custom validation functions with Gin's
// binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	hexColorRegex    = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	budgetMonthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

// validCurrencies contains ISO 4217 currency codes.
var validCurrencies = map[string]bool{
	"AED": true, "AUD": true, "BRL": true, "CAD": true, "CHF": true,
	"CNY": true, "CZK": true, "DKK": true, "EUR": true, "GBP": true,
	"HKD": true, "HUF": true, "IDR": true, "ILS": true, "INR": true,
	"JPY": true, "KRW": true, "MXN": true, "MYR": true, "NOK": true,
	"NZD": true, "PHP": true, "PLN": true, "RON": true, "RUB": true,
	"SAR": true, "SEK": true, "SGD": true, "THB": true, "TRY": true,
	"TWD": true, "UAH": true, "USD": true, "VND": true, "ZAR": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("allocation_method", validateAllocationMethod)
		_ = v.RegisterValidation("budget_month", validateBudgetMonth)
	}
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Need", "Want", "Savings":
		return true
	}
	return false
}

func validateAllocationMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "50/30/20", "Manual":
		return true
	}
	return false
}

// validateBudgetMonth checks the "YYYY-MM" month key format.
func validateBudgetMonth(fl validator.FieldLevel) bool {
	return budgetMonthRegex.MatchString(fl.Field().String())
}
