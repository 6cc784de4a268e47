// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// bondCodeRegex matches exchange-suffixed codes such as "220501.IB",
// "019547.SH" or "2128012.IB".
var bondCodeRegex = regexp.MustCompile(`^[0-9A-Za-z]{4,16}\.[A-Za-z]{2,4}$`)

// resetCodeRegex matches the six-digit password reset code.
var resetCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bond_code", validateBondCode)
		_ = v.RegisterValidation("holding_scope", validateHoldingScope)
		_ = v.RegisterValidation("company_type", validateCompanyType)
		_ = v.RegisterValidation("reset_code", validateResetCode)
	}
}

func validateBondCode(fl validator.FieldLevel) bool {
	return bondCodeRegex.MatchString(fl.Field().String())
}

func validateResetCode(fl validator.FieldLevel) bool {
	return resetCodeRegex.MatchString(fl.Field().String())
}

func validateHoldingScope(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "all", "current":
		return true
	}
	return false
}

func validateCompanyType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "FUND", "WEALTH", "BROKER", "INSURANCE", "BANK", "OTHER":
		return true
	}
	return false
}
