package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// registerValidations installs decimal-aware rules into gin's binding
// engine. validator's built-in numeric comparisons do not understand
// decimal.Decimal, so amount fields use these tags instead.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// dec_positive: strictly greater than zero.
	_ = v.RegisterValidation("dec_positive", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	})

	// dec_nonnegative: zero or greater.
	_ = v.RegisterValidation("dec_nonnegative", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && !d.IsNegative()
	})
}
