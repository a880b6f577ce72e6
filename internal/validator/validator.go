package validator

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterCustomTypeFunc(decimalToFloat, decimal.Decimal{})
	validator.RegisterValidation("future", validateFuture)
	validator.RegisterValidation("positive_amount", validatePositiveAmount)

	return validator
}

func decimalToFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}

	return nil
}

func validateFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}

	return t.After(time.Now())
}

func validatePositiveAmount(fl validator.FieldLevel) bool {
	f, ok := fl.Field().Interface().(float64)
	if !ok {
		return false
	}

	return f > 0
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", err.Param())
	case "future":
		return "must be a time in the future"
	case "positive_amount":
		return "must be a positive amount"
	default:
		return "is invalid"
	}
}
