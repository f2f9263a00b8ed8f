package api

import (
	"reflect" // Custom type registration
	"sync"    // One-time registration

	"voucher_wallet/internal/ledger" // Amount rules

	"github.com/gin-gonic/gin/binding"       // Gin's validator engine
	"github.com/go-playground/validator/v10" // Request validation
	"github.com/shopspring/decimal"          // Decimal amounts
)

// RegisterValidators adds the money tag to gin's validator. Decimal fields are
// validated through their string form so ordinary tags apply to them too.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return // Another validator engine is installed
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("money", validMoney) // Tag name is constant, cannot fail
	})
}

var registerOnce sync.Once

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validMoney accepts a positive amount with at most two decimal places
func validMoney(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return ledger.ValidateAmount(amount) == nil
}
