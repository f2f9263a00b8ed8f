package ledger

import (
	"github.com/shopspring/decimal"

	"voucher_wallet/internal/domain"
)

// minorUnits is the number of fractional digits a money amount may carry.
const minorUnits = 2

// ValidateAmount accepts strictly positive amounts with at most two fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(minorUnits)) {
		return domain.ErrInvalidAmount
	}
	return nil
}
