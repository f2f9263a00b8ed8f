package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"voucher_wallet/internal/domain"
)

// Channel records how a code reached the engine. It changes the entry reason only.
type Channel string

const (
	ChannelManual Channel = "manual" // Typed into the wallet form
	ChannelScan   Channel = "scan"   // Read from a scanned QR code
)

// Redemption is the outcome of a successful redeem.
type Redemption struct {
	Voucher  domain.Voucher     `json:"voucher"`
	Credited decimal.Decimal    `json:"credited"`
	Balance  decimal.Decimal    `json:"balance"`
	Entry    domain.LedgerEntry `json:"entry"`
}

// Engine moves a voucher's face value into the redeemer's wallet.
type Engine struct {
	vouchers Registry
	accounts AccountStore
	ledger   Ledger
}

// Redeem marks the voucher redeemed and credits the redeemer in the caller's
// transaction. The unknown and already-redeemed paths have no side effects.
func (e Engine) Redeem(tx *gorm.DB, code string, redeemerID uint, channel Channel) (Redemption, error) {
	voucher, err := e.vouchers.Lookup(tx, code)
	if err != nil {
		return Redemption{}, err
	}
	if voucher.Redeemed {
		return Redemption{}, domain.ErrAlreadyRedeemed
	}

	account, err := e.accounts.GetOrCreate(tx, redeemerID)
	if err != nil {
		return Redemption{}, err
	}

	voucher, err = e.vouchers.MarkRedeemed(tx, voucher.Code, redeemerID)
	if err != nil {
		return Redemption{}, err
	}

	entry, err := e.ledger.Append(tx, account.ID, domain.EntryCredit, voucher.FaceValue, redemptionReason(voucher.Code, channel))
	if err != nil {
		return Redemption{}, err
	}

	return Redemption{
		Voucher:  voucher,
		Credited: entry.Amount,
		Balance:  entry.BalanceAfter,
		Entry:    entry,
	}, nil
}

func redemptionReason(code string, channel Channel) string {
	if channel == ChannelScan {
		return fmt.Sprintf("voucher redeemed via scan: %s", code)
	}
	return fmt.Sprintf("voucher redeemed: %s", code)
}
