package ledger

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"voucher_wallet/internal/domain"
)

const recentEntries = 10

// Stats is the admin dashboard summary.
type Stats struct {
	Accounts           int64                `json:"accounts"`
	Vouchers           int64                `json:"vouchers"`
	RedeemedVouchers   int64                `json:"redeemed_vouchers"`
	UnredeemedVouchers int64                `json:"unredeemed_vouchers"`
	PendingWithdrawals int64                `json:"pending_withdrawals"`
	TotalBalance       decimal.Decimal      `json:"total_balance"`
	Recent             []domain.LedgerEntry `json:"recent"`
}

func collectStats(tx *gorm.DB) (Stats, error) {
	var s Stats
	if err := tx.Model(&domain.Account{}).Count(&s.Accounts).Error; err != nil {
		return Stats{}, err
	}
	if err := tx.Model(&domain.Voucher{}).Count(&s.Vouchers).Error; err != nil {
		return Stats{}, err
	}
	if err := tx.Model(&domain.Voucher{}).Where("redeemed = ?", true).Count(&s.RedeemedVouchers).Error; err != nil {
		return Stats{}, err
	}
	s.UnredeemedVouchers = s.Vouchers - s.RedeemedVouchers
	if err := tx.Model(&domain.WithdrawalRequest{}).Where("status = ?", domain.WithdrawalPending).Count(&s.PendingWithdrawals).Error; err != nil {
		return Stats{}, err
	}

	s.TotalBalance = decimal.Zero
	var total decimal.NullDecimal
	if err := tx.Model(&domain.Account{}).Select("SUM(balance)").Row().Scan(&total); err != nil {
		return Stats{}, err
	}
	if total.Valid {
		s.TotalBalance = total.Decimal
	}

	s.Recent = make([]domain.LedgerEntry, 0, recentEntries)
	if err := tx.Order("id desc").Limit(recentEntries).Find(&s.Recent).Error; err != nil {
		return Stats{}, err
	}
	return s, nil
}
