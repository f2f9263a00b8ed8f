package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact decimal money
)

// Voucher Model, a redeemable code minted by a merchant or admin
type Voucher struct {
	ID         uint            `gorm:"primaryKey" json:"id"`                              // Primary key
	Code       string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"` // Upper-case unique code
	FaceValue  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"face_value"`     // Amount credited on redemption
	IssuerID   uint            `gorm:"index;not null" json:"issuer_id"`                   // Merchant or admin who minted it
	Redeemed   bool            `gorm:"not null;default:false" json:"redeemed"`            // Terminal once true
	RedeemedBy *uint           `json:"redeemed_by,omitempty"`                             // Owner who redeemed it
	RedeemedAt *time.Time      `json:"redeemed_at,omitempty"`                             // Redemption time
	CreatedAt  time.Time       `json:"created_at"`                                        // Creation time
}

// TableName pins the table name used by the registry queries
func (Voucher) TableName() string { return "vouchers" }
