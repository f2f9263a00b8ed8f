package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact decimal money
)

// Account Model (one wallet per owner)
type Account struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                                 // Primary key
	OwnerID   uint            `gorm:"uniqueIndex;not null" json:"owner_id"`                 // Owning user, unique
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"` // Current balance, never negative
	Version   uint            `gorm:"not null;default:0" json:"-"`                          // Optimistic lock counter
	CreatedAt time.Time       `json:"created_at"`                                           // Creation time
	UpdatedAt time.Time       `json:"updated_at"`                                           // Last balance change
}

// TableName pins the table name used by the ledger queries
func (Account) TableName() string { return "accounts" }
