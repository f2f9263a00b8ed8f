package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact decimal money
)

// WithdrawalStatus is the state of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"  // Awaiting review
	WithdrawalApproved WithdrawalStatus = "approved" // Debited, terminal
	WithdrawalRejected WithdrawalStatus = "rejected" // Declined, terminal
)

// Terminal reports whether no further transition is allowed
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalApproved || s == WithdrawalRejected
}

// BankDetails identifies where approved funds are paid out
type BankDetails struct {
	BankName      string `gorm:"type:varchar(100)" json:"bank_name"`     // Receiving bank
	AccountNumber string `gorm:"type:varchar(50)" json:"account_number"` // Receiving account number
}

// WithdrawalRequest Model
type WithdrawalRequest struct {
	ID         uint             `gorm:"primaryKey" json:"id"`                                          // Primary key
	AccountID  uint             `gorm:"index;not null" json:"account_id"`                              // Account to debit
	Amount     decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"amount"`                     // Requested amount
	Status     WithdrawalStatus `gorm:"type:varchar(16);index;not null;default:pending" json:"status"` // pending, approved or rejected
	Bank       BankDetails      `gorm:"embedded" json:"bank"`                                          // Payout destination
	ReviewedBy *uint            `json:"reviewed_by,omitempty"`                                         // Admin who decided
	ReviewedAt *time.Time       `json:"reviewed_at,omitempty"`                                         // Decision time
	CreatedAt  time.Time        `json:"created_at"`                                                    // Submission time
	UpdatedAt  time.Time        `json:"updated_at"`                                                    // Last status change
}

// TableName pins the table name used by the workflow queries
func (WithdrawalRequest) TableName() string { return "withdrawal_requests" }
