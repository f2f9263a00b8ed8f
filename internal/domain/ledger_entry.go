package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact decimal money
)

// EntryKind is the direction of a ledger entry
type EntryKind string

const (
	EntryCredit EntryKind = "credit" // Increases the balance
	EntryDebit  EntryKind = "debit"  // Decreases the balance
)

// Valid reports whether k is a known entry kind
func (k EntryKind) Valid() bool {
	return k == EntryCredit || k == EntryDebit
}

// LedgerEntry Model, append-only record of one balance change
type LedgerEntry struct {
	ID           uint            `gorm:"primaryKey" json:"id"`                             // Primary key
	AccountID    uint            `gorm:"index;not null" json:"account_id"`                 // Account the entry belongs to
	Kind         EntryKind       `gorm:"type:varchar(10);not null" json:"kind"`            // credit or debit
	Amount       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`        // Always positive
	BalanceAfter decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance_after"` // Balance once the entry applied
	Reason       string          `gorm:"type:varchar(255);not null" json:"reason"`         // Human readable cause
	CreatedAt    time.Time       `json:"created_at"`                                       // Entry timestamp
}

// TableName pins the table name used by the ledger queries
func (LedgerEntry) TableName() string { return "ledger_entries" }

// Signed returns the amount with the sign of its kind
func (e LedgerEntry) Signed() decimal.Decimal {
	if e.Kind == EntryDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
