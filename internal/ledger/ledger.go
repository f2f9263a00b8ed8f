package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"voucher_wallet/internal/domain"
)

// Ledger is the only writer of account balances. Every balance change is
// paired with exactly one LedgerEntry inside the caller's transaction.
type Ledger struct {
	accounts AccountStore
}

// Append applies a credit or debit to the account and records the entry.
// The account row is locked for the rest of the transaction and the balance
// write is guarded by the row version, so concurrent writers cannot both
// apply a change computed from the same starting balance.
func (l Ledger) Append(tx *gorm.DB, accountID uint, kind domain.EntryKind, amount decimal.Decimal, reason string) (domain.LedgerEntry, error) {
	if err := ValidateAmount(amount); err != nil {
		return domain.LedgerEntry{}, err
	}
	if !kind.Valid() {
		return domain.LedgerEntry{}, fmt.Errorf("unknown entry kind %q", kind)
	}

	account, err := l.accounts.get(tx, accountID, true) // Row lock held until commit
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	next := account.Balance.Add(amount)
	if kind == domain.EntryDebit {
		next = account.Balance.Sub(amount)
	}
	if next.IsNegative() {
		return domain.LedgerEntry{}, domain.ErrInsufficientFunds // Balance never goes below zero
	}

	now := time.Now().UTC()
	res := tx.Model(&domain.Account{}).
		Where("id = ? AND version = ?", account.ID, account.Version). // Optimistic guard
		Updates(map[string]any{
			"balance":    next,
			"version":    account.Version + 1,
			"updated_at": now,
		})
	if res.Error != nil {
		return domain.LedgerEntry{}, res.Error
	}
	if res.RowsAffected == 0 { // Someone wrote since our read
		return domain.LedgerEntry{}, fmt.Errorf("%w: account %d changed concurrently", domain.ErrStorageConflict, account.ID)
	}

	entry := domain.LedgerEntry{
		AccountID:    account.ID,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: next,
		Reason:       reason,
		CreatedAt:    now,
	}
	if err := tx.Create(&entry).Error; err != nil { // Same transaction as the balance write
		return domain.LedgerEntry{}, err
	}
	return entry, nil
}

// History lists an account's entries, most recent first.
func (l Ledger) History(tx *gorm.DB, accountID uint, page Page) (Paged[domain.LedgerEntry], error) {
	if _, err := l.accounts.get(tx, accountID, false); err != nil {
		return Paged[domain.LedgerEntry]{}, err
	}
	query := tx.Model(&domain.LedgerEntry{}).Where("account_id = ?", accountID)
	return paginate[domain.LedgerEntry](query, "id desc", page)
}
