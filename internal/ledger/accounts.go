package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voucher_wallet/internal/domain"
)

// AccountStore reads and lazily creates wallets. It never writes balances;
// that is the Ledger's job.
type AccountStore struct{}

// GetOrCreate returns the owner's account, creating an empty one if absent.
// Concurrent first accesses for the same owner converge on a single row.
func (AccountStore) GetOrCreate(tx *gorm.DB, ownerID uint) (domain.Account, error) {
	var account domain.Account
	err := tx.Where("owner_id = ?", ownerID).Take(&account).Error
	if err == nil {
		return account, nil // Existing wallet
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, err
	}

	account = domain.Account{OwnerID: ownerID, Balance: decimal.Zero}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&account).Error; err != nil { // Loser of a creation race inserts nothing
		return domain.Account{}, err
	}

	// Locking read so a row committed by a concurrent creator is visible.
	account = domain.Account{}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("owner_id = ?", ownerID).Take(&account).Error; err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// Balance returns the current balance of an account.
func (s AccountStore) Balance(tx *gorm.DB, accountID uint) (decimal.Decimal, error) {
	account, err := s.get(tx, accountID, false)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// get loads an account by id, optionally taking a row lock for the rest of the transaction.
func (AccountStore) get(tx *gorm.DB, accountID uint, forUpdate bool) (domain.Account, error) {
	query := tx
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var account domain.Account
	if err := query.Take(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}
