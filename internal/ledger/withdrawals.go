package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voucher_wallet/internal/domain"
)

// Review is the outcome of an approve or reject call. Changed is false when
// the request was already in the requested state and nothing was written.
type Review struct {
	Request domain.WithdrawalRequest `json:"request"`
	Changed bool                     `json:"changed"`
}

// Workflow drives withdrawal requests through pending -> approved | rejected.
type Workflow struct {
	accounts AccountStore
	ledger   Ledger
}

// Submit records a pending request. The balance check is advisory: nothing
// is reserved and approval checks again.
func (w Workflow) Submit(tx *gorm.DB, accountID uint, amount decimal.Decimal, bank domain.BankDetails) (domain.WithdrawalRequest, error) {
	if err := ValidateAmount(amount); err != nil {
		return domain.WithdrawalRequest{}, err
	}

	balance, err := w.accounts.Balance(tx, accountID)
	if err != nil {
		return domain.WithdrawalRequest{}, err
	}
	if amount.GreaterThan(balance) {
		return domain.WithdrawalRequest{}, domain.ErrInsufficientFunds
	}

	req := domain.WithdrawalRequest{
		AccountID: accountID,
		Amount:    amount,
		Status:    domain.WithdrawalPending,
		Bank:      bank,
	}
	if err := tx.Create(&req).Error; err != nil {
		return domain.WithdrawalRequest{}, err
	}
	return req, nil
}

// Approve debits the account and closes the request as approved. Approving an
// approved request is a no-op. The debit is applied before the status moves,
// so when the balance no longer covers the amount the call fails with
// ErrInsufficientFunds having written nothing and the request stays pending.
func (w Workflow) Approve(tx *gorm.DB, requestID, reviewerID uint) (Review, error) {
	req, err := w.lock(tx, requestID) // Serializes reviewers of this request
	if err != nil {
		return Review{}, err
	}
	if req.Status.Terminal() {
		return closedOutcome(req, domain.WithdrawalApproved)
	}

	reason := fmt.Sprintf("withdrawal #%d approved", req.ID)
	if _, err := w.ledger.Append(tx, req.AccountID, domain.EntryDebit, req.Amount, reason); err != nil {
		return Review{}, err // Balance re-checked under the account lock
	}

	settled, err := w.settle(tx, req, domain.WithdrawalApproved, reviewerID)
	if err != nil {
		return Review{}, err
	}
	if !settled.Changed {
		// Another reviewer closed the request after our read; the debit must not stand.
		return settled, fmt.Errorf("%w: withdrawal %d reviewed concurrently", domain.ErrStorageConflict, req.ID)
	}
	return settled, nil
}

// Reject closes a pending request without touching the balance. Rejecting a
// rejected request is a no-op.
func (w Workflow) Reject(tx *gorm.DB, requestID, reviewerID uint) (Review, error) {
	req, err := w.lock(tx, requestID)
	if err != nil {
		return Review{}, err
	}
	if req.Status.Terminal() {
		return closedOutcome(req, domain.WithdrawalRejected)
	}
	return w.settle(tx, req, domain.WithdrawalRejected, reviewerID)
}

// settle moves a pending request to target with a conditional update. When
// another reviewer got there first the current row decides the outcome.
func (w Workflow) settle(tx *gorm.DB, req domain.WithdrawalRequest, target domain.WithdrawalStatus, reviewerID uint) (Review, error) {
	now := time.Now().UTC()
	res := tx.Model(&domain.WithdrawalRequest{}).
		Where("id = ? AND status = ?", req.ID, domain.WithdrawalPending). // Only a pending request moves
		Updates(map[string]any{
			"status":      target,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return Review{}, res.Error
	}

	current, err := w.get(tx, req.ID) // Reload for reviewed_by/reviewed_at
	if err != nil {
		return Review{}, err
	}
	if res.RowsAffected == 1 { // We made the transition
		return Review{Request: current, Changed: true}, nil
	}
	return closedOutcome(current, target)
}

// closedOutcome answers a review of a request that already left pending:
// a repeat of the same decision is a no-op, the opposite one is refused.
func closedOutcome(req domain.WithdrawalRequest, target domain.WithdrawalStatus) (Review, error) {
	if req.Status == target {
		return Review{Request: req}, nil
	}
	return Review{Request: req}, domain.ErrRequestClosed
}

// WithdrawalFilter narrows a withdrawal listing.
type WithdrawalFilter struct {
	AccountID *uint
	Status    domain.WithdrawalStatus
}

// List pages through requests, oldest first so the review queue reads in submission order.
func (Workflow) List(tx *gorm.DB, filter WithdrawalFilter, page Page) (Paged[domain.WithdrawalRequest], error) {
	query := tx.Model(&domain.WithdrawalRequest{})
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return paginate[domain.WithdrawalRequest](query, "id asc", page)
}

func (w Workflow) lock(tx *gorm.DB, requestID uint) (domain.WithdrawalRequest, error) {
	return w.load(tx.Clauses(clause.Locking{Strength: "UPDATE"}), requestID)
}

func (w Workflow) get(tx *gorm.DB, requestID uint) (domain.WithdrawalRequest, error) {
	return w.load(tx, requestID)
}

func (Workflow) load(query *gorm.DB, requestID uint) (domain.WithdrawalRequest, error) {
	var req domain.WithdrawalRequest
	if err := query.Take(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WithdrawalRequest{}, domain.ErrNotFound
		}
		return domain.WithdrawalRequest{}, err
	}
	return req, nil
}
