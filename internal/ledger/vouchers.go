package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"voucher_wallet/internal/domain"
)

// maxCodeAttempts bounds how many collisions Create tolerates before giving up.
const maxCodeAttempts = 16

// Registry tracks voucher codes and their redemption state.
type Registry struct {
	codes CodeGenerator
}

// Create mints a voucher with a code no existing voucher uses.
func (r Registry) Create(tx *gorm.DB, issuerID uint, faceValue decimal.Decimal) (domain.Voucher, error) {
	if err := ValidateAmount(faceValue); err != nil {
		return domain.Voucher{}, err
	}

	for range maxCodeAttempts {
		raw, err := r.codes.NewCode()
		if err != nil {
			return domain.Voucher{}, fmt.Errorf("generate voucher code: %w", err)
		}
		code := NormalizeCode(raw)
		if code == "" {
			continue
		}

		var taken int64
		if err := tx.Model(&domain.Voucher{}).Where("code = ?", code).Count(&taken).Error; err != nil {
			return domain.Voucher{}, err
		}
		if taken > 0 {
			continue // Collision, draw again
		}

		voucher := domain.Voucher{
			Code:      code,
			FaceValue: faceValue,
			IssuerID:  issuerID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&voucher).Error; err != nil {
			return domain.Voucher{}, err
		}
		return voucher, nil
	}
	return domain.Voucher{}, fmt.Errorf("%w: %w", domain.ErrStorageFailure, ErrCodeSpaceExhausted)
}

// Lookup finds a voucher by code, ignoring case and surrounding whitespace.
func (Registry) Lookup(tx *gorm.DB, code string) (domain.Voucher, error) {
	var voucher domain.Voucher
	if err := tx.Where("code = ?", NormalizeCode(code)).Take(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Voucher{}, domain.ErrNotFound
		}
		return domain.Voucher{}, err
	}
	return voucher, nil
}

// MarkRedeemed flips the redeemed flag with a conditional update, so of any
// number of concurrent callers exactly one sees a changed row. Only the
// redemption engine calls it, inside the transaction that also credits.
func (r Registry) MarkRedeemed(tx *gorm.DB, code string, redeemerID uint) (domain.Voucher, error) {
	code = NormalizeCode(code)
	now := time.Now().UTC()

	res := tx.Model(&domain.Voucher{}).
		Where("code = ? AND redeemed = ?", code, false). // Exactly one caller flips it
		Updates(map[string]any{
			"redeemed":    true,
			"redeemed_by": redeemerID,
			"redeemed_at": now,
		})
	if res.Error != nil {
		return domain.Voucher{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Lookup(tx, code); err != nil {
			return domain.Voucher{}, err
		}
		return domain.Voucher{}, domain.ErrAlreadyRedeemed
	}
	return r.Lookup(tx, code)
}

// VoucherFilter narrows a voucher listing. A nil IssuerID lists every issuer.
type VoucherFilter struct {
	IssuerID *uint
	Redeemed *bool
}

// List pages through vouchers, newest first.
func (Registry) List(tx *gorm.DB, filter VoucherFilter, page Page) (Paged[domain.Voucher], error) {
	query := tx.Model(&domain.Voucher{})
	if filter.IssuerID != nil {
		query = query.Where("issuer_id = ?", *filter.IssuerID)
	}
	if filter.Redeemed != nil {
		query = query.Where("redeemed = ?", *filter.Redeemed)
	}
	return paginate[domain.Voucher](query, "id desc", page)
}
