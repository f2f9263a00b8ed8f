package ledger

import (
	"context"

	"gorm.io/gorm"
)

// RunInTx runs fn inside a single transaction bound to ctx. The transaction is
// committed when fn returns nil and rolled back on error or panic, so callers
// never hold an open transaction past this call. Storage errors come back
// classified as domain.ErrStorageConflict or domain.ErrStorageFailure.
func RunInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return classify(db.WithContext(ctx).Transaction(fn))
}
