package ledger

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"voucher_wallet/internal/domain"
)

const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213

	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"

	sqliteBusy   = 5
	sqliteLocked = 6
)

// ErrCodeSpaceExhausted is wrapped in domain.ErrStorageFailure when no free voucher code was found.
var ErrCodeSpaceExhausted = errors.New("voucher code space exhausted")

var domainErrors = []error{
	domain.ErrNotFound,
	domain.ErrInvalidAmount,
	domain.ErrAlreadyRedeemed,
	domain.ErrInsufficientFunds,
	domain.ErrRequestClosed,
	domain.ErrStorageConflict,
	domain.ErrStorageFailure,
}

// classify maps an error escaping a transaction onto the domain taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	if isConflict(err) {
		return fmt.Errorf("%w: %w", domain.ErrStorageConflict, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
}

// isConflict reports whether err is a transient lock or serialization failure.
func isConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return true
		}
		return false
	}

	// SQLite drivers expose the result code; extended codes keep the primary code in the low byte.
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() & 0xff {
		case sqliteBusy, sqliteLocked:
			return true
		}
	}
	return false
}
