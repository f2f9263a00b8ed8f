package ledger

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"voucher_wallet/internal/domain"
)

func voucherRow(redeemed bool) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "code", "face_value", "issuer_id", "redeemed", "redeemed_by", "redeemed_at", "created_at"})
	if redeemed {
		return rows.AddRow(4, "GIFTCARD", "25.00", 2, true, int64(8), time.Now(), time.Now())
	}
	return rows.AddRow(4, "GIFTCARD", "25.00", 2, false, nil, nil, time.Now())
}

func withdrawalRow(status domain.WithdrawalStatus, reviewedBy any) *sqlmock.Rows {
	now := time.Now()
	var reviewedAt any
	if reviewedBy != nil {
		reviewedAt = now
	}
	return sqlmock.NewRows([]string{"id", "account_id", "amount", "status", "bank_name", "account_number", "reviewed_by", "reviewed_at", "created_at", "updated_at"}).
		AddRow(5, 1, "6.00", string(status), "First Bank", "0123456789", reviewedBy, reviewedAt, now, now)
}

// The registry read says unredeemed but a concurrent redeemer flips the row
// before our conditional update: nothing is credited and the tx rolls back.
func TestRedeemLosesConditionalUpdate(t *testing.T) {
	gdb, mock := newMockMySQL(t)
	engine := Engine{}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `vouchers` WHERE code = ?").
		WillReturnRows(voucherRow(false))
	mock.ExpectQuery("SELECT .* FROM `accounts` WHERE owner_id = ?").
		WillReturnRows(accountRows(0, "0.00"))
	mock.ExpectExec("UPDATE `vouchers` SET .* WHERE code = \\? AND redeemed = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .* FROM `vouchers` WHERE code = ?").
		WillReturnRows(voucherRow(true))
	mock.ExpectRollback()

	err := RunInTx(t.Context(), gdb, func(tx *gorm.DB) error {
		_, err := engine.Redeem(tx, " giftcard ", 8, ChannelManual)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)
	// Strict ordering: an INSERT INTO ledger_entries would have failed the expectations.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveLocksRequestThenAccount(t *testing.T) {
	gdb, mock := newMockMySQL(t)
	workflow := Workflow{}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `withdrawal_requests` .*FOR UPDATE").
		WillReturnRows(withdrawalRow(domain.WithdrawalPending, nil))
	mock.ExpectQuery("SELECT .* FROM `accounts` .*FOR UPDATE").
		WillReturnRows(accountRows(2, "10.00"))
	mock.ExpectExec("UPDATE `accounts` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `ledger_entries`").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec("UPDATE `withdrawal_requests` SET .* WHERE id = \\? AND status = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .* FROM `withdrawal_requests`").
		WillReturnRows(withdrawalRow(domain.WithdrawalApproved, int64(reviewer)))
	mock.ExpectCommit()

	var review Review
	err := RunInTx(t.Context(), gdb, func(tx *gorm.DB) error {
		var err error
		review, err = workflow.Approve(tx, 5, reviewer)
		return err
	})
	require.NoError(t, err)
	assert.True(t, review.Changed)
	assert.Equal(t, domain.WithdrawalApproved, review.Request.Status)
	require.NotNil(t, review.Request.ReviewedBy)
	assert.Equal(t, reviewer, *review.Request.ReviewedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveShortBalanceLeavesRequestPending(t *testing.T) {
	gdb, mock := newMockMySQL(t)
	workflow := Workflow{}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `withdrawal_requests` .*FOR UPDATE").
		WillReturnRows(withdrawalRow(domain.WithdrawalPending, nil))
	mock.ExpectQuery("SELECT .* FROM `accounts` .*FOR UPDATE").
		WillReturnRows(accountRows(2, "1.00"))
	mock.ExpectRollback()

	err := RunInTx(t.Context(), gdb, func(tx *gorm.DB) error {
		_, err := workflow.Approve(tx, 5, reviewer)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	// No UPDATE of withdrawal_requests was issued.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveStatusRaceRollsBackDebit(t *testing.T) {
	gdb, mock := newMockMySQL(t)
	workflow := Workflow{}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `withdrawal_requests` .*FOR UPDATE").
		WillReturnRows(withdrawalRow(domain.WithdrawalPending, nil))
	mock.ExpectQuery("SELECT .* FROM `accounts` .*FOR UPDATE").
		WillReturnRows(accountRows(2, "10.00"))
	mock.ExpectExec("UPDATE `accounts` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `ledger_entries`").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec("UPDATE `withdrawal_requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .* FROM `withdrawal_requests`").
		WillReturnRows(withdrawalRow(domain.WithdrawalApproved, int64(reviewer+1)))
	mock.ExpectRollback()

	err := RunInTx(t.Context(), gdb, func(tx *gorm.DB) error {
		_, err := workflow.Approve(tx, 5, reviewer)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrStorageConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
