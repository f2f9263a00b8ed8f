package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voucher_wallet/internal/domain"
)

var testBank = domain.BankDetails{BankName: "First Bank", AccountNumber: "0123456789"}

const reviewer uint = 900

func countEntries(t *testing.T, svc *Service, kind domain.EntryKind) int64 {
	t.Helper()
	var n int64
	require.NoError(t, svc.db.Model(&domain.LedgerEntry{}).Where("kind = ?", kind).Count(&n).Error)
	return n
}

func TestSubmitOverBalanceCreatesNothing(t *testing.T) {
	svc, gdb, _ := newTestService(t)
	ctx := context.Background()
	fund(t, svc, 1, "40")

	_, err := svc.SubmitWithdrawal(ctx, 1, dec("40.01"), testBank)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var count int64
	require.NoError(t, gdb.Model(&domain.WithdrawalRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitValidatesAmount(t *testing.T) {
	svc, _, _ := newTestService(t)
	fund(t, svc, 1, "40")

	for _, amount := range []string{"0", "-1", "2.345"} {
		_, err := svc.SubmitWithdrawal(context.Background(), 1, dec(amount), testBank)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, amount)
	}
}

func TestApproveDebitsOnce(t *testing.T) {
	svc, gdb, _ := newTestService(t)
	ctx := context.Background()
	fund(t, svc, 1, "100")

	req, err := svc.SubmitWithdrawal(ctx, 1, dec("60"), testBank)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalPending, req.Status)
	assert.Equal(t, testBank, req.Bank)

	// Submitting reserves nothing.
	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(dec("100")))

	review, err := svc.ApproveWithdrawal(ctx, req.ID, reviewer)
	require.NoError(t, err)
	assert.True(t, review.Changed)
	assert.Equal(t, domain.WithdrawalApproved, review.Request.Status)
	require.NotNil(t, review.Request.ReviewedBy)
	assert.Equal(t, reviewer, *review.Request.ReviewedBy)
	assert.NotNil(t, review.Request.ReviewedAt)

	again, err := svc.ApproveWithdrawal(ctx, req.ID, reviewer)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, domain.WithdrawalApproved, again.Request.Status)

	account, err = svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(dec("40")), "got %s", account.Balance)
	assert.Equal(t, int64(1), countEntries(t, svc, domain.EntryDebit))
	requireBalanced(t, gdb)
}

func TestApproveAfterBalanceDroppedStaysPending(t *testing.T) {
	svc, gdb, _ := newTestService(t)
	ctx := context.Background()
	fund(t, svc, 1, "100")

	req, err := svc.SubmitWithdrawal(ctx, 1, dec("80"), testBank)
	require.NoError(t, err)

	// Balance drops below the request before review.
	other, err := svc.SubmitWithdrawal(ctx, 1, dec("50"), testBank)
	require.NoError(t, err)
	_, err = svc.ApproveWithdrawal(ctx, other.ID, reviewer)
	require.NoError(t, err)

	_, err = svc.ApproveWithdrawal(ctx, req.ID, reviewer)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var reloaded domain.WithdrawalRequest
	require.NoError(t, gdb.First(&reloaded, req.ID).Error)
	assert.Equal(t, domain.WithdrawalPending, reloaded.Status)
	assert.Nil(t, reloaded.ReviewedBy)

	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(dec("50")))
	assert.Equal(t, int64(1), countEntries(t, svc, domain.EntryDebit))
	requireBalanced(t, gdb)
}

// Without a surrounding transaction there is no rollback to lean on: a failed
// debit must leave the request untouched.
func TestApproveWritesNothingWhenDebitFails(t *testing.T) {
	svc, gdb, _ := newTestService(t)
	ctx := context.Background()
	fund(t, svc, 1, "10")

	req, err := svc.SubmitWithdrawal(ctx, 1, dec("10"), testBank)
	require.NoError(t, err)
	other, err := svc.SubmitWithdrawal(ctx, 1, dec("5"), testBank)
	require.NoError(t, err)
	_, err = svc.ApproveWithdrawal(ctx, other.ID, reviewer)
	require.NoError(t, err)

	_, err = svc.withdrawals.Approve(gdb, req.ID, reviewer)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var reloaded domain.WithdrawalRequest
	require.NoError(t, gdb.First(&reloaded, req.ID).Error)
	assert.Equal(t, domain.WithdrawalPending, reloaded.Status)
	assert.Nil(t, reloaded.ReviewedBy)
	assert.Nil(t, reloaded.ReviewedAt)
	assert.Equal(t, int64(1), countEntries(t, svc, domain.EntryDebit))
	requireBalanced(t, gdb)
}

func TestFirstApprovedWins(t *testing.T) {
	svc, gdb, _ := newTestService(t)
	ctx := context.Background()
	fund(t, svc, 1, "100")

	early, err := svc.SubmitWithdrawal(ctx, 1, dec("70"), testBank)
	require.NoError(t, err)
	late, err := svc.SubmitWithdrawal(ctx, 1, dec("60"), testBank)
	require.NoError(t, err)

	// Review order decides, not submission order.
	_, err = svc.ApproveWithdrawal(ctx, late.ID, reviewer)
	require.NoError(t, err)
	_, err = svc.ApproveWithdrawal(ctx, early.ID, reviewer)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The loser can still be rejected.
	review, err := svc.RejectWithdrawal(ctx, early.ID, reviewer)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalRejected, review.Request.Status)

	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(dec("40")))
	requireBalanced(t, gdb)
}

func TestRejectLeavesBalance(t *testing.T) {
	svc, gdb, _ := newTestService(t)
	ctx := context.Background()
	fund(t, svc, 1, "30")

	req, err := svc.SubmitWithdrawal(ctx, 1, dec("30"), testBank)
	require.NoError(t, err)

	review, err := svc.RejectWithdrawal(ctx, req.ID, reviewer)
	require.NoError(t, err)
	assert.True(t, review.Changed)
	assert.Equal(t, domain.WithdrawalRejected, review.Request.Status)

	again, err := svc.RejectWithdrawal(ctx, req.ID, reviewer)
	require.NoError(t, err)
	assert.False(t, again.Changed)

	_, err = svc.ApproveWithdrawal(ctx, req.ID, reviewer)
	assert.ErrorIs(t, err, domain.ErrRequestClosed)

	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(dec("30")))
	assert.Zero(t, countEntries(t, svc, domain.EntryDebit))
	requireBalanced(t, gdb)
}

func TestRejectApprovedIsClosed(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	fund(t, svc, 1, "30")

	req, err := svc.SubmitWithdrawal(ctx, 1, dec("10"), testBank)
	require.NoError(t, err)
	_, err = svc.ApproveWithdrawal(ctx, req.ID, reviewer)
	require.NoError(t, err)

	_, err = svc.RejectWithdrawal(ctx, req.ID, reviewer)
	assert.ErrorIs(t, err, domain.ErrRequestClosed)
}

func TestReviewUnknownRequest(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ApproveWithdrawal(ctx, 404, reviewer)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.RejectWithdrawal(ctx, 404, reviewer)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithdrawalListings(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	fund(t, svc, 1, "100")
	fund(t, svc, 2, "100")

	a, err := svc.SubmitWithdrawal(ctx, 1, dec("10"), testBank)
	require.NoError(t, err)
	_, err = svc.SubmitWithdrawal(ctx, 2, dec("20"), testBank)
	require.NoError(t, err)
	_, err = svc.SubmitWithdrawal(ctx, 1, dec("30"), testBank)
	require.NoError(t, err)
	_, err = svc.RejectWithdrawal(ctx, a.ID, reviewer)
	require.NoError(t, err)

	mine, err := svc.OwnerWithdrawals(ctx, 1, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)

	pending, err := svc.ListWithdrawals(ctx, WithdrawalFilter{Status: domain.WithdrawalPending}, Page{})
	require.NoError(t, err)
	require.Len(t, pending.Items, 2)
	assert.Less(t, pending.Items[0].ID, pending.Items[1].ID)

	all, err := svc.ListWithdrawals(ctx, WithdrawalFilter{}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
}
