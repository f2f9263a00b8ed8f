package domain

import "errors"

var (
	// ErrNotFound is returned when a voucher, account or withdrawal request does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount is returned for non-positive amounts or amounts finer than a cent.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAlreadyRedeemed is returned when a voucher has been redeemed before.
	ErrAlreadyRedeemed = errors.New("voucher already redeemed")

	// ErrInsufficientFunds is returned when a debit exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrRequestClosed is returned when a withdrawal request is already in the opposite terminal state.
	ErrRequestClosed = errors.New("withdrawal request already closed")

	// ErrStorageConflict marks a transient transaction conflict. The caller may retry the whole operation.
	ErrStorageConflict = errors.New("storage conflict")

	// ErrStorageFailure marks a non-retryable persistence error.
	ErrStorageFailure = errors.New("storage failure")
)
