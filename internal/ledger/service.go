package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"voucher_wallet/internal/domain"
)

const depositReason = "deposit simulation"

// Service is the entry point of the wallet ledger. Each method runs in its
// own transaction; identities are explicit parameters and role checks are
// left to the caller.
type Service struct {
	db          *gorm.DB
	log         logrus.FieldLogger
	accounts    AccountStore
	ledger      Ledger
	vouchers    Registry
	redemptions Engine
	withdrawals Workflow
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger replaces the standard logrus logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

// WithCodeGenerator replaces the random voucher code generator.
func WithCodeGenerator(codes CodeGenerator) Option {
	return func(s *Service) { s.vouchers.codes = codes }
}

// NewService wires the ledger components over db.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:       db,
		log:      logrus.StandardLogger(),
		vouchers: Registry{codes: RandomCodes{Length: codeLength}},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ledger = Ledger{accounts: s.accounts}
	s.redemptions = Engine{vouchers: s.vouchers, accounts: s.accounts, ledger: s.ledger}
	s.withdrawals = Workflow{accounts: s.accounts, ledger: s.ledger}
	return s
}

// Account returns the owner's wallet, creating it on first access.
func (s *Service) Account(ctx context.Context, ownerID uint) (domain.Account, error) {
	var account domain.Account
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		account, err = s.accounts.GetOrCreate(tx, ownerID)
		return err
	})
	if err != nil {
		s.fail("get account", logrus.Fields{"owner_id": ownerID}, err)
		return domain.Account{}, err
	}
	return account, nil
}

// History pages through the owner's ledger entries, most recent first.
func (s *Service) History(ctx context.Context, ownerID uint, page Page) (Paged[domain.LedgerEntry], error) {
	var entries Paged[domain.LedgerEntry]
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		account, err := s.accounts.GetOrCreate(tx, ownerID)
		if err != nil {
			return err
		}
		entries, err = s.ledger.History(tx, account.ID, page)
		return err
	})
	if err != nil {
		s.fail("history", logrus.Fields{"owner_id": ownerID}, err)
		return Paged[domain.LedgerEntry]{}, err
	}
	return entries, nil
}

// Deposit credits the owner's wallet with simulated external funds.
func (s *Service) Deposit(ctx context.Context, ownerID uint, amount decimal.Decimal) (domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		account, err := s.accounts.GetOrCreate(tx, ownerID)
		if err != nil {
			return err
		}
		entry, err = s.ledger.Append(tx, account.ID, domain.EntryCredit, amount, depositReason)
		return err
	})
	fields := logrus.Fields{"owner_id": ownerID, "amount": amount.StringFixed(minorUnits)}
	if err != nil {
		s.fail("deposit", fields, err)
		return domain.LedgerEntry{}, err
	}
	fields["balance"] = entry.BalanceAfter.StringFixed(minorUnits)
	s.log.WithFields(fields).Info("Deposit credited")
	return entry, nil
}

// CreateVoucher mints a voucher for issuerID.
func (s *Service) CreateVoucher(ctx context.Context, issuerID uint, faceValue decimal.Decimal) (domain.Voucher, error) {
	var voucher domain.Voucher
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		voucher, err = s.vouchers.Create(tx, issuerID, faceValue)
		return err
	})
	fields := logrus.Fields{"issuer_id": issuerID, "face_value": faceValue.StringFixed(minorUnits)}
	if err != nil {
		s.fail("create voucher", fields, err)
		return domain.Voucher{}, err
	}
	fields["code"] = voucher.Code
	s.log.WithFields(fields).Info("Voucher created")
	return voucher, nil
}

// LookupVoucher returns the voucher for code.
func (s *Service) LookupVoucher(ctx context.Context, code string) (domain.Voucher, error) {
	var voucher domain.Voucher
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		voucher, err = s.vouchers.Lookup(tx, code)
		return err
	})
	if err != nil {
		s.fail("lookup voucher", logrus.Fields{"code": NormalizeCode(code)}, err)
		return domain.Voucher{}, err
	}
	return voucher, nil
}

// ListVouchers pages through vouchers matching filter.
func (s *Service) ListVouchers(ctx context.Context, filter VoucherFilter, page Page) (Paged[domain.Voucher], error) {
	var vouchers Paged[domain.Voucher]
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		vouchers, err = s.vouchers.List(tx, filter, page)
		return err
	})
	if err != nil {
		s.fail("list vouchers", nil, err)
		return Paged[domain.Voucher]{}, err
	}
	return vouchers, nil
}

// Redeem credits the voucher's face value to ownerID. At most one call per code ever succeeds.
func (s *Service) Redeem(ctx context.Context, code string, ownerID uint, channel Channel) (Redemption, error) {
	var result Redemption
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		result, err = s.redemptions.Redeem(tx, code, ownerID, channel)
		return err
	})
	fields := logrus.Fields{"code": NormalizeCode(code), "owner_id": ownerID, "channel": channel}
	if err != nil {
		s.fail("redeem voucher", fields, err)
		return Redemption{}, err
	}
	fields["amount"] = result.Credited.StringFixed(minorUnits)
	fields["balance"] = result.Balance.StringFixed(minorUnits)
	s.log.WithFields(fields).Info("Voucher redeemed")
	return result, nil
}

// SubmitWithdrawal files a pending withdrawal against the owner's wallet.
func (s *Service) SubmitWithdrawal(ctx context.Context, ownerID uint, amount decimal.Decimal, bank domain.BankDetails) (domain.WithdrawalRequest, error) {
	var req domain.WithdrawalRequest
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		account, err := s.accounts.GetOrCreate(tx, ownerID)
		if err != nil {
			return err
		}
		req, err = s.withdrawals.Submit(tx, account.ID, amount, bank)
		return err
	})
	fields := logrus.Fields{"owner_id": ownerID, "amount": amount.StringFixed(minorUnits)}
	if err != nil {
		s.fail("submit withdrawal", fields, err)
		return domain.WithdrawalRequest{}, err
	}
	fields["request_id"] = req.ID
	s.log.WithFields(fields).Info("Withdrawal submitted")
	return req, nil
}

// OwnerWithdrawals pages through the owner's own requests.
func (s *Service) OwnerWithdrawals(ctx context.Context, ownerID uint, page Page) (Paged[domain.WithdrawalRequest], error) {
	var requests Paged[domain.WithdrawalRequest]
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		account, err := s.accounts.GetOrCreate(tx, ownerID)
		if err != nil {
			return err
		}
		requests, err = s.withdrawals.List(tx, WithdrawalFilter{AccountID: &account.ID}, page)
		return err
	})
	if err != nil {
		s.fail("list owner withdrawals", logrus.Fields{"owner_id": ownerID}, err)
		return Paged[domain.WithdrawalRequest]{}, err
	}
	return requests, nil
}

// ListWithdrawals pages through requests matching filter, for the review queue.
func (s *Service) ListWithdrawals(ctx context.Context, filter WithdrawalFilter, page Page) (Paged[domain.WithdrawalRequest], error) {
	var requests Paged[domain.WithdrawalRequest]
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		requests, err = s.withdrawals.List(tx, filter, page)
		return err
	})
	if err != nil {
		s.fail("list withdrawals", logrus.Fields{"status": filter.Status}, err)
		return Paged[domain.WithdrawalRequest]{}, err
	}
	return requests, nil
}

// ApproveWithdrawal debits the account and approves the request on behalf of reviewerID.
func (s *Service) ApproveWithdrawal(ctx context.Context, requestID, reviewerID uint) (Review, error) {
	return s.review(ctx, "approve withdrawal", requestID, reviewerID, s.withdrawals.Approve)
}

// RejectWithdrawal rejects the request on behalf of reviewerID.
func (s *Service) RejectWithdrawal(ctx context.Context, requestID, reviewerID uint) (Review, error) {
	return s.review(ctx, "reject withdrawal", requestID, reviewerID, s.withdrawals.Reject)
}

func (s *Service) review(ctx context.Context, op string, requestID, reviewerID uint, decide func(*gorm.DB, uint, uint) (Review, error)) (Review, error) {
	var result Review
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		result, err = decide(tx, requestID, reviewerID)
		return err
	})
	fields := logrus.Fields{"request_id": requestID, "reviewer_id": reviewerID}
	if err != nil {
		s.fail(op, fields, err)
		return result, err
	}
	fields["status"] = result.Request.Status
	fields["changed"] = result.Changed
	s.log.WithFields(fields).Info("Withdrawal reviewed")
	return result, nil
}

// Stats summarizes the whole ledger for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		stats, err = collectStats(tx)
		return err
	})
	if err != nil {
		s.fail("stats", nil, err)
		return Stats{}, err
	}
	return stats, nil
}

// fail logs a failed operation. Storage errors are errors; business rejections are not.
func (s *Service) fail(op string, fields logrus.Fields, err error) {
	entry := s.log.WithFields(fields).WithField("op", op).WithError(err)
	switch {
	case errors.Is(err, domain.ErrStorageFailure):
		entry.Error("Ledger operation failed")
	case errors.Is(err, domain.ErrStorageConflict):
		entry.Warn("Ledger operation conflicted")
	default:
		entry.Info("Ledger operation rejected")
	}
}
