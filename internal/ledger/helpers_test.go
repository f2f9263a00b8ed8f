package ledger

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"voucher_wallet/internal/db"
	"voucher_wallet/internal/domain"
)

// newTestDB opens a private in-memory SQLite database with the wallet schema.
// A single connection serializes transactions the way row locks would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func newTestService(t *testing.T, opts ...Option) (*Service, *gorm.DB, *test.Hook) {
	t.Helper()
	gdb := newTestDB(t)
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	opts = append([]Option{WithLogger(log)}, opts...)
	return NewService(gdb, opts...), gdb, hook
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fund gives owner a starting balance through a deposit.
func fund(t *testing.T, svc *Service, owner uint, amount string) domain.Account {
	t.Helper()
	_, err := svc.Deposit(context.Background(), owner, dec(amount))
	require.NoError(t, err)
	account, err := svc.Account(context.Background(), owner)
	require.NoError(t, err)
	return account
}

// requireBalanced asserts balance == credits - debits for every account.
func requireBalanced(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	var accounts []domain.Account
	require.NoError(t, gdb.Find(&accounts).Error)
	for _, account := range accounts {
		var entries []domain.LedgerEntry
		require.NoError(t, gdb.Where("account_id = ?", account.ID).Order("id asc").Find(&entries).Error)
		sum := decimal.Zero
		for _, e := range entries {
			sum = sum.Add(e.Signed())
			require.True(t, sum.Equal(e.BalanceAfter), "entry %d balance_after %s, running sum %s", e.ID, e.BalanceAfter, sum)
		}
		require.True(t, sum.Equal(account.Balance), "account %d balance %s, entries sum %s", account.ID, account.Balance, sum)
		require.False(t, account.Balance.IsNegative())
	}
}

// fixedCodes replays a fixed sequence of codes, repeating the last one.
type fixedCodes struct {
	codes []string
	calls int
}

func (f *fixedCodes) NewCode() (string, error) {
	i := f.calls
	if i >= len(f.codes) {
		i = len(f.codes) - 1
	}
	f.calls++
	return f.codes[i], nil
}
