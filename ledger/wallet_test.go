package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vantor/models"
)

func TestGetOrCreateWalletIsPerKind(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")

	var dep, prof, again *models.Wallet
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		if dep, err = GetOrCreateWallet(tx, u.ID, models.WalletDeposit); err != nil {
			return err
		}
		if prof, err = GetOrCreateWallet(tx, u.ID, models.WalletProfit); err != nil {
			return err
		}
		again, err = GetOrCreateWallet(tx, u.ID, models.WalletDeposit)
		return err
	}))

	assert.NotEqual(t, dep.ID, prof.ID)
	assert.Equal(t, dep.ID, again.ID)
	assert.True(t, dep.AvailableBalance.IsZero())
	assert.True(t, dep.LockedBalance.IsZero())
}

func TestCreditAndDebit(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("100.00"))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Debit(tx, w.ID, dec("40.50"))
	}))

	available, _ := walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("59.50")), "got %s", available)
}

func TestDebitInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("10.00"))

	err := db.Transaction(func(tx *gorm.DB) error {
		return Debit(tx, w.ID, dec("10.01"))
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// The failed debit must not have touched the balance.
	available, _ := walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("10.00")))
}

func TestCreditRejectsNonPositiveAmounts(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("10.00"))

	for _, amount := range []decimal.Decimal{decimal.Zero, dec("-5.00")} {
		err := db.Transaction(func(tx *gorm.DB) error {
			return Credit(tx, w.ID, amount)
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)

		err = db.Transaction(func(tx *gorm.DB) error {
			return Debit(tx, w.ID, amount)
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestHoldSettleAndRelease(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("100.00"))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Hold(tx, w.ID, dec("30.00"))
	}))
	available, locked := walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("70.00")))
	assert.True(t, locked.Equal(dec("30.00")))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ReleaseHold(tx, w.ID, dec("30.00"))
	}))
	available, locked = walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("100.00")))
	assert.True(t, locked.IsZero())

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := Hold(tx, w.ID, dec("25.00")); err != nil {
			return err
		}
		return SettleHold(tx, w.ID, dec("25.00"))
	}))
	available, locked = walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("75.00")))
	assert.True(t, locked.IsZero())
}

func TestHoldInsufficientAvailable(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("20.00"))

	err := db.Transaction(func(tx *gorm.DB) error {
		return Hold(tx, w.ID, dec("20.01"))
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	err = db.Transaction(func(tx *gorm.DB) error {
		return SettleHold(tx, w.ID, dec("1.00"))
	})
	require.ErrorIs(t, err, ErrInsufficientBalance, "settling more than is locked must fail")
}
