package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantor/models"
)

var testAdmin = AdminCapability{AdminID: 7}

func TestWithdrawalApproveRoundTrip(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	acc := seedAccount(t, db, u.ID)
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("100.00"))

	wd, err := RequestWithdrawal(db, u.ID, w.ID, acc.ID, dec("20.00"), dec("1.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	available, locked := walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("80.00")), "debited at request time, got %s", available)
	assert.True(t, locked.Equal(dec("20.00")))

	var trx models.Transaction
	require.NoError(t, db.First(&trx, wd.TransactionID).Error)
	assert.Equal(t, models.TxPending, trx.Status)
	assert.True(t, trx.Fee.Equal(dec("1.00")))

	require.NoError(t, ApproveWithdrawal(db, testAdmin, wd.ID, testNow, NopNotifier{}))

	available, locked = walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("80.00")))
	assert.True(t, locked.IsZero(), "hold settled on approval")

	require.NoError(t, db.First(&trx, wd.TransactionID).Error)
	assert.Equal(t, models.TxCompleted, trx.Status)

	var got models.Withdrawal
	require.NoError(t, db.First(&got, wd.ID).Error)
	require.NotNil(t, got.ApprovedBy)
	assert.EqualValues(t, testAdmin.AdminID, *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)
}

func TestWithdrawalRejectRestoresBalance(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	acc := seedAccount(t, db, u.ID)
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("100.00"))

	wd, err := RequestWithdrawal(db, u.ID, w.ID, acc.ID, dec("20.00"), dec("0"), testNow, NopNotifier{})
	require.NoError(t, err)

	require.NoError(t, RejectWithdrawal(db, testAdmin, wd.ID, "address flagged", testNow, NopNotifier{}))

	available, locked := walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("100.00")), "rejection refunds in full, got %s", available)
	assert.True(t, locked.IsZero())

	var trx models.Transaction
	require.NoError(t, db.First(&trx, wd.TransactionID).Error)
	assert.Equal(t, models.TxCancelled, trx.Status)

	var got models.Withdrawal
	require.NoError(t, db.First(&got, wd.ID).Error)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, "address flagged", *got.RejectionReason)
}

func TestWithdrawalDecisionIsFinal(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	acc := seedAccount(t, db, u.ID)
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("100.00"))

	wd, err := RequestWithdrawal(db, u.ID, w.ID, acc.ID, dec("20.00"), dec("0"), testNow, NopNotifier{})
	require.NoError(t, err)

	require.NoError(t, ApproveWithdrawal(db, testAdmin, wd.ID, testNow, NopNotifier{}))
	require.ErrorIs(t, ApproveWithdrawal(db, testAdmin, wd.ID, testNow, NopNotifier{}), ErrAlreadyProcessed)
	require.ErrorIs(t, RejectWithdrawal(db, testAdmin, wd.ID, "too late", testNow, NopNotifier{}), ErrAlreadyProcessed)

	// The rejected reject must not have released anything.
	available, locked := walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("80.00")))
	assert.True(t, locked.IsZero())
}

func TestWithdrawalRequiresKycAboveCap(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	acc := seedAccount(t, db, u.ID)
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("100.00"))

	_, err := RequestWithdrawal(db, u.ID, w.ID, acc.ID, dec("25.01"), dec("0"), testNow, NopNotifier{})
	require.ErrorIs(t, err, ErrKycRequired)

	// At or below the cap no verification is needed.
	_, err = RequestWithdrawal(db, u.ID, w.ID, acc.ID, dec("25.00"), dec("0"), testNow, NopNotifier{})
	require.NoError(t, err)

	// Verified users are uncapped.
	require.NoError(t, db.Model(u).Update("kyc_status", models.KycApproved).Error)
	_, err = RequestWithdrawal(db, u.ID, w.ID, acc.ID, dec("50.00"), dec("0"), testNow, NopNotifier{})
	require.NoError(t, err)
}

func TestWithdrawalBlockedDuringLockWindow(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	acc := seedAccount(t, db, u.ID)

	p := standardPlan()
	p.WithdrawalLockDays = 7
	plan := seedPlan(t, db, p)
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("1000.00"))

	_, err := Purchase(db, u.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	_, err = RequestWithdrawal(db, u.ID, w.ID, acc.ID, dec("10.00"), dec("0"), testNow.AddDate(0, 0, 3), NopNotifier{})
	require.ErrorIs(t, err, ErrWithdrawalLocked)

	_, err = RequestWithdrawal(db, u.ID, w.ID, acc.ID, dec("10.00"), dec("0"), testNow.AddDate(0, 0, 7), NopNotifier{})
	require.NoError(t, err)
}

func TestWithdrawalInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	acc := seedAccount(t, db, u.ID)
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("10.00"))

	_, err := RequestWithdrawal(db, u.ID, w.ID, acc.ID, dec("10.01"), dec("0"), testNow, NopNotifier{})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	var count int64
	require.NoError(t, db.Model(&models.Withdrawal{}).Count(&count).Error)
	assert.Zero(t, count, "failed request leaves no withdrawal row")
}

func TestWithdrawalForeignWalletRefused(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "a@example.com", "AAA111")
	other := seedUser(t, db, "b@example.com", "BBB222")
	acc := seedAccount(t, db, other.ID)
	w := fundWallet(t, db, owner.ID, models.WalletDeposit, dec("100.00"))

	// Other cannot withdraw from owner's wallet.
	_, err := RequestWithdrawal(db, other.ID, w.ID, acc.ID, dec("10.00"), dec("0"), testNow, NopNotifier{})
	require.ErrorIs(t, err, ErrNotFound)
}
