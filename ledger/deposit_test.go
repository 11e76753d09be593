package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantor/models"
)

func TestDepositWebhookNeverCredits(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")

	dep, err := CreateDeposit(db, u.ID, dec("75.00"), "USDT", "TPayAddress123")
	require.NoError(t, err)
	require.NotEmpty(t, dep.ExternalPaymentID)

	require.NoError(t, AffirmDepositWebhook(db, dep.ExternalPaymentID, "0xabc123"))

	var got models.Deposit
	require.NoError(t, db.First(&got, dep.ID).Error)
	assert.Equal(t, models.DepositPending, got.Status, "webhook must not complete a deposit")
	require.NotNil(t, got.TxHash)
	assert.Equal(t, "0xabc123", *got.TxHash)

	var w models.Wallet
	require.NoError(t, db.Where("user_id = ? AND kind = ?", u.ID, models.WalletDeposit).First(&w).Error)
	assert.True(t, w.AvailableBalance.IsZero(), "no credit before admin approval")
}

func TestDepositApproveCreditsOnce(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")

	dep, err := CreateDeposit(db, u.ID, dec("75.00"), "USDT", "")
	require.NoError(t, err)

	require.NoError(t, ApproveDeposit(db, testAdmin, dep.ID, testNow, NopNotifier{}))

	var w models.Wallet
	require.NoError(t, db.Where("user_id = ? AND kind = ?", u.ID, models.WalletDeposit).First(&w).Error)
	assert.True(t, w.AvailableBalance.Equal(dec("75.00")))

	var got models.Deposit
	require.NoError(t, db.First(&got, dep.ID).Error)
	assert.Equal(t, models.DepositCompleted, got.Status)

	var trx models.Transaction
	require.NoError(t, db.First(&trx, dep.TransactionID).Error)
	assert.Equal(t, models.TxCompleted, trx.Status)

	require.ErrorIs(t, ApproveDeposit(db, testAdmin, dep.ID, testNow, NopNotifier{}), ErrAlreadyProcessed)

	require.NoError(t, db.Where("user_id = ? AND kind = ?", u.ID, models.WalletDeposit).First(&w).Error)
	assert.True(t, w.AvailableBalance.Equal(dec("75.00")), "double approval must not double credit")
}

func TestDepositRejectLeavesBalanceUntouched(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")

	dep, err := CreateDeposit(db, u.ID, dec("75.00"), "USDT", "")
	require.NoError(t, err)

	require.NoError(t, RejectDeposit(db, testAdmin, dep.ID, NopNotifier{}))

	var got models.Deposit
	require.NoError(t, db.First(&got, dep.ID).Error)
	assert.Equal(t, models.DepositFailed, got.Status)

	var trx models.Transaction
	require.NoError(t, db.First(&trx, dep.TransactionID).Error)
	assert.Equal(t, models.TxFailed, trx.Status)

	var w models.Wallet
	require.NoError(t, db.Where("user_id = ? AND kind = ?", u.ID, models.WalletDeposit).First(&w).Error)
	assert.True(t, w.AvailableBalance.IsZero())

	// A rejected deposit cannot be revived.
	require.ErrorIs(t, ApproveDeposit(db, testAdmin, dep.ID, testNow, NopNotifier{}), ErrAlreadyProcessed)
}

func TestDepositWebhookUnknownPayment(t *testing.T) {
	db := newTestDB(t)
	require.ErrorIs(t, AffirmDepositWebhook(db, "does-not-exist", "0xabc"), ErrNotFound)
}
