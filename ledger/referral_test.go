package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vantor/models"
)

func seedReferredPair(t *testing.T, db *gorm.DB) (referrer, referee *models.User) {
	t.Helper()
	referrer = seedUser(t, db, "referrer@example.com", "REF001")
	referee = seedUser(t, db, "referee@example.com", "REF002")
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return LinkReferral(tx, referrer.ID, referee.ID, testNow)
	}))
	return referrer, referee
}

func TestResolveReferrer(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")

	got, err := ResolveReferrer(db, "AAA111")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = ResolveReferrer(db, "NOPE")
	require.ErrorIs(t, err, ErrInvalidReferralCode)
}

func TestDepositApprovalPaysReferralBonus(t *testing.T) {
	db := newTestDB(t)
	referrer, referee := seedReferredPair(t, db)

	dep, err := CreateDeposit(db, referee.ID, dec("200.00"), "USDT", "")
	require.NoError(t, err)
	require.NoError(t, ApproveDeposit(db, testAdmin, dep.ID, testNow, NopNotifier{}))

	var bonus models.Wallet
	require.NoError(t, db.Where("user_id = ? AND kind = ?", referrer.ID, models.WalletBonus).First(&bonus).Error)
	assert.True(t, bonus.AvailableBalance.Equal(dec("20.00")), "10%% of 200, got %s", bonus.AvailableBalance)

	var trx models.Transaction
	require.NoError(t, db.Where("kind = ? AND user_id = ?", models.TxReferral, referrer.ID).First(&trx).Error)
	assert.Equal(t, models.TxCompleted, trx.Status)

	var ref models.Referral
	require.NoError(t, db.Where("referee_id = ?", referee.ID).First(&ref).Error)
	assert.True(t, ref.Earnings.Equal(dec("20.00")))
	assert.NotNil(t, ref.FirstDepositAt)
	assert.NotNil(t, ref.LastEarningAt)
}

func TestPurchasePaysReferralBonus(t *testing.T) {
	db := newTestDB(t)
	referrer, referee := seedReferredPair(t, db)
	plan := seedPlan(t, db, standardPlan())
	fundWallet(t, db, referee.ID, models.WalletDeposit, dec("1000.00"))

	_, err := Purchase(db, referee.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	var bonus models.Wallet
	require.NoError(t, db.Where("user_id = ? AND kind = ?", referrer.ID, models.WalletBonus).First(&bonus).Error)
	assert.True(t, bonus.AvailableBalance.Equal(dec("50.00")))

	var ref models.Referral
	require.NoError(t, db.Where("referee_id = ?", referee.ID).First(&ref).Error)
	assert.Nil(t, ref.FirstDepositAt, "an investment is not a deposit")
	assert.True(t, ref.Earnings.Equal(dec("50.00")))
}

func TestUnreferredUserPaysNoBonus(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "solo@example.com", "SOLO01")
	plan := seedPlan(t, db, standardPlan())
	fundWallet(t, db, u.ID, models.WalletDeposit, dec("1000.00"))

	_, err := Purchase(db, u.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("kind = ?", models.TxReferral).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReferralBonusAccumulates(t *testing.T) {
	db := newTestDB(t)
	referrer, referee := seedReferredPair(t, db)

	for _, amount := range []string{"100.00", "50.00"} {
		dep, err := CreateDeposit(db, referee.ID, dec(amount), "USDT", "")
		require.NoError(t, err)
		require.NoError(t, ApproveDeposit(db, testAdmin, dep.ID, testNow, NopNotifier{}))
	}

	var ref models.Referral
	require.NoError(t, db.Where("referee_id = ?", referee.ID).First(&ref).Error)
	assert.True(t, ref.Earnings.Equal(dec("15.00")), "got %s", ref.Earnings)

	var bonus models.Wallet
	require.NoError(t, db.Where("user_id = ? AND kind = ?", referrer.ID, models.WalletBonus).First(&bonus).Error)
	assert.True(t, bonus.AvailableBalance.Equal(dec("15.00")))
}
