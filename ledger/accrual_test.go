package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantor/models"
)

func TestAccrualCreditsDailyProfit(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	plan := seedPlan(t, db, standardPlan())
	fundWallet(t, db, u.ID, models.WalletDeposit, dec("500.00"))

	inv, err := Purchase(db, u.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	report, err := RunDailyAccrual(db, testNow.AddDate(0, 0, 1), NopNotifier{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Empty(t, report.FailedIDs)
	// 270.00 amortized over 30 days
	assert.True(t, report.TotalDistributed.Equal(dec("9.00")), "got %s", report.TotalDistributed)

	var w models.Wallet
	require.NoError(t, db.Where("user_id = ? AND kind = ?", u.ID, models.WalletProfit).First(&w).Error)
	assert.True(t, w.AvailableBalance.Equal(dec("9.00")))

	var got models.Investment
	require.NoError(t, db.First(&got, inv.ID).Error)
	assert.True(t, got.ProfitEarned.Equal(dec("9.00")))

	var trx models.Transaction
	require.NoError(t, db.Where("kind = ?", models.TxDividend).First(&trx).Error)
	assert.Equal(t, models.TxCompleted, trx.Status)
}

func TestAccrualIdempotentWithinOneDay(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	plan := seedPlan(t, db, standardPlan())
	fundWallet(t, db, u.ID, models.WalletDeposit, dec("500.00"))

	_, err := Purchase(db, u.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	day := testNow.AddDate(0, 0, 1)
	first, err := RunDailyAccrual(db, day, NopNotifier{})
	require.NoError(t, err)
	require.Equal(t, 1, first.Succeeded)

	second, err := RunDailyAccrual(db, day, NopNotifier{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Succeeded)
	assert.Equal(t, 1, second.Skipped)
	assert.True(t, second.TotalDistributed.IsZero())

	var w models.Wallet
	require.NoError(t, db.Where("user_id = ? AND kind = ?", u.ID, models.WalletProfit).First(&w).Error)
	assert.True(t, w.AvailableBalance.Equal(dec("9.00")), "second run must not credit again, got %s", w.AvailableBalance)

	var rows int64
	require.NoError(t, db.Model(&models.InvestmentProfit{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestAccrualConservesExpectedTotalProfit(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	plan := seedPlan(t, db, standardPlan())
	fundWallet(t, db, u.ID, models.WalletDeposit, dec("500.00"))

	inv, err := Purchase(db, u.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	for d := 1; d <= plan.DurationDays; d++ {
		_, err := RunDailyAccrual(db, testNow.AddDate(0, 0, d), NopNotifier{})
		require.NoError(t, err)
	}

	var got models.Investment
	require.NoError(t, db.First(&got, inv.ID).Error)
	assert.Equal(t, models.InvestmentCompleted, got.Status)
	assert.True(t, got.ProfitEarned.Equal(dec("270.00")), "got %s", got.ProfitEarned)

	var w models.Wallet
	require.NoError(t, db.Where("user_id = ? AND kind = ?", u.ID, models.WalletProfit).First(&w).Error)
	assert.True(t, w.AvailableBalance.Equal(dec("270.00")))

	// A completed investment accrues nothing further.
	report, err := RunDailyAccrual(db, testNow.AddDate(0, 0, plan.DurationDays+1), NopNotifier{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
}

func TestAccrualFinalInstallmentCarriesRemainder(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	// 100 * 3.3333% * 3 days = 10.00 total; 10/3 does not divide evenly.
	plan := seedPlan(t, db, models.InvestmentPlan{
		Name:               "Short",
		MinAmount:          dec("50.00"),
		DailyProfitPercent: dec("3.3333"),
		DurationDays:       3,
		IsActive:           true,
	})
	fundWallet(t, db, u.ID, models.WalletDeposit, dec("100.00"))

	inv, err := Purchase(db, u.ID, plan.ID, dec("100.00"), testNow, NopNotifier{})
	require.NoError(t, err)
	require.True(t, inv.ExpectedTotalProfit.Equal(dec("10.00")), "got %s", inv.ExpectedTotalProfit)

	for d := 1; d <= 3; d++ {
		_, err := RunDailyAccrual(db, testNow.AddDate(0, 0, d), NopNotifier{})
		require.NoError(t, err)
	}

	var profits []models.InvestmentProfit
	require.NoError(t, db.Where("investment_id = ?", inv.ID).Order("id").Find(&profits).Error)
	require.Len(t, profits, 3)
	assert.True(t, profits[0].Amount.Equal(dec("3.33")))
	assert.True(t, profits[1].Amount.Equal(dec("3.33")))
	assert.True(t, profits[2].Amount.Equal(dec("3.34")), "last installment carries the remainder, got %s", profits[2].Amount)

	var got models.Investment
	require.NoError(t, db.First(&got, inv.ID).Error)
	assert.Equal(t, models.InvestmentCompleted, got.Status)
	assert.True(t, got.ProfitEarned.Equal(dec("10.00")))
}

func TestAccrualReturnsCapitalOnCompletion(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	plan := seedPlan(t, db, models.InvestmentPlan{
		Name:               "Principal Back",
		MinAmount:          dec("50.00"),
		DailyProfitPercent: dec("1.0"),
		DurationDays:       2,
		CapitalReturn:      true,
		IsActive:           true,
	})
	depositWallet := fundWallet(t, db, u.ID, models.WalletDeposit, dec("200.00"))

	_, err := Purchase(db, u.ID, plan.ID, dec("200.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	available, _ := walletBalances(t, db, depositWallet.ID)
	require.True(t, available.IsZero())

	for d := 1; d <= 2; d++ {
		_, err := RunDailyAccrual(db, testNow.AddDate(0, 0, d), NopNotifier{})
		require.NoError(t, err)
	}

	available, _ = walletBalances(t, db, depositWallet.ID)
	assert.True(t, available.Equal(dec("200.00")), "principal returned to deposit wallet, got %s", available)

	var trx models.Transaction
	err = db.Where("kind = ? AND wallet_id = ?", models.TxDeposit, depositWallet.ID).First(&trx).Error
	require.NoError(t, err)
	assert.True(t, trx.Amount.Equal(dec("200.00")))
}

func TestAccrualMissedDaysStillConserveTotal(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	plan := seedPlan(t, db, standardPlan())
	fundWallet(t, db, u.ID, models.WalletDeposit, dec("500.00"))

	inv, err := Purchase(db, u.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	// Job runs only on three days, the last one past the end date: the final
	// installment pays out the whole remaining balance.
	for _, d := range []int{1, 2, 31} {
		_, err := RunDailyAccrual(db, testNow.AddDate(0, 0, d), NopNotifier{})
		require.NoError(t, err)
	}

	var got models.Investment
	require.NoError(t, db.First(&got, inv.ID).Error)
	assert.Equal(t, models.InvestmentCompleted, got.Status)
	assert.True(t, got.ProfitEarned.Equal(dec("270.00")), "got %s", got.ProfitEarned)
}
