package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantor/models"
)

func standardPlan() models.InvestmentPlan {
	max := dec("10000.00")
	return models.InvestmentPlan{
		Name:               "Starter",
		MinAmount:          dec("100.00"),
		MaxAmount:          &max,
		DailyProfitPercent: dec("1.8"),
		DurationDays:       30,
		IsActive:           true,
	}
}

func TestPurchaseDebitsWalletAndCreatesInvestment(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	plan := seedPlan(t, db, standardPlan())
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("1000.00"))

	inv, err := Purchase(db, u.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.NoError(t, err)

	available, _ := walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("500.00")), "got %s", available)

	assert.Equal(t, models.InvestmentActive, inv.Status)
	assert.True(t, inv.Principal.Equal(dec("500.00")))
	// 500 * 1.8% * 30 days
	assert.True(t, inv.ExpectedTotalProfit.Equal(dec("270.00")), "got %s", inv.ExpectedTotalProfit)
	assert.Equal(t, testNow.AddDate(0, 0, 30), inv.EndDate)

	var trx models.Transaction
	require.NoError(t, db.First(&trx, inv.TransactionID).Error)
	assert.Equal(t, models.TxInvestment, trx.Kind)
	assert.Equal(t, models.TxCompleted, trx.Status)
}

func TestPurchaseInsufficientBalanceRollsBack(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	plan := seedPlan(t, db, standardPlan())
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("100.00"))

	_, err := Purchase(db, u.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	available, _ := walletBalances(t, db, w.ID)
	assert.True(t, available.Equal(dec("100.00")))

	var count int64
	require.NoError(t, db.Model(&models.Investment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPurchaseEnforcesPlanRange(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	plan := seedPlan(t, db, standardPlan())
	fundWallet(t, db, u.ID, models.WalletDeposit, dec("50000.00"))

	_, err := Purchase(db, u.ID, plan.ID, dec("99.99"), testNow, NopNotifier{})
	require.ErrorIs(t, err, ErrAmountOutOfRange)

	_, err = Purchase(db, u.ID, plan.ID, dec("10000.01"), testNow, NopNotifier{})
	require.ErrorIs(t, err, ErrAmountOutOfRange)
}

func TestPurchaseInactivePlan(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	p := standardPlan()
	p.IsActive = false
	plan := seedPlan(t, db, p)
	fundWallet(t, db, u.ID, models.WalletDeposit, dec("1000.00"))

	_, err := Purchase(db, u.ID, plan.ID, dec("500.00"), testNow, NopNotifier{})
	require.ErrorIs(t, err, ErrPlanInactive)
}

func TestPlanProfitFigures(t *testing.T) {
	p := standardPlan()

	assert.True(t, p.DailyProfitAmount(dec("500.00")).Equal(dec("9.00")))
	assert.True(t, p.ExpectedTotalProfit(dec("500.00")).Equal(dec("270.00")))
	assert.True(t, p.InRange(dec("100.00")))
	assert.False(t, p.InRange(dec("99.99")))

	p.MaxAmount = nil
	assert.True(t, p.InRange(dec("1000000.00")), "nil max means unbounded")
}
