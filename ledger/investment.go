package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vantor/models"
)

// Purchase commits principal to a plan. In one atomic unit: the DEPOSIT
// wallet is debited, a COMPLETED INVESTMENT transaction is recorded, the
// ACTIVE investment row is created and any referral bonus is attributed.
func Purchase(db *gorm.DB, userID, planID uint, amount decimal.Decimal, now time.Time, n Notifier) (*models.Investment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var inv models.Investment
	err := db.Transaction(func(tx *gorm.DB) error {
		var plan models.InvestmentPlan
		if err := tx.First(&plan, planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !plan.IsActive {
			return ErrPlanInactive
		}
		if !plan.InRange(amount) {
			return ErrAmountOutOfRange
		}

		wallet, err := GetOrCreateWallet(tx, userID, models.WalletDeposit)
		if err != nil {
			return err
		}
		if err := Debit(tx, wallet.ID, amount); err != nil {
			return err
		}

		trx, err := Record(tx, RecordParams{
			UserID:   userID,
			WalletID: wallet.ID,
			Kind:     models.TxInvestment,
			Status:   models.TxCompleted,
			Amount:   amount,
			Message:  fmt.Sprintf("Investment in plan %s", plan.Name),
			Metadata: map[string]string{"plan_id": strconv.FormatUint(uint64(plan.ID), 10)},
		})
		if err != nil {
			return err
		}

		start := now
		end := start.AddDate(0, 0, plan.DurationDays)
		inv = models.Investment{
			UserID:              userID,
			PlanID:              plan.ID,
			TransactionID:       trx.ID,
			Principal:           amount.Round(2),
			ExpectedTotalProfit: plan.ExpectedTotalProfit(amount),
			ProfitEarned:        decimal.Zero,
			StartDate:           start,
			EndDate:             end,
			Status:              models.InvestmentActive,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		return attributeReferral(tx, userID, trx, now)
	})
	if err != nil {
		return nil, err
	}

	if n != nil {
		n.Notify(userID, "Investment created",
			fmt.Sprintf("Your investment of %s is active until %s.", amount.StringFixed(2), inv.EndDate.Format("2006-01-02")),
			map[string]string{"investment_id": strconv.FormatUint(uint64(inv.ID), 10)})
	}
	return &inv, nil
}
