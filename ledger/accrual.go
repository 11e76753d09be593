package ledger

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vantor/models"
)

// AccrualReport summarizes one run of the daily profit job.
type AccrualReport struct {
	Processed        int             `json:"processed"`
	Succeeded        int             `json:"succeeded"`
	Skipped          int             `json:"skipped"`
	FailedIDs        []uint          `json:"failed_ids"`
	Completed        int             `json:"completed"`
	TotalDistributed decimal.Decimal `json:"total_distributed"`
}

// RunDailyAccrual posts one day's profit to every ACTIVE investment. Each
// investment is its own atomic unit: a failure rolls back that investment's
// writes and the run continues with its siblings. Invoking the job twice on
// the same day is a no-op for investments already accrued (the
// (investment_id, profit_date) uniqueness makes the race loser roll back).
// A hard error is returned only when the initial fetch fails.
func RunDailyAccrual(db *gorm.DB, now time.Time, n Notifier) (AccrualReport, error) {
	report := AccrualReport{TotalDistributed: decimal.Zero}
	day := now.Format("2006-01-02")

	var active []models.Investment
	if err := db.Where("status = ?", models.InvestmentActive).Find(&active).Error; err != nil {
		return report, err
	}

	for i := range active {
		id := active[i].ID
		report.Processed++

		res, err := accrueOne(db, id, day, now, n)
		if err != nil {
			log.Printf("[accrual] investment %d failed: %v", id, err)
			report.FailedIDs = append(report.FailedIDs, id)
			continue
		}
		if res.skipped {
			report.Skipped++
			continue
		}
		report.Succeeded++
		report.TotalDistributed = report.TotalDistributed.Add(res.amount)
		if res.completed {
			report.Completed++
		}
	}

	log.Printf("[accrual] run for %s: processed=%d succeeded=%d skipped=%d failed=%d completed=%d distributed=%s",
		day, report.Processed, report.Succeeded, report.Skipped, len(report.FailedIDs), report.Completed,
		report.TotalDistributed.StringFixed(2))
	return report, nil
}

type accrualResult struct {
	amount    decimal.Decimal
	skipped   bool
	completed bool
}

func accrueOne(db *gorm.DB, investmentID uint, day string, now time.Time, n Notifier) (accrualResult, error) {
	var res accrualResult
	var owner uint
	var planName string

	err := db.Transaction(func(tx *gorm.DB) error {
		var inv models.Investment
		if err := forUpdate(tx).First(&inv, investmentID).Error; err != nil {
			return err
		}
		// Status may have changed since the fetch (parallel run already
		// completed it).
		if inv.Status != models.InvestmentActive {
			res.skipped = true
			return nil
		}

		var done int64
		if err := tx.Model(&models.InvestmentProfit{}).
			Where("investment_id = ? AND profit_date = ?", inv.ID, day).
			Count(&done).Error; err != nil {
			return err
		}
		if done > 0 {
			res.skipped = true
			return nil
		}

		var plan models.InvestmentPlan
		if err := tx.First(&plan, inv.PlanID).Error; err != nil {
			return err
		}
		owner = inv.UserID
		planName = plan.Name

		lastDay := !dateOf(now).Before(dateOf(inv.EndDate))
		amount := dailyInstallment(inv, plan, lastDay)
		if !amount.IsPositive() {
			// Term fully paid out; only the completion transition remains.
			if lastDay {
				return completeInvestment(tx, &inv, plan, now, &res)
			}
			res.skipped = true
			return nil
		}

		wallet, err := GetOrCreateWallet(tx, inv.UserID, models.WalletProfit)
		if err != nil {
			return err
		}
		if err := Credit(tx, wallet.ID, amount); err != nil {
			return err
		}

		trx, err := Record(tx, RecordParams{
			UserID:   inv.UserID,
			WalletID: wallet.ID,
			Kind:     models.TxDividend,
			Status:   models.TxCompleted,
			Amount:   amount,
			Message:  fmt.Sprintf("Daily profit for plan %s", plan.Name),
			Metadata: map[string]string{"investment_id": strconv.FormatUint(uint64(inv.ID), 10)},
		})
		if err != nil {
			return err
		}

		profit := models.InvestmentProfit{
			InvestmentID:  inv.ID,
			TransactionID: trx.ID,
			Amount:        amount,
			ProfitDate:    day,
		}
		if err := tx.Create(&profit).Error; err != nil {
			return err
		}

		if err := tx.Model(&inv).Update("profit_earned", inv.ProfitEarned.Add(amount).Round(2)).Error; err != nil {
			return err
		}
		res.amount = amount

		if lastDay {
			return completeInvestment(tx, &inv, plan, now, &res)
		}
		return nil
	})
	if err != nil {
		return accrualResult{}, err
	}

	if n != nil && !res.skipped && res.amount.IsPositive() {
		n.Notify(owner, "Daily profit credited",
			fmt.Sprintf("%s profit from plan %s was added to your profit wallet.", res.amount.StringFixed(2), planName),
			map[string]string{"investment_id": strconv.FormatUint(uint64(investmentID), 10)})
	}
	if n != nil && res.completed {
		n.Notify(owner, "Investment completed",
			fmt.Sprintf("Your investment in plan %s has completed its term.", planName),
			map[string]string{"investment_id": strconv.FormatUint(uint64(investmentID), 10)})
	}
	return res, nil
}

// dailyInstallment amortizes expected_total_profit over duration_days so the
// accruals sum exactly to the contractual total. The final installment carries
// the rounding remainder.
func dailyInstallment(inv models.Investment, plan models.InvestmentPlan, lastDay bool) decimal.Decimal {
	remaining := inv.ExpectedTotalProfit.Sub(inv.ProfitEarned)
	if !remaining.IsPositive() {
		return decimal.Zero
	}
	if lastDay {
		return remaining.Round(2)
	}
	days := int64(plan.DurationDays)
	if days <= 0 {
		days = 1
	}
	amount := inv.ExpectedTotalProfit.DivRound(decimal.NewFromInt(days), 2)
	if amount.GreaterThan(remaining) {
		amount = remaining.Round(2)
	}
	return amount
}

func completeInvestment(tx *gorm.DB, inv *models.Investment, plan models.InvestmentPlan, now time.Time, res *accrualResult) error {
	if err := tx.Model(inv).Update("status", models.InvestmentCompleted).Error; err != nil {
		return err
	}
	res.completed = true
	res.skipped = false

	if !plan.CapitalReturn {
		return nil
	}
	wallet, err := GetOrCreateWallet(tx, inv.UserID, models.WalletDeposit)
	if err != nil {
		return err
	}
	if err := Credit(tx, wallet.ID, inv.Principal); err != nil {
		return err
	}
	_, err = Record(tx, RecordParams{
		UserID:   inv.UserID,
		WalletID: wallet.ID,
		Kind:     models.TxDeposit,
		Status:   models.TxCompleted,
		Amount:   inv.Principal,
		Message:  fmt.Sprintf("Capital returned for plan %s", plan.Name),
		Metadata: map[string]string{"investment_id": strconv.FormatUint(uint64(inv.ID), 10)},
	})
	return err
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
