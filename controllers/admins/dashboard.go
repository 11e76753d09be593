package admins

import (
	"net/http"
	"time"

	"vantor/database"
	"vantor/models"
	"vantor/utils"
)

// GET /admin/dashboard: headline figures for the back office.
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var totalUsers int64
	db.Model(&models.User{}).Count(&totalUsers)

	var activeInvestments int64
	db.Model(&models.Investment{}).Where("status = ?", models.InvestmentActive).Count(&activeInvestments)

	var totalInvested float64
	db.Model(&models.Investment{}).Select("COALESCE(SUM(principal),0)").Scan(&totalInvested)

	var totalProfitPaid float64
	db.Model(&models.Transaction{}).
		Where("kind = ? AND status = ?", models.TxDividend, models.TxCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&totalProfitPaid)

	var pendingWithdrawals int64
	db.Model(&models.Transaction{}).
		Where("kind = ? AND status = ?", models.TxWithdrawal, models.TxPending).
		Count(&pendingWithdrawals)

	var pendingDeposits int64
	db.Model(&models.Deposit{}).Where("status = ?", models.DepositPending).Count(&pendingDeposits)

	var pendingKyc int64
	db.Model(&models.KycVerification{}).Where("status = ?", models.KycPending).Count(&pendingKyc)

	// Last accrual day with at least one payout
	var lastAccrualDate string
	db.Model(&models.InvestmentProfit{}).Select("COALESCE(MAX(profit_date), '')").Scan(&lastAccrualDate)

	since := time.Now().AddDate(0, 0, -7)
	var newUsersWeek int64
	db.Model(&models.User{}).Where("created_at >= ?", since).Count(&newUsersWeek)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"total_users":         totalUsers,
			"new_users_week":      newUsersWeek,
			"active_investments":  activeInvestments,
			"total_invested":      totalInvested,
			"total_profit_paid":   totalProfitPaid,
			"pending_withdrawals": pendingWithdrawals,
			"pending_deposits":    pendingDeposits,
			"pending_kyc":         pendingKyc,
			"last_accrual_date":   lastAccrualDate,
		},
	})
}
