package users

import (
	"net/http"

	"vantor/database"
	"vantor/models"
	"vantor/utils"
)

// GET /me: the dashboard bootstrap payload: profile, wallets, totals and
// application settings in one round trip.
func UserInfoHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	var wallets []models.Wallet
	db.Where("user_id = ?", uid).Order("kind asc").Find(&wallets)
	walletData := make([]walletDTO, 0, len(wallets))
	for _, wlt := range wallets {
		walletData = append(walletData, walletDTO{
			ID:               wlt.ID,
			Kind:             wlt.Kind,
			AvailableBalance: wlt.AvailableBalance.String(),
			LockedBalance:    wlt.LockedBalance.String(),
		})
	}

	var activeInvestments int64
	db.Model(&models.Investment{}).Where("user_id = ? AND status = ?", uid, models.InvestmentActive).Count(&activeInvestments)

	var totalInvested float64
	db.Model(&models.Investment{}).Where("user_id = ?", uid).
		Select("COALESCE(SUM(principal),0)").Scan(&totalInvested)

	var totalProfit float64
	db.Model(&models.Investment{}).Where("user_id = ?", uid).
		Select("COALESCE(SUM(profit_earned),0)").Scan(&totalProfit)

	setting, settingErr := models.GetSetting(db)
	healthy := settingErr == nil
	if setting == nil {
		setting = &models.Setting{}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"name":       user.Name,
				"email":      user.Email,
				"reff_code":  user.ReffCode,
				"kyc_status": user.KycStatus,
				"status":     user.Status,
			},
			"wallets": walletData,
			"stats": map[string]interface{}{
				"active_investments": activeInvestments,
				"total_invested":     totalInvested,
				"total_profit":       totalProfit,
			},
			"application": map[string]interface{}{
				"name":                    setting.Name,
				"company":                 setting.Company,
				"logo":                    setting.Logo,
				"currency":                setting.Currency,
				"min_withdraw":            setting.MinWithdraw.String(),
				"max_withdraw":            setting.MaxWithdraw.String(),
				"withdraw_charge_percent": setting.WithdrawChargePercent.String(),
				"min_deposit":             setting.MinDeposit.String(),
				"maintenance":             setting.Maintenance,
				"link_support":            setting.LinkSupport,
				"healthy":                 healthy,
			},
		},
	})
}
