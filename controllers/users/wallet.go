package users

import (
	"net/http"

	"vantor/database"
	"vantor/models"
	"vantor/utils"

	"gorm.io/gorm"
)

type walletDTO struct {
	ID               uint   `json:"id"`
	Kind             string `json:"kind"`
	AvailableBalance string `json:"available_balance"`
	LockedBalance    string `json:"locked_balance"`
}

// GET /wallets
func MyWalletsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var wallets []models.Wallet
	if err := db.Where("user_id = ?", uid).Order("kind asc").Find(&wallets).Error; err != nil && err != gorm.ErrRecordNotFound {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	items := make([]walletDTO, 0, len(wallets))
	for _, wlt := range wallets {
		items = append(items, walletDTO{
			ID:               wlt.ID,
			Kind:             wlt.Kind,
			AvailableBalance: wlt.AvailableBalance.String(),
			LockedBalance:    wlt.LockedBalance.String(),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"wallets": items},
	})
}
