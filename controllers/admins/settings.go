package admins

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"vantor/database"
	"vantor/models"
	"vantor/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GET /admin/settings
func GetSettings(w http.ResponseWriter, r *http.Request) {
	setting, err := models.GetSetting(database.DB)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Settings not initialized"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"settings": setting},
	})
}

type UpdateSettingsRequest struct {
	Name                  *string `json:"name"`
	Company               *string `json:"company"`
	Logo                  *string `json:"logo"`
	Currency              *string `json:"currency"`
	MinWithdraw           *string `json:"min_withdraw"`
	MaxWithdraw           *string `json:"max_withdraw"`
	WithdrawChargePercent *string `json:"withdraw_charge_percent"`
	MinDeposit            *string `json:"min_deposit"`
	Maintenance           *bool   `json:"maintenance"`
	ClosedRegister        *bool   `json:"closed_register"`
	LinkSupport           *string `json:"link_support"`
}

// PUT /admin/settings: partial update; absent fields are left untouched.
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Company != nil {
		updates["company"] = strings.TrimSpace(*req.Company)
	}
	if req.Logo != nil {
		updates["logo"] = strings.TrimSpace(*req.Logo)
	}
	if req.Currency != nil {
		updates["currency"] = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Maintenance != nil {
		updates["maintenance"] = *req.Maintenance
	}
	if req.ClosedRegister != nil {
		updates["closed_register"] = *req.ClosedRegister
	}
	if req.LinkSupport != nil {
		updates["link_support"] = strings.TrimSpace(*req.LinkSupport)
	}

	decimalFields := map[string]*string{
		"min_withdraw":            req.MinWithdraw,
		"max_withdraw":            req.MaxWithdraw,
		"withdraw_charge_percent": req.WithdrawChargePercent,
		"min_deposit":             req.MinDeposit,
	}
	for column, raw := range decimalFields {
		if raw == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(*raw))
		if err != nil || d.IsNegative() {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: column + " must be a non-negative number"})
			return
		}
		updates[column] = d
	}

	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}

	db := database.DB
	setting, err := models.GetSetting(db)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Settings not initialized"})
		return
	}
	if err := db.Model(setting).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	log.Printf("[audit] admin %d updated settings (%d fields)", capability.AdminID, len(updates))

	setting, _ = models.GetSetting(db)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Settings updated",
		Data:    map[string]interface{}{"settings": setting},
	})
}
