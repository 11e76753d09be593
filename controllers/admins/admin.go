package admins

import (
	"encoding/json"
	"log"
	"net/http"

	"vantor/database"
	"vantor/models"
	"vantor/utils"
)

// GET /admin/me
func AdminInfoHandler(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}

	db := database.DB
	var admin models.Admin
	if err := db.First(&admin, capability.AdminID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Admin not found"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"admin": admin},
	})
}

type ChangeAdminPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password"`
}

// PUT /admin/me/password
func ChangeAdminPasswordHandler(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	var req ChangeAdminPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if len(req.Password) < 8 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Password must be at least 8 characters"})
		return
	}

	db := database.DB
	var admin models.Admin
	if err := db.First(&admin, capability.AdminID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Admin not found"})
		return
	}
	if !admin.ValidatePassword(req.CurrentPassword) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Current password is incorrect"})
		return
	}

	admin.Password = req.Password
	if err := admin.HashPassword(); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if err := db.Model(&models.Admin{}).Where("id = ?", admin.ID).Update("password", admin.Password).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	log.Printf("[audit] admin %d changed their password", capability.AdminID)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Password changed successfully"})
}
