package admins

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vantor/database"
	"vantor/models"
	"vantor/utils"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type userDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ReffCode  string `json:"reff_code"`
	ReffBy    *uint  `json:"reff_by,omitempty"`
	KycStatus string `json:"kyc_status"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toUserDTO(u models.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		ReffCode:  u.ReffCode,
		ReffBy:    u.ReffBy,
		KycStatus: u.KycStatus,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// GET /admin/users?search=&status=&kyc_status=
func GetUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	status := r.URL.Query().Get("status")
	kycStatus := r.URL.Query().Get("kyc_status")

	db := database.DB
	query := db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR reff_code LIKE ?", like, like, like)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if kycStatus != "" {
		query = query.Where("kyc_status = ?", kycStatus)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var users []models.User
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, toUserDTO(u))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

// GET /admin/users/{id}
func GetUserDetail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	var wallets []models.Wallet
	db.Where("user_id = ?", user.ID).Order("kind asc").Find(&wallets)

	var investments []models.Investment
	db.Preload("Plan").Where("user_id = ?", user.ID).Order("id DESC").Limit(20).Find(&investments)

	var referralCount int64
	db.Model(&models.Referral{}).Where("referrer_id = ?", user.ID).Count(&referralCount)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user":           toUserDTO(user),
			"wallets":        wallets,
			"investments":    investments,
			"referral_count": referralCount,
		},
	})
}

type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}

// PUT /admin/users/{id}/status
func UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}
	var req UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if req.Status != "Active" && req.Status != "Inactive" && req.Status != "Suspend" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Status must be Active, Inactive or Suspend"})
		return
	}

	db := database.DB
	res := db.Model(&models.User{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}
	log.Printf("[audit] admin %d set user %d status to %s", capability.AdminID, id, req.Status)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "User status updated"})
}

type ResetUserPasswordRequest struct {
	Password string `json:"password"`
}

// PUT /admin/users/{id}/password
func ResetUserPassword(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}
	var req ResetUserPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if len(req.Password) < 6 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Password must be at least 6 characters"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	db := database.DB
	res := db.Model(&models.User{}).Where("id = ?", id).Update("password", string(hash))
	if res.Error != nil && res.Error != gorm.ErrRecordNotFound {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}
	log.Printf("[audit] admin %d reset password for user %d", capability.AdminID, id)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Password reset"})
}
