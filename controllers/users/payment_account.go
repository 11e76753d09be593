package users

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"vantor/database"
	"vantor/middleware"
	"vantor/models"
	"vantor/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type PaymentAccountRequest struct {
	Kind          string `json:"kind"`
	Label         string `json:"label"`
	Network       string `json:"network"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number" validate:"required"`
}

type paymentAccountDTO struct {
	ID            uint   `json:"id"`
	Kind          string `json:"kind"`
	Label         string `json:"label"`
	Network       string `json:"network"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

func toPaymentAccountDTO(acc models.PaymentAccount) paymentAccountDTO {
	return paymentAccountDTO{
		ID:            acc.ID,
		Kind:          acc.Kind,
		Label:         acc.Label,
		Network:       acc.Network,
		AccountName:   acc.AccountName,
		AccountNumber: acc.AccountNumber,
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt.Format(time.RFC3339),
	}
}

// POST /payment-accounts
func CreatePaymentAccountHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var req PaymentAccountRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)
	if req.AccountNumber == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "account_number is required"})
		return
	}
	if req.Kind == "" {
		req.Kind = "crypto"
	}
	if req.Kind != "crypto" && req.Kind != "bank" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "kind must be crypto or bank"})
		return
	}

	db := database.DB
	acc := models.PaymentAccount{
		UserID:        uid,
		Kind:          req.Kind,
		Label:         strings.TrimSpace(req.Label),
		Network:       strings.TrimSpace(req.Network),
		AccountName:   strings.TrimSpace(req.AccountName),
		AccountNumber: req.AccountNumber,
		Status:        "Active",
	}
	if err := db.Create(&acc).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Payment account added",
		Data:    map[string]interface{}{"payment_account": toPaymentAccountDTO(acc)},
	})
}

// GET /payment-accounts
func MyPaymentAccountsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var accounts []models.PaymentAccount
	if err := db.Where("user_id = ? AND status = ?", uid, "Active").Order("id DESC").Find(&accounts).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	items := make([]paymentAccountDTO, 0, len(accounts))
	for _, acc := range accounts {
		items = append(items, toPaymentAccountDTO(acc))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"payment_accounts": items},
	})
}

// DELETE /payment-accounts/{id}: soft-removal so historical withdrawals keep
// their reference.
func DeletePaymentAccountHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid account id"})
		return
	}

	db := database.DB
	var acc models.PaymentAccount
	if err := db.Where("id = ? AND user_id = ?", id, uid).First(&acc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Payment account not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if err := db.Model(&acc).Update("status", "Removed").Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Payment account removed"})
}
