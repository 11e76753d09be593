package admins

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vantor/database"
	"vantor/ledger"
	"vantor/models"
	"vantor/utils"

	"github.com/gorilla/mux"
)

type DepositResponse struct {
	ID                uint    `json:"id"`
	UserID            uint    `json:"user_id"`
	UserName          string  `json:"user_name"`
	Email             string  `json:"email"`
	Amount            string  `json:"amount"`
	Currency          string  `json:"currency"`
	ExternalPaymentID string  `json:"external_payment_id"`
	PayAddress        *string `json:"pay_address,omitempty"`
	TxHash            *string `json:"tx_hash,omitempty"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
}

// GET /admin/deposits?status=&user_id=&search=
func GetDeposits(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	status := r.URL.Query().Get("status")
	userID := r.URL.Query().Get("user_id")
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	db := database.DB
	query := db.Model(&models.Deposit{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if search != "" {
		query = query.Where("external_payment_id LIKE ? OR tx_hash LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var deposits []models.Deposit
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&deposits).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	ids := make([]uint, 0, len(deposits))
	for _, d := range deposits {
		ids = append(ids, d.UserID)
	}
	type userRow struct {
		ID    uint
		Name  string
		Email string
	}
	userByID := map[uint]userRow{}
	if len(ids) > 0 {
		var rows []userRow
		db.Model(&models.User{}).Select("id, name, email").Where("id IN ?", ids).Find(&rows)
		for _, u := range rows {
			userByID[u.ID] = u
		}
	}

	items := make([]DepositResponse, 0, len(deposits))
	for _, d := range deposits {
		items = append(items, DepositResponse{
			ID:                d.ID,
			UserID:            d.UserID,
			UserName:          userByID[d.UserID].Name,
			Email:             userByID[d.UserID].Email,
			Amount:            d.Amount.String(),
			Currency:          d.Currency,
			ExternalPaymentID: d.ExternalPaymentID,
			PayAddress:        d.PayAddress,
			TxHash:            d.TxHash,
			Status:            d.Status,
			CreatedAt:         d.CreatedAt.Format(time.RFC3339),
		})
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

// POST /admin/deposits/{id}/approve: the only path that credits a deposit.
func ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid deposit id"})
		return
	}

	db := database.DB
	if err := ledger.ApproveDeposit(db, capability, uint(id), time.Now(), ledger.NewDBNotifier(db)); err != nil {
		if writeLedgerError(w, err) {
			return
		}
		log.Printf("[deposit] approve %d by admin %d failed: %v", id, capability.AdminID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Deposit approved and credited"})
}

// POST /admin/deposits/{id}/reject
func RejectDeposit(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid deposit id"})
		return
	}

	db := database.DB
	if err := ledger.RejectDeposit(db, capability, uint(id), ledger.NewDBNotifier(db)); err != nil {
		if writeLedgerError(w, err) {
			return
		}
		log.Printf("[deposit] reject %d by admin %d failed: %v", id, capability.AdminID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Deposit rejected"})
}
