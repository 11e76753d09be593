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
	"vantor/ledger"
	"vantor/models"
	"vantor/utils"

	"github.com/gorilla/mux"
)

type WithdrawalResponse struct {
	ID              uint    `json:"id"`
	UserID          uint    `json:"user_id"`
	UserName        string  `json:"user_name"`
	Email           string  `json:"email"`
	AccountLabel    string  `json:"account_label"`
	AccountName     string  `json:"account_name"`
	AccountNumber   string  `json:"account_number"`
	Network         string  `json:"network"`
	Amount          string  `json:"amount"`
	Fee             string  `json:"fee"`
	Reference       string  `json:"reference"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	ApprovedBy      *int64  `json:"approved_by,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// GET /admin/withdrawals?status=&user_id=&search=
func GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	status := r.URL.Query().Get("status")
	userID := r.URL.Query().Get("user_id")
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	db := database.DB
	query := db.Model(&models.Withdrawal{}).
		Joins("JOIN transactions ON withdrawals.transaction_id = transactions.id").
		Joins("JOIN users ON withdrawals.user_id = users.id")

	if status != "" {
		query = query.Where("transactions.status = ?", status)
	}
	if userID != "" {
		query = query.Where("withdrawals.user_id = ?", userID)
	}
	if search != "" {
		query = query.Where("transactions.reference LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var withdrawals []models.Withdrawal
	dataQuery := db.Preload("Transaction").Preload("PaymentAccount").
		Joins("JOIN transactions ON withdrawals.transaction_id = transactions.id")
	if status != "" {
		dataQuery = dataQuery.Where("transactions.status = ?", status)
	}
	if userID != "" {
		dataQuery = dataQuery.Where("withdrawals.user_id = ?", userID)
	}
	if search != "" {
		dataQuery = dataQuery.Where("transactions.reference LIKE ?", "%"+search+"%")
	}
	if err := dataQuery.Order("withdrawals.id DESC").Limit(limit).Offset(offset).Find(&withdrawals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	// Resolve user names in one query
	ids := make([]uint, 0, len(withdrawals))
	for _, wd := range withdrawals {
		ids = append(ids, wd.UserID)
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

	items := make([]WithdrawalResponse, 0, len(withdrawals))
	for _, wd := range withdrawals {
		item := WithdrawalResponse{
			ID:              wd.ID,
			UserID:          wd.UserID,
			UserName:        userByID[wd.UserID].Name,
			Email:           userByID[wd.UserID].Email,
			RejectionReason: wd.RejectionReason,
			ApprovedBy:      wd.ApprovedBy,
			CreatedAt:       wd.CreatedAt.Format(time.RFC3339),
		}
		if wd.Transaction != nil {
			item.Amount = wd.Transaction.Amount.String()
			item.Fee = wd.Transaction.Fee.String()
			item.Reference = wd.Transaction.Reference
			item.Status = wd.Transaction.Status
		}
		if wd.PaymentAccount != nil {
			item.AccountLabel = wd.PaymentAccount.Label
			item.AccountName = wd.PaymentAccount.AccountName
			item.AccountNumber = wd.PaymentAccount.AccountNumber
			item.Network = wd.PaymentAccount.Network
		}
		items = append(items, item)
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

type RejectWithdrawalRequest struct {
	Reason string `json:"reason"`
}

// POST /admin/withdrawals/{id}/approve
func ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal id"})
		return
	}

	db := database.DB
	if err := ledger.ApproveWithdrawal(db, capability, uint(id), time.Now(), ledger.NewDBNotifier(db)); err != nil {
		if writeLedgerError(w, err) {
			return
		}
		log.Printf("[withdrawal] approve %d by admin %d failed: %v", id, capability.AdminID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Withdrawal approved"})
}

// POST /admin/withdrawals/{id}/reject
func RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal id"})
		return
	}
	var req RejectWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "A rejection reason is required"})
		return
	}

	db := database.DB
	if err := ledger.RejectWithdrawal(db, capability, uint(id), req.Reason, time.Now(), ledger.NewDBNotifier(db)); err != nil {
		if writeLedgerError(w, err) {
			return
		}
		log.Printf("[withdrawal] reject %d by admin %d failed: %v", id, capability.AdminID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Withdrawal rejected, funds returned to the user"})
}
