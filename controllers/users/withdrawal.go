package users

import (
	"log"
	"math"
	"net/http"
	"time"

	"vantor/database"
	"vantor/ledger"
	"vantor/middleware"
	"vantor/models"
	"vantor/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateWithdrawalRequest struct {
	WalletKind       string `json:"wallet_kind"`
	PaymentAccountID uint   `json:"payment_account_id"`
	Amount           string `json:"amount"`
}

// POST /withdrawals
func CreateWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var req CreateWithdrawalRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.PaymentAccountID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "payment_account_id is required"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid amount"})
		return
	}
	if req.WalletKind == "" {
		req.WalletKind = models.WalletProfit
	}
	if req.WalletKind != models.WalletDeposit && req.WalletKind != models.WalletProfit && req.WalletKind != models.WalletBonus {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid wallet kind"})
		return
	}

	db := database.DB

	// Platform-wide limits and the percentage charge come from settings
	setting, err := models.GetSetting(db)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if amount.LessThan(setting.MinWithdraw) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount is below the minimum withdrawal of " + setting.MinWithdraw.String()})
		return
	}
	if setting.MaxWithdraw.IsPositive() && amount.GreaterThan(setting.MaxWithdraw) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount exceeds the maximum withdrawal of " + setting.MaxWithdraw.String()})
		return
	}
	fee := amount.Mul(setting.WithdrawChargePercent).Div(decimal.NewFromInt(100)).Round(2)

	var wallet models.Wallet
	if err := db.Where("user_id = ? AND kind = ?", uid, req.WalletKind).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Wallet not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	wd, err := ledger.RequestWithdrawal(db, uid, wallet.ID, req.PaymentAccountID, amount, fee, time.Now(), ledger.NewDBNotifier(db))
	if err != nil {
		if writeLedgerError(w, err) {
			return
		}
		log.Printf("[withdrawal] request failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted and pending review",
		Data: map[string]interface{}{
			"withdrawal_id": wd.ID,
			"amount":        amount.String(),
			"fee":           fee.String(),
		},
	})
}

type withdrawalDTO struct {
	ID              uint    `json:"id"`
	Amount          string  `json:"amount"`
	Fee             string  `json:"fee"`
	Status          string  `json:"status"`
	AccountLabel    string  `json:"account_label,omitempty"`
	AccountNumber   string  `json:"account_number,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// GET /withdrawals
func MyWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	page, limit, offset := parsePagination(r)

	db := database.DB
	var totalRows int64
	if err := db.Model(&models.Withdrawal{}).Where("user_id = ?", uid).Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var withdrawals []models.Withdrawal
	if err := db.Preload("Transaction").Preload("PaymentAccount").
		Where("user_id = ?", uid).Order("id DESC").Limit(limit).Offset(offset).Find(&withdrawals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	items := make([]withdrawalDTO, 0, len(withdrawals))
	for _, wd := range withdrawals {
		dto := withdrawalDTO{
			ID:              wd.ID,
			RejectionReason: wd.RejectionReason,
			CreatedAt:       wd.CreatedAt.Format(time.RFC3339),
		}
		if wd.Transaction != nil {
			dto.Amount = wd.Transaction.Amount.String()
			dto.Fee = wd.Transaction.Fee.String()
			dto.Status = wd.Transaction.Status
		}
		if wd.PaymentAccount != nil {
			dto.AccountLabel = wd.PaymentAccount.Label
			dto.AccountNumber = wd.PaymentAccount.AccountNumber
		}
		items = append(items, dto)
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
