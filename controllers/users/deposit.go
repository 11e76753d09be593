package users

import (
	"encoding/json"
	"errors"
	"io"
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
)

var cryptopayHTTPClient = &http.Client{Timeout: 30 * time.Second}

type CreateDepositRequest struct {
	Amount string `json:"amount"`
}

// POST /deposits: creates a pending deposit and requests a pay address from
// the payment provider. The deposit is only credited after admin approval.
func CreateDepositHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var req CreateDepositRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid amount"})
		return
	}

	db := database.DB
	setting, err := models.GetSetting(db)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if amount.LessThan(setting.MinDeposit) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount is below the minimum deposit of " + setting.MinDeposit.String()})
		return
	}
	currency := setting.Currency
	if currency == "" {
		currency = "USDT"
	}

	dep, err := ledger.CreateDeposit(db, uid, amount, currency, "")
	if err != nil {
		if writeLedgerError(w, err) {
			return
		}
		log.Printf("[deposit] create failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Request a one-time pay address from the provider
	payResp, err := utils.CreateCryptopayPayment(r.Context(), cryptopayHTTPClient, dep.ExternalPaymentID, amount.StringFixed(2), currency)
	if err != nil {
		log.Printf("[deposit] provider payment create failed for %s: %v", dep.ExternalPaymentID, err)
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Payment provider is unavailable, please try again later"})
		return
	}
	if err := db.Model(&models.Deposit{}).Where("id = ?", dep.ID).Update("pay_address", payResp.Data.PayAddress).Error; err != nil {
		log.Printf("[deposit] failed to store pay address for %s: %v", dep.ExternalPaymentID, err)
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Deposit created, send funds to the address below",
		Data: map[string]interface{}{
			"deposit_id":          dep.ID,
			"external_payment_id": dep.ExternalPaymentID,
			"amount":              amount.String(),
			"currency":            currency,
			"pay_address":         payResp.Data.PayAddress,
			"network":             payResp.Data.Network,
			"expires_at":          payResp.Data.ExpiresAt,
		},
	})
}

type depositDTO struct {
	ID                uint    `json:"id"`
	Amount            string  `json:"amount"`
	Currency          string  `json:"currency"`
	ExternalPaymentID string  `json:"external_payment_id"`
	PayAddress        *string `json:"pay_address,omitempty"`
	TxHash            *string `json:"tx_hash,omitempty"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
}

// GET /deposits
func MyDepositsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	page, limit, offset := parsePagination(r)

	db := database.DB
	var totalRows int64
	if err := db.Model(&models.Deposit{}).Where("user_id = ?", uid).Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var deposits []models.Deposit
	if err := db.Where("user_id = ?", uid).Order("id DESC").Limit(limit).Offset(offset).Find(&deposits).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	items := make([]depositDTO, 0, len(deposits))
	for _, d := range deposits {
		items = append(items, depositDTO{
			ID:                d.ID,
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

type cryptopayWebhookPayload struct {
	OrderID string `json:"order_id"`
	TxHash  string `json:"tx_hash"`
	Status  string `json:"status"`
	Amount  string `json:"amount"`
}

// POST /callback/payments: provider callback. Only re-affirms on-chain
// metadata on a pending deposit; it never credits any wallet.
func CryptopayWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid body"})
		return
	}
	timestamp := r.Header.Get("X-TIMESTAMP")
	signature := r.Header.Get("X-SIGNATURE")
	if !utils.VerifyCryptopayWebhook(body, timestamp, signature) {
		log.Printf("[webhook] cryptopay signature verification failed from %s", r.RemoteAddr)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid signature"})
		return
	}

	var payload cryptopayWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.OrderID == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid payload"})
		return
	}

	if err := ledger.AffirmDepositWebhook(database.DB, payload.OrderID, payload.TxHash); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Unknown payment"})
			return
		}
		log.Printf("[webhook] cryptopay affirm failed for %s: %v", payload.OrderID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "OK"})
}
