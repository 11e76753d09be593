package users

import (
	"math"
	"net/http"
	"strings"
	"time"

	"vantor/database"
	"vantor/models"
	"vantor/utils"
)

type transactionDTO struct {
	ID          uint    `json:"id"`
	Reference   string  `json:"reference"`
	WalletID    uint    `json:"wallet_id"`
	Kind        string  `json:"kind"`
	Status      string  `json:"status"`
	Amount      string  `json:"amount"`
	Fee         string  `json:"fee"`
	Message     *string `json:"message,omitempty"`
	ProcessedAt *string `json:"processed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// GET /transactions?kind=&status=&search=&page=&limit=
func GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	kind := strings.TrimSpace(r.URL.Query().Get("kind"))
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	searchQuery := strings.TrimSpace(r.URL.Query().Get("search"))
	page, limit, offset := parsePagination(r)

	db := database.DB

	countQuery := db.Model(&models.Transaction{}).Where("user_id = ?", uid)
	if kind != "" && kind != "null" {
		countQuery = countQuery.Where("kind = ?", kind)
	}
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	if searchQuery != "" {
		countQuery = countQuery.Where("reference LIKE ?", "%"+searchQuery+"%")
	}

	var totalRows int64
	if err := countQuery.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var transactions []models.Transaction
	query := db.Where("user_id = ?", uid)
	if kind != "" && kind != "null" {
		query = query.Where("kind = ?", kind)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if searchQuery != "" {
		query = query.Where("reference LIKE ?", "%"+searchQuery+"%")
	}
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	items := make([]transactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dto := transactionDTO{
			ID:        t.ID,
			Reference: t.Reference,
			WalletID:  t.WalletID,
			Kind:      t.Kind,
			Status:    t.Status,
			Amount:    t.Amount.String(),
			Fee:       t.Fee.String(),
			Message:   t.Message,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		}
		if t.ProcessedAt != nil {
			s := t.ProcessedAt.Format(time.RFC3339)
			dto.ProcessedAt = &s
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
