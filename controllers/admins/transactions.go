package admins

import (
	"math"
	"net/http"
	"strings"
	"time"

	"vantor/database"
	"vantor/models"
	"vantor/utils"
)

type adminTransactionDTO struct {
	ID          uint    `json:"id"`
	Reference   string  `json:"reference"`
	UserID      uint    `json:"user_id"`
	UserName    string  `json:"user_name"`
	WalletID    uint    `json:"wallet_id"`
	Kind        string  `json:"kind"`
	Status      string  `json:"status"`
	Amount      string  `json:"amount"`
	Fee         string  `json:"fee"`
	Message     *string `json:"message,omitempty"`
	ProcessedAt *string `json:"processed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// GET /admin/transactions?kind=&status=&user_id=&search=&from=&to=
func GetTransactions(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	kind := r.URL.Query().Get("kind")
	status := r.URL.Query().Get("status")
	userID := r.URL.Query().Get("user_id")
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	db := database.DB
	query := db.Model(&models.Transaction{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if search != "" {
		query = query.Where("reference LIKE ?", "%"+search+"%")
	}
	if from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var transactions []models.Transaction
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	ids := make([]uint, 0, len(transactions))
	for _, t := range transactions {
		ids = append(ids, t.UserID)
	}
	names := map[uint]string{}
	if len(ids) > 0 {
		var rows []models.User
		db.Select("id, name").Where("id IN ?", ids).Find(&rows)
		for _, u := range rows {
			names[u.ID] = u.Name
		}
	}

	items := make([]adminTransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dto := adminTransactionDTO{
			ID:        t.ID,
			Reference: t.Reference,
			UserID:    t.UserID,
			UserName:  names[t.UserID],
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
