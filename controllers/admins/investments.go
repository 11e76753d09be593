package admins

import (
	"math"
	"net/http"
	"strconv"

	"vantor/database"
	"vantor/models"
	"vantor/utils"

	"github.com/gorilla/mux"
)

// GET /admin/investments?status=&user_id=&plan_id=
func GetInvestments(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	status := r.URL.Query().Get("status")
	userID := r.URL.Query().Get("user_id")
	planID := r.URL.Query().Get("plan_id")

	db := database.DB
	query := db.Model(&models.Investment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if planID != "" {
		query = query.Where("plan_id = ?", planID)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var investments []models.Investment
	if err := query.Preload("Plan").Order("id DESC").Limit(limit).Offset(offset).Find(&investments).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": investments,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

// GET /admin/investments/{id}
func GetInvestmentDetail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investment id"})
		return
	}

	db := database.DB
	var inv models.Investment
	if err := db.Preload("Plan").First(&inv, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Investment not found"})
		return
	}

	var profits []models.InvestmentProfit
	db.Where("investment_id = ?", inv.ID).Order("profit_date asc").Find(&profits)

	var user models.User
	db.Select("id, name, email").First(&user, inv.UserID)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"investment": inv,
			"profits":    profits,
			"user": map[string]interface{}{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
			},
		},
	})
}
