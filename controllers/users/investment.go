package users

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"vantor/database"
	"vantor/ledger"
	"vantor/middleware"
	"vantor/models"
	"vantor/utils"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type CreateInvestmentRequest struct {
	PlanID uint   `json:"plan_id"`
	Amount string `json:"amount"`
}

type investmentDTO struct {
	ID                  uint   `json:"id"`
	PlanID              uint   `json:"plan_id"`
	PlanName            string `json:"plan_name,omitempty"`
	Principal           string `json:"principal"`
	ExpectedTotalProfit string `json:"expected_total_profit"`
	ProfitEarned        string `json:"profit_earned"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	Status              string `json:"status"`
}

func toInvestmentDTO(inv models.Investment) investmentDTO {
	dto := investmentDTO{
		ID:                  inv.ID,
		PlanID:              inv.PlanID,
		Principal:           inv.Principal.String(),
		ExpectedTotalProfit: inv.ExpectedTotalProfit.String(),
		ProfitEarned:        inv.ProfitEarned.String(),
		StartDate:           inv.StartDate.Format(time.RFC3339),
		EndDate:             inv.EndDate.Format(time.RFC3339),
		Status:              inv.Status,
	}
	if inv.Plan != nil {
		dto.PlanName = inv.Plan.Name
	}
	return dto
}

// POST /investments
func CreateInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var req CreateInvestmentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.PlanID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "plan_id is required"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid amount"})
		return
	}

	db := database.DB
	inv, err := ledger.Purchase(db, uid, req.PlanID, amount, time.Now(), ledger.NewDBNotifier(db))
	if err != nil {
		if writeLedgerError(w, err) {
			return
		}
		log.Printf("[investment] purchase failed for user %d plan %d: %v", uid, req.PlanID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Investment created",
		Data:    map[string]interface{}{"investment": toInvestmentDTO(*inv)},
	})
}

// GET /investments
func MyInvestmentsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	page, limit, offset := parsePagination(r)
	status := r.URL.Query().Get("status")

	db := database.DB
	countQuery := db.Model(&models.Investment{}).Where("user_id = ?", uid)
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	var totalRows int64
	if err := countQuery.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var investments []models.Investment
	query := db.Preload("Plan").Where("user_id = ?", uid)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&investments).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	items := make([]investmentDTO, 0, len(investments))
	for _, inv := range investments {
		items = append(items, toInvestmentDTO(inv))
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

// GET /investments/{id}
func InvestmentDetailHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investment id"})
		return
	}

	db := database.DB
	var inv models.Investment
	if err := db.Preload("Plan").Where("id = ? AND user_id = ?", id, uid).First(&inv).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Investment not found"})
		return
	}

	// Per-day accrual history for the detail view
	var profits []models.InvestmentProfit
	db.Where("investment_id = ?", inv.ID).Order("profit_date asc").Find(&profits)
	type profitDTO struct {
		Amount     string `json:"amount"`
		ProfitDate string `json:"profit_date"`
	}
	history := make([]profitDTO, 0, len(profits))
	for _, p := range profits {
		history = append(history, profitDTO{Amount: p.Amount.String(), ProfitDate: p.ProfitDate})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"investment": toInvestmentDTO(inv),
			"profits":    history,
		},
	})
}
