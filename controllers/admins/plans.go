package admins

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"vantor/database"
	"vantor/models"
	"vantor/utils"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type PlanRequest struct {
	Name               string  `json:"name"`
	MinAmount          string  `json:"min_amount"`
	MaxAmount          *string `json:"max_amount"` // null = unbounded
	DailyProfitPercent string  `json:"daily_profit_percent"`
	DurationDays       int     `json:"duration_days"`
	WithdrawalLockDays int     `json:"withdrawal_lock_days"`
	CapitalReturn      bool    `json:"capital_return"`
	IsActive           *bool   `json:"is_active"`
}

func (req *PlanRequest) apply(plan *models.InvestmentPlan) (string, bool) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required", false
	}
	minAmount, err := decimal.NewFromString(req.MinAmount)
	if err != nil || !minAmount.IsPositive() {
		return "min_amount must be a positive number", false
	}
	var maxAmount *decimal.Decimal
	if req.MaxAmount != nil && strings.TrimSpace(*req.MaxAmount) != "" {
		m, err := decimal.NewFromString(*req.MaxAmount)
		if err != nil || m.LessThan(minAmount) {
			return "max_amount must be a number greater than or equal to min_amount", false
		}
		maxAmount = &m
	}
	pct, err := decimal.NewFromString(req.DailyProfitPercent)
	if err != nil || !pct.IsPositive() {
		return "daily_profit_percent must be a positive number", false
	}
	if req.DurationDays < 1 {
		return "duration_days must be at least 1", false
	}
	if req.WithdrawalLockDays < 0 {
		return "withdrawal_lock_days cannot be negative", false
	}

	plan.Name = req.Name
	plan.MinAmount = minAmount
	plan.MaxAmount = maxAmount
	plan.DailyProfitPercent = pct
	plan.DurationDays = req.DurationDays
	plan.WithdrawalLockDays = req.WithdrawalLockDays
	plan.CapitalReturn = req.CapitalReturn
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	return "", true
}

// GET /admin/plans: includes inactive plans, unlike the public listing.
func GetPlans(w http.ResponseWriter, r *http.Request) {
	db := database.DB
	var plans []models.InvestmentPlan
	if err := db.Order("id asc").Find(&plans).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"plans": plans},
	})
}

// POST /admin/plans
func CreatePlan(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	plan := models.InvestmentPlan{IsActive: true}
	if msg, valid := req.apply(&plan); !valid {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	db := database.DB
	if err := db.Create(&plan).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	log.Printf("[audit] admin %d created plan %d (%s)", capability.AdminID, plan.ID, plan.Name)

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Plan created",
		Data:    map[string]interface{}{"plan": plan},
	})
}

// PUT /admin/plans/{id}: existing investments keep their contract; edits only
// affect future purchases.
func UpdatePlan(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid plan id"})
		return
	}
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	db := database.DB
	var plan models.InvestmentPlan
	if err := db.First(&plan, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Plan not found"})
		return
	}
	if msg, valid := req.apply(&plan); !valid {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}
	if err := db.Save(&plan).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	log.Printf("[audit] admin %d updated plan %d (%s)", capability.AdminID, plan.ID, plan.Name)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Plan updated",
		Data:    map[string]interface{}{"plan": plan},
	})
}

// DELETE /admin/plans/{id}: deactivates; plans referenced by investments are
// never hard-deleted.
func DeactivatePlan(w http.ResponseWriter, r *http.Request) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid plan id"})
		return
	}

	db := database.DB
	res := db.Model(&models.InvestmentPlan{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Plan not found"})
		return
	}
	log.Printf("[audit] admin %d deactivated plan %d", capability.AdminID, id)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Plan deactivated"})
}
