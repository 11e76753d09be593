package users

import (
	"net/http"
	"strings"

	"vantor/database"
	"vantor/models"
	"vantor/utils"

	"github.com/shopspring/decimal"
)

type planDTO struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	MinAmount          string  `json:"min_amount"`
	MaxAmount          *string `json:"max_amount,omitempty"`
	DailyProfitPercent string  `json:"daily_profit_percent"`
	DurationDays       int     `json:"duration_days"`
	WithdrawalLockDays int     `json:"withdrawal_lock_days"`
	CapitalReturn      bool    `json:"capital_return"`

	// Populated only when the request carries ?amount=
	DailyProfitAmount   *string `json:"daily_profit_amount,omitempty"`
	ExpectedTotalProfit *string `json:"expected_total_profit,omitempty"`
}

// GET /plans: active plans, optionally with a profit preview for ?amount=.
func ListPlansHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var plans []models.InvestmentPlan
	if err := db.Where("is_active = ?", true).Order("min_amount asc").Find(&plans).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var preview *decimal.Decimal
	if raw := strings.TrimSpace(r.URL.Query().Get("amount")); raw != "" {
		if amt, err := decimal.NewFromString(raw); err == nil && amt.IsPositive() {
			preview = &amt
		}
	}

	items := make([]planDTO, 0, len(plans))
	for i := range plans {
		p := plans[i]
		dto := planDTO{
			ID:                 p.ID,
			Name:               p.Name,
			MinAmount:          p.MinAmount.String(),
			DailyProfitPercent: p.DailyProfitPercent.String(),
			DurationDays:       p.DurationDays,
			WithdrawalLockDays: p.WithdrawalLockDays,
			CapitalReturn:      p.CapitalReturn,
		}
		if p.MaxAmount != nil {
			s := p.MaxAmount.String()
			dto.MaxAmount = &s
		}
		if preview != nil && p.InRange(*preview) {
			daily := p.DailyProfitAmount(*preview).String()
			total := p.ExpectedTotalProfit(*preview).String()
			dto.DailyProfitAmount = &daily
			dto.ExpectedTotalProfit = &total
		}
		items = append(items, dto)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"plans": items},
	})
}
