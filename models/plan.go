package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentPlan struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	Name               string           `gorm:"size:100;not null" json:"name"`
	MinAmount          decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"min_amount"`
	MaxAmount          *decimal.Decimal `gorm:"type:decimal(20,2)" json:"max_amount,omitempty"` // nil = unbounded
	DailyProfitPercent decimal.Decimal  `gorm:"type:decimal(8,4);not null" json:"daily_profit_percent"`
	DurationDays       int              `gorm:"not null" json:"duration_days"`
	WithdrawalLockDays int              `gorm:"not null;default:0" json:"withdrawal_lock_days"`
	CapitalReturn      bool             `gorm:"not null;default:false" json:"capital_return"`
	IsActive           bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (InvestmentPlan) TableName() string {
	return "investment_plans"
}

var oneHundred = decimal.NewFromInt(100)

// DailyProfitAmount is the flat per-day figure shown on plan listings:
// principal * daily_profit_percent / 100.
func (p *InvestmentPlan) DailyProfitAmount(principal decimal.Decimal) decimal.Decimal {
	return principal.Mul(p.DailyProfitPercent).Div(oneHundred).Round(2)
}

// ExpectedTotalProfit is the contractual total for an investment of the given
// principal: principal * daily_profit_percent / 100 * duration_days.
func (p *InvestmentPlan) ExpectedTotalProfit(principal decimal.Decimal) decimal.Decimal {
	return principal.Mul(p.DailyProfitPercent).Div(oneHundred).
		Mul(decimal.NewFromInt(int64(p.DurationDays))).Round(2)
}

// InRange reports whether amount is within [min_amount, max_amount].
func (p *InvestmentPlan) InRange(amount decimal.Decimal) bool {
	if amount.LessThan(p.MinAmount) {
		return false
	}
	if p.MaxAmount != nil && amount.GreaterThan(*p.MaxAmount) {
		return false
	}
	return true
}
