package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment statuses. COMPLETED and CANCELLED are terminal.
const (
	InvestmentActive    = "ACTIVE"
	InvestmentCompleted = "COMPLETED"
	InvestmentCancelled = "CANCELLED"
)

type Investment struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	UserID              uint            `gorm:"not null;index" json:"user_id"`
	PlanID              uint            `gorm:"not null;index" json:"plan_id"`
	TransactionID       uint            `gorm:"not null" json:"transaction_id"`
	Principal           decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"principal"`
	ExpectedTotalProfit decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"expected_total_profit"`
	ProfitEarned        decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"profit_earned"`
	StartDate           time.Time       `gorm:"not null" json:"start_date"`
	EndDate             time.Time       `gorm:"not null" json:"end_date"`
	Status              string          `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	Plan *InvestmentPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Investment) TableName() string {
	return "investments"
}
