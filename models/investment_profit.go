package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentProfit is one accrual event for one investment on one calendar day.
// The composite unique index is the hard idempotency guarantee for the daily
// accrual job: a second insert for the same (investment, day) fails and rolls
// the duplicate accrual back.
type InvestmentProfit struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	InvestmentID  uint            `gorm:"not null;uniqueIndex:idx_profits_investment_day" json:"investment_id"`
	TransactionID uint            `gorm:"not null" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	ProfitDate    string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_profits_investment_day" json:"profit_date"` // YYYY-MM-DD
	IsCompounded  bool            `gorm:"not null;default:false" json:"is_compounded"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (InvestmentProfit) TableName() string {
	return "investment_profits"
}
