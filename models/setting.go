package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Setting is the single-row platform configuration.
type Setting struct {
	ID                     int             `gorm:"primaryKey" json:"id"`
	Name                   string          `gorm:"size:100" json:"name"`
	Company                string          `gorm:"size:100" json:"company"`
	Logo                   string          `gorm:"size:255" json:"logo"`
	Currency               string          `gorm:"size:10;default:'USDT'" json:"currency"`
	MinWithdraw            decimal.Decimal `gorm:"type:decimal(20,2);default:10" json:"min_withdraw"`
	MaxWithdraw            decimal.Decimal `gorm:"type:decimal(20,2);default:50000" json:"max_withdraw"`
	WithdrawChargePercent  decimal.Decimal `gorm:"type:decimal(8,4);default:0" json:"withdraw_charge_percent"`
	MinDeposit             decimal.Decimal `gorm:"type:decimal(20,2);default:10" json:"min_deposit"`
	Maintenance            bool            `gorm:"default:false" json:"maintenance"`
	ClosedRegister         bool            `gorm:"default:false" json:"closed_register"`
	LinkSupport            string          `gorm:"size:255" json:"link_support"`
}

func (Setting) TableName() string {
	return "settings"
}

// GetSetting loads the singleton settings row.
func GetSetting(db *gorm.DB) (*Setting, error) {
	var s Setting
	if err := db.First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
