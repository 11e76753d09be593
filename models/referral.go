package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Referral struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ReferrerID     uint            `gorm:"not null;index" json:"referrer_id"`
	RefereeID      uint            `gorm:"not null;uniqueIndex" json:"referee_id"`
	Earnings       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"earnings"`
	Status         string          `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	SignedUpAt     time.Time       `gorm:"not null" json:"signed_up_at"`
	FirstDepositAt *time.Time      `json:"first_deposit_at,omitempty"`
	LastEarningAt  *time.Time      `json:"last_earning_at,omitempty"`
}

func (Referral) TableName() string {
	return "referrals"
}
