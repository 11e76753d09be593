package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet kinds. Each user holds at most one wallet per kind, created lazily.
const (
	WalletDeposit = "DEPOSIT"
	WalletProfit  = "PROFIT"
	WalletBonus   = "BONUS"
)

type Wallet struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `gorm:"not null;uniqueIndex:idx_wallets_user_kind" json:"user_id"`
	Kind             string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_wallets_user_kind" json:"kind"`
	AvailableBalance decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"available_balance"`
	LockedBalance    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"locked_balance"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}
