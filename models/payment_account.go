package models

import "time"

// PaymentAccount is a user's payout destination: a crypto address or a bank
// account, referenced by withdrawals.
type PaymentAccount struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Kind          string    `gorm:"type:varchar(20);not null;default:'crypto'" json:"kind"` // crypto, bank
	Label         string    `gorm:"size:100" json:"label"`
	Network       string    `gorm:"size:30" json:"network"` // e.g. TRC20, ERC20; bank name for kind=bank
	AccountName   string    `gorm:"size:100" json:"account_name"`
	AccountNumber string    `gorm:"size:191;not null" json:"account_number"` // address or account number
	Status        string    `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PaymentAccount) TableName() string {
	return "payment_accounts"
}
