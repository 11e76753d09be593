package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit statuses.
const (
	DepositPending   = "Pending"
	DepositCompleted = "Completed"
	DepositFailed    = "Failed"
)

// Deposit tracks a crypto payment awaiting confirmation. The provider webhook
// only re-affirms metadata on a Pending row; crediting the wallet requires
// explicit admin approval.
type Deposit struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	TransactionID     uint            `gorm:"not null;uniqueIndex" json:"transaction_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency          string          `gorm:"type:varchar(10);not null" json:"currency"`
	ExternalPaymentID string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"external_payment_id"`
	PayAddress        *string         `gorm:"type:varchar(191)" json:"pay_address,omitempty"`
	TxHash            *string         `gorm:"type:varchar(191)" json:"tx_hash,omitempty"`
	Status            string          `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (Deposit) TableName() string {
	return "deposits"
}
