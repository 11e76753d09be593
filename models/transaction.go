package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds.
const (
	TxDeposit    = "DEPOSIT"
	TxWithdrawal = "WITHDRAWAL"
	TxInvestment = "INVESTMENT"
	TxDividend   = "DIVIDEND"
	TxReferral   = "REFERRAL"
	TxFee        = "FEE"
)

// Transaction statuses. COMPLETED, FAILED and CANCELLED are terminal.
const (
	TxPending   = "PENDING"
	TxCompleted = "COMPLETED"
	TxFailed    = "FAILED"
	TxCancelled = "CANCELLED"
)

type Transaction struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Reference         string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	WalletID          uint            `gorm:"not null;index" json:"wallet_id"`
	PaymentAccountID  *uint           `json:"payment_account_id,omitempty"`
	Kind              string          `gorm:"type:varchar(20);not null" json:"kind"`
	Status            string          `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Fee               decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"fee"`
	ExternalPaymentID *string         `gorm:"type:varchar(64);index" json:"external_payment_id,omitempty"`
	Message           *string         `gorm:"type:text" json:"message,omitempty"`
	Metadata          *string         `gorm:"type:text" json:"metadata,omitempty"`
	ProcessedAt       *time.Time      `json:"processed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Terminal reports whether the transaction's status may never change again.
func (t *Transaction) Terminal() bool {
	return t.Status == TxCompleted || t.Status == TxFailed || t.Status == TxCancelled
}
