package models

import "time"

// Withdrawal is the 1:1 companion of a WITHDRAWAL transaction; its lifecycle
// mirrors the transaction's status.
type Withdrawal struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	TransactionID    uint       `gorm:"not null;uniqueIndex" json:"transaction_id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	PaymentAccountID uint       `gorm:"not null;index" json:"payment_account_id"`
	RejectionReason  *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	ApprovedBy       *int64     `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Transaction    *Transaction    `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
	PaymentAccount *PaymentAccount `gorm:"foreignKey:PaymentAccountID" json:"payment_account,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
