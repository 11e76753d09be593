package models

import "time"

// KYC verification states mirrored onto the user row so the withdrawal
// path can gate on it without a join.
const (
	KycNone     = "None"
	KycPending  = "Pending"
	KycApproved = "Approved"
	KycRejected = "Rejected"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	ReffCode  string    `gorm:"size:20;uniqueIndex;not null" json:"reff_code"`
	ReffBy    *uint     `gorm:"column:reff_by" json:"reff_by"`
	KycStatus string    `gorm:"type:varchar(20);default:'None'" json:"kyc_status"`
	Status    string    `gorm:"type:varchar(20);default:'Active'" json:"status"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
