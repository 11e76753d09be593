package models

import "time"

type KycVerification struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Status          string     `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	DocumentType    string     `gorm:"type:varchar(30);not null" json:"document_type"` // passport, id_card, driver_license
	DocumentURL     string     `gorm:"type:varchar(255);not null" json:"document_url"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewedBy      *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (KycVerification) TableName() string {
	return "kyc_verifications"
}
